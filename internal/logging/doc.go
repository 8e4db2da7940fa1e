// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package logging provides centralized zerolog-based structured logging.
//
// JSON output is the production default. Console output is available for
// local development.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int64("model_version", v).Msg("model published")
//	logging.Err(err).Msg("training failed")
//
// Components derive sub-loggers once and pass them by value:
//
//	logger := logging.WithComponent("recommend")
//
// # Request Context
//
// The HTTP layer stores a request ID in the request context. Ctx attaches it
// (and any correlation ID) to every event:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("content scorer unavailable")
//
// # slog Adapter
//
// SlogHandler bridges log/slog to zerolog for the supervisor tree:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// Always terminate event chains with .Msg() or .Send(), otherwise nothing
// is written.
package logging
