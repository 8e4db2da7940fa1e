// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// Engine is the recommendation engine surface the handlers use.
// Satisfied by *recommend.Engine.
type Engine interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Train(ctx context.Context) (*recommend.TrainingReport, error)
	Model() *recommend.Model
	Status() recommend.TrainingStatus
	Stats() recommend.Stats
	GetConfig() *recommend.Config
}

// ScorerStatus reports the content scorer's circuit breaker state.
// Satisfied by *contentscorer.Client.
type ScorerStatus interface {
	State() string
	Available() bool
}

// HandlerConfig holds handler options.
type HandlerConfig struct {
	// RequestTimeout bounds a single recommendation request.
	RequestTimeout time.Duration
}

// Handler serves the recommendation API.
type Handler struct {
	engine    Engine
	scorer    ScorerStatus
	config    HandlerConfig
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates the API handler. scorer may be nil when no content
// scorer is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Engine, scorer ScorerStatus, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Handler{
		engine:    engine,
		scorer:    scorer,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}
