// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package filter provides request-scoped candidate filters for the
// recommendation engine.
//
// A filter expression arrives with a request (Options.Filter), is compiled
// once per distinct text and evaluated per candidate item before scoring.
// Items rejected by the filter never reach the generators' output, the
// content scorer or the final list.
package filter
