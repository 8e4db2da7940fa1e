// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package services provides suture.Service wrappers for Bazaar components.

Each wrapper translates a component's lifecycle into suture's
context-aware Serve pattern:

  - HTTPServerService: *http.Server with graceful drain on shutdown
  - RecommendService: training on startup plus scheduled retraining
  - CacheCleanupService: periodic eviction of expired cached results

Every wrapper returns ctx.Err() on shutdown and implements fmt.Stringer so
suture can name it in its logs.
*/
package services
