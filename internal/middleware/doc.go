// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package middleware provides the HTTP middleware chain for the Bazaar API.

All middleware uses chi's func(http.Handler) http.Handler shape:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: bazaar_http_* counters, histograms and the in-flight
    gauge, labeled by chi route pattern
  - RequestLogger: one structured zerolog line per request

Order matters. RequestID must run first so the other two see the IDs:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger)
*/
package middleware
