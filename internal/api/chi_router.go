// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/bazaar/internal/middleware"
)

// NewRouter builds the HTTP routes:
//
//	GET  /health
//	GET  /health/ready
//	GET  /metrics
//	POST /api/v1/recommendations
//	POST /api/v1/train
//	GET  /api/v1/model
//	GET  /api/v1/config
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger)
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found", nil, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil, nil)
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom("health", RateLimitHealth))
		r.Get("/", h.Health)
		r.Get("/ready", h.Ready)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(mw.RateLimit("recommendations")).Post("/recommendations", h.Recommend)
		r.With(mw.RateLimitCustom("train", RateLimitTrain)).Post("/train", h.Train)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit("model"))
			r.Get("/model", h.Model)
			r.Get("/config", h.Config)
		})
	})

	return r
}
