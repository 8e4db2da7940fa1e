// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	ModelReady    bool    `json:"model_ready"`
	ModelVersion  int64   `json:"model_version"`
	Training      bool    `json:"training"`
	ContentScorer string  `json:"content_scorer,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health handles GET /health. It always answers 200 while the process is
// serving; status is "degraded" without a model or with an open content
// scorer circuit.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := h.health()
	respondJSON(w, r, http.StatusOK, resp)
}

// Ready handles GET /health/ready. It returns 503 until the first model is
// published so load balancers hold traffic back during startup training.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := h.health()
	if !resp.ModelReady {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "No model published yet", resp, nil)
		return
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) health() HealthResponse {
	status := h.engine.Status()
	resp := HealthResponse{
		Status:        "healthy",
		ModelVersion:  status.ModelVersion,
		Training:      status.IsTraining,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if m := h.engine.Model(); m != nil {
		resp.ModelReady = true
		resp.ModelVersion = m.Version()
	} else {
		resp.Status = "degraded"
	}

	if h.scorer != nil {
		resp.ContentScorer = h.scorer.State()
		if !h.scorer.Available() {
			resp.Status = "degraded"
		}
	}

	return resp
}
