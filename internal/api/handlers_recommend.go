// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bazaar/internal/logging"
	"github.com/tomtom215/bazaar/internal/metrics"
	"github.com/tomtom215/bazaar/internal/recommend"
	"github.com/tomtom215/bazaar/internal/validation"
)

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body RecommendRequest
	if err := decodeBody(w, r, &body); err != nil {
		metrics.RecordRecommendation("invalid", time.Since(start), 0, false, false)
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid JSON body", nil, nil)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		metrics.RecordRecommendation("invalid", time.Since(start), 0, false, false)
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, body.toEngineRequest(logging.RequestIDFromContext(r.Context())))
	if err != nil {
		outcome := "error"
		if errors.Is(err, recommend.ErrInvalidRequest) {
			outcome = "invalid"
		}
		metrics.RecordRecommendation(outcome, time.Since(start), 0, false, false)

		status, code, message := classifyError(err)
		respondError(w, r, status, code, message, nil, err)
		return
	}

	outcome := "ok"
	if resp.Metadata.CacheHit {
		outcome = "cache_hit"
	}
	metrics.RecordRecommendation(outcome, time.Since(start), len(resp.Recommendations),
		resp.Metadata.ColdStart, resp.Metadata.Degraded)

	respondJSON(w, r, http.StatusOK, resp)
}

// Train handles POST /api/v1/train. Training runs to completion even if
// the client disconnects; the engine applies its own training timeout.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	start := time.Now()
	report, err := h.engine.Train(ctx)
	duration := time.Since(start)

	if errors.Is(err, recommend.ErrTrainingInProgress) {
		metrics.RecordTrainingSkipped()
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Training already in progress", nil, nil)
		return
	}

	var skipped map[string]int
	if report != nil {
		skipped = report.Skipped
	}
	metrics.RecordTrainingRun(duration, skipped, err)

	if err != nil {
		status, code, message := classifyError(err)
		respondError(w, r, status, code, message, report, err)
		return
	}

	if m := h.engine.Model(); m != nil {
		metrics.UpdateModelGauges(m.Version(), m.NumUsers(), m.NumItems(), report.UserPairs, report.ItemPairs)
	}

	logging.Ctx(r.Context()).Info().
		Int64("version", report.ModelVersion).
		Int("accepted", report.Accepted).
		Int("skipped", report.SkippedTotal()).
		Msg("training triggered over API complete")

	respondJSON(w, r, http.StatusOK, report)
}

// ModelInfo describes the published snapshot.
type ModelInfo struct {
	Version   int64     `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	Users     int       `json:"users"`
	Items     int       `json:"items"`
	UserPairs int       `json:"user_pairs"`
	ItemPairs int       `json:"item_pairs"`

	Report *recommend.TrainingReport `json:"report,omitempty"`
}

// ModelResponse is the body of GET /api/v1/model.
type ModelResponse struct {
	Ready    bool                     `json:"ready"`
	Model    *ModelInfo               `json:"model,omitempty"`
	Training recommend.TrainingStatus `json:"training"`
	Stats    recommend.Stats          `json:"stats"`
}

// Model handles GET /api/v1/model.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	resp := ModelResponse{
		Training: h.engine.Status(),
		Stats:    h.engine.Stats(),
	}

	if m := h.engine.Model(); m != nil {
		resp.Ready = true
		resp.Model = &ModelInfo{
			Version:   m.Version(),
			TrainedAt: m.TrainedAt(),
			Users:     m.NumUsers(),
			Items:     m.NumItems(),
			UserPairs: m.UserSimilarity().Pairs(),
			ItemPairs: m.ItemSimilarity().Pairs(),
			Report:    m.Report(),
		}
	}

	respondJSON(w, r, http.StatusOK, resp)
}

// Config handles GET /api/v1/config.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.engine.GetConfig())
}

// decodeBody reads a size-limited JSON body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
