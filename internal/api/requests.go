// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"github.com/tomtom215/bazaar/internal/recommend"
)

// maxRequestBody bounds POST bodies. Inline item catalogs are the largest
// legitimate payload.
const maxRequestBody = 1 << 20

// RecommendRequest is the body of POST /api/v1/recommendations.
type RecommendRequest struct {
	RequestID string `json:"request_id,omitempty" validate:"omitempty,max=128"`
	UserID    string `json:"user_id" validate:"required,entityid"`

	// Items optionally replaces the trained catalog as the candidate pool.
	Items []ItemPayload `json:"items,omitempty" validate:"max=5000,dive"`

	Options OptionsPayload `json:"options"`
}

// ItemPayload is an inline catalog item.
type ItemPayload struct {
	ID       string                `json:"id" validate:"required,entityid"`
	Features map[string]float64    `json:"features,omitempty"`
	Context  recommend.ItemContext `json:"context"`
}

// OptionsPayload mirrors recommend.Options. max_results above the server
// cap is clamped by the engine rather than rejected.
type OptionsPayload struct {
	ExcludeRatedItems *bool           `json:"exclude_rated_items,omitempty"`
	ExcludeItemIDs    []string        `json:"exclude_item_ids,omitempty" validate:"max=1000,dive,entityid"`
	MaxResults        int             `json:"max_results,omitempty" validate:"gte=0"`
	Weights           *WeightsPayload `json:"weights,omitempty"`
	Context           *ContextPayload `json:"context,omitempty"`
	Filter            string          `json:"filter,omitempty" validate:"max=2048"`
}

// WeightsPayload overrides the collaborative/content blend for one request.
type WeightsPayload struct {
	Collaborative float64 `json:"collaborative" validate:"gte=0"`
	Content       float64 `json:"content" validate:"gte=0"`
}

// ContextPayload is the request-time shopping context.
type ContextPayload struct {
	Region         string  `json:"region,omitempty" validate:"max=64"`
	Event          string  `json:"event,omitempty" validate:"max=64"`
	EconomicFactor float64 `json:"economic_factor,omitempty" validate:"gte=0"`
}

// toEngineRequest converts the validated payload. requestID is used when
// the body carries none.
func (p *RecommendRequest) toEngineRequest(requestID string) recommend.Request {
	req := recommend.Request{
		RequestID: p.RequestID,
		UserID:    p.UserID,
		Options: recommend.Options{
			ExcludeRatedItems: p.Options.ExcludeRatedItems,
			ExcludeItemIDs:    p.Options.ExcludeItemIDs,
			MaxResults:        p.Options.MaxResults,
			Filter:            p.Options.Filter,
		},
	}
	if req.RequestID == "" {
		req.RequestID = requestID
	}

	if len(p.Items) > 0 {
		req.Items = make([]recommend.Item, len(p.Items))
		for i, it := range p.Items {
			req.Items[i] = recommend.Item{ID: it.ID, Features: it.Features, Context: it.Context}
		}
	}

	if w := p.Options.Weights; w != nil {
		req.Options.Weights = &recommend.HybridWeights{Collaborative: w.Collaborative, Content: w.Content}
	}
	if c := p.Options.Context; c != nil {
		req.Options.Context = &recommend.RequestContext{
			Region:         c.Region,
			Event:          c.Event,
			EconomicFactor: c.EconomicFactor,
		}
	}

	return req
}
