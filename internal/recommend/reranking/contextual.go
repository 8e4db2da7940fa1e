// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package reranking

import (
	"context"
	"math"
	"strings"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// ContextualBooster applies event, region and economic multipliers.
type ContextualBooster struct {
	eventWeights        map[string]float64
	defaultEventWeight  float64
	regionWeights       map[string]float64
	defaultRegionWeight float64
	highPopularity      float64
}

// NewContextualBooster creates a booster from the context configuration.
// Event keys are matched case-insensitively. Negative weights are treated
// as zero.
func NewContextualBooster(cfg recommend.ContextConfig) *ContextualBooster {
	b := &ContextualBooster{
		eventWeights:        make(map[string]float64, len(cfg.EventWeights)),
		defaultEventWeight:  nonNegative(cfg.DefaultEventWeight),
		regionWeights:       make(map[string]float64, len(cfg.RegionWeights)),
		defaultRegionWeight: nonNegative(cfg.DefaultRegionWeight),
		highPopularity:      cfg.HighPopularityThreshold,
	}
	for event, w := range cfg.EventWeights {
		b.eventWeights[strings.ToLower(event)] = nonNegative(w)
	}
	for region, w := range cfg.RegionWeights {
		b.regionWeights[region] = nonNegative(w)
	}
	return b
}

// Name returns the booster identifier.
func (b *ContextualBooster) Name() string {
	return "contextual"
}

// EventWeight returns the multiplier configured for an event.
func (b *ContextualBooster) EventWeight(event string) float64 {
	if w, ok := b.eventWeights[strings.ToLower(event)]; ok {
		return w
	}
	return b.defaultEventWeight
}

// RegionWeight returns the multiplier configured for a region.
func (b *ContextualBooster) RegionWeight(region string) float64 {
	if w, ok := b.regionWeights[region]; ok {
		return w
	}
	return b.defaultRegionWeight
}

// Boost adjusts scores in place and fills each result's context breakdown.
// Items missing from the items map keep their score and only get a zero
// breakdown.
//
//nolint:gocritic // hugeParam: profile passed by value, read-only
func (b *ContextualBooster) Boost(ctx context.Context, recs []recommend.Recommendation, profile recommend.Profile, items map[string]recommend.Item, rc *recommend.RequestContext) {
	event, region, economic := "", profile.Region, 0.0
	if rc != nil {
		event = rc.Event
		if rc.Region != "" {
			region = rc.Region
		}
		economic = rc.EconomicFactor
	}

	for i := range recs {
		r := &recs[i]
		r.Context = recommend.ContextBreakdown{}

		item, ok := items[r.ItemID]
		if !ok {
			r.Score = clampScore(r.Score)
			continue
		}

		score := r.Score

		if event != "" && item.HasTag(event) {
			w := b.EventWeight(event)
			score *= w
			r.Context.FestivalAlignment = clampUnit(w - 1)
		}

		if region != "" {
			if pop, has := item.Context.RegionalPopularity[region]; has && pop > b.highPopularity {
				w := b.RegionWeight(region)
				score *= w
				r.Context.RegionalPreference = clampUnit(w - 1)
			}
		}

		if economic > 0 {
			score *= economic
		}

		r.Context.CulturalRelevance = clampUnit(item.Context.CulturalRelevance)
		r.Score = clampScore(score)
	}
}

// clampScore neutralizes NaN and negative values to 0.
func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

var _ recommend.Booster = (*ContextualBooster)(nil)
