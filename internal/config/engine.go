// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import "github.com/tomtom215/bazaar/internal/recommend"

// EngineConfig maps the recommend section onto the engine configuration.
// Parameters without a config key keep recommend.DefaultConfig values.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	core := recommend.DefaultConfig()

	core.Similarity.MinSimilarity = r.MinSimilarity
	core.Similarity.MinCommonItems = r.MinCommonItems
	core.Similarity.CulturalBoost = r.CulturalBoost
	core.Similarity.RatingMin = r.RatingMin
	core.Similarity.RatingMax = r.RatingMax
	core.Similarity.NumWorkers = r.NumWorkers
	core.Similarity.MaxNeighbors = r.MaxNeighbors

	core.Candidates.PositiveThreshold = r.PositiveThreshold
	core.Candidates.NeighborWeight = r.NeighborWeight
	core.Candidates.PeerItemWeight = r.PeerItemWeight

	core.Weights = recommend.HybridWeights{
		Collaborative: r.CollaborativeWeight,
		Content:       r.ContentWeight,
	}

	core.Context.EventWeights = copyWeights(r.EventWeights)
	core.Context.DefaultEventWeight = r.DefaultEventWeight
	core.Context.RegionWeights = copyWeights(r.RegionWeights)
	core.Context.DefaultRegionWeight = r.DefaultRegionWeight
	core.Context.HighPopularityThreshold = r.HighPopularityThreshold

	core.Training.MinInteractions = r.MinInteractions
	core.Training.Timeout = r.TrainTimeout

	core.Limits.DefaultResults = r.MaxResults
	core.Limits.MaxResults = r.MaxResultsCap
	if c.ContentScorer.Timeout > 0 {
		core.Limits.ContentScorerTimeout = c.ContentScorer.Timeout
	}

	core.Cache.Enabled = c.Cache.Enabled

	return core
}

func copyWeights(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
