// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
//
// The cultural boost and the event and region weights are hand-picked
// defaults. They are policy parameters and every one of them can be
// overridden per deployment.
type Config struct {
	// Similarity contains parameters for matrix construction.
	Similarity SimilarityConfig `json:"similarity"`

	// Candidates contains parameters for the candidate generators.
	Candidates CandidateConfig `json:"candidates"`

	// Weights is the default collaborative/content blend.
	Weights HybridWeights `json:"weights"`

	// Context contains parameters for contextual boosting.
	Context ContextConfig `json:"context"`

	// Training contains training parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// SimilarityConfig contains parameters for the similarity engine.
type SimilarityConfig struct {
	// MinSimilarity is the retention threshold. Only neighbors strictly
	// above it are kept.
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity"`

	// MinCommonItems is the minimum overlap for a user pair correlation.
	// Default: 2.
	MinCommonItems int `json:"min_common_items"`

	// CulturalBoost scales the profile similarity multiplier
	// (1 + culturalSimilarity * CulturalBoost).
	// Default: 0.1.
	CulturalBoost float64 `json:"cultural_boost"`

	// RatingMin and RatingMax bound valid rating values.
	// Default: 1 and 5.
	RatingMin float64 `json:"rating_min"`
	RatingMax float64 `json:"rating_max"`

	// MaxNeighbors keeps a pair only when both sides rank it within their
	// top MaxNeighbors, so rows stay symmetric. 0 keeps all.
	// Default: 0.
	MaxNeighbors int `json:"max_neighbors"`

	// NumWorkers is the number of parallel workers per matrix.
	// Default: 4.
	NumWorkers int `json:"num_workers"`
}

// CandidateConfig contains parameters for the candidate generators.
type CandidateConfig struct {
	// PositiveThreshold is the minimum rating treated as positive.
	// Default: 4.
	PositiveThreshold float64 `json:"positive_threshold"`

	// NeighborFullSupport is the support at which neighbor-based
	// confidence reaches 1.
	// Default: 5.
	NeighborFullSupport int `json:"neighbor_full_support"`

	// PeerItemFullSupport is the support at which peer-item-based
	// confidence reaches 1.
	// Default: 3.
	PeerItemFullSupport int `json:"peer_item_full_support"`

	// NeighborWeight and PeerItemWeight blend the two generators into the
	// collaborative score.
	// Default: 0.6 and 0.4.
	NeighborWeight float64 `json:"neighbor_weight"`
	PeerItemWeight float64 `json:"peer_item_weight"`
}

// HybridWeights blends the collaborative and content scores.
// Weights are applied as-is, not normalized.
type HybridWeights struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
}

// Validate checks that both weights are finite and non-negative.
func (w HybridWeights) Validate() error {
	if math.IsNaN(w.Collaborative) || math.IsInf(w.Collaborative, 0) || w.Collaborative < 0 {
		return fmt.Errorf("weights.collaborative must be a non-negative number, got %v", w.Collaborative)
	}
	if math.IsNaN(w.Content) || math.IsInf(w.Content, 0) || w.Content < 0 {
		return fmt.Errorf("weights.content must be a non-negative number, got %v", w.Content)
	}
	return nil
}

// ContextConfig contains parameters for contextual boosting.
type ContextConfig struct {
	// EventWeights maps an event name (lowercase) to its multiplier.
	EventWeights map[string]float64 `json:"event_weights"`

	// DefaultEventWeight applies to events without an entry.
	// Default: 1.2.
	DefaultEventWeight float64 `json:"default_event_weight"`

	// RegionWeights maps a region to its multiplier.
	RegionWeights map[string]float64 `json:"region_weights"`

	// DefaultRegionWeight applies to regions without an entry.
	// Default: 1.2.
	DefaultRegionWeight float64 `json:"default_region_weight"`

	// HighPopularityThreshold is the regional popularity above which the
	// region weight applies.
	// Default: 0.7.
	HighPopularityThreshold float64 `json:"high_popularity_threshold"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// MinInteractions is the minimum number of valid interactions required
	// to publish a model.
	// Default: 1.
	MinInteractions int `json:"min_interactions"`

	// Timeout is the maximum time allowed for a training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`

	// MaxReportedErrors caps the invalid records kept in a training report.
	// Default: 100.
	MaxReportedErrors int `json:"max_reported_errors"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultResults is the default number of results.
	// Default: 20.
	DefaultResults int `json:"default_results"`

	// MaxResults is the hard cap on results.
	// Default: 50.
	MaxResults int `json:"max_results"`

	// ContentScorerTimeout bounds each content scorer call.
	// Default: 2s.
	ContentScorerTimeout time.Duration `json:"content_scorer_timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether a configured ResultCache is consulted.
	// Default: true.
	Enabled bool `json:"enabled"`

	// KeyPrefix namespaces cache keys.
	// Default: "rec".
	KeyPrefix string `json:"key_prefix"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			MinSimilarity:  0.1,
			MinCommonItems: 2,
			CulturalBoost:  0.1,
			RatingMin:      1,
			RatingMax:      5,
			MaxNeighbors:   0,
			NumWorkers:     4,
		},
		Candidates: CandidateConfig{
			PositiveThreshold:   4,
			NeighborFullSupport: 5,
			PeerItemFullSupport: 3,
			NeighborWeight:      0.6,
			PeerItemWeight:      0.4,
		},
		Weights: HybridWeights{
			Collaborative: 0.6,
			Content:       0.4,
		},
		Context: ContextConfig{
			EventWeights: map[string]float64{
				"diwali":         1.5,
				"eid":            1.5,
				"lunar_new_year": 1.5,
				"christmas":      1.5,
				"onam":           1.2,
				"pongal":         1.2,
			},
			DefaultEventWeight:      1.2,
			RegionWeights:           map[string]float64{},
			DefaultRegionWeight:     1.2,
			HighPopularityThreshold: 0.7,
		},
		Training: TrainingConfig{
			MinInteractions:   1,
			Timeout:           10 * time.Minute,
			MaxReportedErrors: 100,
		},
		Limits: LimitsConfig{
			DefaultResults:       20,
			MaxResults:           50,
			ContentScorerTimeout: 2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			KeyPrefix: "rec",
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	s := c.Similarity
	if s.MinSimilarity < 0 || s.MinSimilarity >= 1 {
		return fmt.Errorf("similarity.min_similarity must be in [0, 1), got %v", s.MinSimilarity)
	}
	if s.MinCommonItems < 2 {
		return fmt.Errorf("similarity.min_common_items must be at least 2, got %d", s.MinCommonItems)
	}
	if s.CulturalBoost < 0 {
		return fmt.Errorf("similarity.cultural_boost must be non-negative, got %v", s.CulturalBoost)
	}
	if s.RatingMin < 0 || s.RatingMax <= s.RatingMin {
		return fmt.Errorf("similarity rating range must satisfy 0 <= rating_min < rating_max, got [%v, %v]", s.RatingMin, s.RatingMax)
	}
	if s.MaxNeighbors < 0 {
		return fmt.Errorf("similarity.max_neighbors must be non-negative, got %d", s.MaxNeighbors)
	}
	if s.NumWorkers < 1 {
		return fmt.Errorf("similarity.num_workers must be positive, got %d", s.NumWorkers)
	}

	cand := c.Candidates
	if cand.PositiveThreshold < s.RatingMin || cand.PositiveThreshold > s.RatingMax {
		return fmt.Errorf("candidates.positive_threshold must be within the rating range, got %v", cand.PositiveThreshold)
	}
	if cand.NeighborFullSupport < 1 {
		return fmt.Errorf("candidates.neighbor_full_support must be positive, got %d", cand.NeighborFullSupport)
	}
	if cand.PeerItemFullSupport < 1 {
		return fmt.Errorf("candidates.peer_item_full_support must be positive, got %d", cand.PeerItemFullSupport)
	}
	if cand.NeighborWeight < 0 || cand.PeerItemWeight < 0 {
		return fmt.Errorf("candidates weights must be non-negative, got %v/%v", cand.NeighborWeight, cand.PeerItemWeight)
	}

	if err := c.Weights.Validate(); err != nil {
		return err
	}

	if err := c.Context.Validate(); err != nil {
		return err
	}

	if c.Training.MinInteractions < 0 {
		return fmt.Errorf("training.min_interactions must be non-negative, got %d", c.Training.MinInteractions)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.MaxReportedErrors < 0 {
		return fmt.Errorf("training.max_reported_errors must be non-negative, got %d", c.Training.MaxReportedErrors)
	}

	if c.Limits.DefaultResults < 1 {
		return fmt.Errorf("limits.default_results must be positive, got %d", c.Limits.DefaultResults)
	}
	if c.Limits.MaxResults < c.Limits.DefaultResults {
		return fmt.Errorf("limits.max_results must be >= limits.default_results, got %d < %d", c.Limits.MaxResults, c.Limits.DefaultResults)
	}
	if c.Limits.ContentScorerTimeout <= 0 {
		return fmt.Errorf("limits.content_scorer_timeout must be positive, got %v", c.Limits.ContentScorerTimeout)
	}

	return nil
}

// Validate checks that every boost weight is non-negative.
func (c *ContextConfig) Validate() error {
	for event, w := range c.EventWeights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("context.event_weights[%s] must be non-negative, got %v", event, w)
		}
	}
	for region, w := range c.RegionWeights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("context.region_weights[%s] must be non-negative, got %v", region, w)
		}
	}
	if c.DefaultEventWeight < 0 {
		return fmt.Errorf("context.default_event_weight must be non-negative, got %v", c.DefaultEventWeight)
	}
	if c.DefaultRegionWeight < 0 {
		return fmt.Errorf("context.default_region_weight must be non-negative, got %v", c.DefaultRegionWeight)
	}
	if c.HighPopularityThreshold < 0 || c.HighPopularityThreshold > 1 {
		return fmt.Errorf("context.high_popularity_threshold must be in [0, 1], got %v", c.HighPopularityThreshold)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Context.EventWeights = cloneWeights(c.Context.EventWeights)
	clone.Context.RegionWeights = cloneWeights(c.Context.RegionWeights)
	return &clone
}

func cloneWeights(src map[string]float64) map[string]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// MarshalJSON implements custom JSON marshaling for duration fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type trainingJSON struct {
		MinInteractions   int    `json:"min_interactions"`
		Timeout           string `json:"timeout"`
		MaxReportedErrors int    `json:"max_reported_errors"`
	}
	type limitsJSON struct {
		DefaultResults       int    `json:"default_results"`
		MaxResults           int    `json:"max_results"`
		ContentScorerTimeout string `json:"content_scorer_timeout"`
	}
	return json.Marshal(&struct {
		*Alias
		Training trainingJSON `json:"training"`
		Limits   limitsJSON   `json:"limits"`
	}{
		Alias: (*Alias)(c),
		Training: trainingJSON{
			MinInteractions:   c.Training.MinInteractions,
			Timeout:           c.Training.Timeout.String(),
			MaxReportedErrors: c.Training.MaxReportedErrors,
		},
		Limits: limitsJSON{
			DefaultResults:       c.Limits.DefaultResults,
			MaxResults:           c.Limits.MaxResults,
			ContentScorerTimeout: c.Limits.ContentScorerTimeout.String(),
		},
	})
}
