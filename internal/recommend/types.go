// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"context"
	"strings"
	"time"
)

// Profile describes the cultural and regional context of a shopper.
type Profile struct {
	// Region is the shopper's region tag (e.g., "in-south", "id-java").
	Region string `json:"region,omitempty"`

	// Language is the preferred language code.
	Language string `json:"language,omitempty"`

	// CulturalTags is the set of cultural or category preference tags.
	CulturalTags []string `json:"cultural_tags,omitempty"`
}

// User is a shopper as seen by the trained model.
// Users are read-only once handed to the engine.
type User struct {
	ID string `json:"id"`

	// Ratings maps item ID to rating value.
	Ratings map[string]float64 `json:"ratings"`

	Profile Profile `json:"profile"`
}

// ItemContext holds the contextual attributes of an item used for boosting.
type ItemContext struct {
	// Tags are cultural or seasonal associations (e.g., "diwali", "ramadan").
	Tags []string `json:"tags,omitempty"`

	// RegionalPopularity maps region to a popularity score in [0, 1].
	RegionalPopularity map[string]float64 `json:"regional_popularity,omitempty"`

	// Flags holds boolean attributes such as "locally_sourced".
	Flags map[string]bool `json:"flags,omitempty"`

	// CulturalRelevance is the item's own cultural relevance in [0, 1].
	CulturalRelevance float64 `json:"cultural_relevance"`
}

// Item is a catalog entry. Items are read-only once handed to the engine.
type Item struct {
	ID string `json:"id"`

	// Features is a sparse mapping of category or attribute weights.
	Features map[string]float64 `json:"features,omitempty"`

	Context ItemContext `json:"context"`
}

// HasTag reports whether the item carries the given cultural or seasonal tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Context.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Interaction is a single rating event from the interaction store.
type Interaction struct {
	UserID      string    `json:"user_id"`
	ItemID      string    `json:"item_id"`
	Rating      float64   `json:"rating"`
	Timestamp   time.Time `json:"timestamp"`
	ContextTags []string  `json:"context_tags,omitempty"`
}

// Neighbor is one retained entry of a similarity matrix row.
type Neighbor struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// SimilarityMatrix maps a subject ID to its retained neighbors, sorted by
// similarity descending then ID. Rows must not be modified once published.
type SimilarityMatrix map[string][]Neighbor

// Neighbors returns the neighbor row for id, or nil.
func (m SimilarityMatrix) Neighbors(id string) []Neighbor {
	return m[id]
}

// Similarity returns the retained similarity between a and b, or 0.
func (m SimilarityMatrix) Similarity(a, b string) float64 {
	for _, n := range m[a] {
		if n.ID == b {
			return n.Similarity
		}
	}
	return 0
}

// Pairs returns the number of retained directed entries.
func (m SimilarityMatrix) Pairs() int {
	total := 0
	for _, row := range m {
		total += len(row)
	}
	return total
}

// Candidate is the output contract shared by candidate generators and the
// content scorer.
type Candidate struct {
	ItemID string `json:"item_id"`

	// Score is the raw (unboosted) score.
	Score float64 `json:"score"`

	// Support is the number of contributions behind Score.
	Support int `json:"support"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`

	Explanation string `json:"explanation,omitempty"`

	// Source records which strategy produced the candidate.
	Source Source `json:"-"`
}

// ContextBreakdown explains the contextual boosts applied to a result.
// Every field is in [0, 1].
type ContextBreakdown struct {
	CulturalRelevance  float64 `json:"cultural_relevance"`
	FestivalAlignment  float64 `json:"festival_alignment"`
	RegionalPreference float64 `json:"regional_preference"`
}

// Recommendation is a single ranked result.
type Recommendation struct {
	ItemID      string           `json:"item_id"`
	Score       float64          `json:"score"`
	Confidence  float64          `json:"confidence"`
	Explanation string           `json:"explanation,omitempty"`
	Context     ContextBreakdown `json:"context"`

	// Source carries the variant-specific evidence behind the result.
	Source Source `json:"-"`
}

// Algorithm returns the tag of the strategy that produced the result.
func (r *Recommendation) Algorithm() Algorithm {
	if r.Source == nil {
		return AlgorithmHybrid
	}
	return r.Source.Algorithm()
}

// RequestContext is optional request-scoped context for boosting.
type RequestContext struct {
	// Region overrides the shopper's profile region.
	Region string `json:"region,omitempty"`

	// Event is the active cultural or seasonal event.
	Event string `json:"event,omitempty"`

	// EconomicFactor uniformly scales scores when greater than zero.
	EconomicFactor float64 `json:"economic_factor,omitempty"`
}

// Options controls a single recommendation call.
type Options struct {
	// ExcludeRatedItems removes items the user has rated. Nil means true.
	ExcludeRatedItems *bool `json:"exclude_rated_items,omitempty"`

	// ExcludeItemIDs are additional exclusions (e.g., items in the cart).
	ExcludeItemIDs []string `json:"exclude_item_ids,omitempty"`

	// MaxResults truncates the ranked list. Zero means the configured default.
	MaxResults int `json:"max_results,omitempty"`

	// Weights overrides the configured hybrid weights.
	Weights *HybridWeights `json:"weights,omitempty"`

	// Context is the optional boosting context.
	Context *RequestContext `json:"context,omitempty"`

	// Filter is an optional candidate filter expression evaluated per item.
	Filter string `json:"filter,omitempty"`
}

// excludeRated resolves the ExcludeRatedItems default.
func (o *Options) excludeRated() bool {
	return o.ExcludeRatedItems == nil || *o.ExcludeRatedItems
}

// Request is a recommendation request.
type Request struct {
	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`

	UserID string `json:"user_id"`

	// Items is the set of available items. Empty means every item known to
	// the current model.
	Items []Item `json:"items,omitempty"`

	Options Options `json:"options"`
}

// Response contains the ranked results and request metadata.
type Response struct {
	UserID          string           `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`

	// ModelVersion is the snapshot version that served the request (0 if none).
	ModelVersion int64 `json:"model_version"`

	// ColdStart is set when the user had no collaborative signal.
	ColdStart bool `json:"cold_start"`

	// Degraded is set when the content scorer failed and the result is
	// collaborative-only.
	Degraded bool `json:"degraded"`

	CacheHit bool `json:"cache_hit"`

	// CandidatesEvaluated is the size of the candidate universe after
	// exclusions. It is 0 for cached responses.
	CandidatesEvaluated int `json:"candidates_evaluated"`

	LatencyMS   int64     `json:"latency_ms"`
	GeneratedAt time.Time `json:"generated_at"`
}

// InteractionStore is the inbound contract supplying training data.
type InteractionStore interface {
	// ListInteractions returns every interaction in the training window.
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// GetUser returns the user profile. Returns ErrNotFound if missing.
	GetUser(ctx context.Context, id string) (Profile, error)

	// GetItem returns the item record. Returns ErrNotFound if missing.
	GetItem(ctx context.Context, id string) (Item, error)
}

// ContentScorer is the outbound contract to the external content-based model.
// An empty result is valid.
type ContentScorer interface {
	Score(ctx context.Context, userID string, candidateIDs []string) ([]Candidate, error)
}

// CandidateGenerator produces collaborative candidates from a trained model.
type CandidateGenerator interface {
	// Name returns the generator identifier (e.g., "neighbor", "peer_item").
	Name() string

	// Algorithm returns the tag the generator's candidates carry.
	Algorithm() Algorithm

	// Generate returns candidates for the user. Unknown users and users
	// without positive ratings yield an empty list.
	Generate(ctx context.Context, model *Model, userID string) ([]Candidate, error)
}

// Booster applies contextual adjustments to merged results in place.
type Booster interface {
	Name() string
	Boost(ctx context.Context, recs []Recommendation, profile Profile, items map[string]Item, rc *RequestContext)
}

// SimilarityBuilder builds the user and item similarity matrices.
type SimilarityBuilder interface {
	Build(ctx context.Context, users map[string]User, items map[string]Item) (userSim, itemSim SimilarityMatrix, err error)
}

// CandidateFilter decides whether an item may be recommended.
type CandidateFilter interface {
	// Compile validates an expression and returns a predicate for it.
	Compile(expr string) (func(item *Item) (bool, error), error)
}

// ResultCache stores ranked results keyed by model version and request.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]Recommendation, bool, error)
	Set(ctx context.Context, key string, recs []Recommendation) error
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// ModelVersion is the currently published model version.
	ModelVersion int64 `json:"model_version"`

	// LastReport is the report of the last successful training run.
	LastReport *TrainingReport `json:"last_report,omitempty"`
}
