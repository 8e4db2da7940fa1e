// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Note: This package has no dependencies on other internal packages.
// Storage, the content scorer, caching and filtering are injected through
// the interfaces in types.go.

// Engine is the recommendation orchestrator. It serves requests from the
// currently published Model and builds new Models on Train.
// It is safe for concurrent use once configured.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Registered generators and boosters
	generators []CandidateGenerator
	boosters   []Booster
	algMu      sync.RWMutex

	// Collaborators
	store   InteractionStore
	builder SimilarityBuilder
	scorer  ContentScorer
	filter  CandidateFilter
	cache   ResultCache

	// Published snapshot
	model       atomic.Pointer[Model]
	nextVersion atomic.Int64

	// Training state
	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	// Counters
	requestCount   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	errorCount     atomic.Int64
	degradedCount  atomic.Int64
	coldStartCount atomic.Int64
}

// Stats contains engine counters for observability.
type Stats struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
	Degraded    int64 `json:"degraded"`
	ColdStarts  int64 `json:"cold_starts"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		generators: make([]CandidateGenerator, 0, 2),
		boosters:   make([]Booster, 0, 1),
	}, nil
}

// SetStore sets the interaction store used for training and profile lookups.
func (e *Engine) SetStore(store InteractionStore) {
	e.store = store
}

// SetSimilarityBuilder sets the matrix builder used by Train.
func (e *Engine) SetSimilarityBuilder(b SimilarityBuilder) {
	e.builder = b
}

// SetContentScorer sets the external content-based scorer.
func (e *Engine) SetContentScorer(s ContentScorer) {
	e.scorer = s
}

// SetCandidateFilter sets the filter used to compile Options.Filter.
func (e *Engine) SetCandidateFilter(f CandidateFilter) {
	e.filter = f
}

// SetResultCache sets the result cache.
func (e *Engine) SetResultCache(c ResultCache) {
	e.cache = c
}

// RegisterGenerator adds a collaborative candidate generator.
func (e *Engine) RegisterGenerator(g CandidateGenerator) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.generators = append(e.generators, g)
	e.logger.Info().
		Str("generator", g.Name()).
		Str("algorithm", g.Algorithm().String()).
		Msg("registered generator")
}

// RegisterBooster adds a booster to the post-processing pipeline.
func (e *Engine) RegisterBooster(b Booster) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.boosters = append(e.boosters, b)
	e.logger.Info().
		Str("booster", b.Name()).
		Msg("registered booster")
}

// Recommend returns the ranked list for a user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	pred, err := e.validateRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	model := e.model.Load()
	limit := e.resultLimit(req.Options.MaxResults)
	weights := e.config.Weights
	if req.Options.Weights != nil {
		weights = *req.Options.Weights
	}

	cacheKey := ""
	if e.cacheEnabled() {
		cacheKey = e.cacheKey(model, req, limit, weights)
		if resp := e.tryGetCachedResponse(ctx, cacheKey, req, model, start, logger); resp != nil {
			return resp, nil
		}
	}

	user, known := e.resolveUser(ctx, model, req.UserID, logger)
	coldStart := !known || len(user.Ratings) == 0
	if coldStart {
		e.coldStartCount.Add(1)
	}

	items := e.availableItems(model, req)
	exclude := buildExclusionSet(user, req.Options)
	candidates, err := filterCandidates(items, exclude, pred)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("%w: filter: %v", ErrInvalidRequest, err)
	}

	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		return e.buildResponse(req, model, nil, coldStart, false, 0, start), nil
	}

	allowed := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		allowed[id] = struct{}{}
	}

	collab, content, degraded, err := e.scoreCandidates(ctx, model, user, known, candidates, allowed, logger)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	if degraded {
		e.degradedCount.Add(1)
	}

	recs := Merge(collab, content, weights)
	e.applyBoosters(ctx, recs, user.Profile, items, req.Options.Context)
	recs = finalize(recs, exclude, limit)

	resp := e.buildResponse(req, model, recs, coldStart, degraded, len(candidates), start)
	if cacheKey != "" && !degraded {
		e.storeCache(ctx, cacheKey, recs, logger)
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Bool("cold_start", coldStart).
		Bool("degraded", degraded).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return req
}

// validateRequest checks the request and compiles its filter expression.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) validateRequest(req Request) (func(*Item) (bool, error), error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	if req.Options.MaxResults < 0 {
		return nil, fmt.Errorf("%w: max_results must be non-negative, got %d", ErrInvalidRequest, req.Options.MaxResults)
	}
	if w := req.Options.Weights; w != nil {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if rc := req.Options.Context; rc != nil && rc.EconomicFactor < 0 {
		return nil, fmt.Errorf("%w: context.economic_factor must be non-negative, got %v", ErrInvalidRequest, rc.EconomicFactor)
	}

	if req.Options.Filter == "" {
		return nil, nil
	}
	if e.filter == nil {
		return nil, fmt.Errorf("%w: filter expressions are not enabled", ErrInvalidRequest)
	}
	pred, err := e.filter.Compile(req.Options.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return pred, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
}

// resultLimit resolves MaxResults against the configured default and cap.
func (e *Engine) resultLimit(requested int) int {
	if requested <= 0 {
		requested = e.config.Limits.DefaultResults
	}
	if requested > e.config.Limits.MaxResults {
		requested = e.config.Limits.MaxResults
	}
	return requested
}

// resolveUser returns the trained user, or a profile-only user for cold start.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) resolveUser(ctx context.Context, model *Model, userID string, logger zerolog.Logger) (User, bool) {
	if model != nil {
		if u, ok := model.User(userID); ok {
			return u, true
		}
	}

	user := User{ID: userID}
	if e.store == nil {
		return user, false
	}

	profile, err := e.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		user.Profile = profile
	case errors.Is(err, ErrNotFound):
		logger.Debug().Msg("user unknown to store, using empty profile")
	default:
		logger.Warn().Err(err).Msg("profile lookup failed, using empty profile")
	}
	return user, false
}

// availableItems returns the request's items keyed by ID, or every model item.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) availableItems(model *Model, req Request) map[string]Item {
	if len(req.Items) > 0 {
		items := make(map[string]Item, len(req.Items))
		for _, it := range req.Items {
			if it.ID != "" {
				items[it.ID] = it
			}
		}
		return items
	}

	if model == nil {
		return map[string]Item{}
	}
	items := make(map[string]Item, model.NumItems())
	for _, id := range model.ItemIDs() {
		it, _ := model.Item(id)
		items[id] = it
	}
	return items
}

// buildExclusionSet combines the user's rated items and explicit exclusions.
func buildExclusionSet(user User, opts Options) map[string]struct{} {
	exclude := make(map[string]struct{}, len(user.Ratings)+len(opts.ExcludeItemIDs))
	if opts.excludeRated() {
		for id := range user.Ratings {
			exclude[id] = struct{}{}
		}
	}
	for _, id := range opts.ExcludeItemIDs {
		exclude[id] = struct{}{}
	}
	return exclude
}

// filterCandidates returns the sorted IDs of items that are neither
// excluded nor rejected by the predicate.
func filterCandidates(items map[string]Item, exclude map[string]struct{}, pred func(*Item) (bool, error)) ([]string, error) {
	ids := make([]string, 0, len(items))
	for id := range items {
		if _, excluded := exclude[id]; excluded {
			continue
		}
		if pred != nil {
			it := items[id]
			ok, err := pred(&it)
			if err != nil {
				return nil, fmt.Errorf("item %s: %w", id, err)
			}
			if !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// scoreCandidates runs the generators and the content scorer concurrently.
// A content scorer failure degrades the result instead of failing it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) scoreCandidates(
	ctx context.Context,
	model *Model,
	user User,
	known bool,
	candidates []string,
	allowed map[string]struct{},
	logger zerolog.Logger,
) (collab, content []Candidate, degraded bool, err error) {
	e.algMu.RLock()
	generators := e.generators
	e.algMu.RUnlock()

	results := make([][]Candidate, len(generators))
	var scoreErr error
	var g errgroup.Group

	if known && model != nil {
		for i, gen := range generators {
			g.Go(func() error {
				cands, genErr := gen.Generate(ctx, model, user.ID)
				if genErr != nil {
					logger.Warn().
						Str("generator", gen.Name()).
						Err(genErr).
						Msg("candidate generation failed")
					return nil
				}
				results[i] = cands
				return nil
			})
		}
	}

	if e.scorer != nil {
		g.Go(func() error {
			content, scoreErr = e.scoreContent(ctx, user.ID, candidates)
			return nil
		})
	}

	_ = g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, false, ctxErr
	}

	if scoreErr != nil {
		logger.Warn().Err(scoreErr).Msg("content scorer failed, serving collaborative-only result")
		content = nil
		degraded = true
	}

	var neighbor, peer []Candidate
	for i, gen := range generators {
		switch gen.Algorithm() {
		case AlgorithmNeighborBased:
			neighbor = append(neighbor, restrict(results[i], allowed)...)
		case AlgorithmPeerItemBased:
			peer = append(peer, restrict(results[i], allowed)...)
		default:
			logger.Warn().
				Str("generator", gen.Name()).
				Str("algorithm", gen.Algorithm().String()).
				Msg("ignoring generator with non-collaborative tag")
		}
	}

	cfg := e.config.Candidates
	collab = CombineCollaborative(neighbor, peer, cfg.NeighborWeight, cfg.PeerItemWeight)
	return collab, restrict(content, allowed), degraded, nil
}

// scoreContent calls the content scorer with a bounded timeout.
func (e *Engine) scoreContent(ctx context.Context, userID string, candidates []string) ([]Candidate, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.ContentScorerTimeout)
	defer cancel()

	cands, err := e.scorer.Score(scoreCtx, userID, candidates)
	if err != nil {
		return nil, err
	}
	for i := range cands {
		if cands[i].Source == nil {
			cands[i].Source = ContentSource{}
		}
	}
	return cands, nil
}

// restrict drops candidates outside the allowed set.
func restrict(cands []Candidate, allowed map[string]struct{}) []Candidate {
	if len(cands) == 0 {
		return nil
	}
	out := make([]Candidate, 0, len(cands))
	for i := range cands {
		if _, ok := allowed[cands[i].ItemID]; ok {
			out = append(out, cands[i])
		}
	}
	return out
}

// applyBoosters runs the registered boosters in registration order.
func (e *Engine) applyBoosters(ctx context.Context, recs []Recommendation, profile Profile, items map[string]Item, rc *RequestContext) {
	e.algMu.RLock()
	boosters := e.boosters
	e.algMu.RUnlock()

	for _, b := range boosters {
		b.Boost(ctx, recs, profile, items, rc)
	}
}

// finalize neutralizes scores, re-applies exclusions, sorts and truncates.
func finalize(recs []Recommendation, exclude map[string]struct{}, limit int) []Recommendation {
	out := recs[:0]
	for i := range recs {
		if _, excluded := exclude[recs[i].ItemID]; excluded {
			continue
		}
		r := recs[i]
		r.Score = finite(r.Score)
		if r.Score < 0 {
			r.Score = 0
		}
		r.Confidence = clamp01(r.Confidence)
		out = append(out, r)
	}

	SortRecommendations(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// buildResponse constructs the final response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, model *Model, recs []Recommendation, coldStart, degraded bool, evaluated int, start time.Time) *Response {
	if recs == nil {
		recs = []Recommendation{}
	}
	var version int64
	if model != nil {
		version = model.Version()
	}
	return &Response{
		UserID:          req.UserID,
		Recommendations: recs,
		Metadata: ResponseMetadata{
			RequestID:           req.RequestID,
			ModelVersion:        version,
			ColdStart:           coldStart,
			Degraded:            degraded,
			CandidatesEvaluated: evaluated,
			LatencyMS:           time.Since(start).Milliseconds(),
			GeneratedAt:         time.Now(),
		},
	}
}

// Model returns the currently published snapshot, or nil before the first
// successful training.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// Publish installs a snapshot with a single atomic swap. Requests already
// in flight keep the snapshot they loaded. A snapshot older than the one
// serving is refused with ErrStaleModel; nil is ignored.
func (e *Engine) Publish(m *Model) error {
	if m == nil {
		return nil
	}
	for {
		cur := e.model.Load()
		if cur != nil && m.Version() < cur.Version() {
			return fmt.Errorf("%w: version %d is older than serving version %d", ErrStaleModel, m.Version(), cur.Version())
		}
		if e.model.CompareAndSwap(cur, m) {
			break
		}
	}
	for {
		next := e.nextVersion.Load()
		if m.Version() <= next || e.nextVersion.CompareAndSwap(next, m.Version()) {
			break
		}
	}

	e.statusMu.Lock()
	e.status.ModelVersion = m.Version()
	e.status.LastTrainedAt = m.TrainedAt()
	e.statusMu.Unlock()

	e.logger.Info().
		Int64("version", m.Version()).
		Int("users", m.NumUsers()).
		Int("items", m.NumItems()).
		Msg("published model")
	return nil
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	return e.status
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
		Degraded:    e.degradedCount.Load(),
		ColdStarts:  e.coldStartCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
