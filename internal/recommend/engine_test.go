// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// mockStore implements InteractionStore for testing.
type mockStore struct {
	interactions []Interaction
	profiles     map[string]Profile
	items        map[string]Item
	listErr      error
	itemErr      error
}

func (m *mockStore) ListInteractions(ctx context.Context) ([]Interaction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.interactions, nil
}

func (m *mockStore) GetUser(ctx context.Context, id string) (Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *mockStore) GetItem(ctx context.Context, id string) (Item, error) {
	if m.itemErr != nil {
		return Item{}, m.itemErr
	}
	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// mockGenerator returns a fixed candidate list.
type mockGenerator struct {
	name  string
	alg   Algorithm
	cands []Candidate
	err   error
	calls atomic.Int32
}

func (m *mockGenerator) Name() string         { return m.name }
func (m *mockGenerator) Algorithm() Algorithm { return m.alg }

func (m *mockGenerator) Generate(ctx context.Context, model *Model, userID string) ([]Candidate, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return append([]Candidate(nil), m.cands...), nil
}

// mockScorer implements ContentScorer.
type mockScorer struct {
	mu       sync.Mutex
	scores   map[string]float64
	conf     float64
	err      error
	calls    int
	received []string
}

func (m *mockScorer) Score(ctx context.Context, userID string, candidateIDs []string) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.received = append([]string(nil), candidateIDs...)
	if m.err != nil {
		return nil, m.err
	}

	var out []Candidate
	for _, id := range candidateIDs {
		if s, ok := m.scores[id]; ok {
			out = append(out, Candidate{ItemID: id, Score: s, Confidence: m.conf, Explanation: "matches your style"})
		}
	}
	return out, nil
}

// mockCache implements ResultCache.
type mockCache struct {
	mu      sync.Mutex
	entries map[string][]Recommendation
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]Recommendation)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]Recommendation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs, ok := m.entries[key]
	return recs, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, recs []Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	m.entries[key] = append([]Recommendation(nil), recs...)
	return nil
}

// prefixFilter accepts items whose ID starts with the expression.
type prefixFilter struct{}

func (prefixFilter) Compile(expr string) (func(*Item) (bool, error), error) {
	if expr == "!" {
		return nil, errors.New("syntax error")
	}
	return func(it *Item) (bool, error) {
		return strings.HasPrefix(it.ID, expr), nil
	}, nil
}

func testItemMap(ids ...string) map[string]Item {
	items := make(map[string]Item, len(ids))
	for _, id := range ids {
		items[id] = Item{ID: id}
	}
	return items
}

// newTestEngine returns an engine serving a model where user U rated A.
func newTestEngine(t *testing.T) (*Engine, *mockGenerator, *mockScorer) {
	t.Helper()

	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	users := map[string]User{
		"U": {ID: "U", Ratings: map[string]float64{"A": 5}},
	}
	e.Publish(NewModel(1, users, testItemMap("A", "B", "C", "D"), nil, nil, nil))

	gen := &mockGenerator{
		name: "neighbor",
		alg:  AlgorithmNeighborBased,
		cands: []Candidate{
			{ItemID: "A", Score: 5, Confidence: 1, Source: NeighborSource{Support: 5}},
			{ItemID: "B", Score: 4, Confidence: 0.4, Explanation: "liked by similar shoppers", Source: NeighborSource{Support: 2}},
		},
	}
	scorer := &mockScorer{scores: map[string]float64{"A": 1, "B": 0.5, "C": 0.9}, conf: 0.8}

	e.RegisterGenerator(gen)
	e.SetContentScorer(scorer)
	return e, gen, scorer
}

func resultIDs(resp *Response) []string {
	ids := make([]string, len(resp.Recommendations))
	for i := range resp.Recommendations {
		ids[i] = resp.Recommendations[i].ItemID
	}
	return ids
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.GetConfig().Limits.MaxResults != 50 {
			t.Errorf("MaxResults = %d, want 50", e.GetConfig().Limits.MaxResults)
		}
		if e.Model() != nil {
			t.Error("new engine should have no model")
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Similarity.MinSimilarity = -1
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() = nil error, want error")
		}
	})
}

func TestEngine_Recommend(t *testing.T) {
	e, _, scorer := newTestEngine(t)

	resp, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ids := resultIDs(resp)
	want := []string{"B", "C"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("results = %v, want %v", ids, want)
	}

	// B: collaborative 0.6*4 = 2.4, merged 2.4*0.6 + 0.5*0.4.
	b := resp.Recommendations[0]
	if wantScore := 2.4*0.6 + 0.5*0.4; b.Score != wantScore {
		t.Errorf("B score = %v, want %v", b.Score, wantScore)
	}
	if b.Confidence != 0.8 {
		t.Errorf("B confidence = %v, want max(0.4, 0.8)", b.Confidence)
	}
	if b.Algorithm() != AlgorithmHybrid {
		t.Errorf("B algorithm = %s, want hybrid", b.Algorithm())
	}
	if !strings.Contains(b.Explanation, "liked by similar shoppers") || !strings.Contains(b.Explanation, "matches your style") {
		t.Errorf("B explanation = %q", b.Explanation)
	}

	if fmt.Sprint(scorer.received) != "[B C D]" {
		t.Errorf("content scorer received %v, want rated items excluded", scorer.received)
	}

	md := resp.Metadata
	if md.RequestID == "" || md.ModelVersion != 1 || md.ColdStart || md.Degraded || md.CacheHit {
		t.Errorf("unexpected metadata %+v", md)
	}
	if md.CandidatesEvaluated != 3 {
		t.Errorf("CandidatesEvaluated = %d, want 3", md.CandidatesEvaluated)
	}
}

func TestEngine_Recommend_Exclusions(t *testing.T) {
	no := false

	tests := []struct {
		name    string
		opts    Options
		wantIn  []string
		wantOut []string
	}{
		{
			name:    "rated items excluded by default",
			opts:    Options{},
			wantIn:  []string{"B", "C"},
			wantOut: []string{"A"},
		},
		{
			name:   "rated items kept when disabled",
			opts:   Options{ExcludeRatedItems: &no},
			wantIn: []string{"A", "B", "C"},
		},
		{
			name:    "explicit exclusions honoured",
			opts:    Options{ExcludeItemIDs: []string{"B"}},
			wantIn:  []string{"C"},
			wantOut: []string{"A", "B"},
		},
		{
			name:    "explicit exclusions apply with rated items kept",
			opts:    Options{ExcludeRatedItems: &no, ExcludeItemIDs: []string{"C"}},
			wantIn:  []string{"A", "B"},
			wantOut: []string{"C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			resp, err := e.Recommend(context.Background(), Request{UserID: "U", Options: tt.opts})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}

			got := make(map[string]bool)
			for _, id := range resultIDs(resp) {
				got[id] = true
			}
			for _, id := range tt.wantIn {
				if !got[id] {
					t.Errorf("expected %s in %v", id, resultIDs(resp))
				}
			}
			for _, id := range tt.wantOut {
				if got[id] {
					t.Errorf("did not expect %s in %v", id, resultIDs(resp))
				}
			}
		})
	}
}

func TestEngine_Recommend_MaxResults(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	scores := make(map[string]float64)
	var ids []string
	for i := 0; i < 80; i++ {
		id := fmt.Sprintf("P%03d", i)
		ids = append(ids, id)
		scores[id] = float64(i) / 100
	}
	e.Publish(NewModel(1, nil, testItemMap(ids...), nil, nil, nil))
	e.SetContentScorer(&mockScorer{scores: scores, conf: 0.5})

	tests := []struct {
		requested int
		want      int
	}{
		{0, 20},
		{5, 5},
		{50, 50},
		{100, 50},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("requested %d", tt.requested), func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), Request{
				UserID:  "new",
				Options: Options{MaxResults: tt.requested},
			})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(resp.Recommendations) != tt.want {
				t.Errorf("got %d results, want %d", len(resp.Recommendations), tt.want)
			}
			if resp.Recommendations[0].ItemID != "P079" {
				t.Errorf("first = %s, want highest scored P079", resp.Recommendations[0].ItemID)
			}
		})
	}
}

func TestEngine_Recommend_Ordering(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.Publish(NewModel(1, nil, testItemMap("a", "b", "c"), nil, nil, nil))
	e.SetContentScorer(&mockScorer{scores: map[string]float64{"a": 0.5, "b": 0.5, "c": 0.5}, conf: 0.5})

	for i := 0; i < 5; i++ {
		resp, err := e.Recommend(context.Background(), Request{UserID: "x"})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if got := fmt.Sprint(resultIDs(resp)); got != "[a b c]" {
			t.Fatalf("run %d order = %s, want [a b c]", i, got)
		}
	}
}

func TestEngine_Recommend_ColdStart(t *testing.T) {
	e, gen, _ := newTestEngine(t)
	e.SetStore(&mockStore{profiles: map[string]Profile{"new": {Region: "in-south"}}})

	resp, err := e.Recommend(context.Background(), Request{UserID: "new"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !resp.Metadata.ColdStart {
		t.Error("ColdStart = false, want true")
	}
	if gen.calls.Load() != 0 {
		t.Errorf("generator called %d times for unknown user", gen.calls.Load())
	}
	if len(resp.Recommendations) == 0 {
		t.Fatal("cold start returned no content-based results")
	}
	if resp.Recommendations[0].ItemID != "A" {
		t.Errorf("first = %s, want A (unrated by the new user)", resp.Recommendations[0].ItemID)
	}
	for _, r := range resp.Recommendations {
		if src, ok := r.Source.(HybridSource); ok && src.Collaborative != 0 {
			t.Errorf("%s has collaborative score %v on cold start", r.ItemID, src.Collaborative)
		}
	}
}

func TestEngine_Recommend_NoModel(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetContentScorer(&mockScorer{scores: map[string]float64{"X": 0.9}, conf: 1})

	resp, err := e.Recommend(context.Background(), Request{
		UserID: "u",
		Items:  []Item{{ID: "X"}, {ID: "Y"}},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Metadata.ModelVersion != 0 || !resp.Metadata.ColdStart {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ItemID != "X" {
		t.Errorf("results = %v, want [X]", resultIDs(resp))
	}
}

func TestEngine_Recommend_Degraded(t *testing.T) {
	e, _, scorer := newTestEngine(t)
	cache := newMockCache()
	e.SetResultCache(cache)
	scorer.err = errors.New("connection refused")

	resp, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !resp.Metadata.Degraded {
		t.Error("Degraded = false, want true")
	}
	if got := fmt.Sprint(resultIDs(resp)); got != "[B]" {
		t.Errorf("results = %s, want collaborative-only [B]", got)
	}
	if cache.sets != 0 {
		t.Errorf("degraded result was cached %d times", cache.sets)
	}
	if e.Stats().Degraded != 1 {
		t.Errorf("Stats().Degraded = %d, want 1", e.Stats().Degraded)
	}
}

func TestEngine_Recommend_GeneratorFailure(t *testing.T) {
	e, gen, _ := newTestEngine(t)
	gen.err = errors.New("boom")

	resp, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("expected content results when a generator fails")
	}
}

func TestEngine_Recommend_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"missing user", Request{}},
		{"negative max results", Request{UserID: "U", Options: Options{MaxResults: -1}}},
		{"negative weight", Request{UserID: "U", Options: Options{Weights: &HybridWeights{Collaborative: -1, Content: 1}}}},
		{"negative economic factor", Request{UserID: "U", Options: Options{Context: &RequestContext{EconomicFactor: -0.5}}}},
		{"filter without filter support", Request{UserID: "U", Options: Options{Filter: "B"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			_, err := e.Recommend(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Recommend() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestEngine_Recommend_Filter(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetCandidateFilter(prefixFilter{})

	resp, err := e.Recommend(context.Background(), Request{UserID: "U", Options: Options{Filter: "C"}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := fmt.Sprint(resultIDs(resp)); got != "[C]" {
		t.Errorf("results = %s, want [C]", got)
	}

	if _, err := e.Recommend(context.Background(), Request{UserID: "U", Options: Options{Filter: "!"}}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad filter error = %v, want ErrInvalidRequest", err)
	}
}

func TestEngine_Recommend_WeightOverride(t *testing.T) {
	e, _, _ := newTestEngine(t)

	resp, err := e.Recommend(context.Background(), Request{
		UserID:  "U",
		Options: Options{Weights: &HybridWeights{Collaborative: 0, Content: 1}},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := fmt.Sprint(resultIDs(resp)); got != "[C B]" {
		t.Errorf("results = %s, want content ordering [C B]", got)
	}
}

func TestEngine_Recommend_Cache(t *testing.T) {
	e, _, scorer := newTestEngine(t)
	e.SetResultCache(newMockCache())

	first, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if !second.Metadata.CacheHit || first.Metadata.CacheHit {
		t.Errorf("CacheHit = %v then %v, want false then true", first.Metadata.CacheHit, second.Metadata.CacheHit)
	}
	if scorer.calls != 1 {
		t.Errorf("content scorer called %d times, want 1", scorer.calls)
	}
	if first.Metadata.CandidatesEvaluated == 0 {
		t.Error("first response evaluated no candidates")
	}
	if got := second.Metadata.CandidatesEvaluated; got != 0 {
		t.Errorf("cached CandidatesEvaluated = %d, want 0", got)
	}
	if fmt.Sprint(resultIDs(first)) != fmt.Sprint(resultIDs(second)) {
		t.Errorf("cached results differ: %v vs %v", resultIDs(first), resultIDs(second))
	}

	// A new snapshot must not serve entries of the old one.
	if err := e.Publish(NewModel(2, e.Model().users, e.Model().items, nil, nil, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	third, err := e.Recommend(context.Background(), Request{UserID: "U"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if third.Metadata.CacheHit {
		t.Error("cache hit across model versions")
	}

	stats := e.Stats()
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEngine_Recommend_Cancelled(t *testing.T) {
	e, _, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, Request{UserID: "U"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Publish(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if err := e.Publish(nil); err != nil {
		t.Fatalf("Publish(nil) error = %v", err)
	}
	if e.Model() != nil {
		t.Fatal("Publish(nil) installed a model")
	}

	m := NewModel(7, nil, testItemMap("A"), nil, nil, nil)
	if err := e.Publish(m); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if e.Model() != m {
		t.Fatal("Model() did not return the published snapshot")
	}
	if e.Status().ModelVersion != 7 {
		t.Errorf("Status().ModelVersion = %d, want 7", e.Status().ModelVersion)
	}
	if e.nextVersion.Load() != 7 {
		t.Errorf("nextVersion = %d, want 7", e.nextVersion.Load())
	}
}

func TestEngine_Publish_Ordering(t *testing.T) {
	tests := []struct {
		name        string
		next        int64
		wantErr     error
		wantVersion int64
	}{
		{"older snapshot refused", 3, ErrStaleModel, 5},
		{"same version replaces", 5, nil, 5},
		{"newer snapshot installed", 6, nil, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(DefaultConfig(), zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}
			current := NewModel(5, nil, testItemMap("A"), nil, nil, nil)
			if err := e.Publish(current); err != nil {
				t.Fatalf("Publish(v5) error = %v", err)
			}

			next := NewModel(tt.next, nil, testItemMap("B"), nil, nil, nil)
			err = e.Publish(next)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Publish(v%d) error = %v, want %v", tt.next, err, tt.wantErr)
			}
			if got := e.Model().Version(); got != tt.wantVersion {
				t.Errorf("serving version = %d, want %d", got, tt.wantVersion)
			}
			if got := e.Status().ModelVersion; got != tt.wantVersion {
				t.Errorf("Status().ModelVersion = %d, want %d", got, tt.wantVersion)
			}
			if tt.wantErr != nil && e.Model() != current {
				t.Error("refused snapshot replaced the serving model")
			}
		})
	}
}

func TestEngine_ConcurrentRecommendAndPublish(t *testing.T) {
	e, _, _ := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resp, err := e.Recommend(context.Background(), Request{UserID: "U"})
				if err != nil {
					t.Errorf("Recommend() error = %v", err)
					return
				}
				if resp.Metadata.ModelVersion < 1 {
					t.Errorf("ModelVersion = %d", resp.Metadata.ModelVersion)
					return
				}
			}
		}()
	}

	base := e.Model()
	for v := int64(2); v < 20; v++ {
		e.Publish(NewModel(v, base.users, base.items, nil, nil, nil))
	}
	wg.Wait()

	if e.Model().Version() != 19 {
		t.Errorf("final version = %d, want 19", e.Model().Version())
	}
}
