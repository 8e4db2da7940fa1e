// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package similarity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/recommend"
)

func testUsers() map[string]recommend.User {
	return map[string]recommend.User{
		"A": {ID: "A", Ratings: map[string]float64{"P1": 5, "P2": 3, "P3": 4, "P4": 1}},
		"B": {ID: "B", Ratings: map[string]float64{"P1": 4, "P2": 2, "P3": 5, "P4": 2}},
		"C": {ID: "C", Ratings: map[string]float64{"P1": 1, "P2": 5, "P3": 2}},
		"D": {ID: "D", Ratings: map[string]float64{"P5": 5}},
	}
}

func testItems() map[string]recommend.Item {
	items := make(map[string]recommend.Item)
	for i := 1; i <= 6; i++ {
		id := fmt.Sprintf("P%d", i)
		items[id] = recommend.Item{ID: id}
	}
	return items
}

func TestBuilder_Build(t *testing.T) {
	cfg := recommend.DefaultConfig().Similarity
	b := NewBuilder(cfg, zerolog.Nop())

	userSim, itemSim, err := b.Build(context.Background(), testUsers(), testItems())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	t.Run("matrices are symmetric", func(t *testing.T) {
		for _, m := range []recommend.SimilarityMatrix{userSim, itemSim} {
			for id, row := range m {
				for _, n := range row {
					if back := m.Similarity(n.ID, id); back != n.Similarity {
						t.Errorf("sim(%s,%s)=%v but sim(%s,%s)=%v", id, n.ID, n.Similarity, n.ID, id, back)
					}
				}
			}
		}
	})

	t.Run("no self neighbors and threshold respected", func(t *testing.T) {
		for _, m := range []recommend.SimilarityMatrix{userSim, itemSim} {
			for id, row := range m {
				for _, n := range row {
					if n.ID == id {
						t.Errorf("%s is its own neighbor", id)
					}
					if n.Similarity <= cfg.MinSimilarity {
						t.Errorf("retained %s-%s with similarity %v <= %v", id, n.ID, n.Similarity, cfg.MinSimilarity)
					}
				}
			}
		}
	})

	t.Run("user similarities bounded", func(t *testing.T) {
		for _, row := range userSim {
			for _, n := range row {
				if n.Similarity < -1 || n.Similarity > 1 {
					t.Errorf("user similarity %v outside [-1, 1]", n.Similarity)
				}
			}
		}
	})

	t.Run("item similarities bounded", func(t *testing.T) {
		for _, row := range itemSim {
			for _, n := range row {
				if n.Similarity < 0 || n.Similarity > 1 {
					t.Errorf("item similarity %v outside [0, 1]", n.Similarity)
				}
			}
		}
	})

	t.Run("correlated users are neighbors", func(t *testing.T) {
		if userSim.Similarity("A", "B") <= 0 {
			t.Errorf("expected A and B to be neighbors, row = %v", userSim.Neighbors("A"))
		}
	})

	t.Run("user without overlap has no neighbors", func(t *testing.T) {
		if row := userSim.Neighbors("D"); len(row) != 0 {
			t.Errorf("D neighbors = %v, want none", row)
		}
	})

	t.Run("unrated item has no neighbors", func(t *testing.T) {
		if row := itemSim.Neighbors("P6"); len(row) != 0 {
			t.Errorf("P6 neighbors = %v, want none", row)
		}
	})

	t.Run("rows sorted by similarity", func(t *testing.T) {
		for id, row := range itemSim {
			for i := 1; i < len(row); i++ {
				if row[i].Similarity > row[i-1].Similarity {
					t.Errorf("row %s not sorted: %v", id, row)
				}
			}
		}
	})
}

func TestBuilder_Deterministic(t *testing.T) {
	b := NewBuilder(recommend.DefaultConfig().Similarity, zerolog.Nop())

	u1, i1, err := b.Build(context.Background(), testUsers(), testItems())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	u2, i2, err := b.Build(context.Background(), testUsers(), testItems())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, pair := range []struct{ a, b recommend.SimilarityMatrix }{{u1, u2}, {i1, i2}} {
		if len(pair.a) != len(pair.b) {
			t.Fatalf("row count differs: %d vs %d", len(pair.a), len(pair.b))
		}
		for id, row := range pair.a {
			other := pair.b[id]
			if len(row) != len(other) {
				t.Fatalf("row %s length differs", id)
			}
			for k := range row {
				if row[k] != other[k] {
					t.Errorf("row %s entry %d differs: %v vs %v", id, k, row[k], other[k])
				}
			}
		}
	}
}

func TestBuilder_MaxNeighbors(t *testing.T) {
	// a and b rate identically; c correlates with both but ranks below b
	// in a's row and is the best match in its own row.
	users := map[string]recommend.User{
		"a": {ID: "a", Ratings: map[string]float64{"P1": 1, "P2": 2, "P3": 3}},
		"b": {ID: "b", Ratings: map[string]float64{"P1": 1, "P2": 2, "P3": 3}},
		"c": {ID: "c", Ratings: map[string]float64{"P1": 1, "P2": 3, "P3": 3}},
	}

	cfg := recommend.DefaultConfig().Similarity
	cfg.MaxNeighbors = 1
	b := NewBuilder(cfg, zerolog.Nop())

	userSim, itemSim, err := b.Build(context.Background(), users, testItems())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for name, m := range map[string]recommend.SimilarityMatrix{"user": userSim, "item": itemSim} {
		t.Run(name, func(t *testing.T) {
			for id, row := range m {
				if len(row) > cfg.MaxNeighbors {
					t.Errorf("row %s has %d neighbors, want <= %d", id, len(row), cfg.MaxNeighbors)
				}
				for _, n := range row {
					if back := m.Similarity(n.ID, id); back != n.Similarity {
						t.Errorf("sim(%s,%s)=%v but sim(%s,%s)=%v", id, n.ID, n.Similarity, n.ID, id, back)
					}
				}
			}
		})
	}

	if got := userSim.Similarity("a", "b"); got != 1 {
		t.Errorf("sim(a,b) = %v, want 1", got)
	}
	if got, back := userSim.Similarity("c", "a"), userSim.Similarity("a", "c"); got != 0 || back != 0 {
		t.Errorf("one-sided pair a-c retained: c->a=%v a->c=%v", got, back)
	}
}

func TestBuilder_Cancelled(t *testing.T) {
	b := NewBuilder(recommend.DefaultConfig().Similarity, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	userSim, itemSim, err := b.Build(ctx, testUsers(), testItems())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Build() error = %v, want context.Canceled", err)
	}
	if userSim != nil || itemSim != nil {
		t.Error("Build() returned partial matrices on cancellation")
	}
}

func TestBuilder_Empty(t *testing.T) {
	b := NewBuilder(recommend.DefaultConfig().Similarity, zerolog.Nop())

	userSim, itemSim, err := b.Build(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(userSim) != 0 || len(itemSim) != 0 {
		t.Errorf("expected empty matrices, got %d/%d rows", len(userSim), len(itemSim))
	}
}
