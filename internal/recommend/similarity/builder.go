// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package similarity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// Builder builds user-user and item-item similarity matrices.
// It implements recommend.SimilarityBuilder.
type Builder struct {
	config recommend.SimilarityConfig
	logger zerolog.Logger
}

// NewBuilder creates a matrix builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(cfg recommend.SimilarityConfig, logger zerolog.Logger) *Builder {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 4
	}
	if cfg.MinCommonItems < minPearsonOverlap {
		cfg.MinCommonItems = minPearsonOverlap
	}
	return &Builder{
		config: cfg,
		logger: logger.With().Str("component", "similarity").Logger(),
	}
}

// pairFunc scores the pair (ids[i], ids[j]).
type pairFunc func(i, j int) float64

// Build computes both matrices concurrently. Nothing partial is returned on
// error or cancellation.
func (b *Builder) Build(ctx context.Context, users map[string]recommend.User, items map[string]recommend.Item) (recommend.SimilarityMatrix, recommend.SimilarityMatrix, error) {
	var userSim, itemSim recommend.SimilarityMatrix

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		m, err := b.BuildUserMatrix(gctx, users)
		if err != nil {
			return fmt.Errorf("user matrix: %w", err)
		}
		userSim = m
		b.logger.Debug().
			Int("subjects", len(users)).
			Int("pairs", m.Pairs()).
			Dur("duration", time.Since(start)).
			Msg("built user matrix")
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		m, err := b.BuildItemMatrix(gctx, users, items)
		if err != nil {
			return fmt.Errorf("item matrix: %w", err)
		}
		itemSim = m
		b.logger.Debug().
			Int("subjects", len(items)).
			Int("pairs", m.Pairs()).
			Dur("duration", time.Since(start)).
			Msg("built item matrix")
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return userSim, itemSim, nil
}

// BuildUserMatrix computes the user-user matrix.
func (b *Builder) BuildUserMatrix(ctx context.Context, users map[string]recommend.User) (recommend.SimilarityMatrix, error) {
	ids := sortedKeys(users)
	list := make([]recommend.User, len(ids))
	for i, id := range ids {
		list[i] = users[id]
	}

	return b.buildMatrix(ctx, ids, func(i, j int) float64 {
		return UserSimilarity(list[i], list[j], b.config)
	})
}

// BuildItemMatrix computes the item-item matrix from the users' ratings.
// Items without ratings have no neighbors.
func (b *Builder) BuildItemMatrix(ctx context.Context, users map[string]recommend.User, items map[string]recommend.Item) (recommend.SimilarityMatrix, error) {
	raters := make(map[string]map[string]float64, len(items))
	for userID, u := range users {
		for itemID, rating := range u.Ratings {
			if _, known := items[itemID]; !known {
				continue
			}
			vec, ok := raters[itemID]
			if !ok {
				vec = make(map[string]float64)
				raters[itemID] = vec
			}
			vec[userID] = rating
		}
	}

	ids := sortedKeys(raters)
	vectors := make([]map[string]float64, len(ids))
	for i, id := range ids {
		vectors[i] = raters[id]
	}

	return b.buildMatrix(ctx, ids, func(i, j int) float64 {
		return clamp(Cosine(vectors[i], vectors[j]), 0, 1)
	})
}

// buildMatrix evaluates every unordered pair once and mirrors it, keeping
// pairs strictly above MinSimilarity.
func (b *Builder) buildMatrix(ctx context.Context, ids []string, sim pairFunc) (recommend.SimilarityMatrix, error) {
	n := len(ids)
	rows := make([][]recommend.Neighbor, n)

	workers := b.config.NumWorkers
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		// Row i has n-i-1 pairs; striding balances the triangle across workers.
		go func(offset int) {
			defer wg.Done()

			for i := offset; i < n; i += workers {
				if ctx.Err() != nil {
					return
				}
				rows[i] = b.upperRow(i, n, ids, sim)
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix := make(recommend.SimilarityMatrix, n)
	for i, row := range rows {
		for _, nb := range row {
			matrix[ids[i]] = append(matrix[ids[i]], nb)
			matrix[nb.ID] = append(matrix[nb.ID], recommend.Neighbor{ID: ids[i], Similarity: nb.Similarity})
		}
	}

	for _, row := range matrix {
		sortNeighbors(row)
	}
	if b.config.MaxNeighbors > 0 {
		matrix = mutualTopK(matrix, b.config.MaxNeighbors)
	}

	return matrix, nil
}

// mutualTopK keeps a pair only when each side ranks the other within its
// top k, so the truncated matrix stays symmetric. Rows must be sorted.
func mutualTopK(matrix recommend.SimilarityMatrix, k int) recommend.SimilarityMatrix {
	top := make(map[string]map[string]struct{}, len(matrix))
	for id, row := range matrix {
		n := min(k, len(row))
		set := make(map[string]struct{}, n)
		for _, nb := range row[:n] {
			set[nb.ID] = struct{}{}
		}
		top[id] = set
	}

	out := make(recommend.SimilarityMatrix, len(matrix))
	for id, row := range matrix {
		var kept []recommend.Neighbor
		for _, nb := range row {
			if _, mine := top[id][nb.ID]; !mine {
				continue
			}
			if _, theirs := top[nb.ID][id]; !theirs {
				continue
			}
			kept = append(kept, nb)
		}
		if len(kept) > 0 {
			out[id] = kept
		}
	}
	return out
}

// upperRow scores ids[i] against every ids[j] with j > i.
func (b *Builder) upperRow(i, n int, ids []string, sim pairFunc) []recommend.Neighbor {
	var row []recommend.Neighbor
	for j := i + 1; j < n; j++ {
		s := sim(i, j)
		if s > b.config.MinSimilarity {
			row = append(row, recommend.Neighbor{ID: ids[j], Similarity: s})
		}
	}
	return row
}

// sortNeighbors orders by similarity descending, then ID.
func sortNeighbors(row []recommend.Neighbor) {
	sort.Slice(row, func(i, j int) bool {
		if row[i].Similarity != row[j].Similarity {
			return row[i].Similarity > row[j].Similarity
		}
		return row[i].ID < row[j].ID
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ recommend.SimilarityBuilder = (*Builder)(nil)
