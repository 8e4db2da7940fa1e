// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// BaseGenerator provides common functionality for all generators.
type BaseGenerator struct {
	name      string
	algorithm recommend.Algorithm
}

// NewBaseGenerator creates a new base generator.
func NewBaseGenerator(name string, alg recommend.Algorithm) BaseGenerator {
	return BaseGenerator{name: name, algorithm: alg}
}

// Name returns the generator identifier.
func (b *BaseGenerator) Name() string {
	return b.name
}

// Algorithm returns the tag the generator's candidates carry.
func (b *BaseGenerator) Algorithm() recommend.Algorithm {
	return b.algorithm
}

// accumulator collects weighted ratings per candidate item.
type accumulator struct {
	sums    map[string]float64
	support map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		sums:    make(map[string]float64),
		support: make(map[string]int),
	}
}

func (a *accumulator) add(itemID string, similarity, rating float64) {
	a.sums[itemID] += similarity * rating
	a.support[itemID]++
}

// candidates converts the accumulated sums into weighted-average candidates
// sorted by score descending, then item ID.
func (a *accumulator) candidates(fullSupport int, source func(support int) recommend.Source, explain func(support int) string) []recommend.Candidate {
	out := make([]recommend.Candidate, 0, len(a.sums))
	for itemID, sum := range a.sums {
		n := a.support[itemID]
		if n == 0 {
			continue
		}
		score := sum / float64(n)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			score = 0
		}
		out = append(out, recommend.Candidate{
			ItemID:      itemID,
			Score:       score,
			Support:     n,
			Confidence:  confidence(n, fullSupport),
			Explanation: explain(n),
			Source:      source(n),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// confidence is min(support/fullSupport, 1).
func confidence(support, fullSupport int) float64 {
	if fullSupport <= 0 {
		return 1
	}
	return math.Min(float64(support)/float64(fullSupport), 1)
}

// Ensure all generators implement the interface.
var (
	_ recommend.CandidateGenerator = (*NeighborBased)(nil)
	_ recommend.CandidateGenerator = (*PeerItemBased)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
