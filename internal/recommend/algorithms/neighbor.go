// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// NeighborBased recommends items that similar shoppers rated positively.
//
// For a target user u and candidate item i:
// score(u, i) = sum_{v in N(u), r(v,i) >= t} sim(u, v) * r(v, i) / support(i)
//
// where N(u) is the retained neighbor row of u and support(i) is the number
// of neighbors contributing to i.
type NeighborBased struct {
	BaseGenerator
	config recommend.CandidateConfig
}

// NewNeighborBased creates a neighbor-based generator.
func NewNeighborBased(cfg recommend.CandidateConfig) *NeighborBased {
	if cfg.NeighborFullSupport <= 0 {
		cfg.NeighborFullSupport = 5
	}
	return &NeighborBased{
		BaseGenerator: NewBaseGenerator("neighbor", recommend.AlgorithmNeighborBased),
		config:        cfg,
	}
}

// Generate returns candidates for the user.
func (n *NeighborBased) Generate(ctx context.Context, model *recommend.Model, userID string) ([]recommend.Candidate, error) {
	if model == nil {
		return nil, nil
	}

	neighbors := model.UserNeighbors(userID)
	if len(neighbors) == 0 {
		return nil, nil
	}

	acc := newAccumulator()
	for _, nb := range neighbors {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		other, ok := model.User(nb.ID)
		if !ok {
			continue
		}
		for itemID, rating := range other.Ratings {
			if rating >= n.config.PositiveThreshold {
				acc.add(itemID, nb.Similarity, rating)
			}
		}
	}

	return acc.candidates(
		n.config.NeighborFullSupport,
		func(support int) recommend.Source { return recommend.NeighborSource{Support: support} },
		func(support int) string {
			if support == 1 {
				return "rated highly by 1 shopper with similar taste"
			}
			return fmt.Sprintf("rated highly by %d shoppers with similar taste", support)
		},
	), nil
}
