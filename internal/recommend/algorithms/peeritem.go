// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// PeerItemBased recommends items similar to ones the shopper rated positively.
//
// For a target user u and candidate item i:
// score(u, i) = sum_{j rated by u, r(u,j) >= t, i in N(j)} sim(j, i) * r(u, j) / support(i)
type PeerItemBased struct {
	BaseGenerator
	config recommend.CandidateConfig
}

// NewPeerItemBased creates a peer-item-based generator.
func NewPeerItemBased(cfg recommend.CandidateConfig) *PeerItemBased {
	if cfg.PeerItemFullSupport <= 0 {
		cfg.PeerItemFullSupport = 3
	}
	return &PeerItemBased{
		BaseGenerator: NewBaseGenerator("peer_item", recommend.AlgorithmPeerItemBased),
		config:        cfg,
	}
}

// Generate returns candidates for the user.
func (p *PeerItemBased) Generate(ctx context.Context, model *recommend.Model, userID string) ([]recommend.Candidate, error) {
	if model == nil {
		return nil, nil
	}

	user, ok := model.User(userID)
	if !ok || len(user.Ratings) == 0 {
		return nil, nil
	}

	// Sorted so per-item sums accumulate in a fixed order.
	liked := make([]string, 0, len(user.Ratings))
	for itemID, rating := range user.Ratings {
		if rating >= p.config.PositiveThreshold {
			liked = append(liked, itemID)
		}
	}
	if len(liked) == 0 {
		return nil, nil
	}
	sort.Strings(liked)

	acc := newAccumulator()
	for _, source := range liked {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		rating := user.Ratings[source]
		for _, nb := range model.ItemNeighbors(source) {
			acc.add(nb.ID, nb.Similarity, rating)
		}
	}

	return acc.candidates(
		p.config.PeerItemFullSupport,
		func(support int) recommend.Source { return recommend.PeerItemSource{Support: support} },
		func(support int) string {
			if support == 1 {
				return "similar to 1 item you rated highly"
			}
			return fmt.Sprintf("similar to %d items you rated highly", support)
		},
	), nil
}
