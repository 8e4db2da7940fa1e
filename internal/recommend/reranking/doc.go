// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package reranking implements post-processing of merged recommendation lists.
//
// Boosters run after the hybrid merge and before the final sort:
//
//	Generators + Content scorer -> Merge -> Boosters -> Sort/Truncate
//
// # Contextual Booster
//
// ContextualBooster applies independent multiplicative adjustments:
//
//   - Event: the request names an active cultural or seasonal event and the
//     item is tagged with it
//   - Region: the item's popularity in the shopper's region exceeds the
//     high-popularity threshold
//   - Economic: a uniform scaling factor supplied with the request
//
// Each adjustment is recorded in the result's context breakdown so callers can
// explain the final ranking. All weights are non-negative, so a boosted score
// is never negative.
//
// # Interface
//
// All boosters implement the recommend.Booster interface:
//
//	type Booster interface {
//	    Name() string
//	    Boost(ctx context.Context, recs []Recommendation, profile Profile,
//	        items map[string]Item, rc *RequestContext)
//	}
package reranking
