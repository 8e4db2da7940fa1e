// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package algorithms implements the collaborative candidate generators.
//
// Both generators read a published recommend.Model and implement
// recommend.CandidateGenerator:
//
//   - NeighborBased: items that similar shoppers rated positively
//   - PeerItemBased: items similar to ones the shopper rated positively
//
// # Scoring
//
// Each generator accumulates sum(similarity * rating) and a support count per
// candidate item. The raw score is the weighted average sum/support, so items
// vouched for by different numbers of neighbors stay comparable. Confidence
// grows linearly with support until it saturates:
//
//	neighbor-based:  min(support/5, 1)
//	peer-item-based: min(support/3, 1)
//
// # Cold Start
//
// A shopper unknown to the model, or one without positive ratings, yields an
// empty list. This is a valid result, not an error.
//
// # Thread Safety
//
// Generators hold only configuration. The model they read is immutable, so
// a generator may serve any number of concurrent requests.
package algorithms
