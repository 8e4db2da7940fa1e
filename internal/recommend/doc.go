// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package recommend implements the hybrid recommendation core for the
// Bazaar storefront.
//
// # Architecture
//
// A request flows through five stages:
//
//   - Similarity: user-user (Pearson with a cultural profile boost) and
//     item-item (cosine over common raters) matrices, built at training time
//   - Candidate generation: neighbor-based and peer-item-based generators
//   - Hybrid combination: the two generators blend into a collaborative
//     score, which is merged with the external content scorer
//   - Contextual boosting: event, region and economic multipliers
//   - Orchestration: exclusions, ordering and truncation
//
// # Snapshots
//
// Training reads the interaction store, validates every record and builds a
// new immutable Model. The Model is published with a single atomic pointer
// swap, so requests in flight during a retrain keep reading the snapshot
// they started with.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//
//	engine.SetStore(store)
//	engine.SetSimilarityBuilder(similarity.NewBuilder(cfg.Similarity, logger))
//	engine.RegisterGenerator(algorithms.NewNeighborBased(cfg.Candidates))
//	engine.RegisterGenerator(algorithms.NewPeerItemBased(cfg.Candidates))
//	engine.RegisterBooster(reranking.NewContextualBooster(cfg.Context))
//
//	report, err := engine.Train(ctx)
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "u-42"})
//
// # Determinism
//
// Scoring uses no randomness. Given the same snapshot, the same request and
// the same content scorer output, Recommend returns the same ordered list.
// Ties are broken by confidence, then item ID.
package recommend
