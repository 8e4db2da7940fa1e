// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package similarity builds the user-user and item-item similarity matrices
// the candidate generators read from.
//
// # Measures
//
// User pairs use the Pearson correlation over co-rated items, scaled by a
// cultural profile multiplier and clamped to [-1, 1]. Item pairs use the
// cosine of the rating vectors restricted to common raters, which lies in
// [0, 1] for non-negative ratings.
//
// # Construction
//
// Builder evaluates every pair once, so the resulting matrices are exactly
// symmetric, and keeps only pairs strictly above the configured threshold.
// Pair evaluation is spread across workers and the two matrices are built
// concurrently. Cancellation is honoured between subjects; a pair is never
// abandoned half-computed.
package similarity
