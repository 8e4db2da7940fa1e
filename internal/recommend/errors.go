// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import "errors"

var (
	// ErrNotFound is returned by an InteractionStore for unknown users or items.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest is returned for malformed recommendation requests.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTrainingInProgress is returned when Train is called concurrently.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrStoreNotSet is returned by Train when no InteractionStore is configured.
	ErrStoreNotSet = errors.New("interaction store not set")

	// ErrBuilderNotSet is returned by Train when no SimilarityBuilder is configured.
	ErrBuilderNotSet = errors.New("similarity builder not set")

	// ErrInsufficientData is returned by Train when too few valid
	// interactions remain after validation.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrStaleModel is returned by Publish for a snapshot older than the
	// one serving.
	ErrStaleModel = errors.New("stale model snapshot")
)

// Interaction validation errors. Records failing validation are skipped.
var (
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrUnknownItem      = errors.New("unknown item")
	ErrMissingID        = errors.New("missing user or item id")
)
