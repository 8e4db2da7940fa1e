// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Model is an immutable trained snapshot. A retrain builds a new Model and
// publishes it with a single pointer swap; readers holding an older Model
// keep a consistent view.
type Model struct {
	version   int64
	trainedAt time.Time

	users map[string]User
	items map[string]Item

	// itemIDs is the sorted key set of items.
	itemIDs []string

	userSim SimilarityMatrix
	itemSim SimilarityMatrix

	report *TrainingReport
}

// NewModel assembles a snapshot. The maps are owned by the Model afterwards
// and must not be modified by the caller.
func NewModel(version int64, users map[string]User, items map[string]Item, userSim, itemSim SimilarityMatrix, report *TrainingReport) *Model {
	if users == nil {
		users = map[string]User{}
	}
	if items == nil {
		items = map[string]Item{}
	}
	if userSim == nil {
		userSim = SimilarityMatrix{}
	}
	if itemSim == nil {
		itemSim = SimilarityMatrix{}
	}

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Model{
		version:   version,
		trainedAt: time.Now(),
		users:     users,
		items:     items,
		itemIDs:   ids,
		userSim:   userSim,
		itemSim:   itemSim,
		report:    report,
	}
}

// Version returns the snapshot version.
func (m *Model) Version() int64 { return m.version }

// TrainedAt returns when the snapshot was built.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// User returns a trained user.
func (m *Model) User(id string) (User, bool) {
	u, ok := m.users[id]
	return u, ok
}

// Item returns a trained item.
func (m *Model) Item(id string) (Item, bool) {
	it, ok := m.items[id]
	return it, ok
}

// ItemIDs returns every item ID in sorted order. The slice is shared.
func (m *Model) ItemIDs() []string { return m.itemIDs }

// UserNeighbors returns the retained neighbors of a user.
func (m *Model) UserNeighbors(id string) []Neighbor { return m.userSim.Neighbors(id) }

// ItemNeighbors returns the retained neighbors of an item.
func (m *Model) ItemNeighbors(id string) []Neighbor { return m.itemSim.Neighbors(id) }

// UserSimilarity returns the user-user matrix.
func (m *Model) UserSimilarity() SimilarityMatrix { return m.userSim }

// ItemSimilarity returns the item-item matrix.
func (m *Model) ItemSimilarity() SimilarityMatrix { return m.itemSim }

// NumUsers returns the number of trained users.
func (m *Model) NumUsers() int { return len(m.users) }

// NumItems returns the number of trained items.
func (m *Model) NumItems() int { return len(m.items) }

// Report returns the training report that produced the snapshot, if any.
func (m *Model) Report() *TrainingReport { return m.report }

// InvalidRecord describes a skipped interaction.
type InvalidRecord struct {
	Index int    `json:"index"`
	Err   string `json:"error"`

	err error
}

// TrainingReport summarizes a training run.
type TrainingReport struct {
	// Total is the number of interactions read from the store.
	Total int `json:"total"`

	// Accepted is the number of interactions used to build the model.
	Accepted int `json:"accepted"`

	// Skipped counts invalid interactions by reason.
	Skipped map[string]int `json:"skipped"`

	// Invalid holds the first invalid records, capped by
	// TrainingConfig.MaxReportedErrors.
	Invalid []InvalidRecord `json:"invalid,omitempty"`

	Users        int   `json:"users"`
	Items        int   `json:"items"`
	UserPairs    int   `json:"user_pairs"`
	ItemPairs    int   `json:"item_pairs"`
	ModelVersion int64 `json:"model_version"`
	DurationMS   int64 `json:"duration_ms"`
}

// SkippedTotal returns the number of skipped interactions.
func (r *TrainingReport) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Err joins the reported validation errors, or returns nil.
func (r *TrainingReport) Err() error {
	if r == nil || len(r.Invalid) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Invalid))
	for _, rec := range r.Invalid {
		err := rec.err
		if err == nil {
			err = errors.New(rec.Err)
		}
		errs = append(errs, fmt.Errorf("interaction %d: %w", rec.Index, err))
	}
	return errors.Join(errs...)
}

func (r *TrainingReport) skip(index int, err error, reason string, maxReported int) {
	if r.Skipped == nil {
		r.Skipped = make(map[string]int)
	}
	r.Skipped[reason]++
	if len(r.Invalid) < maxReported {
		r.Invalid = append(r.Invalid, InvalidRecord{Index: index, Err: err.Error(), err: err})
	}
}
