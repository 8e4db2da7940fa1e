// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Train builds a new Model from the interaction store and publishes it.
// Invalid interactions are skipped and counted in the report. On any error
// the previously published Model keeps serving.
// Returns ErrTrainingInProgress if another run holds the training lock.
func (e *Engine) Train(ctx context.Context) (*TrainingReport, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	if e.store == nil {
		return nil, ErrStoreNotSet
	}
	if e.builder == nil {
		return nil, ErrBuilderNotSet
	}

	start := time.Now()
	e.setTraining(true)
	e.logger.Info().Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	model, report, err := e.buildModel(trainCtx)
	report.DurationMS = time.Since(start).Milliseconds()
	e.finalizeTrainingStatus(report, err)

	if err != nil {
		e.logger.Error().Err(err).Msg("model training failed")
		return report, err
	}

	if err := e.Publish(model); err != nil {
		e.logger.Warn().Err(err).Msg("trained model not published")
		return report, err
	}

	e.logger.Info().
		Int64("version", model.Version()).
		Int("accepted", report.Accepted).
		Int("skipped", report.SkippedTotal()).
		Int("user_pairs", report.UserPairs).
		Int("item_pairs", report.ItemPairs).
		Int64("duration_ms", report.DurationMS).
		Msg("model training complete")

	return report, nil
}

// trainingSet accumulates validated interactions.
type trainingSet struct {
	users  map[string]User
	items  map[string]Item
	seenAt map[string]map[string]time.Time

	// missingItems memoizes store misses.
	missingItems map[string]struct{}
}

// buildModel loads, validates and builds a snapshot without publishing it.
func (e *Engine) buildModel(ctx context.Context) (*Model, *TrainingReport, error) {
	report := &TrainingReport{Skipped: map[string]int{}}

	interactions, err := e.store.ListInteractions(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("list interactions: %w", err)
	}
	report.Total = len(interactions)

	set := &trainingSet{
		users:        make(map[string]User),
		items:        make(map[string]Item),
		seenAt:       make(map[string]map[string]time.Time),
		missingItems: make(map[string]struct{}),
	}

	for idx := range interactions {
		if idx%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
		}

		in := &interactions[idx]
		if err := e.validateInteraction(in); err != nil {
			report.skip(idx, err, skipReason(err), e.config.Training.MaxReportedErrors)
			continue
		}

		if err := e.resolveItem(ctx, set, in.ItemID); err != nil {
			if errors.Is(err, ErrUnknownItem) {
				report.skip(idx, err, skipReason(err), e.config.Training.MaxReportedErrors)
				continue
			}
			return nil, report, err
		}

		if err := e.resolveTrainingUser(ctx, set, in.UserID); err != nil {
			return nil, report, err
		}

		set.add(in)
		report.Accepted++
	}

	if report.Accepted < e.config.Training.MinInteractions {
		return nil, report, fmt.Errorf("%w: %d valid interactions < %d", ErrInsufficientData, report.Accepted, e.config.Training.MinInteractions)
	}

	report.Users = len(set.users)
	report.Items = len(set.items)

	e.logger.Info().
		Int("interactions", report.Total).
		Int("accepted", report.Accepted).
		Int("users", report.Users).
		Int("items", report.Items).
		Msg("loaded training data")

	userSim, itemSim, err := e.builder.Build(ctx, set.users, set.items)
	if err != nil {
		return nil, report, fmt.Errorf("build similarity: %w", err)
	}
	report.UserPairs = userSim.Pairs()
	report.ItemPairs = itemSim.Pairs()

	version := e.nextVersion.Add(1)
	report.ModelVersion = version

	return NewModel(version, set.users, set.items, userSim, itemSim, report), report, nil
}

// validateInteraction checks identifiers and the rating range.
func (e *Engine) validateInteraction(in *Interaction) error {
	if in.UserID == "" || in.ItemID == "" {
		return ErrMissingID
	}
	r := in.Rating
	if math.IsNaN(r) || r < e.config.Similarity.RatingMin || r > e.config.Similarity.RatingMax {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrRatingOutOfRange, r, e.config.Similarity.RatingMin, e.config.Similarity.RatingMax)
	}
	return nil
}

// resolveItem loads an item once. Unknown items yield ErrUnknownItem.
func (e *Engine) resolveItem(ctx context.Context, set *trainingSet, id string) error {
	if _, ok := set.items[id]; ok {
		return nil
	}
	if _, missing := set.missingItems[id]; missing {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	item, err := e.store.GetItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		set.missingItems[id] = struct{}{}
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if err != nil {
		return fmt.Errorf("get item %s: %w", id, err)
	}
	if item.ID == "" {
		item.ID = id
	}
	set.items[id] = item
	return nil
}

// resolveTrainingUser loads a user profile once. Users missing from the
// store train with an empty profile.
func (e *Engine) resolveTrainingUser(ctx context.Context, set *trainingSet, id string) error {
	if _, ok := set.users[id]; ok {
		return nil
	}

	profile, err := e.store.GetUser(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get user %s: %w", id, err)
	}
	set.users[id] = User{ID: id, Ratings: make(map[string]float64), Profile: profile}
	return nil
}

// add records a rating. For repeated (user, item) pairs the latest
// timestamp wins; equal timestamps keep the later record.
func (s *trainingSet) add(in *Interaction) {
	seen, ok := s.seenAt[in.UserID]
	if !ok {
		seen = make(map[string]time.Time)
		s.seenAt[in.UserID] = seen
	}
	if prev, dup := seen[in.ItemID]; dup && in.Timestamp.Before(prev) {
		return
	}
	seen[in.ItemID] = in.Timestamp
	s.users[in.UserID].Ratings[in.ItemID] = in.Rating
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrRatingOutOfRange):
		return "rating_out_of_range"
	case errors.Is(err, ErrUnknownItem):
		return "unknown_item"
	case errors.Is(err, ErrMissingID):
		return "missing_id"
	default:
		return "invalid"
	}
}

func (e *Engine) setTraining(active bool) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = active
	if active {
		e.status.LastError = ""
	}
}

// finalizeTrainingStatus updates the training status after a run.
func (e *Engine) finalizeTrainingStatus(report *TrainingReport, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = false
	e.status.LastTrainingDurationMS = report.DurationMS
	if err != nil {
		e.status.LastError = err.Error()
		return
	}
	e.status.LastReport = report
}
