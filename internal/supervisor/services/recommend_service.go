// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/logging"
	"github.com/tomtom215/bazaar/internal/metrics"
	"github.com/tomtom215/bazaar/internal/recommend"
)

// Trainer is the part of the recommendation engine the retrain loop drives.
// Satisfied by *recommend.Engine.
type Trainer interface {
	Train(ctx context.Context) (*recommend.TrainingReport, error)
	Model() *recommend.Model
}

// RecommendServiceConfig holds configuration for the retrain service.
type RecommendServiceConfig struct {
	// TrainOnStartup trains once before the first tick.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables scheduled
	// retraining; the service then only trains on startup.
	TrainInterval time.Duration
}

// RecommendService runs scheduled model retraining under supervision.
// Failed runs are logged and counted; the previously published model keeps
// serving.
type RecommendService struct {
	engine Trainer
	config RecommendServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRecommendService creates a new retrain service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine Trainer, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	return &RecommendService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "recommend").Logger(),
		name:   "recommend-service",
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("recommendation service starting")

	if s.config.TrainOnStartup {
		s.train(ctx, "startup")
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		s.logger.Info().Msg("recommendation service shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.train(ctx, "schedule")
		}
	}
}

// train runs one training cycle. Errors are absorbed so a bad batch of
// interactions never restarts the loop.
func (s *RecommendService) train(ctx context.Context, trigger string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := s.logger.With().
		Str("trigger", trigger).
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Logger()

	start := time.Now()
	report, err := s.engine.Train(ctx)
	duration := time.Since(start)

	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		metrics.RecordTrainingSkipped()
		logger.Debug().Msg("training already running, skipping")
		return
	case err != nil:
		var skipped map[string]int
		if report != nil {
			skipped = report.Skipped
		}
		metrics.RecordTrainingRun(duration, skipped, err)
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("training interrupted by shutdown")
			return
		}
		logger.Warn().Err(err).Msg("training failed, previous model still serving")
		return
	}

	metrics.RecordTrainingRun(duration, report.Skipped, nil)
	if m := s.engine.Model(); m != nil {
		metrics.UpdateModelGauges(m.Version(), m.NumUsers(), m.NumItems(), report.UserPairs, report.ItemPairs)
	}

	logger.Info().
		Int64("version", report.ModelVersion).
		Int("accepted", report.Accepted).
		Int("skipped", report.SkippedTotal()).
		Dur("duration", duration).
		Msg("scheduled training complete")
}

// String returns the service name for logging.
func (s *RecommendService) String() string {
	return s.name
}
