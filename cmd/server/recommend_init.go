// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/config"
	"github.com/tomtom215/bazaar/internal/contentscorer"
	"github.com/tomtom215/bazaar/internal/recommend"
	"github.com/tomtom215/bazaar/internal/recommend/algorithms"
	"github.com/tomtom215/bazaar/internal/recommend/filter"
	"github.com/tomtom215/bazaar/internal/recommend/reranking"
	"github.com/tomtom215/bazaar/internal/recommend/similarity"
)

// engineDeps are the collaborators built outside the engine.
type engineDeps struct {
	store  recommend.InteractionStore
	cache  recommend.ResultCache
	scorer *contentscorer.Client
}

// initScorer creates the content scorer client, or nil when disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initScorer(cfg *config.ContentScorerConfig, logger zerolog.Logger) (*contentscorer.Client, error) {
	if !cfg.Enabled {
		logger.Info().Msg("content scorer disabled, serving collaborative scores only")
		return nil, nil
	}

	client, err := contentscorer.New(contentscorer.Config{
		URL:             cfg.URL,
		Timeout:         cfg.Timeout,
		RateLimit:       cfg.RateLimit,
		Burst:           cfg.Burst,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("content scorer: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Dur("timeout", cfg.Timeout).Msg("content scorer enabled")
	return client, nil
}

// initEngine assembles the recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEngine(cfg *config.Config, deps engineDeps, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := cfg.EngineConfig()
	if deps.cache == nil {
		engineCfg.Cache.Enabled = false
	}

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	celFilter, err := filter.NewCEL(filter.Config{})
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", err)
	}

	engine.SetStore(deps.store)
	engine.SetSimilarityBuilder(similarity.NewBuilder(engineCfg.Similarity, logger))
	engine.SetCandidateFilter(celFilter)
	engine.RegisterGenerator(algorithms.NewNeighborBased(engineCfg.Candidates))
	engine.RegisterGenerator(algorithms.NewPeerItemBased(engineCfg.Candidates))
	engine.RegisterBooster(reranking.NewContextualBooster(engineCfg.Context))

	if deps.cache != nil {
		engine.SetResultCache(deps.cache)
	}
	if deps.scorer != nil {
		engine.SetContentScorer(deps.scorer)
	}

	logger.Info().
		Float64("min_similarity", engineCfg.Similarity.MinSimilarity).
		Float64("collaborative_weight", engineCfg.Weights.Collaborative).
		Float64("content_weight", engineCfg.Weights.Content).
		Int("default_results", engineCfg.Limits.DefaultResults).
		Int("max_results", engineCfg.Limits.MaxResults).
		Bool("cache", engineCfg.Cache.Enabled).
		Bool("content_scorer", deps.scorer != nil).
		Msg("recommendation engine initialized")

	return engine, nil
}
