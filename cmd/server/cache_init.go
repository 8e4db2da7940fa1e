// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/cache"
	"github.com/tomtom215/bazaar/internal/config"
	"github.com/tomtom215/bazaar/internal/recommend"
	"github.com/tomtom215/bazaar/internal/supervisor/services"
)

// resultCache is the wired cache plus what main needs to manage it.
type resultCache struct {
	cache   recommend.ResultCache
	cleaner services.Cleaner // nil for backends that expire on their own
	close   func()
}

// initCache builds the configured result cache wrapped with metrics.
// It returns nil when caching is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCache(ctx context.Context, cfg *config.CacheConfig, logger zerolog.Logger) (*resultCache, error) {
	if !cfg.Enabled {
		logger.Info().Msg("result cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisResultCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("redis result cache ready")
		return &resultCache{
			cache: cache.NewInstrumented(config.CacheRedis, rc),
			close: func() {
				if err := rc.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing redis cache")
				}
			},
		}, nil

	default:
		mc := cache.NewMemoryResultCache(cfg.MaxEntries, cfg.TTL)
		logger.Info().Int("max_entries", cfg.MaxEntries).Dur("ttl", cfg.TTL).Msg("memory result cache ready")
		return &resultCache{
			cache:   cache.NewInstrumented(config.CacheMemory, mc),
			cleaner: mc,
			close:   func() {},
		}, nil
	}
}
