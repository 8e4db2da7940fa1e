// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Cleaner drops expired cache entries. Satisfied by
// *cache.MemoryResultCache.
type Cleaner interface {
	Cleanup() int
}

// CacheCleanupService periodically evicts expired result cache entries so
// idle keys do not hold memory until they are pushed out by LRU pressure.
type CacheCleanupService struct {
	cache    Cleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheCleanupService creates a cleanup loop. An interval of zero or
// less defaults to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheCleanupService(c Cleaner, interval time.Duration, logger zerolog.Logger) *CacheCleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheCleanupService{
		cache:    c,
		interval: interval,
		logger:   logger.With().Str("service", "cache-cleanup").Logger(),
		name:     "cache-cleanup-service",
	}
}

// Serve implements suture.Service.
func (s *CacheCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.cache.Cleanup(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("evicted expired cache entries")
			}
		}
	}
}

// String returns the service name for logging.
func (s *CacheCleanupService) String() string {
	return s.name
}
