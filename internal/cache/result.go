// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// Stats tracks cache performance.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// HitRate returns the hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// MemoryResultCache is an in-process recommend.ResultCache backed by an LRU.
// Results are copied on the way in and out so callers may modify them.
type MemoryResultCache struct {
	lru *LRU[[]recommend.Recommendation]
}

// NewMemoryResultCache creates a result cache holding up to maxEntries
// results for ttl each.
func NewMemoryResultCache(maxEntries int, ttl time.Duration) *MemoryResultCache {
	return &MemoryResultCache{lru: NewLRU[[]recommend.Recommendation](maxEntries, ttl)}
}

// Get implements recommend.ResultCache.
func (c *MemoryResultCache) Get(_ context.Context, key string) ([]recommend.Recommendation, bool, error) {
	recs, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return cloneRecommendations(recs), true, nil
}

// Set implements recommend.ResultCache.
func (c *MemoryResultCache) Set(_ context.Context, key string, recs []recommend.Recommendation) error {
	c.lru.Add(key, cloneRecommendations(recs))
	return nil
}

// Stats returns the underlying LRU statistics.
func (c *MemoryResultCache) Stats() Stats {
	return c.lru.Stats()
}

// Cleanup drops expired entries and returns how many were removed.
func (c *MemoryResultCache) Cleanup() int {
	return c.lru.CleanupExpired()
}

func cloneRecommendations(recs []recommend.Recommendation) []recommend.Recommendation {
	if recs == nil {
		return nil
	}
	out := make([]recommend.Recommendation, len(recs))
	copy(out, recs)
	return out
}

var _ recommend.ResultCache = (*MemoryResultCache)(nil)
