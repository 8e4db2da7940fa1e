// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package cache

import (
	"context"

	"github.com/tomtom215/bazaar/internal/metrics"
	"github.com/tomtom215/bazaar/internal/recommend"
)

// Instrumented records bazaar_cache_operations_total for a result cache.
type Instrumented struct {
	backend string
	next    recommend.ResultCache
}

// NewInstrumented wraps next. backend labels the metric ("memory", "redis").
func NewInstrumented(backend string, next recommend.ResultCache) *Instrumented {
	return &Instrumented{backend: backend, next: next}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]recommend.Recommendation, bool, error) {
	recs, ok, err := c.next.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheOperation(c.backend, "error")
	case ok:
		metrics.RecordCacheOperation(c.backend, "hit")
	default:
		metrics.RecordCacheOperation(c.backend, "miss")
	}
	return recs, ok, err
}

func (c *Instrumented) Set(ctx context.Context, key string, recs []recommend.Recommendation) error {
	if err := c.next.Set(ctx, key, recs); err != nil {
		metrics.RecordCacheOperation(c.backend, "error")
		return err
	}
	metrics.RecordCacheOperation(c.backend, "set")
	return nil
}

var _ recommend.ResultCache = (*Instrumented)(nil)
