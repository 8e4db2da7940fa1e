// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package cache provides result caches for the recommendation engine.

Two implementations of recommend.ResultCache are available:

  - MemoryResultCache: a per-process LRU with TTL expiration
  - RedisResultCache: a shared cache for multi-replica deployments

Keys are built by the engine and embed the model version, so entries
written against an older snapshot are never read after a retrain. They
simply age out.

# Usage Example

	results := cache.NewMemoryResultCache(10000, 5*time.Minute)
	engine.SetResultCache(results)

	// or, shared between replicas
	results, err := cache.NewRedisResultCache(ctx, cache.RedisOptions{
	    Addr: "localhost:6379",
	    TTL:  5 * time.Minute,
	})

# Thread Safety

Both caches are safe for concurrent use. MemoryResultCache copies slices
on Get and Set.
*/
package cache
