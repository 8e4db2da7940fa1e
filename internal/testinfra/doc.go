// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run the real backing services of the
// store and cache packages. Every file is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # PostgreSQL
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
//
// # Redis
//
//	rc, err := testinfra.NewRedisContainer(ctx)
//	...
//	results, err := cache.NewRedisResultCache(ctx, cache.RedisOptions{Addr: rc.Addr})
//
// Tests are skipped gracefully when Docker is unavailable (see SkipIfNoDocker).
package testinfra
