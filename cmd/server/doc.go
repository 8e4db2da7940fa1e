// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package main is the entry point for the Bazaar recommendation server.

Bazaar ranks catalog items for storefront shoppers by blending
collaborative filtering (similar shoppers, similar items) with an external
content scorer, then adjusts the ranking for regional taste, festivals and
economic context.

# Application Architecture

	RootSupervisor ("bazaar")
	├── EngineSupervisor ("engine-layer")
	│   ├── RecommendService (startup + scheduled retraining)
	│   └── CacheCleanupService (memory result cache only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Interaction store: in-memory (optionally seeded) or PostgreSQL via pgx
 4. Result cache: in-process LRU or Redis
 5. Content scorer: HTTP client behind a circuit breaker (optional)
 6. Engine: similarity builder, generators, contextual booster, CEL filter
 7. Supervisor tree and HTTP server

# Configuration

Common environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	STORE_DRIVER=postgres
	STORE_DSN=postgres://bazaar:secret@db:5432/bazaar
	CACHE_BACKEND=redis
	REDIS_ADDR=redis:6379
	CONTENT_SCORER_ENABLED=true
	CONTENT_SCORER_URL=http://scorer:9000
	RECOMMEND_TRAIN_INTERVAL=30m
	RECOMMEND_EVENT_WEIGHTS=diwali=1.5,eid=1.4

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the retrain loop stops, and store and cache
connections are closed.
*/
package main
