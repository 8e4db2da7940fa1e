// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package config provides centralized configuration management for Bazaar.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (structs provider)
 2. Optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/bazaar/config.yaml
 3. Environment variables

Unknown environment variables are ignored.

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080), HTTP_TIMEOUT (default: 30s)
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m),
    RATE_LIMIT_DISABLED
  - CORS_ORIGINS: comma-separated (default: *)

Logging:
  - LOG_LEVEL (default: info), LOG_FORMAT (json|console), LOG_CALLER

Interaction Store:
  - STORE_DRIVER: memory (default) or postgres
  - DATABASE_URL: PostgreSQL DSN, required for postgres
  - STORE_MAX_CONNS (default: 10), STORE_MIGRATE (default: true)
  - STORE_SEED_FILE: JSON seed loaded on startup

Result Cache:
  - CACHE_ENABLED (default: true), CACHE_BACKEND: memory (default) or redis
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - CACHE_TTL (default: 5m), CACHE_MAX_ENTRIES (default: 10000)

Content Scorer:
  - CONTENT_SCORER_ENABLED (default: false), CONTENT_SCORER_URL
  - CONTENT_SCORER_TIMEOUT (default: 2s)
  - CONTENT_SCORER_RATE_LIMIT, CONTENT_SCORER_BURST
  - CONTENT_SCORER_BREAKER_FAILURES (default: 5),
    CONTENT_SCORER_BREAKER_TIMEOUT (default: 30s)

Recommendation Engine:
  - RECOMMEND_TRAIN_INTERVAL (default: 1h, 0 disables), RECOMMEND_TRAIN_ON_STARTUP
  - RECOMMEND_MIN_SIMILARITY (default: 0.1), RECOMMEND_CULTURAL_BOOST (default: 0.1)
  - RECOMMEND_COLLABORATIVE_WEIGHT (0.6), RECOMMEND_CONTENT_WEIGHT (0.4)
  - RECOMMEND_MAX_RESULTS (20), RECOMMEND_MAX_RESULTS_CAP (50)
  - RECOMMEND_EVENT_WEIGHTS: "diwali=1.5,eid=1.5" (replaces the defaults)
  - RECOMMEND_REGION_WEIGHTS: "in-south=1.3"

Every key in the recommend section has a RECOMMEND_<KEY> variable.

# Example YAML

	server:
	  port: 8080
	store:
	  driver: postgres
	  dsn: postgres://bazaar:secret@db:5432/bazaar
	cache:
	  backend: redis
	  redis_addr: redis:6379
	content_scorer:
	  enabled: true
	  url: http://content-model:9000
	recommend:
	  train_interval: 30m
	  event_weights:
	    diwali: 1.5
	    onam: 1.2
*/
package config
