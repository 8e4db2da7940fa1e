// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Logging       LoggingConfig       `koanf:"logging"`
	Store         StoreConfig         `koanf:"store"`
	Cache         CacheConfig         `koanf:"cache"`
	ContentScorer ContentScorerConfig `koanf:"content_scorer"`
	Recommend     RecommendConfig     `koanf:"recommend"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"` // read/write timeout and per-request deadline

	// Per-IP rate limiting (go-chi/httprate)
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// StoreConfig selects and configures the interaction store.
type StoreConfig struct {
	// Driver is "memory" or "postgres".
	Driver string `koanf:"driver"`

	// DSN is the PostgreSQL connection string (postgres driver).
	DSN             string `koanf:"dsn"`
	MaxConns        int32  `koanf:"max_conns"`
	ConnectAttempts int    `koanf:"connect_attempts"`

	// Migrate applies the schema on startup (postgres driver).
	Migrate bool `koanf:"migrate"`

	// SeedFile is a JSON seed loaded into the store on startup. Optional for
	// both drivers.
	SeedFile string `koanf:"seed_file"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig configures the recommendation result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"` // memory, redis

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"` // memory backend
}

// ContentScorerConfig configures the external content-based scorer.
// When disabled every response is collaborative-only.
type ContentScorerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	URL             string        `koanf:"url"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimit       float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
	Burst           int           `koanf:"burst"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig holds training schedule and engine parameters.
// The engine parameters map onto recommend.Config; see EngineConfig.
type RecommendConfig struct {
	// TrainInterval is how often to retrain. 0 disables scheduled training.
	// Default: 1h
	TrainInterval time.Duration `koanf:"train_interval"`

	// TrainOnStartup trains once as soon as the service starts.
	// Default: true
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainTimeout bounds a single training run.
	// Default: 10m
	TrainTimeout time.Duration `koanf:"train_timeout"`

	// MinInteractions is the minimum number of valid interactions to publish a model.
	// Default: 1
	MinInteractions int `koanf:"min_interactions"`

	// Similarity
	MinSimilarity  float64 `koanf:"min_similarity"`
	MinCommonItems int     `koanf:"min_common_items"`
	CulturalBoost  float64 `koanf:"cultural_boost"`
	RatingMin      float64 `koanf:"rating_min"`
	RatingMax      float64 `koanf:"rating_max"`
	NumWorkers     int     `koanf:"num_workers"`
	MaxNeighbors   int     `koanf:"max_neighbors"`

	// Candidate generation and blending
	PositiveThreshold   float64 `koanf:"positive_threshold"`
	NeighborWeight      float64 `koanf:"neighbor_weight"`
	PeerItemWeight      float64 `koanf:"peer_item_weight"`
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	ContentWeight       float64 `koanf:"content_weight"`

	// Result limits
	MaxResults    int `koanf:"max_results"`     // default result count
	MaxResultsCap int `koanf:"max_results_cap"` // hard cap

	// Contextual boosting
	EventWeights            map[string]float64 `koanf:"event_weights"`
	DefaultEventWeight      float64            `koanf:"default_event_weight"`
	RegionWeights           map[string]float64 `koanf:"region_weights"`
	DefaultRegionWeight     float64            `koanf:"default_region_weight"`
	HighPopularityThreshold float64            `koanf:"high_popularity_threshold"`
}

// Addr returns the HTTP listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
