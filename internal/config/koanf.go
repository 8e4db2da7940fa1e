// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bazaar/config.yaml",
	"/etc/bazaar/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// The recommend section mirrors recommend.DefaultConfig.
func defaultConfig() *Config {
	core := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Driver:          StoreMemory,
			MaxConns:        10,
			ConnectAttempts: 30,
			Migrate:         true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    CacheMemory,
			RedisAddr:  "localhost:6379",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		ContentScorer: ContentScorerConfig{
			Enabled:         false,
			Timeout:         core.Limits.ContentScorerTimeout,
			RateLimit:       100,
			Burst:           20,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Recommend: RecommendConfig{
			TrainInterval:   time.Hour,
			TrainOnStartup:  true,
			TrainTimeout:    core.Training.Timeout,
			MinInteractions: core.Training.MinInteractions,

			MinSimilarity:  core.Similarity.MinSimilarity,
			MinCommonItems: core.Similarity.MinCommonItems,
			CulturalBoost:  core.Similarity.CulturalBoost,
			RatingMin:      core.Similarity.RatingMin,
			RatingMax:      core.Similarity.RatingMax,
			NumWorkers:     core.Similarity.NumWorkers,
			MaxNeighbors:   core.Similarity.MaxNeighbors,

			PositiveThreshold:   core.Candidates.PositiveThreshold,
			NeighborWeight:      core.Candidates.NeighborWeight,
			PeerItemWeight:      core.Candidates.PeerItemWeight,
			CollaborativeWeight: core.Weights.Collaborative,
			ContentWeight:       core.Weights.Content,

			MaxResults:    core.Limits.DefaultResults,
			MaxResultsCap: core.Limits.MaxResults,

			EventWeights:            core.Context.EventWeights,
			DefaultEventWeight:      core.Context.DefaultEventWeight,
			RegionWeights:           core.Context.RegionWeights,
			DefaultRegionWeight:     core.Context.DefaultRegionWeight,
			HighPopularityThreshold: core.Context.HighPopularityThreshold,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// HTTP_PORT -> server.port, RECOMMEND_MIN_SIMILARITY -> recommend.min_similarity
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processMapFields(k); err != nil {
		return nil, fmt.Errorf("failed to process map fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path found, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// mapConfigPaths are parsed as "key=value,key=value" weight lists when set
// from env. The env value replaces the whole map.
var mapConfigPaths = []string{
	"recommend.event_weights",
	"recommend.region_weights",
}

// processMapFields converts "diwali=1.5,eid=1.4" strings into weight maps.
func processMapFields(k *koanf.Koanf) error {
	for _, path := range mapConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		weights, err := parseWeights(strVal)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		// Drop the raw string before setting the parsed map.
		k.Delete(path)
		for name, w := range weights {
			if err := k.Set(path+"."+name, w); err != nil {
				return fmt.Errorf("failed to set %s.%s: %w", path, name, err)
			}
		}
	}
	return nil
}

func parseWeights(s string) (map[string]float64, error) {
	weights := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid entry %q, want name=weight", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %q: %w", name, err)
		}
		weights[name] = w
	}
	return weights, nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"rate_limit_disabled": "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Store
	"store_driver":           "store.driver",
	"database_url":           "store.dsn",
	"store_dsn":              "store.dsn",
	"store_max_conns":        "store.max_conns",
	"store_connect_attempts": "store.connect_attempts",
	"store_migrate":          "store.migrate",
	"store_seed_file":        "store.seed_file",

	// Cache
	"cache_enabled":     "cache.enabled",
	"cache_backend":     "cache.backend",
	"redis_addr":        "cache.redis_addr",
	"redis_password":    "cache.redis_password",
	"redis_db":          "cache.redis_db",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	// Content scorer
	"content_scorer_enabled":          "content_scorer.enabled",
	"content_scorer_url":              "content_scorer.url",
	"content_scorer_timeout":          "content_scorer.timeout",
	"content_scorer_rate_limit":       "content_scorer.rate_limit",
	"content_scorer_burst":            "content_scorer.burst",
	"content_scorer_breaker_failures": "content_scorer.breaker_failures",
	"content_scorer_breaker_timeout":  "content_scorer.breaker_timeout",
}

// recommendKeys are exposed as RECOMMEND_<KEY> environment variables.
var recommendKeys = []string{
	"train_interval",
	"train_on_startup",
	"train_timeout",
	"min_interactions",
	"min_similarity",
	"min_common_items",
	"cultural_boost",
	"rating_min",
	"rating_max",
	"num_workers",
	"max_neighbors",
	"positive_threshold",
	"neighbor_weight",
	"peer_item_weight",
	"collaborative_weight",
	"content_weight",
	"max_results",
	"max_results_cap",
	"event_weights",
	"default_event_weight",
	"region_weights",
	"default_region_weight",
	"high_popularity_threshold",
}

//nolint:gochecknoinits // builds the RECOMMEND_* env mappings once
func init() {
	for _, key := range recommendKeys {
		envMappings["recommend_"+key] = "recommend." + key
	}
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATABASE_URL -> store.dsn
//   - CONTENT_SCORER_URL -> content_scorer.url
//   - RECOMMEND_MIN_SIMILARITY -> recommend.min_similarity
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
