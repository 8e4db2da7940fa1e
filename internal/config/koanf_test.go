// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Cache.Backend != CacheMemory || !cfg.Cache.Enabled {
		t.Errorf("Cache = %+v, want enabled memory backend", cfg.Cache)
	}
	if cfg.ContentScorer.Enabled {
		t.Error("ContentScorer.Enabled should be false by default")
	}
	if cfg.Recommend.CollaborativeWeight != 0.6 || cfg.Recommend.ContentWeight != 0.4 {
		t.Errorf("hybrid weights = %v/%v, want 0.6/0.4", cfg.Recommend.CollaborativeWeight, cfg.Recommend.ContentWeight)
	}
	if cfg.Recommend.MaxResults != 20 || cfg.Recommend.MaxResultsCap != 50 {
		t.Errorf("result limits = %d/%d, want 20/50", cfg.Recommend.MaxResults, cfg.Recommend.MaxResultsCap)
	}
	if cfg.Recommend.EventWeights["diwali"] != 1.5 {
		t.Errorf("diwali weight = %v, want 1.5", cfg.Recommend.EventWeights["diwali"])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"DATABASE_URL", "store.dsn"},
		{"STORE_DRIVER", "store.driver"},
		{"REDIS_ADDR", "cache.redis_addr"},
		{"CONTENT_SCORER_URL", "content_scorer.url"},
		{"CONTENT_SCORER_BREAKER_FAILURES", "content_scorer.breaker_failures"},
		{"RECOMMEND_MIN_SIMILARITY", "recommend.min_similarity"},
		{"RECOMMEND_EVENT_WEIGHTS", "recommend.event_weights"},
		{"recommend_train_interval", "recommend.train_interval"},

		// Unmapped
		{"PATH", ""},
		{"HOME", ""},
		{"RECOMMEND_UNKNOWN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
}

func TestLoadWithKoanf_Env(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://bazaar@localhost/bazaar")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CONTENT_SCORER_ENABLED", "true")
	t.Setenv("CONTENT_SCORER_URL", "http://scorer:9000")
	t.Setenv("CONTENT_SCORER_BREAKER_FAILURES", "3")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "45m")
	t.Setenv("RECOMMEND_MIN_SIMILARITY", "0.2")
	t.Setenv("RECOMMEND_EVENT_WEIGHTS", "Diwali=2.0, onam=1.1")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://admin.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Store.Driver != StorePostgres || cfg.Store.DSN != "postgres://bazaar@localhost/bazaar" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if !cfg.ContentScorer.Enabled || cfg.ContentScorer.BreakerFailures != 3 {
		t.Errorf("ContentScorer = %+v", cfg.ContentScorer)
	}
	if cfg.Recommend.TrainInterval != 45*time.Minute {
		t.Errorf("TrainInterval = %v, want 45m", cfg.Recommend.TrainInterval)
	}
	if cfg.Recommend.MinSimilarity != 0.2 {
		t.Errorf("MinSimilarity = %v, want 0.2", cfg.Recommend.MinSimilarity)
	}
	want := map[string]float64{"diwali": 2.0, "onam": 1.1}
	if len(cfg.Recommend.EventWeights) != len(want) {
		t.Fatalf("EventWeights = %v, want %v", cfg.Recommend.EventWeights, want)
	}
	for k, v := range want {
		if cfg.Recommend.EventWeights[k] != v {
			t.Errorf("EventWeights[%s] = %v, want %v", k, cfg.Recommend.EventWeights[k], v)
		}
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bazaar.yaml")
	content := `
server:
  port: 7000
logging:
  level: debug
recommend:
  cultural_boost: 0.25
  max_results: 10
  event_weights:
    pongal: 1.4
  region_weights:
    in-south: 1.3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7001 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.CulturalBoost != 0.25 || cfg.Recommend.MaxResults != 10 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.EventWeights["pongal"] != 1.4 {
		t.Errorf("pongal weight = %v, want 1.4", cfg.Recommend.EventWeights["pongal"])
	}
	if cfg.Recommend.RegionWeights["in-south"] != 1.3 {
		t.Errorf("RegionWeights = %v", cfg.Recommend.RegionWeights)
	}
}

func TestLoadWithKoanf_Invalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECOMMEND_MAX_RESULTS_CAP", "5")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() accepted max_results_cap below max_results")
	}
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]float64
		wantErr bool
	}{
		{"single", "diwali=1.5", map[string]float64{"diwali": 1.5}, false},
		{"multiple with spaces", " eid = 1.5 , Onam=1.2 ,", map[string]float64{"eid": 1.5, "onam": 1.2}, false},
		{"empty", "", map[string]float64{}, false},
		{"missing weight", "diwali", nil, true},
		{"bad number", "diwali=high", nil, true},
		{"missing name", "=1.2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWeights(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWeights() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseWeights() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseWeights()[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
