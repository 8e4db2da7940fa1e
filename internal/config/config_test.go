// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"rate limit zero", func(c *Config) { c.Server.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) { c.Server.RateLimitReqs = 0; c.Server.RateLimitDisabled = true }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "STORE_DRIVER"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StorePostgres }, "DATABASE_URL"},
		{"postgres", func(c *Config) { c.Store.Driver = StorePostgres; c.Store.DSN = "postgres://x" }, ""},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }, "REDIS_ADDR"},
		{"disabled cache skips checks", func(c *Config) { c.Cache.Enabled = false; c.Cache.Backend = "" }, ""},
		{"scorer without url", func(c *Config) { c.ContentScorer.Enabled = true }, "CONTENT_SCORER_URL is required"},
		{"scorer bad scheme", func(c *Config) {
			c.ContentScorer.Enabled = true
			c.ContentScorer.URL = "ftp://scorer"
		}, "scheme must be http or https"},
		{"scorer with query", func(c *Config) {
			c.ContentScorer.Enabled = true
			c.ContentScorer.URL = "http://scorer?x=1"
		}, "query parameters"},
		{"scorer with path prefix", func(c *Config) {
			c.ContentScorer.Enabled = true
			c.ContentScorer.URL = "https://gateway.example/content"
		}, ""},
		{"negative train interval", func(c *Config) { c.Recommend.TrainInterval = -time.Second }, "RECOMMEND_TRAIN_INTERVAL"},
		{"min similarity out of range", func(c *Config) { c.Recommend.MinSimilarity = 1 }, "recommend: similarity.min_similarity"},
		{"negative content weight", func(c *Config) { c.Recommend.ContentWeight = -0.1 }, "weights.content"},
		{"negative event weight", func(c *Config) { c.Recommend.EventWeights = map[string]float64{"eid": -1} }, "event_weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.CulturalBoost = 0.2
	cfg.Recommend.CollaborativeWeight = 0.7
	cfg.Recommend.ContentWeight = 0.3
	cfg.Recommend.MaxResults = 10
	cfg.Recommend.MaxResultsCap = 30
	cfg.Recommend.RegionWeights = map[string]float64{"in-south": 1.3}
	cfg.ContentScorer.Timeout = 750 * time.Millisecond
	cfg.Cache.Enabled = false

	core := cfg.EngineConfig()

	if core.Similarity.CulturalBoost != 0.2 {
		t.Errorf("CulturalBoost = %v", core.Similarity.CulturalBoost)
	}
	if core.Weights.Collaborative != 0.7 || core.Weights.Content != 0.3 {
		t.Errorf("Weights = %+v", core.Weights)
	}
	if core.Limits.DefaultResults != 10 || core.Limits.MaxResults != 30 {
		t.Errorf("Limits = %+v", core.Limits)
	}
	if core.Limits.ContentScorerTimeout != 750*time.Millisecond {
		t.Errorf("ContentScorerTimeout = %v", core.Limits.ContentScorerTimeout)
	}
	if core.Cache.Enabled {
		t.Error("Cache.Enabled should follow the cache section")
	}
	if core.Context.RegionWeights["in-south"] != 1.3 {
		t.Errorf("RegionWeights = %v", core.Context.RegionWeights)
	}
	if core.Candidates.NeighborFullSupport != 5 || core.Candidates.PeerItemFullSupport != 3 {
		t.Errorf("unmapped candidate parameters lost their defaults: %+v", core.Candidates)
	}

	// The mapped maps are copies.
	core.Context.RegionWeights["in-south"] = 9
	if cfg.Recommend.RegionWeights["in-south"] != 1.3 {
		t.Error("EngineConfig shares the region weight map")
	}
	if err := core.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}
}
