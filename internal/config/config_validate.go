// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/bazaar/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateContentScorer(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, off; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case StoreMemory:
		return nil
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		if c.Store.MaxConns < 1 {
			return fmt.Errorf("STORE_MAX_CONNS must be positive, got %d", c.Store.MaxConns)
		}
		return nil
	default:
		return fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", StoreMemory, StorePostgres, c.Store.Driver)
	}
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.Cache.MaxEntries)
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be %s or %s, got %q", CacheMemory, CacheRedis, c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateContentScorer() error {
	cs := c.ContentScorer
	if !cs.Enabled {
		return nil
	}
	if cs.URL == "" {
		return fmt.Errorf("CONTENT_SCORER_URL is required when CONTENT_SCORER_ENABLED=true")
	}
	if err := validateHTTPURL(cs.URL, "CONTENT_SCORER_URL"); err != nil {
		return err
	}
	if cs.Timeout <= 0 {
		return fmt.Errorf("CONTENT_SCORER_TIMEOUT must be positive, got %v", cs.Timeout)
	}
	if cs.RateLimit < 0 {
		return fmt.Errorf("CONTENT_SCORER_RATE_LIMIT must be non-negative, got %v", cs.RateLimit)
	}
	if cs.BreakerFailures == 0 {
		return fmt.Errorf("CONTENT_SCORER_BREAKER_FAILURES must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.TrainInterval < 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be non-negative, got %v", c.Recommend.TrainInterval)
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateHTTPURL validates that a URL is a base http(s) URL with a host
// and no query string. A path prefix is allowed for scorers mounted behind
// a gateway.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
