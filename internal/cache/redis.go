// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// RedisOptions configures a RedisResultCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisResultCache is a recommend.ResultCache shared across replicas.
// Entries are JSON-encoded; the algorithm variant survives the round trip.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisResultCache connects to Redis and verifies the connection.
func NewRedisResultCache(ctx context.Context, opts RedisOptions) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewRedisResultCacheFromClient(client, opts.TTL), nil
}

// NewRedisResultCacheFromClient wraps an existing client.
func NewRedisResultCacheFromClient(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisResultCache{client: client, ttl: ttl}
}

// Get implements recommend.ResultCache.
func (c *RedisResultCache) Get(ctx context.Context, key string) ([]recommend.Recommendation, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var recs []recommend.Recommendation
	if err := json.Unmarshal(val, &recs); err != nil {
		return nil, false, fmt.Errorf("decode cached results %s: %w", key, err)
	}
	return recs, true, nil
}

// Set implements recommend.ResultCache.
func (c *RedisResultCache) Set(ctx context.Context, key string, recs []recommend.Recommendation) error {
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

var _ recommend.ResultCache = (*RedisResultCache)(nil)
