// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// PostgresConfig configures a PostgresStore.
type PostgresConfig struct {
	DSN      string
	MaxConns int32

	// ConnectAttempts is how many one-second pings to wait for the database.
	ConnectAttempts int
}

// PostgresStore is a recommend.InteractionStore backed by PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// schema is applied by Migrate. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		region        TEXT NOT NULL DEFAULT '',
		language      TEXT NOT NULL DEFAULT '',
		cultural_tags TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id                  TEXT PRIMARY KEY,
		features            JSONB NOT NULL DEFAULT '{}',
		tags                TEXT[] NOT NULL DEFAULT '{}',
		regional_popularity JSONB NOT NULL DEFAULT '{}',
		flags               JSONB NOT NULL DEFAULT '{}',
		cultural_relevance  DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id           BIGSERIAL PRIMARY KEY,
		user_id      TEXT NOT NULL,
		item_id      TEXT NOT NULL,
		rating       DOUBLE PRECISION NOT NULL,
		occurred_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		context_tags TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions (user_id)`,
}

// NewPostgresStore connects a pool and waits for the database to answer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "store").Str("driver", "postgres").Logger(),
	}

	if err := s.waitForDB(ctx, cfg.ConnectAttempts); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) waitForDB(ctx context.Context, attempts int) error {
	if attempts <= 0 {
		attempts = 30
	}
	for i := 0; i < attempts; i++ {
		if err := s.pool.Ping(ctx); err == nil {
			return nil
		}
		s.logger.Info().Int("attempt", i+1).Int("max", attempts).Msg("waiting for database")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after %d attempts", attempts)
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	s.logger.Info().Int("statements", len(schema)).Msg("schema migrated")
	return nil
}

// ListInteractions implements recommend.InteractionStore.
func (s *PostgresStore) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, item_id, rating, occurred_at, context_tags
		 FROM interactions ORDER BY occurred_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []recommend.Interaction
	for rows.Next() {
		var in recommend.Interaction
		if err := rows.Scan(&in.UserID, &in.ItemID, &in.Rating, &in.Timestamp, &in.ContextTags); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}

// GetUser implements recommend.InteractionStore.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (recommend.Profile, error) {
	var p recommend.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT region, language, cultural_tags FROM users WHERE id = $1`, id,
	).Scan(&p.Region, &p.Language, &p.CulturalTags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommend.Profile{}, recommend.ErrNotFound
		}
		return recommend.Profile{}, fmt.Errorf("query user id=%s: %w", id, err)
	}
	return p, nil
}

// GetItem implements recommend.InteractionStore.
func (s *PostgresStore) GetItem(ctx context.Context, id string) (recommend.Item, error) {
	item := recommend.Item{ID: id}
	var features, popularity, flags []byte

	err := s.pool.QueryRow(ctx,
		`SELECT features, tags, regional_popularity, flags, cultural_relevance
		 FROM items WHERE id = $1`, id,
	).Scan(&features, &item.Context.Tags, &popularity, &flags, &item.Context.CulturalRelevance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommend.Item{}, recommend.ErrNotFound
		}
		return recommend.Item{}, fmt.Errorf("query item id=%s: %w", id, err)
	}

	if err := decodeJSONB(features, &item.Features); err != nil {
		return recommend.Item{}, fmt.Errorf("item %s features: %w", id, err)
	}
	if err := decodeJSONB(popularity, &item.Context.RegionalPopularity); err != nil {
		return recommend.Item{}, fmt.Errorf("item %s regional_popularity: %w", id, err)
	}
	if err := decodeJSONB(flags, &item.Context.Flags); err != nil {
		return recommend.Item{}, fmt.Errorf("item %s flags: %w", id, err)
	}
	return item, nil
}

// UpsertUser creates or replaces a user profile.
//
//nolint:gocritic // hugeParam: profile passed by value, read-only
func (s *PostgresStore) UpsertUser(ctx context.Context, id string, p recommend.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, region, language, cultural_tags) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET region = EXCLUDED.region, language = EXCLUDED.language,
		 cultural_tags = EXCLUDED.cultural_tags`,
		id, p.Region, p.Language, nonNilStrings(p.CulturalTags),
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", id, err)
	}
	return nil
}

// UpsertItem creates or replaces an item.
//
//nolint:gocritic // hugeParam: item passed by value, read-only
func (s *PostgresStore) UpsertItem(ctx context.Context, item recommend.Item) error {
	features, popularity, flags, err := encodeItemJSON(&item)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO items (id, features, tags, regional_popularity, flags, cultural_relevance)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET features = EXCLUDED.features, tags = EXCLUDED.tags,
		 regional_popularity = EXCLUDED.regional_popularity, flags = EXCLUDED.flags,
		 cultural_relevance = EXCLUDED.cultural_relevance`,
		item.ID, features, nonNilStrings(item.Context.Tags), popularity, flags, item.Context.CulturalRelevance,
	)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// AddInteractions inserts interactions in a single batch.
func (s *PostgresStore) AddInteractions(ctx context.Context, in ...recommend.Interaction) error {
	if len(in) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range in {
		ts := in[i].Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		batch.Queue(
			`INSERT INTO interactions (user_id, item_id, rating, occurred_at, context_tags)
			 VALUES ($1, $2, $3, $4, $5)`,
			in[i].UserID, in[i].ItemID, in[i].Rating, ts, nonNilStrings(in[i].ContextTags),
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert interactions: %w", err)
	}
	return nil
}

// Seed loads a seed document inside one transaction.
func (s *PostgresStore) Seed(ctx context.Context, seed *Seed) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, u := range seed.Users {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, region, language, cultural_tags) VALUES ($1, $2, $3, $4)
				 ON CONFLICT (id) DO NOTHING`,
				u.ID, u.Profile.Region, u.Profile.Language, nonNilStrings(u.Profile.CulturalTags),
			); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		for i := range seed.Items {
			it := &seed.Items[i]
			features, popularity, flags, err := encodeItemJSON(it)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO items (id, features, tags, regional_popularity, flags, cultural_relevance)
				 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
				it.ID, features, nonNilStrings(it.Context.Tags), popularity, flags, it.Context.CulturalRelevance,
			); err != nil {
				return fmt.Errorf("seed item %s: %w", it.ID, err)
			}
		}
		for i := range seed.Interactions {
			in := &seed.Interactions[i]
			ts := in.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO interactions (user_id, item_id, rating, occurred_at, context_tags)
				 VALUES ($1, $2, $3, $4, $5)`,
				in.UserID, in.ItemID, in.Rating, ts, nonNilStrings(in.ContextTags),
			); err != nil {
				return fmt.Errorf("seed interaction %d: %w", i, err)
			}
		}
		return nil
	})
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func encodeItemJSON(item *recommend.Item) (features, popularity, flags []byte, err error) {
	if features, err = encodeJSONB(item.Features); err != nil {
		return nil, nil, nil, fmt.Errorf("item %s features: %w", item.ID, err)
	}
	if popularity, err = encodeJSONB(item.Context.RegionalPopularity); err != nil {
		return nil, nil, nil, fmt.Errorf("item %s regional_popularity: %w", item.ID, err)
	}
	if flags, err = encodeJSONB(item.Context.Flags); err != nil {
		return nil, nil, nil, fmt.Errorf("item %s flags: %w", item.ID, err)
	}
	return features, popularity, flags, nil
}

// encodeJSONB renders nil maps as an empty object.
func encodeJSONB[M ~map[string]V, V any](m M) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func decodeJSONB(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ recommend.InteractionStore = (*PostgresStore)(nil)
