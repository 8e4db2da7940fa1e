// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/config"
	"github.com/tomtom215/bazaar/internal/recommend"
	"github.com/tomtom215/bazaar/internal/store"
)

// initStore opens the configured interaction store. The returned close
// function is never nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initStore(ctx context.Context, cfg *config.StoreConfig, logger zerolog.Logger) (recommend.InteractionStore, func(), error) {
	var seed *store.Seed
	if cfg.SeedFile != "" {
		s, err := store.ReadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, func() {}, fmt.Errorf("read seed file: %w", err)
		}
		seed = s
	}

	switch cfg.Driver {
	case config.StorePostgres:
		pg, err := store.NewPostgresStore(ctx, store.PostgresConfig{
			DSN:             cfg.DSN,
			MaxConns:        cfg.MaxConns,
			ConnectAttempts: cfg.ConnectAttempts,
		}, logger)
		if err != nil {
			return nil, func() {}, err
		}

		if cfg.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, func() {}, fmt.Errorf("migrate: %w", err)
			}
		}
		if seed != nil {
			if err := pg.Seed(ctx, seed); err != nil {
				pg.Close()
				return nil, func() {}, fmt.Errorf("seed: %w", err)
			}
			logger.Info().Str("file", cfg.SeedFile).Msg("seeded postgres store")
		}

		logger.Info().Int32("max_conns", cfg.MaxConns).Msg("postgres interaction store ready")
		return pg, pg.Close, nil

	default:
		var mem *store.MemoryStore
		if seed != nil {
			mem = store.NewMemoryStoreFromSeed(seed)
		} else {
			mem = store.NewMemoryStore()
		}

		users, items, interactions := mem.Counts()
		logger.Info().
			Int("users", users).
			Int("items", items).
			Int("interactions", interactions).
			Msg("memory interaction store ready")
		return mem, func() {}, nil
	}
}
