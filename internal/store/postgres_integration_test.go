// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

//go:build integration

package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bazaar/internal/recommend"
	"github.com/tomtom215/bazaar/internal/testinfra"
)

func TestPostgresStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, pg)

	s, err := NewPostgresStore(ctx, PostgresConfig{DSN: pg.DSN, MaxConns: 4}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrate is idempotent.
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	seed, err := ReadSeed(strings.NewReader(testSeed))
	if err != nil {
		t.Fatalf("ReadSeed() error = %v", err)
	}
	if err := s.Seed(ctx, seed); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	t.Run("interactions", func(t *testing.T) {
		got, err := s.ListInteractions(ctx)
		if err != nil {
			t.Fatalf("ListInteractions() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d interactions, want 2", len(got))
		}
	})

	t.Run("user", func(t *testing.T) {
		p, err := s.GetUser(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if p.Region != "in-south" || len(p.CulturalTags) != 1 {
			t.Errorf("profile = %+v", p)
		}
		if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, recommend.ErrNotFound) {
			t.Errorf("GetUser(nobody) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("item", func(t *testing.T) {
		it, err := s.GetItem(ctx, "P1")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if it.Context.RegionalPopularity["in-south"] != 0.9 || it.Features["saree"] != 1 {
			t.Errorf("item = %+v", it)
		}
		p2, err := s.GetItem(ctx, "P2")
		if err != nil {
			t.Fatalf("GetItem(P2) error = %v", err)
		}
		if !p2.Context.Flags["locally_sourced"] {
			t.Errorf("P2 flags = %v", p2.Context.Flags)
		}
		if _, err := s.GetItem(ctx, "P9"); !errors.Is(err, recommend.ErrNotFound) {
			t.Errorf("GetItem(P9) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("upserts", func(t *testing.T) {
		if err := s.UpsertUser(ctx, "u1", recommend.Profile{Region: "id-java"}); err != nil {
			t.Fatalf("UpsertUser() error = %v", err)
		}
		p, _ := s.GetUser(ctx, "u1")
		if p.Region != "id-java" {
			t.Errorf("region = %s, want id-java", p.Region)
		}

		if err := s.UpsertItem(ctx, recommend.Item{ID: "P3"}); err != nil {
			t.Fatalf("UpsertItem() error = %v", err)
		}
		if err := s.AddInteractions(ctx, recommend.Interaction{UserID: "u1", ItemID: "P3", Rating: 4}); err != nil {
			t.Fatalf("AddInteractions() error = %v", err)
		}
		got, _ := s.ListInteractions(ctx)
		if len(got) != 3 {
			t.Errorf("got %d interactions after insert, want 3", len(got))
		}
	})
}
