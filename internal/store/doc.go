// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package store provides recommend.InteractionStore implementations.
//
// MemoryStore keeps everything in process and is populated from a JSON
// seed document (see Seed). PostgresStore reads users, items and
// interactions from PostgreSQL through a pgx connection pool and owns its
// schema via Migrate.
//
// Stores return records as they are. Validation happens during training,
// where invalid interactions are skipped and reported.
package store
