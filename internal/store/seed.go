// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package store

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// SeedUser is a user profile record in a seed file.
type SeedUser struct {
	ID      string            `json:"id"`
	Profile recommend.Profile `json:"profile"`
}

// Seed is the JSON document used to populate a store:
//
//	{
//	  "users":        [{"id": "u1", "profile": {"region": "in-south"}}],
//	  "items":        [{"id": "P1", "context": {"tags": ["diwali"]}}],
//	  "interactions": [{"user_id": "u1", "item_id": "P1", "rating": 5}]
//	}
type Seed struct {
	Users        []SeedUser              `json:"users"`
	Items        []recommend.Item        `json:"items"`
	Interactions []recommend.Interaction `json:"interactions"`
}

// ReadSeed decodes a seed document.
func ReadSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// ReadSeedFile decodes a seed document from disk.
func ReadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return ReadSeed(f)
}
