// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package store

import (
	"context"
	"sync"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// MemoryStore is an in-process recommend.InteractionStore for development
// and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	interactions []recommend.Interaction
	profiles     map[string]recommend.Profile
	items        map[string]recommend.Item
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]recommend.Profile),
		items:    make(map[string]recommend.Item),
	}
}

// NewMemoryStoreFromSeed creates a store populated from a seed document.
func NewMemoryStoreFromSeed(seed *Seed) *MemoryStore {
	s := NewMemoryStore()
	if seed == nil {
		return s
	}
	for _, u := range seed.Users {
		s.PutUser(u.ID, u.Profile)
	}
	for i := range seed.Items {
		s.PutItem(seed.Items[i])
	}
	s.AddInteractions(seed.Interactions...)
	return s
}

// PutUser creates or replaces a user profile.
//
//nolint:gocritic // hugeParam: profile passed by value, stored as a copy
func (s *MemoryStore) PutUser(id string, profile recommend.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = profile
}

// PutItem creates or replaces an item.
//
//nolint:gocritic // hugeParam: item passed by value, stored as a copy
func (s *MemoryStore) PutItem(item recommend.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// AddInteractions appends interactions. Records are not validated here;
// training skips and reports invalid ones.
func (s *MemoryStore) AddInteractions(in ...recommend.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, in...)
}

// ListInteractions implements recommend.InteractionStore.
func (s *MemoryStore) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out, nil
}

// GetUser implements recommend.InteractionStore.
func (s *MemoryStore) GetUser(_ context.Context, id string) (recommend.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return recommend.Profile{}, recommend.ErrNotFound
	}
	return p, nil
}

// GetItem implements recommend.InteractionStore.
func (s *MemoryStore) GetItem(_ context.Context, id string) (recommend.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return recommend.Item{}, recommend.ErrNotFound
	}
	return it, nil
}

// Counts returns the number of users, items and interactions held.
func (s *MemoryStore) Counts() (users, items, interactions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), len(s.items), len(s.interactions)
}

var _ recommend.InteractionStore = (*MemoryStore)(nil)
