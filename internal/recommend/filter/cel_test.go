// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package filter

import (
	"errors"
	"testing"

	"github.com/tomtom215/bazaar/internal/recommend"
)

func newTestFilter(t *testing.T) *CEL {
	t.Helper()
	f, err := NewCEL(Config{})
	if err != nil {
		t.Fatalf("NewCEL() error = %v", err)
	}
	return f
}

func TestCEL_Compile(t *testing.T) {
	lamp := recommend.Item{
		ID:       "diya-lamp",
		Features: map[string]float64{"price": 12.5},
		Context: recommend.ItemContext{
			Tags:               []string{"diwali", "decor"},
			RegionalPopularity: map[string]float64{"in-north": 0.8},
			Flags:              map[string]bool{"locally_sourced": true},
			CulturalRelevance:  0.9,
		},
	}
	bare := recommend.Item{ID: "gift-card"}

	tests := []struct {
		name     string
		expr     string
		wantLamp bool
		wantBare bool
	}{
		{"tag membership", `"diwali" in item.tags`, true, false},
		{"flag with has guard", `has(item.flags.locally_sourced) && item.flags.locally_sourced`, true, false},
		{"numeric threshold", `item.cultural_relevance >= 0.5`, true, false},
		{"string function", `!item.id.startsWith("gift-")`, true, false},
		{"feature lookup", `"price" in item.features && item.features["price"] < 20.0`, true, false},
		{"regional popularity", `item.regional_popularity.exists(r, item.regional_popularity[r] > 0.7)`, true, false},
		{"empty collections", `size(item.tags) == 0`, false, true},
		{"constant", `true`, true, true},
	}

	f := newTestFilter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := f.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}

			got, err := pred(&lamp)
			if err != nil {
				t.Fatalf("eval lamp error = %v", err)
			}
			if got != tt.wantLamp {
				t.Errorf("lamp = %v, want %v", got, tt.wantLamp)
			}

			got, err = pred(&bare)
			if err != nil {
				t.Fatalf("eval bare error = %v", err)
			}
			if got != tt.wantBare {
				t.Errorf("bare = %v, want %v", got, tt.wantBare)
			}
		})
	}
}

func TestCEL_CompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", `item.tags in in`},
		{"unknown variable", `user.id == "x"`},
		{"non-boolean result", `"not a bool"`},
	}

	f := newTestFilter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Compile(tt.expr); err == nil {
				t.Errorf("Compile(%q) = nil error", tt.expr)
			}
		})
	}
}

func TestCEL_NonBooleanDynamicResult(t *testing.T) {
	f := newTestFilter(t)
	pred, err := f.Compile(`item.features["price"]`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	_, err = pred(&recommend.Item{ID: "x", Features: map[string]float64{"price": 3}})
	if !errors.Is(err, ErrNotBoolean) {
		t.Errorf("eval error = %v, want ErrNotBoolean", err)
	}
}

func TestCEL_MissingKeyIsError(t *testing.T) {
	f := newTestFilter(t)
	pred, err := f.Compile(`item.flags.organic`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := pred(&recommend.Item{ID: "x"}); err == nil {
		t.Error("eval of missing key = nil error")
	}
}

func TestCEL_ProgramCache(t *testing.T) {
	f := newTestFilter(t)
	expr := `item.id == "a"`

	for i := 0; i < 3; i++ {
		if _, err := f.Compile(expr); err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
	}
	if s := f.programs.Stats(); s.Size != 1 || s.Hits != 2 {
		t.Errorf("program cache stats = %+v, want 1 entry and 2 hits", s)
	}
}
