// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package similarity

import (
	"math"
	"testing"

	"github.com/tomtom215/bazaar/internal/recommend"
)

const tolerance = 1e-3

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{
			name: "three co-rated items",
			a:    map[string]float64{"P1": 5, "P2": 3, "P3": 4},
			b:    map[string]float64{"P1": 4, "P2": 2, "P3": 5},
			want: 0.655,
		},
		{
			name: "single common item is below the overlap floor",
			a:    map[string]float64{"P1": 5, "P2": 3},
			b:    map[string]float64{"P1": 4, "P9": 2},
			want: 0,
		},
		{
			name: "no common items",
			a:    map[string]float64{"P1": 5},
			b:    map[string]float64{"P2": 4},
			want: 0,
		},
		{
			name: "constant ratings give a zero denominator",
			a:    map[string]float64{"P1": 3, "P2": 3, "P3": 3},
			b:    map[string]float64{"P1": 1, "P2": 4, "P3": 5},
			want: 0,
		},
		{
			name: "perfect negative correlation",
			a:    map[string]float64{"P1": 1, "P2": 2, "P3": 3},
			b:    map[string]float64{"P1": 3, "P2": 2, "P3": 1},
			want: -1,
		},
		{
			name: "ignores non-shared items",
			a:    map[string]float64{"P1": 5, "P2": 3, "P3": 4, "P7": 1},
			b:    map[string]float64{"P1": 4, "P2": 2, "P3": 5, "P8": 5},
			want: 0.655,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pearson(tt.a, tt.b)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Pearson() = %f, want %f", got, tt.want)
			}
			if rev := Pearson(tt.b, tt.a); rev != got {
				t.Errorf("Pearson not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestPearsonWithOverlap(t *testing.T) {
	a := map[string]float64{"P1": 5, "P2": 3, "P3": 4}
	b := map[string]float64{"P1": 4, "P2": 2, "P3": 5}

	if got := PearsonWithOverlap(a, b, 4); got != 0 {
		t.Errorf("PearsonWithOverlap(min=4) = %f, want 0", got)
	}
	if got := PearsonWithOverlap(a, b, 0); math.Abs(got-0.655) > tolerance {
		t.Errorf("PearsonWithOverlap(min=0) = %f, want 0.655 (floor of 2 applies)", got)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{
			name: "three common raters",
			a:    map[string]float64{"u1": 5, "u2": 4, "u3": 3},
			b:    map[string]float64{"u1": 4, "u2": 5, "u3": 2},
			want: 0.970,
		},
		{
			name: "restricted to common raters",
			a:    map[string]float64{"u1": 5, "u2": 4, "u3": 3, "u4": 5},
			b:    map[string]float64{"u1": 4, "u2": 5, "u3": 2, "u5": 1},
			want: 0.970,
		},
		{
			name: "no common raters",
			a:    map[string]float64{"u1": 5},
			b:    map[string]float64{"u2": 5},
			want: 0,
		},
		{
			name: "zero norm",
			a:    map[string]float64{"u1": 0, "u2": 0},
			b:    map[string]float64{"u1": 3, "u2": 4},
			want: 0,
		},
		{
			name: "identical vectors",
			a:    map[string]float64{"u1": 2, "u2": 4},
			b:    map[string]float64{"u1": 2, "u2": 4},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Cosine() = %f, want %f", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Cosine() = %f, outside [0, 1]", got)
			}
		})
	}
}

func TestCulturalSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 recommend.Profile
		want   float64
	}{
		{
			name: "identical profiles",
			p1:   recommend.Profile{Region: "in-south", Language: "ta", CulturalTags: []string{"pongal", "veg"}},
			p2:   recommend.Profile{Region: "in-south", Language: "ta", CulturalTags: []string{"veg", "pongal"}},
			want: 1,
		},
		{
			name: "region only",
			p1:   recommend.Profile{Region: "in-south", Language: "ta"},
			p2:   recommend.Profile{Region: "in-south", Language: "ml"},
			want: 1.0 / 3,
		},
		{
			name: "half tag overlap",
			p1:   recommend.Profile{CulturalTags: []string{"a", "b"}},
			p2:   recommend.Profile{CulturalTags: []string{"b", "c", "a", "d"}},
			want: 0.5 / 3,
		},
		{
			name: "empty profiles never match",
			p1:   recommend.Profile{},
			p2:   recommend.Profile{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CulturalSimilarity(tt.p1, tt.p2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CulturalSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestUserSimilarity(t *testing.T) {
	cfg := recommend.DefaultConfig().Similarity
	ratingsA := map[string]float64{"P1": 5, "P2": 3, "P3": 4}
	ratingsB := map[string]float64{"P1": 4, "P2": 2, "P3": 5}
	same := recommend.Profile{Region: "id-java", Language: "id", CulturalTags: []string{"batik"}}

	t.Run("no profile overlap keeps raw correlation", func(t *testing.T) {
		got := UserSimilarity(
			recommend.User{ID: "A", Ratings: ratingsA},
			recommend.User{ID: "B", Ratings: ratingsB},
			cfg,
		)
		if math.Abs(got-Pearson(ratingsA, ratingsB)) > 1e-12 {
			t.Errorf("UserSimilarity() = %f, want raw Pearson", got)
		}
	})

	t.Run("full profile match boosts by ten percent", func(t *testing.T) {
		got := UserSimilarity(
			recommend.User{ID: "A", Ratings: ratingsA, Profile: same},
			recommend.User{ID: "B", Ratings: ratingsB, Profile: same},
			cfg,
		)
		want := Pearson(ratingsA, ratingsB) * 1.1
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("UserSimilarity() = %f, want %f", got, want)
		}
	})

	t.Run("boosted perfect correlation is clamped", func(t *testing.T) {
		r := map[string]float64{"P1": 1, "P2": 3, "P3": 5}
		got := UserSimilarity(
			recommend.User{ID: "A", Ratings: r, Profile: same},
			recommend.User{ID: "B", Ratings: r, Profile: same},
			cfg,
		)
		if got != 1 {
			t.Errorf("UserSimilarity() = %f, want 1", got)
		}
	})

	t.Run("boosted negative correlation is clamped", func(t *testing.T) {
		got := UserSimilarity(
			recommend.User{ID: "A", Ratings: map[string]float64{"P1": 1, "P2": 3, "P3": 5}, Profile: same},
			recommend.User{ID: "B", Ratings: map[string]float64{"P1": 5, "P2": 3, "P3": 1}, Profile: same},
			cfg,
		)
		if got != -1 {
			t.Errorf("UserSimilarity() = %f, want -1", got)
		}
	})
}

func TestJaccard(t *testing.T) {
	if got := Jaccard(nil, nil); got != 0 {
		t.Errorf("Jaccard(nil, nil) = %f, want 0", got)
	}
	if got := Jaccard([]string{"a", "a"}, []string{"a"}); got != 1 {
		t.Errorf("Jaccard with duplicates = %f, want 1", got)
	}
}
