// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package similarity

import (
	"math"
	"sort"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// minPearsonOverlap is the smallest overlap a correlation is defined on.
const minPearsonOverlap = 2

// Pearson returns the Pearson correlation of two rating vectors over their
// co-rated keys. It returns 0 when fewer than two keys are shared or when
// either side is constant on the shared keys.
func Pearson(a, b map[string]float64) float64 {
	return PearsonWithOverlap(a, b, minPearsonOverlap)
}

// PearsonWithOverlap is Pearson with a configurable minimum overlap.
// minCommon below 2 is treated as 2.
func PearsonWithOverlap(a, b map[string]float64, minCommon int) float64 {
	if minCommon < minPearsonOverlap {
		minCommon = minPearsonOverlap
	}

	common := commonKeys(a, b)
	n := len(common)
	if n < minCommon {
		return 0
	}

	var sumA, sumB, sumSqA, sumSqB, sumProd float64
	for _, k := range common {
		x, y := a[k], b[k]
		sumA += x
		sumB += y
		sumSqA += x * x
		sumSqB += y * y
		sumProd += x * y
	}

	fn := float64(n)
	num := sumProd - sumA*sumB/fn
	den := math.Sqrt((sumSqA - sumA*sumA/fn) * (sumSqB - sumB*sumB/fn))
	if den == 0 || math.IsNaN(den) {
		return 0
	}

	return neutralize(num / den)
}

// Cosine returns the cosine similarity of two vectors restricted to their
// common keys. It returns 0 when nothing is shared or either norm is zero.
func Cosine(a, b map[string]float64) float64 {
	common := commonKeys(a, b)
	if len(common) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for _, k := range common {
		x, y := a[k], b[k]
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return clamp(neutralize(dot/(math.Sqrt(normA)*math.Sqrt(normB))), -1, 1)
}

// CulturalSimilarity is the unweighted mean of region match, language match
// and the Jaccard overlap of cultural tags. Empty attributes never match.
func CulturalSimilarity(p1, p2 recommend.Profile) float64 {
	var region, language float64
	if p1.Region != "" && p1.Region == p2.Region {
		region = 1
	}
	if p1.Language != "" && p1.Language == p2.Language {
		language = 1
	}
	return (region + language + Jaccard(p1.CulturalTags, p2.CulturalTags)) / 3
}

// Jaccard returns |A ∩ B| / |A ∪ B| of two tag sets, or 0 when both are empty.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// UserSimilarity is the Pearson correlation of two users scaled by
// (1 + culturalSimilarity * cfg.CulturalBoost) and clamped to [-1, 1].
//
//nolint:gocritic // hugeParam: users passed by value, read-only
func UserSimilarity(u1, u2 recommend.User, cfg recommend.SimilarityConfig) float64 {
	raw := PearsonWithOverlap(u1.Ratings, u2.Ratings, cfg.MinCommonItems)
	if raw == 0 {
		return 0
	}

	boosted := raw * (1 + CulturalSimilarity(u1.Profile, u2.Profile)*cfg.CulturalBoost)
	return clamp(neutralize(boosted), -1, 1)
}

// commonKeys returns the sorted keys present in both maps. Sorting keeps
// float accumulation order stable across runs.
func commonKeys(a, b map[string]float64) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func neutralize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
