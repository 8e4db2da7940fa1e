// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"math"
	"sort"
	"strings"
)

// collabEntry accumulates the collaborative score of one item.
type collabEntry struct {
	score        float64
	confidence   float64
	explanations []string
	contributors []Algorithm
}

// CombineCollaborative blends neighbor-based and peer-item-based candidates
// into one collaborative candidate per item. A missing source contributes
// zero; an item present in both sums the weighted scores. Confidence is the
// maximum of the contributing sources.
func CombineCollaborative(neighbor, peer []Candidate, neighborWeight, peerWeight float64) []Candidate {
	acc := make(map[string]*collabEntry, len(neighbor)+len(peer))

	add := func(cands []Candidate, weight float64) {
		for i := range cands {
			c := &cands[i]
			e, ok := acc[c.ItemID]
			if !ok {
				e = &collabEntry{}
				acc[c.ItemID] = e
			}
			e.score += weight * finite(c.Score)
			e.confidence = math.Max(e.confidence, clamp01(c.Confidence))
			if c.Explanation != "" {
				e.explanations = append(e.explanations, c.Explanation)
			}
			if c.Source != nil {
				e.contributors = appendAlgorithm(e.contributors, c.Source.Algorithm())
			}
		}
	}
	add(neighbor, neighborWeight)
	add(peer, peerWeight)

	out := make([]Candidate, 0, len(acc))
	for id, e := range acc {
		out = append(out, Candidate{
			ItemID:      id,
			Score:       e.score,
			Confidence:  e.confidence,
			Explanation: strings.Join(e.explanations, "; "),
			Source:      HybridSource{Collaborative: e.score, Contributors: e.contributors},
		})
	}
	sortCandidates(out)
	return out
}

// Merge combines the collaborative and content lists:
//
//	merged = collaborative * w.Collaborative + content * w.Content
//
// An item missing from one list receives zero from it. Every result is
// tagged hybrid and its explanation concatenates both sources.
func Merge(collaborative, content []Candidate, w HybridWeights) []Recommendation {
	type entry struct {
		collab, content         float64
		collabConf, contentConf float64
		collabExpl, contentExpl string
		contributors            []Algorithm
		hasCollab, hasContent   bool
	}

	acc := make(map[string]*entry, len(collaborative)+len(content))
	get := func(id string) *entry {
		e, ok := acc[id]
		if !ok {
			e = &entry{}
			acc[id] = e
		}
		return e
	}

	for i := range collaborative {
		c := &collaborative[i]
		e := get(c.ItemID)
		e.hasCollab = true
		e.collab += finite(c.Score)
		e.collabConf = math.Max(e.collabConf, clamp01(c.Confidence))
		e.collabExpl = joinExplanation(e.collabExpl, c.Explanation)
		e.contributors = appendSourceAlgorithms(e.contributors, c.Source)
	}
	for i := range content {
		c := &content[i]
		e := get(c.ItemID)
		e.hasContent = true
		e.content += finite(c.Score)
		e.contentConf = math.Max(e.contentConf, clamp01(c.Confidence))
		e.contentExpl = joinExplanation(e.contentExpl, c.Explanation)
		e.contributors = appendAlgorithm(e.contributors, AlgorithmContentBased)
	}

	out := make([]Recommendation, 0, len(acc))
	for id, e := range acc {
		conf := 0.0
		if e.hasCollab {
			conf = e.collabConf
		}
		if e.hasContent {
			conf = math.Max(conf, e.contentConf)
		}
		out = append(out, Recommendation{
			ItemID:      id,
			Score:       finite(e.collab*w.Collaborative + e.content*w.Content),
			Confidence:  conf,
			Explanation: joinExplanation(e.collabExpl, e.contentExpl),
			Source: HybridSource{
				Collaborative: e.collab,
				Content:       e.content,
				Contributors:  e.contributors,
			},
		})
	}
	SortRecommendations(out)
	return out
}

// SortRecommendations orders by score descending, then confidence
// descending, then item ID ascending.
func SortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := &recs[i], &recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.ItemID < b.ItemID
	})
}

// sortCandidates orders candidates by score descending then item ID.
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].ItemID < cands[j].ItemID
	})
}

func joinExplanation(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}

// appendSourceAlgorithms records the contributors behind a candidate,
// unwrapping an already-combined collaborative source.
func appendSourceAlgorithms(dst []Algorithm, src Source) []Algorithm {
	switch s := src.(type) {
	case nil:
		return dst
	case HybridSource:
		for _, a := range s.Contributors {
			dst = appendAlgorithm(dst, a)
		}
		return dst
	default:
		return appendAlgorithm(dst, s.Algorithm())
	}
}

// appendAlgorithm adds a to dst once, keeping tag order.
func appendAlgorithm(dst []Algorithm, a Algorithm) []Algorithm {
	for _, existing := range dst {
		if existing == a {
			return dst
		}
	}
	dst = append(dst, a)
	sort.Slice(dst, func(i, j int) bool { return dst[i] < dst[j] })
	return dst
}

// finite neutralizes NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
