// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"encoding/json"
	"fmt"
)

// Algorithm tags the strategy that produced a candidate or result.
type Algorithm int

const (
	// AlgorithmNeighborBased scores from similar users' positive ratings.
	AlgorithmNeighborBased Algorithm = iota + 1

	// AlgorithmPeerItemBased scores from items similar to ones the user liked.
	AlgorithmPeerItemBased

	// AlgorithmContentBased scores come from the external content scorer.
	AlgorithmContentBased

	// AlgorithmHybrid is the tag of every merged result.
	AlgorithmHybrid
)

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNeighborBased:
		return "neighbor-based"
	case AlgorithmPeerItemBased:
		return "peer-item-based"
	case AlgorithmContentBased:
		return "content-based"
	case AlgorithmHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a < AlgorithmNeighborBased || a > AlgorithmHybrid {
		return nil, fmt.Errorf("unknown algorithm %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm parses the string form of an algorithm tag.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "neighbor-based":
		return AlgorithmNeighborBased, nil
	case "peer-item-based":
		return AlgorithmPeerItemBased, nil
	case "content-based":
		return AlgorithmContentBased, nil
	case "hybrid":
		return AlgorithmHybrid, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", s)
	}
}

// Source is the evidence behind a candidate or result. It is a closed set:
// NeighborSource, PeerItemSource, ContentSource and HybridSource.
type Source interface {
	Algorithm() Algorithm
	isSource()
}

// NeighborSource is the evidence of a neighbor-based candidate.
type NeighborSource struct {
	// Support is the number of similar users that vouched for the item.
	Support int `json:"support"`
}

// PeerItemSource is the evidence of a peer-item-based candidate.
type PeerItemSource struct {
	// Support is the number of liked items the candidate is similar to.
	Support int `json:"support"`
}

// ContentSource is the evidence of a content-based candidate.
type ContentSource struct{}

// HybridSource is the evidence of a merged result.
type HybridSource struct {
	// Collaborative is the collaborative score before weighting.
	Collaborative float64 `json:"collaborative"`

	// Content is the content score before weighting.
	Content float64 `json:"content"`

	// Contributors lists the sources that scored the item, in fixed order.
	Contributors []Algorithm `json:"contributors"`
}

func (NeighborSource) Algorithm() Algorithm { return AlgorithmNeighborBased }
func (PeerItemSource) Algorithm() Algorithm { return AlgorithmPeerItemBased }
func (ContentSource) Algorithm() Algorithm  { return AlgorithmContentBased }
func (HybridSource) Algorithm() Algorithm   { return AlgorithmHybrid }

func (NeighborSource) isSource() {}
func (PeerItemSource) isSource() {}
func (ContentSource) isSource()  {}
func (HybridSource) isSource()   {}

// recommendationJSON is the wire form of Recommendation.
type recommendationJSON struct {
	ItemID      string           `json:"item_id"`
	Score       float64          `json:"score"`
	Confidence  float64          `json:"confidence"`
	Algorithm   Algorithm        `json:"algorithm"`
	Explanation string           `json:"explanation,omitempty"`
	Context     ContextBreakdown `json:"context"`
	Source      json.RawMessage  `json:"source,omitempty"`
}

// MarshalJSON emits the algorithm tag alongside the variant's evidence.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	out := recommendationJSON{
		ItemID:      r.ItemID,
		Score:       r.Score,
		Confidence:  r.Confidence,
		Algorithm:   r.Algorithm(),
		Explanation: r.Explanation,
		Context:     r.Context,
	}
	if r.Source != nil {
		raw, err := json.Marshal(r.Source)
		if err != nil {
			return nil, fmt.Errorf("marshal source: %w", err)
		}
		out.Source = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the concrete Source variant from the algorithm tag.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var in recommendationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	src, err := decodeSource(in.Algorithm, in.Source)
	if err != nil {
		return err
	}

	*r = Recommendation{
		ItemID:      in.ItemID,
		Score:       in.Score,
		Confidence:  in.Confidence,
		Explanation: in.Explanation,
		Context:     in.Context,
		Source:      src,
	}
	return nil
}

func decodeSource(alg Algorithm, raw json.RawMessage) (Source, error) {
	var target Source
	switch alg {
	case AlgorithmNeighborBased:
		s := NeighborSource{}
		if err := unmarshalOptional(raw, &s); err != nil {
			return nil, err
		}
		target = s
	case AlgorithmPeerItemBased:
		s := PeerItemSource{}
		if err := unmarshalOptional(raw, &s); err != nil {
			return nil, err
		}
		target = s
	case AlgorithmContentBased:
		target = ContentSource{}
	case AlgorithmHybrid:
		s := HybridSource{}
		if err := unmarshalOptional(raw, &s); err != nil {
			return nil, err
		}
		target = s
	default:
		return nil, fmt.Errorf("unknown algorithm %d", int(alg))
	}
	return target, nil
}

func unmarshalOptional(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal source: %w", err)
	}
	return nil
}
