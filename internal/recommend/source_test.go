// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAlgorithm_String(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want string
	}{
		{AlgorithmNeighborBased, "neighbor-based"},
		{AlgorithmPeerItemBased, "peer-item-based"},
		{AlgorithmContentBased, "content-based"},
		{AlgorithmHybrid, "hybrid"},
		{Algorithm(0), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.alg.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if tt.want == "unknown" {
				return
			}
			parsed, err := ParseAlgorithm(tt.want)
			if err != nil || parsed != tt.alg {
				t.Errorf("ParseAlgorithm(%q) = %v, %v", tt.want, parsed, err)
			}
		})
	}

	if _, err := ParseAlgorithm("random"); err == nil {
		t.Error("ParseAlgorithm(random) = nil error, want error")
	}
}

func TestSource_Variants(t *testing.T) {
	tests := []struct {
		src  Source
		want Algorithm
	}{
		{NeighborSource{Support: 3}, AlgorithmNeighborBased},
		{PeerItemSource{Support: 1}, AlgorithmPeerItemBased},
		{ContentSource{}, AlgorithmContentBased},
		{HybridSource{}, AlgorithmHybrid},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := tt.src.Algorithm(); got != tt.want {
				t.Errorf("Algorithm() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecommendation_JSON(t *testing.T) {
	in := Recommendation{
		ItemID:      "P1",
		Score:       0.76,
		Confidence:  0.9,
		Explanation: "liked by neighbors; matches your style",
		Context:     ContextBreakdown{CulturalRelevance: 0.8, FestivalAlignment: 0.5},
		Source: HybridSource{
			Collaborative: 0.8,
			Content:       0.7,
			Contributors:  []Algorithm{AlgorithmNeighborBased, AlgorithmContentBased},
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"algorithm":"hybrid"`) {
		t.Errorf("JSON %s missing algorithm tag", data)
	}
	if !strings.Contains(string(data), `"contributors":["neighbor-based","content-based"]`) {
		t.Errorf("JSON %s missing contributors", data)
	}

	var out Recommendation
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	src, ok := out.Source.(HybridSource)
	if !ok {
		t.Fatalf("Source = %T, want HybridSource", out.Source)
	}
	if src.Collaborative != 0.8 || len(src.Contributors) != 2 {
		t.Errorf("Source = %+v", src)
	}
	if out.Context != in.Context || out.ItemID != in.ItemID {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestRecommendation_UnmarshalUnknownAlgorithm(t *testing.T) {
	var r Recommendation
	err := json.Unmarshal([]byte(`{"item_id":"x","algorithm":"bandit"}`), &r)
	if err == nil {
		t.Error("Unmarshal() = nil, want error for unknown algorithm")
	}
}
