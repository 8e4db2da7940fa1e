// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/bazaar/internal/cache"
	"github.com/tomtom215/bazaar/internal/recommend"
)

// ErrNotBoolean is returned for expressions that do not evaluate to bool.
var ErrNotBoolean = errors.New("filter expression must return bool")

const (
	defaultProgramCacheSize = 256
	defaultCostLimit        = 10000
)

// Config configures a CEL filter.
type Config struct {
	// CacheSize is the number of compiled programs kept.
	CacheSize int

	// CostLimit bounds the evaluation cost of one expression per item.
	CostLimit uint64
}

// CEL compiles candidate filter expressions written in the Common
// Expression Language. It implements recommend.CandidateFilter.
//
// Each expression sees a single variable, item:
//
//	item.id                      string
//	item.features                map(string, double)
//	item.tags                    list(string)
//	item.flags                   map(string, bool)
//	item.regional_popularity     map(string, double)
//	item.cultural_relevance      double
//
// Examples:
//
//	"diwali" in item.tags
//	has(item.flags.locally_sourced) && item.flags.locally_sourced
//	item.cultural_relevance >= 0.5 && !item.id.startsWith("gift-")
type CEL struct {
	env       *cel.Env
	costLimit uint64
	programs  *cache.LRU[cel.Program]
}

// NewCEL creates the CEL environment.
func NewCEL(cfg Config) (*CEL, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultProgramCacheSize
	}
	if cfg.CostLimit == 0 {
		cfg.CostLimit = defaultCostLimit
	}

	env, err := cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}

	return &CEL{
		env:       env,
		costLimit: cfg.CostLimit,
		programs:  cache.NewLRU[cel.Program](cfg.CacheSize, 24*time.Hour),
	}, nil
}

// Compile implements recommend.CandidateFilter. Compiled programs are
// cached by expression text.
func (f *CEL) Compile(expr string) (func(item *recommend.Item) (bool, error), error) {
	prg, ok := f.programs.Get(expr)
	if !ok {
		var err error
		prg, err = f.compile(expr)
		if err != nil {
			return nil, err
		}
		f.programs.Add(expr, prg)
	}

	return func(item *recommend.Item) (bool, error) {
		out, _, err := prg.Eval(map[string]any{"item": itemInput(item)})
		if err != nil {
			return false, fmt.Errorf("eval: %w", err)
		}
		result, isBool := out.Value().(bool)
		if !isBool {
			return false, fmt.Errorf("%w, got %T", ErrNotBoolean, out.Value())
		}
		return result, nil
	}, nil
}

func (f *CEL) compile(expr string) (cel.Program, error) {
	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w, got %s", ErrNotBoolean, t)
	}

	prg, err := f.env.Program(ast, cel.CostLimit(f.costLimit))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	return prg, nil
}

// itemInput exposes an item to CEL. Nil collections become empty ones so
// `in` and size() work without has() guards.
func itemInput(item *recommend.Item) map[string]any {
	features := item.Features
	if features == nil {
		features = map[string]float64{}
	}
	tags := item.Context.Tags
	if tags == nil {
		tags = []string{}
	}
	flags := item.Context.Flags
	if flags == nil {
		flags = map[string]bool{}
	}
	popularity := item.Context.RegionalPopularity
	if popularity == nil {
		popularity = map[string]float64{}
	}

	return map[string]any{
		"id":                  item.ID,
		"features":            features,
		"tags":                tags,
		"flags":               flags,
		"regional_popularity": popularity,
		"cultural_relevance":  item.Context.CulturalRelevance,
	}
}

var _ recommend.CandidateFilter = (*CEL)(nil)
