// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache implements the adaptive semantic cache from spec.md §4.1:
// a bounded, content-addressed store keyed by embedding similarity, with
// adaptive per-length-bucket thresholds and value-based (not LRU)
// eviction. It generalizes the teacher's SemanticCache — same flat
// index-over-unit-vectors shape and sync.RWMutex discipline — onto the
// admission/value-scoring rules from the adaptive-cache prototype
// (dynamic_cache/cache_manager.go, cache_policy.py).
package cache

// ThresholdConfig holds the adaptive similarity thresholds bucketed by
// query length, per spec.md §4.1.
type ThresholdConfig struct {
	Short  float64
	Medium float64
	Long   float64
}

// DefaultThresholds matches dynamic_cache/config.py's initial values.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{Short: 0.92, Medium: 0.88, Long: 0.84}
}

// Config bundles every tunable the cache and its admission policy, value
// scoring, and optimizer consult.
type Config struct {
	MaxSize int

	ShortQueryMaxLen  int
	MediumQueryMaxLen int
	Thresholds        ThresholdConfig

	MinTokensToCache    int
	MaxTokensToCache    int
	MinCostToCache      float64
	SimilarityCoverage  float64
	EvictionPercentage  float64
	EvictionLogCapacity int

	WeightFrequency   float64
	WeightRecency     float64
	WeightSimilarity  float64
	WeightTokensSaved float64
}

// DefaultConfig matches dynamic_cache/config.py's Config defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize: 10000,

		ShortQueryMaxLen:  50,
		MediumQueryMaxLen: 200,
		Thresholds:        DefaultThresholds(),

		MinTokensToCache:    10,
		MaxTokensToCache:    4000,
		MinCostToCache:      0.000001,
		SimilarityCoverage:  0.98,
		EvictionPercentage:  0.10,
		EvictionLogCapacity: 1000,

		WeightFrequency:   0.35,
		WeightRecency:     0.20,
		WeightSimilarity:  0.25,
		WeightTokensSaved: 0.20,
	}
}
