// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package batcher implements the per-model online request batcher from
// spec.md §4.3. It is grounded directly on the prototype's
// model_wise_batching/batcher.py and policy.py: one open Batch per model,
// closed by size, token budget, or a per-request adaptive deadline.
package batcher

import (
	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/catalog"
)

// Config mirrors AdaptiveBatchingConfig from the prototype: interactive
// defaults plus the clamp bounds for the adaptive wait.
type Config struct {
	BaseWaitMs            int
	MinWaitMs             int
	MaxWaitMs             int
	DefaultMaxBatchSize   int
	DefaultMaxBatchTokens int
}

// DefaultConfig matches spec.md §4.3's interactive (chat-like) defaults.
func DefaultConfig() Config {
	return Config{
		BaseWaitMs:            80,
		MinWaitMs:             40,
		MaxWaitMs:             120,
		DefaultMaxBatchSize:   8,
		DefaultMaxBatchTokens: 3000,
	}
}

// Policy holds the thresholds that can close an open batch. Any one of the
// three can trigger a close; whichever condition the batcher observes first
// supplies the close reason.
type Policy struct {
	MaxWaitMs      int
	MaxBatchSize   int
	MaxBatchTokens int
}

// outputLengthFactor approximates the output token cost of a request from
// its expected output length bucket, since only input token_count is known
// at batching time.
func outputLengthFactor(length analysis.OutputLength) float64 {
	switch length {
	case analysis.OutputShort:
		return 0.2
	case analysis.OutputLong:
		return 1.2
	default:
		return 0.6
	}
}

// EffectiveTokens returns the token budget a request charges against a
// batch's max_batch_tokens cap: input tokens inflated by the expected
// output length factor, never less than 1.
func EffectiveTokens(inputTokens int, length analysis.OutputLength) int {
	factor := outputLengthFactor(length)
	eff := int(float64(inputTokens)*(1.0+factor) + 0.5)
	if eff < 1 {
		eff = 1
	}
	return eff
}

// adaptiveWaitMs maps latency tolerance to a deadline, clamped to the
// configured bounds.
func adaptiveWaitMs(tolerance analysis.LatencyTolerance, cfg Config) int {
	var wait int
	switch tolerance {
	case analysis.LatencyLow:
		wait = 50
	case analysis.LatencyHigh:
		wait = 120
	default:
		wait = cfg.BaseWaitMs
	}

	if wait < cfg.MinWaitMs {
		wait = cfg.MinWaitMs
	}
	if wait > cfg.MaxWaitMs {
		wait = cfg.MaxWaitMs
	}
	return wait
}

// PolicyFor derives the batching thresholds for a request, tuning the
// defaults by the destination model's catalog latency and cost tier.
func PolicyFor(model catalog.Model, a analysis.Analysis, cfg Config) Policy {
	pol := Policy{
		MaxWaitMs:      adaptiveWaitMs(a.LatencyTolerance, cfg),
		MaxBatchSize:   cfg.DefaultMaxBatchSize,
		MaxBatchTokens: cfg.DefaultMaxBatchTokens,
	}

	if model.LatencyTier == catalog.LatencyLow {
		pol.MaxBatchSize = max(pol.MaxBatchSize, 12)
		pol.MaxBatchTokens = max(pol.MaxBatchTokens, 4500)
		pol.MaxWaitMs = min(pol.MaxWaitMs, 80)
	}
	if model.LatencyTier == catalog.LatencyMedium {
		pol.MaxBatchSize = min(pol.MaxBatchSize, 8)
		pol.MaxBatchTokens = min(pol.MaxBatchTokens, 5000)
	}
	if model.CostTier == catalog.CostVeryLow || model.CostTier == catalog.CostLow {
		pol.MaxBatchTokens = max(pol.MaxBatchTokens, 5000)
	}
	if model.CostTier == catalog.CostHigh {
		pol.MaxBatchSize = min(pol.MaxBatchSize, 6)
		pol.MaxBatchTokens = min(pol.MaxBatchTokens, 3500)
	}

	return pol
}
