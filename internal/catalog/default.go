// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

// Default returns the built-in model catalog used when no catalog file is
// configured. It is a direct port of the MODEL_CATALOG table from the
// original model-selection prototype, carried over unchanged in shape
// (provider, cost tier, latency tier, context window, per-intent strength)
// so that the routing decisions documented in spec.md §8's scenarios stay
// reproducible.
func Default() *Catalog {
	return New([]Model{
		{
			Name: "gpt-3.5-turbo", Provider: "openai", Family: "chat",
			CostTier: CostVeryLow, LatencyTier: LatencyLow, ContextWindow: 16_000,
			StrengthMap: map[string]float64{IntentCoding: 2, IntentReasoning: 2, IntentSummarization: 3, IntentGeneral: 3},
		},
		{
			Name: "gpt-4o-mini", Provider: "openai", Family: "chat",
			CostTier: CostLow, LatencyTier: LatencyLow, ContextWindow: 131_072,
			StrengthMap: map[string]float64{IntentCoding: 3, IntentReasoning: 3, IntentSummarization: 3, IntentGeneral: 3},
		},
		{
			Name: "gpt-4o", Provider: "openai", Family: "chat",
			CostTier: CostMedium, LatencyTier: LatencyMedium, ContextWindow: 131_072,
			StrengthMap: map[string]float64{IntentCoding: 4, IntentReasoning: 4, IntentSummarization: 4, IntentGeneral: 4},
		},
		{
			Name: "gpt-4.1", Provider: "openai", Family: "chat",
			CostTier: CostMediumHigh, LatencyTier: LatencyMedium, ContextWindow: 200_000,
			StrengthMap: map[string]float64{IntentCoding: 5, IntentReasoning: 5, IntentSummarization: 4, IntentGeneral: 5},
		},
		{
			Name: "claude-3-haiku", Provider: "anthropic", Family: "chat",
			CostTier: CostLow, LatencyTier: LatencyLow, ContextWindow: 200_000,
			StrengthMap: map[string]float64{IntentCoding: 3, IntentReasoning: 2, IntentSummarization: 3, IntentGeneral: 3},
		},
		{
			Name: "claude-3.5-sonnet", Provider: "anthropic", Family: "chat",
			CostTier: CostMedium, LatencyTier: LatencyMedium, ContextWindow: 200_000,
			StrengthMap: map[string]float64{IntentCoding: 4, IntentReasoning: 4, IntentSummarization: 4, IntentGeneral: 4},
		},
		{
			Name: "claude-3-opus", Provider: "anthropic", Family: "chat",
			CostTier: CostHigh, LatencyTier: LatencyMedium, ContextWindow: 200_000,
			StrengthMap: map[string]float64{IntentCoding: 5, IntentReasoning: 5, IntentSummarization: 5, IntentGeneral: 5},
		},
		{
			Name: "models/gemini-1.5-flash", Provider: "google", Family: "chat",
			CostTier: CostLow, LatencyTier: LatencyLow, ContextWindow: 1_000_000,
			StrengthMap: map[string]float64{IntentCoding: 3, IntentReasoning: 3, IntentSummarization: 3, IntentGeneral: 3},
		},
		{
			Name: "models/gemini-1.5-pro", Provider: "google", Family: "chat",
			CostTier: CostMedium, LatencyTier: LatencyMedium, ContextWindow: 1_000_000,
			StrengthMap: map[string]float64{IntentCoding: 4, IntentReasoning: 4, IntentSummarization: 4, IntentGeneral: 4},
		},
		{
			Name: "models/gemini-2.5-flash", Provider: "google", Family: "chat",
			CostTier: CostLow, LatencyTier: LatencyLow, ContextWindow: 1_000_000,
			StrengthMap: map[string]float64{IntentCoding: 3, IntentReasoning: 3, IntentSummarization: 3, IntentGeneral: 3},
		},
		{
			Name: "models/gemini-2.5-pro", Provider: "google", Family: "chat",
			CostTier: CostMediumHigh, LatencyTier: LatencyMedium, ContextWindow: 2_000_000,
			StrengthMap: map[string]float64{IntentCoding: 4, IntentReasoning: 5, IntentSummarization: 4, IntentGeneral: 4},
		},
		{
			Name: "deepseek-chat", Provider: "deepseek", Family: "chat",
			CostTier: CostVeryLow, LatencyTier: LatencyLow, ContextWindow: 32_000,
			StrengthMap: map[string]float64{IntentCoding: 2.5, IntentReasoning: 3.0, IntentSummarization: 2.5, IntentGeneral: 2.5},
		},
		{
			Name: "deepseek-reasoner", Provider: "deepseek", Family: "reasoning",
			CostTier: CostMedium, LatencyTier: LatencyMedium, ContextWindow: 64_000,
			StrengthMap: map[string]float64{IntentCoding: 3.5, IntentReasoning: 4.5, IntentSummarization: 3.0, IntentGeneral: 3.5},
		},
		{
			Name: "grok-2-mini", Provider: "xai", Family: "chat",
			CostTier: CostLow, LatencyTier: LatencyLow, ContextWindow: 128_000,
			StrengthMap: map[string]float64{IntentCoding: 3.0, IntentReasoning: 2.8, IntentSummarization: 3.0, IntentGeneral: 3.0},
		},
		{
			Name: "grok-2", Provider: "xai", Family: "chat",
			CostTier: CostMedium, LatencyTier: LatencyMedium, ContextWindow: 128_000,
			StrengthMap: map[string]float64{IntentCoding: 3.8, IntentReasoning: 3.8, IntentSummarization: 3.6, IntentGeneral: 3.7},
		},
	})
}
