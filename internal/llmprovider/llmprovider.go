// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package llmprovider defines the gateway's provider-agnostic invocation
// contract, grounded on the model-selection prototype's execute_and_log
// (model_selection_and_logging/executor.go) and llm_service.go: given a
// model name and a prompt, produce response text plus the token counts
// and dollar cost needed to update the cache's metrics and admission
// decision.
package llmprovider

import (
	"context"
	"fmt"
)

// Response is the outcome of one model invocation.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// Provider executes a prompt against a named model. Implementations are
// expected to be safe for concurrent use; the gateway calls Generate from
// multiple request goroutines and from the batcher's flush path.
type Provider interface {
	Generate(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (Response, error)
}

// PricingEntry is one model's per-token cost, priced per million tokens
// to match the providers' own quoting convention (executor.py's
// input_cost_per_1m/output_cost_per_1m).
type PricingEntry struct {
	InputCostPer1M  float64
	OutputCostPer1M float64
}

// PricingTable maps model name to its pricing entry.
type PricingTable map[string]PricingEntry

// Cost computes the dollar cost of a call against model, returning 0 if
// the model has no pricing entry (an unpriced model should never block a
// request, it should just be free to the metrics layer).
func (t PricingTable) Cost(model string, inputTokens, outputTokens int) float64 {
	entry, ok := t[model]
	if !ok {
		return 0
	}
	inputCost := (float64(inputTokens) / 1_000_000) * entry.InputCostPer1M
	outputCost := (float64(outputTokens) / 1_000_000) * entry.OutputCostPer1M
	return inputCost + outputCost
}

// EstimateTokens roughly approximates a token count from character count,
// matching llm_service.py's estimate_tokens (1 token ≈ 4 characters). Used
// to size a request before the real invocation reports exact counts.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}

// ErrUnsupportedModel is returned by implementations that receive a model
// name they have no execution path for, mirroring executor.py's
// "unsupported_provider" status for non-Gemini models.
type ErrUnsupportedModel struct {
	Model string
}

func (e *ErrUnsupportedModel) Error() string {
	return fmt.Sprintf("llmprovider: model %q has no registered execution path", e.Model)
}
