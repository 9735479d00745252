// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llmprovider

import (
	"context"
	"fmt"
)

// DeterministicProvider fabricates a response without calling any network
// endpoint, for local development and tests — the llmprovider analog of
// embedding.HashProvider: no external dependency, but a real contract
// implementation rather than a mock confined to _test.go files.
type DeterministicProvider struct {
	Pricing PricingTable
}

// NewDeterministicProvider creates a DeterministicProvider using pricing.
func NewDeterministicProvider(pricing PricingTable) *DeterministicProvider {
	return &DeterministicProvider{Pricing: pricing}
}

// Generate echoes back a fixed-shape acknowledgement of the prompt and
// reports an estimated token count, so callers can exercise the cache,
// router, and batcher end to end without a real provider configured.
func (p *DeterministicProvider) Generate(_ context.Context, model, prompt string, maxTokens int, _ float64) (Response, error) {
	text := fmt.Sprintf("[%s] %s", model, prompt)
	if len(text) > maxTokens*4 && maxTokens > 0 {
		text = text[:maxTokens*4]
	}

	inputTokens := EstimateTokens(prompt)
	outputTokens := EstimateTokens(text)
	cost := p.Pricing.Cost(model, inputTokens, outputTokens)

	return Response{Text: text, InputTokens: inputTokens, OutputTokens: outputTokens, Cost: cost}, nil
}
