// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llmprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPricing() PricingTable {
	return PricingTable{
		"gpt-test": {InputCostPer1M: 1.0, OutputCostPer1M: 2.0},
	}
}

func TestPricingTableCostForKnownModel(t *testing.T) {
	p := testPricing()
	cost := p.Cost("gpt-test", 1_000_000, 500_000)
	require.InDelta(t, 1.0+1.0, cost, 1e-9)
}

func TestPricingTableCostForUnknownModelIsZero(t *testing.T) {
	p := testPricing()
	require.Equal(t, 0.0, p.Cost("unknown-model", 1000, 1000))
}

func TestEstimateTokensNeverReturnsZero(t *testing.T) {
	require.Equal(t, 1, EstimateTokens(""))
	require.Equal(t, 1, EstimateTokens("hi"))
	require.Equal(t, 2, EstimateTokens("12345678"))
}

func TestDeterministicProviderGeneratesAndCostsAResponse(t *testing.T) {
	p := NewDeterministicProvider(testPricing())
	resp, err := p.Generate(context.Background(), "gpt-test", "what is 2+2", 100, 0.5)
	require.NoError(t, err)
	require.Contains(t, resp.Text, "gpt-test")
	require.Greater(t, resp.InputTokens, 0)
	require.Greater(t, resp.OutputTokens, 0)
	require.GreaterOrEqual(t, resp.Cost, 0.0)
}

func TestErrUnsupportedModelMessage(t *testing.T) {
	err := &ErrUnsupportedModel{Model: "mystery-model"}
	require.Contains(t, err.Error(), "mystery-model")
}
