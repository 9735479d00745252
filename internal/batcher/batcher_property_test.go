// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package batcher

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/catalog"
)

// TestPropertyRequestsPreserveInsertionOrderWithinABatch exercises spec.md
// §8's batch-ordering invariant: whatever arrival sequence a single model's
// requests come in, a closed batch's Requests slice reflects that same
// sequence.
func TestPropertyRequestsPreserveInsertionOrderWithinABatch(t *testing.T) {
	properties := gopter.NewProperties(nil)
	cat := catalog.New([]catalog.Model{{Name: "steady-model"}})

	properties.Property("Requests appear in the order Add was called", prop.ForAll(
		func(n int) bool {
			cfg := DefaultConfig()
			cfg.DefaultMaxBatchSize = n + 1 // never trip the size trigger mid-run
			cfg.DefaultMaxBatchTokens = 1_000_000
			b := New(cat, cfg)

			var ids []string
			var lastClosed []*Batch
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("req-%d", i)
				ids = append(ids, id)
				req := analysis.Request{
					RequestID:     id,
					SelectedModel: "steady-model",
					InputTokens:   10,
					Analysis:      analysis.Analysis{ExpectedOutputLength: analysis.OutputShort},
				}
				lastClosed = b.Add(req, int64(i))
			}
			_ = lastClosed

			closed := b.FlushAll(int64(n))
			if len(closed) != 1 {
				return n == 0
			}
			got := closed[0].Requests
			if len(got) != len(ids) {
				return false
			}
			for i, id := range ids {
				if got[i].RequestID != id {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyCreatedAtMsIsMonotonicAcrossBatches exercises spec.md §8's
// monotonic-CreatedAtMs invariant: successive batches for the same model
// never report an earlier creation time than the one before it.
func TestPropertyCreatedAtMsIsMonotonicAcrossBatches(t *testing.T) {
	properties := gopter.NewProperties(nil)
	cat := catalog.New([]catalog.Model{{Name: "steady-model"}})

	properties.Property("successive batches for one model have non-decreasing CreatedAtMs", prop.ForAll(
		func(sizeCap int, n int) bool {
			cfg := DefaultConfig()
			cfg.DefaultMaxBatchSize = sizeCap
			cfg.DefaultMaxBatchTokens = 1_000_000
			b := New(cat, cfg)

			var allClosed []*Batch
			for i := 0; i < n; i++ {
				req := analysis.Request{
					RequestID:     fmt.Sprintf("req-%d", i),
					SelectedModel: "steady-model",
					InputTokens:   10,
					Analysis:      analysis.Analysis{ExpectedOutputLength: analysis.OutputShort},
				}
				allClosed = append(allClosed, b.Add(req, int64(i))...)
			}
			allClosed = append(allClosed, b.FlushAll(int64(n))...)

			for i := 1; i < len(allClosed); i++ {
				if allClosed[i].CreatedAtMs < allClosed[i-1].CreatedAtMs {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
