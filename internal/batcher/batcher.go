// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package batcher

import (
	"fmt"
	"sync"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/catalog"
)

// Close reasons a Batch can report, matching spec.md §4.3.
const (
	ReasonSize  = "size"
	ReasonToken = "tokens"
	ReasonTime  = "time"
	ReasonForce = "force"
)

// Batch groups requests routed to the same model, closed by whichever
// threshold in Policy trips first.
type Batch struct {
	ID          string
	ModelName   string
	CreatedAtMs int64
	ClosedAtMs  int64
	CloseReason string

	Requests             []analysis.Request
	TotalInputTokens     int
	TotalEffectiveTokens int
}

// Size returns the number of requests currently in the batch.
func (b *Batch) Size() int { return len(b.Requests) }

// MaxWaitMs returns how long the batch stayed open, or 0 if still open.
func (b *Batch) MaxWaitMs() int64 {
	if b.ClosedAtMs == 0 {
		return 0
	}
	if w := b.ClosedAtMs - b.CreatedAtMs; w > 0 {
		return w
	}
	return 0
}

// Batcher keeps one open Batch per model name and closes them by size,
// token budget, or adaptive deadline. A single mutex guards the open-batch
// map, matching the teacher's single-exclusive-section style for small
// shared maps rather than per-key locking (spec §5).
type Batcher struct {
	mu      sync.Mutex
	cfg     Config
	catalog *catalog.Catalog
	open    map[string]*Batch
	nextID  int64
}

// New creates a Batcher backed by the given model catalog, used to tune
// per-model batch policy.
func New(cat *catalog.Catalog, cfg Config) *Batcher {
	return &Batcher{
		cfg:     cfg,
		catalog: cat,
		open:    make(map[string]*Batch),
	}
}

func (b *Batcher) newBatch(model string, nowMs int64) *Batch {
	b.nextID++
	return &Batch{
		ID:          fmt.Sprintf("batch-%d", b.nextID),
		ModelName:   model,
		CreatedAtMs: nowMs,
	}
}

func (b *Batcher) policyForRequest(req analysis.Request) Policy {
	model, ok := b.catalog.Lookup(req.SelectedModel)
	if !ok {
		model = catalog.Model{}
	}
	return PolicyFor(model, req.Analysis, b.cfg)
}

// policyForOpenBatch derives the policy for an already-open batch from its
// first request, the prototype's "conservative choice" for a stable wait
// deadline rather than re-deriving it per request.
func (b *Batcher) policyForOpenBatch(batch *Batch) Policy {
	if len(batch.Requests) == 0 {
		return Policy{
			MaxWaitMs:      b.cfg.BaseWaitMs,
			MaxBatchSize:   b.cfg.DefaultMaxBatchSize,
			MaxBatchTokens: b.cfg.DefaultMaxBatchTokens,
		}
	}
	return b.policyForRequest(batch.Requests[0])
}

// FlushDue closes any open batch whose adaptive deadline has elapsed as of
// nowMs, returning the closed batches in no particular model order.
func (b *Batcher) FlushDue(nowMs int64) []*Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushDueLocked(nowMs)
}

func (b *Batcher) flushDueLocked(nowMs int64) []*Batch {
	var closed []*Batch
	for model, batch := range b.open {
		if len(batch.Requests) == 0 {
			continue
		}
		pol := b.policyForOpenBatch(batch)
		if nowMs-batch.CreatedAtMs >= int64(pol.MaxWaitMs) {
			batch.ClosedAtMs = nowMs
			batch.CloseReason = ReasonTime
			closed = append(closed, batch)
			delete(b.open, model)
		}
	}
	return closed
}

// FlushAll force-closes every open batch, used on shutdown or drain.
func (b *Batcher) FlushAll(nowMs int64) []*Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	var closed []*Batch
	for model, batch := range b.open {
		if len(batch.Requests) > 0 {
			batch.ClosedAtMs = nowMs
			if batch.CloseReason == "" {
				batch.CloseReason = ReasonForce
			}
			closed = append(closed, batch)
		}
		delete(b.open, model)
	}
	return closed
}

// Add places req into its model's open batch, creating one if needed, and
// returns any batches that closed as a result (including ones that timed
// out just before req arrived). Requests preserve insertion order within a
// batch, and CreatedAtMs is monotonic across successive batches for the
// same model (spec §4.3 ordering invariants).
func (b *Batcher) Add(req analysis.Request, nowMs int64) []*Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := b.flushDueLocked(nowMs)

	batch, ok := b.open[req.SelectedModel]
	if !ok {
		batch = b.newBatch(req.SelectedModel, nowMs)
		b.open[req.SelectedModel] = batch
	}

	pol := b.policyForRequest(req)
	effTokens := EffectiveTokens(req.InputTokens, req.Analysis.ExpectedOutputLength)

	wouldExceedSize := batch.Size()+1 > pol.MaxBatchSize
	wouldExceedTokens := batch.TotalEffectiveTokens+effTokens > pol.MaxBatchTokens

	if batch.Size() > 0 && (wouldExceedSize || wouldExceedTokens) {
		batch.ClosedAtMs = nowMs
		if wouldExceedSize {
			batch.CloseReason = ReasonSize
		} else {
			batch.CloseReason = ReasonToken
		}
		closed = append(closed, batch)

		batch = b.newBatch(req.SelectedModel, nowMs)
		b.open[req.SelectedModel] = batch
	}

	batch.Requests = append(batch.Requests, req)
	if req.InputTokens > 0 {
		batch.TotalInputTokens += req.InputTokens
	}
	batch.TotalEffectiveTokens += effTokens

	switch {
	case batch.Size() >= pol.MaxBatchSize:
		batch.ClosedAtMs = nowMs
		batch.CloseReason = ReasonSize
		closed = append(closed, batch)
		delete(b.open, req.SelectedModel)
	case batch.TotalEffectiveTokens >= pol.MaxBatchTokens:
		batch.ClosedAtMs = nowMs
		batch.CloseReason = ReasonToken
		closed = append(closed, batch)
		delete(b.open, req.SelectedModel)
	}

	return closed
}

// OpenCount returns the number of currently open batches, for metrics.
func (b *Batcher) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}
