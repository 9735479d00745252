// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package gatewayapi wires the cache, router, batcher, and LLM provider
// collaborators into the inbound HTTP surface from spec.md §6, grounded on
// the teacher's internal/api handler shape: a Handler-like struct holding
// its collaborators, one method per gin route.
package gatewayapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/batcher"
	"github.com/traylinx/semantic-gateway/internal/cache"
	"github.com/traylinx/semantic-gateway/internal/catalog"
	"github.com/traylinx/semantic-gateway/internal/llmprovider"
	"github.com/traylinx/semantic-gateway/internal/optimizer"
	"github.com/traylinx/semantic-gateway/internal/router"
)

// deadlineTick is how often the background task wakes to flush batches
// whose wait bound has elapsed, matching spec.md §5's "coarse granularity
// (e.g., every 10 ms)".
const deadlineTick = 10 * time.Millisecond

// batchResult is what a batch execution resolves each pending request to.
type batchResult struct {
	response    llmprovider.Response
	inputTokens int
	err         error
}

// Gateway owns every collaborator the request handler needs and the
// background deadline task that drives the batcher's time-based close
// trigger (spec.md §5: "one long-lived task for the batch deadline
// timer").
type Gateway struct {
	Cache     *cache.Cache
	Router    *router.Router
	Batcher   *batcher.Batcher
	Optimizer *optimizer.Optimizer
	Catalog   *catalog.Catalog
	LLM       llmprovider.Provider
	Parser    *analysis.Parser

	pendingMu sync.Mutex
	pending   map[string]chan batchResult

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a Gateway. Call Start to begin the deadline task; call Stop
// to shut it down cleanly.
func New(c *cache.Cache, r *router.Router, b *batcher.Batcher, o *optimizer.Optimizer, cat *catalog.Catalog, llm llmprovider.Provider) *Gateway {
	return &Gateway{
		Cache:     c,
		Router:    r,
		Batcher:   b,
		Optimizer: o,
		Catalog:   cat,
		LLM:       llm,
		Parser:    analysis.NewParser(),
		pending:   make(map[string]chan batchResult),
		stop:      make(chan struct{}),
	}
}

// Start launches the background deadline task. Safe to call once.
func (g *Gateway) Start() {
	g.wg.Add(1)
	go g.runDeadlineLoop()
}

// Stop signals the deadline task to exit and waits for it to do so.
func (g *Gateway) Stop() {
	close(g.stop)
	g.wg.Wait()
}

func (g *Gateway) runDeadlineLoop() {
	defer g.wg.Done()
	ticker := time.NewTicker(deadlineTick)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			closed := g.Batcher.FlushDue(nowMs())
			if len(closed) > 0 {
				go g.executeBatches(context.Background(), closed)
			}
		}
	}
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// registerPending creates a fresh result channel for a request,
// so the deadline task and the Add-triggered close path both know where
// to deliver a batch's outcome.
func (g *Gateway) registerPending(requestID string) chan batchResult {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	ch := make(chan batchResult, 1)
	g.pending[requestID] = ch
	return ch
}

func (g *Gateway) takePending(requestID string) (chan batchResult, bool) {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	ch, ok := g.pending[requestID]
	if ok {
		delete(g.pending, requestID)
	}
	return ch, ok
}

// executeBatches runs every request in every closed batch against the LLM
// provider and resolves each request's pending channel. Batches close
// independently of which request's HTTP handler happens to be waiting, so
// this may resolve requests belonging to other in-flight handlers.
func (g *Gateway) executeBatches(ctx context.Context, batches []*batcher.Batch) {
	for _, b := range batches {
		for _, req := range b.Requests {
			resp, err := g.LLM.Generate(ctx, b.ModelName, req.QueryText, defaultMaxTokens, defaultTemperature)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"model":      b.ModelName,
					"request_id": req.RequestID,
				}).Warn("gatewayapi: llm invocation failed")
			}
			if ch, ok := g.takePending(req.RequestID); ok {
				ch <- batchResult{response: resp, inputTokens: req.InputTokens, err: err}
				close(ch)
			}
		}
	}
}

const (
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

// newRequestID generates a fresh request id the way the teacher's
// executors stamp synthetic completion ids (uuid.New().String()).
func newRequestID() string {
	return uuid.New().String()
}
