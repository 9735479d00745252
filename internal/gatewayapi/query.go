// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gatewayapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/llmprovider"
)

// QueryRequest is the POST /query body, spec.md §6.
type QueryRequest struct {
	Query       string               `json:"query" binding:"required"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
	Analysis    analysis.RawAnalysis `json:"analysis"`
	UserID      string               `json:"user_id"`
}

// QueryResponse is the POST /query response shape, spec.md §6.
type QueryResponse struct {
	Response        string   `json:"response"`
	Cached          bool     `json:"cached"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	TokensUsed      int      `json:"tokens_used"`
	TokensSaved     int64    `json:"tokens_saved"`
	Cost            float64  `json:"cost"`
	CostSaved       float64  `json:"cost_saved"`
	LatencyMs       int64    `json:"latency_ms"`
	ThresholdUsed   float64  `json:"threshold_used"`
}

// requestTimeout bounds how long a miss waits on its batch to close and
// execute, so a pathological configuration (no further arrivals, a huge
// wait bound) cannot hang an HTTP handler forever.
const requestTimeout = 30 * time.Second

// Query handles POST /query: a cache lookup first, falling through to
// routing + batching + LLM invocation on a miss, per spec.md §2's data
// flow.
func (g *Gateway) Query(c *gin.Context) {
	start := time.Now()

	var body QueryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = defaultMaxTokens
	}
	if body.Temperature == 0 {
		body.Temperature = defaultTemperature
	}

	lookup := g.Cache.Lookup(body.Query)
	if lookup.Hit {
		tokensSaved := int64(lookup.Entry.InputTokens + lookup.Entry.OutputTokens)
		costSaved := lookup.Entry.Cost
		g.Cache.RecordHit(lookup.Entry, lookup.Similarity, tokensSaved, costSaved)

		if rec, ran := g.Optimizer.MaybeOptimize(); ran {
			logOptimization(rec)
		}

		sim := lookup.Similarity
		c.JSON(http.StatusOK, QueryResponse{
			Response:        lookup.Entry.ResponseText,
			Cached:          true,
			SimilarityScore: &sim,
			TokensSaved:     tokensSaved,
			CostSaved:       costSaved,
			LatencyMs:       time.Since(start).Milliseconds(),
			ThresholdUsed:   lookup.ThresholdUsed,
		})
		return
	}

	a := g.Parser.Parse(body.Analysis)
	selectedModel, _ := g.Router.Select(a)

	req := analysis.Request{
		RequestID:     newRequestID(),
		CreatedAtMs:   nowMs(),
		QueryText:     body.Query,
		Analysis:      a,
		InputTokens:   llmprovider.EstimateTokens(body.Query),
		UserID:        body.UserID,
		SelectedModel: selectedModel,
	}

	resultCh := g.registerPending(req.RequestID)
	closed := g.Batcher.Add(req, req.CreatedAtMs)
	if len(closed) > 0 {
		g.executeBatches(c.Request.Context(), closed)
	}

	bestExistingSimilarity := lookup.Similarity

	select {
	case result := <-resultCh:
		g.finishMiss(c, start, lookup.ThresholdUsed, bestExistingSimilarity, req, result)
	case <-time.After(requestTimeout):
		g.takePending(req.RequestID)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timed out waiting for batch to close", "request_id": req.RequestID})
	case <-c.Request.Context().Done():
		g.takePending(req.RequestID)
	}
}

func (g *Gateway) finishMiss(c *gin.Context, start time.Time, thresholdUsed float64, bestExistingSimilarity float64, req analysis.Request, result batchResult) {
	if result.err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": result.err.Error(), "request_id": req.RequestID})
		return
	}

	g.Cache.RecordMiss(int64(result.response.InputTokens+result.response.OutputTokens), result.response.Cost)
	g.Cache.Admit(req.QueryText, result.response.Text, result.response.InputTokens, result.response.OutputTokens, result.response.Cost, &bestExistingSimilarity)

	if rec, ran := g.Optimizer.MaybeOptimize(); ran {
		logOptimization(rec)
	}

	c.JSON(http.StatusOK, QueryResponse{
		Response:      result.response.Text,
		Cached:        false,
		TokensUsed:    result.response.InputTokens + result.response.OutputTokens,
		Cost:          result.response.Cost,
		LatencyMs:     time.Since(start).Milliseconds(),
		ThresholdUsed: thresholdUsed,
	})
}
