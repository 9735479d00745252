// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gatewayapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/batcher"
	"github.com/traylinx/semantic-gateway/internal/cache"
	"github.com/traylinx/semantic-gateway/internal/catalog"
	"github.com/traylinx/semantic-gateway/internal/embedding"
	"github.com/traylinx/semantic-gateway/internal/llmprovider"
	"github.com/traylinx/semantic-gateway/internal/optimizer"
	"github.com/traylinx/semantic-gateway/internal/router"
)

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.Default()
	provider := embedding.NewHashProvider(32)

	cacheCfg := cache.DefaultConfig()
	cacheCfg.MinTokensToCache = 0
	cacheCfg.MinCostToCache = 0

	c := cache.New(provider, cacheCfg)
	r := router.New(cat, router.DefaultConfig())
	b := batcher.New(cat, batcher.DefaultConfig())
	opt := optimizer.New(c, optimizer.DefaultConfig())
	llm := llmprovider.NewDeterministicProvider(llmprovider.PricingTable{})

	gw := New(c, r, b, opt, cat, llm)
	gw.Start()
	t.Cleanup(gw.Stop)

	engine := gin.New()
	gw.RegisterRoutes(engine)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return gw, srv
}

func analysisRaw() analysis.RawAnalysis {
	return analysis.RawAnalysis{
		IntentType:           "general",
		ComplexityLevel:      "medium",
		ExpectedOutputLength: "medium",
		LatencyTolerance:     "medium",
	}
}

func postQuery(t *testing.T, srv *httptest.Server, query string) (*http.Response, QueryResponse) {
	t.Helper()
	body, err := json.Marshal(QueryRequest{
		Query:    query,
		Analysis: analysisRaw(),
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/query", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestQueryMissThenHit(t *testing.T) {
	_, srv := newTestGateway(t)

	resp, miss := postQuery(t, srv, "what is the capital of France")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, miss.Cached)
	require.NotEmpty(t, miss.Response)

	resp2, hit := postQuery(t, srv, "what is the capital of France")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.True(t, hit.Cached)
	require.Equal(t, miss.Response, hit.Response)
	require.NotNil(t, hit.SimilarityScore)
}

func TestQueryRejectsMissingQuery(t *testing.T) {
	_, srv := newTestGateway(t)

	resp, err := http.Post(srv.URL+"/query", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpointReportsState(t *testing.T) {
	_, srv := newTestGateway(t)
	postQuery(t, srv, "summarize this document for me please")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Contains(t, out, "cache_metrics")
	require.Contains(t, out, "optimizer_summary")
	require.Contains(t, out, "router_config")
}

func TestCacheStatsAndClear(t *testing.T) {
	_, srv := newTestGateway(t)
	postQuery(t, srv, "write a poem about the ocean please")

	resp, err := http.Get(srv.URL + "/cache/stats")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	clearResp, err := http.Post(srv.URL+"/cache/clear", "application/json", nil)
	require.NoError(t, err)
	clearResp.Body.Close()
	require.Equal(t, http.StatusOK, clearResp.StatusCode)

	// After clearing, the identical query must miss again rather than hit.
	_, second := postQuery(t, srv, "write a poem about the ocean please")
	require.False(t, second.Cached)
}

func TestQueryWaitsForDeadlineFlush(t *testing.T) {
	start := time.Now()
	_, srv := newTestGateway(t)
	_, out := postQuery(t, srv, "a lone request with nothing else batched alongside it")
	require.False(t, out.Cached)
	require.Less(t, time.Since(start), requestTimeout)
}
