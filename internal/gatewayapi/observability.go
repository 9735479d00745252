// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gatewayapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/semantic-gateway/internal/optimizer"
)

// Metrics handles GET /metrics: the global counters, the optimizer
// summary, the cache's current adaptive thresholds, the router's
// configuration, and the number of open batches, per spec.md §6.
func (g *Gateway) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache_metrics":     g.Cache.Metrics().Snapshot(),
		"optimizer_summary": g.Optimizer.Summary(),
		"cache_thresholds":  g.Cache.Thresholds(),
		"router_config":     g.Router.Config(),
		"open_batch_count":  g.Batcher.OpenCount(),
	})
}

// CacheStats handles GET /cache/stats.
func (g *Gateway) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, g.Cache.Stats())
}

// CacheEntries handles GET /cache/entries?limit=N.
func (g *Gateway) CacheEntries(c *gin.Context) {
	limit := parseLimit(c, 0)
	c.JSON(http.StatusOK, gin.H{"entries": g.Cache.Entries(limit)})
}

// CacheClear handles POST /cache/clear.
func (g *Gateway) CacheClear(c *gin.Context) {
	g.Cache.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// EvictionsHistory handles GET /evictions/history?limit=N.
func (g *Gateway) EvictionsHistory(c *gin.Context) {
	limit := parseLimit(c, 100)
	c.JSON(http.StatusOK, gin.H{"evictions": g.Cache.EvictionLog().Recent(limit)})
}

// OptimizerHistory handles GET /optimizer/history.
func (g *Gateway) OptimizerHistory(c *gin.Context) {
	c.JSON(http.StatusOK, g.Optimizer.Summary())
}

func parseLimit(c *gin.Context, defaultLimit int) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultLimit
	}
	return n
}

// logOptimization records an optimization pass at info level, mirroring
// the prototype's logger.info(f"Optimization complete: {actions}").
func logOptimization(rec optimizer.Record) {
	log.WithFields(log.Fields{
		"optimization_number": rec.OptimizationNumber,
		"hit_rate":            rec.HitRate,
		"recommendations":     rec.Recommendations,
	}).Info("gatewayapi: optimization pass complete")
}

// RegisterRoutes wires every handler onto the given gin router group,
// mirroring how the teacher wires internal/api/handlers/management onto
// its engine.
func (g *Gateway) RegisterRoutes(r gin.IRouter) {
	r.POST("/query", g.Query)
	r.GET("/metrics", g.Metrics)
	r.GET("/cache/stats", g.CacheStats)
	r.GET("/cache/entries", g.CacheEntries)
	r.POST("/cache/clear", g.CacheClear)
	r.GET("/evictions/history", g.EvictionsHistory)
	r.GET("/optimizer/history", g.OptimizerHistory)
}
