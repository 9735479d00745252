// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics holds the gateway's process-local counters: the cache's
// monotonically updated global metrics and the bounded eviction log,
// mirroring the teacher's CacheMetrics struct but widened to the fields
// spec.md §3 names (cost tracking, tokens saved) on top of hit/miss
// counting.
package metrics

import "sync"

// Cache tracks the monotonically updated global counters named in
// spec.md §3. All fields are updated under Cache's own mutex; callers
// should use the accessor methods rather than touch fields directly.
type Cache struct {
	mu sync.Mutex

	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	TokensUsed    int64
	TokensSaved   int64
	CostTotal     float64
	CostSaved     float64
	CacheSize     int
	Evictions     int64
}

// Snapshot is a point-in-time copy of Cache's counters plus derived rates,
// safe to serialize without holding the live lock.
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	CacheHits         int64   `json:"cache_hits"`
	CacheMisses       int64   `json:"cache_misses"`
	HitRate           float64 `json:"hit_rate"`
	TokensUsed        int64   `json:"tokens_used"`
	TokensSaved       int64   `json:"tokens_saved"`
	CostTotal         float64 `json:"cost_total"`
	CostSaved         float64 `json:"cost_saved"`
	CostReductionPct  float64 `json:"cost_reduction_percent"`
	CacheSize         int     `json:"cache_size"`
	Evictions         int64   `json:"evictions"`
}

// RecordRequest increments total_requests. Misses and their LLM token/cost
// spend are counted separately by RecordMiss.
func (c *Cache) RecordRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TotalRequests++
}

// RecordMiss records an LLM invocation's token/cost spend for a cache miss.
func (c *Cache) RecordMiss(tokensUsed int64, cost float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CacheMisses++
	c.TokensUsed += tokensUsed
	c.CostTotal += cost
}

// RecordHit records a cache hit's realized savings.
func (c *Cache) RecordHit(tokensSaved int64, costSaved float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CacheHits++
	c.TokensSaved += tokensSaved
	c.CostSaved += costSaved
}

// RecordEviction records one eviction pass (which may remove several
// entries) and the cache's size afterward.
func (c *Cache) RecordEviction(newSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Evictions++
	c.CacheSize = newSize
}

// SetSize updates the cache-size gauge, for admissions that don't evict.
func (c *Cache) SetSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CacheSize = size
}

// HitRate returns cache_hits / total_requests, or 0 if no requests yet.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitRateLocked()
}

func (c *Cache) hitRateLocked() float64 {
	if c.TotalRequests == 0 {
		return 0
	}
	return float64(c.CacheHits) / float64(c.TotalRequests)
}

// costReductionLocked mirrors the prototype's cost_reduction property:
// cost saved as a percentage of the total cost that would otherwise have
// been spent.
func (c *Cache) costReductionLocked() float64 {
	potential := c.CostTotal + c.CostSaved
	if potential == 0 {
		return 0
	}
	return (c.CostSaved / potential) * 100
}

// Snapshot returns a consistent, lock-free copy of the current counters.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		TotalRequests:    c.TotalRequests,
		CacheHits:        c.CacheHits,
		CacheMisses:      c.CacheMisses,
		HitRate:          c.hitRateLocked(),
		TokensUsed:       c.TokensUsed,
		TokensSaved:      c.TokensSaved,
		CostTotal:        c.CostTotal,
		CostSaved:        c.CostSaved,
		CostReductionPct: c.costReductionLocked(),
		CacheSize:        c.CacheSize,
		Evictions:        c.Evictions,
	}
}

// Reset zeroes every counter, used by cache.Clear.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TotalRequests = 0
	c.CacheHits = 0
	c.CacheMisses = 0
	c.TokensUsed = 0
	c.TokensSaved = 0
	c.CostTotal = 0
	c.CostSaved = 0
	c.CacheSize = 0
	c.Evictions = 0
}
