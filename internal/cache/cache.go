// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"math"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/semantic-gateway/internal/embedding"
	"github.com/traylinx/semantic-gateway/internal/metrics"
)

// LookupResult is returned by Lookup, matching spec.md §4.1's
// lookup(query) -> (hit?, entry?, similarity, threshold_used) contract.
type LookupResult struct {
	Hit           bool
	Entry         *Entry
	Similarity    float64
	ThresholdUsed float64
}

// Cache is the adaptive semantic cache. It keeps one ordered slice of
// entries acting as a flat inner-product index: entry i's embedding is
// the index's i-th vector, so the two structures are always rebuilt
// together (spec.md §4.1's "Indexing"). A single sync.RWMutex guards the
// index, the entry list, the adaptive thresholds, and the eviction log,
// mirroring the teacher's SemanticCache concurrency discipline — lookups
// take a read lock, admission/eviction/threshold updates take a write
// lock (spec.md §5).
type Cache struct {
	mu sync.RWMutex

	provider embedding.Provider
	cfg      Config

	entries    []*Entry
	thresholds ThresholdConfig

	metrics     *metrics.Cache
	evictionLog *metrics.EvictionLog

	requestsSinceOptimize int64
}

// New creates an empty Cache backed by the given embedding provider.
func New(provider embedding.Provider, cfg Config) *Cache {
	return &Cache{
		provider:    provider,
		cfg:         cfg,
		thresholds:  cfg.Thresholds,
		metrics:     &metrics.Cache{},
		evictionLog: metrics.NewEvictionLog(cfg.EvictionLogCapacity),
	}
}

// Metrics returns the cache's global metrics tracker.
func (c *Cache) Metrics() *metrics.Cache { return c.metrics }

// EvictionLog returns the cache's bounded eviction history.
func (c *Cache) EvictionLog() *metrics.EvictionLog { return c.evictionLog }

// adaptiveThreshold returns the similarity bar for a query, classified by
// character length into short/medium/long buckets (spec.md §4.1). Must be
// called with at least a read lock held.
func (c *Cache) adaptiveThreshold(query string) float64 {
	switch classifyQuery(query, c.cfg) {
	case bucketShort:
		return c.thresholds.Short
	case bucketMedium:
		return c.thresholds.Medium
	default:
		return c.thresholds.Long
	}
}

// Lookup searches for a semantically similar cached entry. Embedding
// errors degrade to a miss rather than propagating, per spec.md §4.1's
// failure semantics: a provider outage should never fail a request that
// would otherwise have gotten a cache hit, it should just fall through to
// the LLM.
func (c *Cache) Lookup(query string) LookupResult {
	c.metrics.RecordRequest()

	threshold := c.readThreshold(query)

	queryEmbedding, err := c.provider.Embed(query)
	if err != nil {
		log.WithError(err).Warn("cache: embedding failed during lookup, treating as miss")
		return LookupResult{ThresholdUsed: threshold}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	best, bestSim := c.bestMatchLocked(queryEmbedding)
	if best != nil && bestSim >= threshold {
		return LookupResult{Hit: true, Entry: best, Similarity: bestSim, ThresholdUsed: threshold}
	}
	return LookupResult{Similarity: bestSim, ThresholdUsed: threshold}
}

func (c *Cache) readThreshold(query string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adaptiveThreshold(query)
}

// bestMatchLocked performs the top-1 nearest-neighbor search over the
// flat index. Caller must hold at least a read lock.
func (c *Cache) bestMatchLocked(queryEmbedding []float32) (*Entry, float64) {
	var best *Entry
	bestSim := -1.0

	for _, e := range c.entries {
		sim := c.provider.CosineSimilarity(queryEmbedding, e.Embedding)
		if sim > bestSim {
			best = e
			bestSim = sim
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestSim
}

// Admit applies the admission policy and, if it passes, computes the
// query embedding and stores a new entry, evicting first if the cache is
// full. bestExistingSimilarity is the similarity already observed during
// the request's Lookup, used to suppress near-duplicate storage. Returns
// whether the entry was stored.
func (c *Cache) Admit(query, response string, inputTokens, outputTokens int, cost float64, bestExistingSimilarity *float64) bool {
	totalTokens := inputTokens + outputTokens
	if !shouldAdmit(totalTokens, cost, bestExistingSimilarity, c.cfg) {
		return false
	}

	queryEmbedding, err := c.provider.Embed(query)
	if err != nil {
		log.WithError(err).Warn("cache: embedding failed during admission, skipping cache store")
		return false
	}
	normalizeUnit(queryEmbedding)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.cfg.MaxSize {
		c.evictLocked()
	}

	now := time.Now()
	c.entries = append(c.entries, &Entry{
		QueryText:    query,
		ResponseText: response,
		Embedding:    queryEmbedding,
		CreatedAt:    now,
		LastAccessAt: now,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
	})

	c.metrics.SetSize(len(c.entries))
	return true
}

// normalizeUnit L2-normalizes an embedding in place so the index's inner
// product is a true cosine similarity, per spec.md §4.1's "Indexing".
func normalizeUnit(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(sumSq))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// RecordHit updates an entry after a cache hit: increments hits, bumps
// last_access_at, folds similarity into the running average, and adds to
// tokens_saved, then reflects the savings in global metrics. Matches
// spec.md §4.1's record_hit contract and cache_manager.py's update_hit.
func (c *Cache) RecordHit(e *Entry, similarity float64, tokensSaved int64, costSaved float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.Hits++
	e.LastAccessAt = time.Now()
	e.AvgSimilarity = (e.AvgSimilarity*float64(e.Hits-1) + similarity) / float64(e.Hits)
	e.TokensSaved += tokensSaved

	c.metrics.RecordHit(tokensSaved, costSaved)
}

// RecordMiss records the token/cost spend of an LLM invocation that
// resulted from a cache miss.
func (c *Cache) RecordMiss(tokensUsed int64, cost float64) {
	c.metrics.RecordMiss(tokensUsed, cost)
}

// evictLocked removes the ceil(EvictionPercentage * size) lowest-value
// entries, ties broken by older created_at, and logs each eviction.
// Caller must hold the write lock.
func (c *Cache) evictLocked() {
	n := len(c.entries)
	if n == 0 {
		return
	}
	numToEvict := int(math.Ceil(c.cfg.EvictionPercentage * float64(n)))
	if numToEvict < 1 {
		numToEvict = 1
	}
	if numToEvict > n {
		numToEvict = n
	}

	now := time.Now()
	type scored struct {
		idx   int
		value float64
	}
	scores := make([]scored, n)
	for i, e := range c.entries {
		scores[i] = scored{idx: i, value: value(e, now, c.cfg)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].value != scores[j].value {
			return scores[i].value < scores[j].value
		}
		return c.entries[scores[i].idx].CreatedAt.Before(c.entries[scores[j].idx].CreatedAt)
	})

	toEvict := make(map[int]bool, numToEvict)
	for _, s := range scores[:numToEvict] {
		toEvict[s.idx] = true
		e := c.entries[s.idx]
		c.evictionLog.Append(metrics.EvictionRecord{
			Timestamp:     now,
			QueryPrefix:   truncate(e.QueryText, 100),
			Hits:          e.Hits,
			AgeHours:      now.Sub(e.CreatedAt).Hours(),
			ValueScore:    s.value,
			AvgSimilarity: e.AvgSimilarity,
			TokensSaved:   e.TokensSaved,
			Reason:        "low value score",
		})
	}

	survivors := make([]*Entry, 0, n-numToEvict)
	for i, e := range c.entries {
		if !toEvict[i] {
			survivors = append(survivors, e)
		}
	}
	c.entries = survivors

	c.metrics.RecordEviction(len(c.entries))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Clear drops all entries, resets metrics, and empties the eviction log.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.metrics.Reset()
	c.evictionLog.Clear()
}

// Size returns the current number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Thresholds returns a copy of the current adaptive thresholds.
func (c *Cache) Thresholds() ThresholdConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thresholds
}

// SetThresholds atomically replaces the adaptive thresholds, used by the
// background optimizer.
func (c *Cache) SetThresholds(t ThresholdConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholds = t
}
