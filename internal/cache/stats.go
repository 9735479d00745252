// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"sort"
	"time"
)

// TopQuery summarizes one of the cache's most-hit entries.
type TopQuery struct {
	Query         string  `json:"query"`
	Hits          int64   `json:"hits"`
	TokensSaved   int64   `json:"tokens_saved"`
	AvgSimilarity float64 `json:"avg_similarity"`
}

// ValueDistribution summarizes the spread of value scores currently held
// in the cache, used by the observability surface to spot an impending
// eviction wave before it happens.
type ValueDistribution struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Stats is the read-only reporting shape from spec.md §4.1's stats()
// operation, grounded on cache_manager.py's get_stats.
type Stats struct {
	TotalEntries      int               `json:"total_entries"`
	AvgHitsPerEntry   float64           `json:"avg_hits_per_entry"`
	AvgAgeSeconds     float64           `json:"avg_age_seconds"`
	TopQueries        []TopQuery        `json:"top_queries"`
	ValueDistribution ValueDistribution `json:"value_distribution"`
}

// Stats computes a snapshot of cache composition. Read-only; takes a
// shared lock.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.entries) == 0 {
		return Stats{}
	}

	now := time.Now()
	var totalHits int64
	var totalAge float64
	values := make([]float64, len(c.entries))
	for i, e := range c.entries {
		totalHits += e.Hits
		totalAge += now.Sub(e.CreatedAt).Seconds()
		values[i] = value(e, now, c.cfg)
	}

	sorted := append([]*Entry(nil), c.entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Hits > sorted[j].Hits })
	topN := 5
	if topN > len(sorted) {
		topN = len(sorted)
	}
	top := make([]TopQuery, topN)
	for i := 0; i < topN; i++ {
		e := sorted[i]
		top[i] = TopQuery{
			Query:         truncate(e.QueryText, 100),
			Hits:          e.Hits,
			TokensSaved:   e.TokensSaved,
			AvgSimilarity: e.AvgSimilarity,
		}
	}

	minV, maxV, sumV := values[0], values[0], 0.0
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sumV += v
	}

	return Stats{
		TotalEntries:    len(c.entries),
		AvgHitsPerEntry: float64(totalHits) / float64(len(c.entries)),
		AvgAgeSeconds:   totalAge / float64(len(c.entries)),
		TopQueries:      top,
		ValueDistribution: ValueDistribution{
			Min: minV,
			Max: maxV,
			Avg: sumV / float64(len(values)),
		},
	}
}

// Entries returns up to limit entries in insertion order, for the
// observability /cache/entries endpoint. limit <= 0 means all entries.
func (c *Cache) Entries(limit int) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 || limit > len(c.entries) {
		limit = len(c.entries)
	}
	out := make([]*Entry, limit)
	copy(out, c.entries[:limit])
	return out
}
