// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import "time"

// Entry is a stored cache record, matching spec.md §3's "Cache entry".
// It is created by admission, mutated only by the cache on hit, and
// destroyed only by eviction.
type Entry struct {
	QueryText    string
	ResponseText string
	Embedding    []float32

	Hits          int64
	AvgSimilarity float64
	CreatedAt     time.Time
	LastAccessAt  time.Time

	InputTokens  int
	OutputTokens int
	Cost         float64
	TokensSaved  int64
}

// queryBucket classifies a query by character length into the three
// adaptive-threshold buckets from spec.md §4.1.
type queryBucket int

const (
	bucketShort queryBucket = iota
	bucketMedium
	bucketLong
)

func classifyQuery(query string, cfg Config) queryBucket {
	n := len(query)
	switch {
	case n < cfg.ShortQueryMaxLen:
		return bucketShort
	case n < cfg.MediumQueryMaxLen:
		return bucketMedium
	default:
		return bucketLong
	}
}

// value computes the [0,1] value score from spec.md §4.1's "Eviction"
// subsection: a weighted blend of hit frequency, recency, observed
// similarity, and realized token savings.
func value(e *Entry, now time.Time, cfg Config) float64 {
	frequency := min1(float64(e.Hits) / 10.0)

	ageSeconds := now.Sub(e.CreatedAt).Seconds()
	recency := 1.0 - ageSeconds/86400.0
	if recency < 0 {
		recency = 0
	}

	tokensSaved := min1(float64(e.TokensSaved) / 10000.0)

	return cfg.WeightFrequency*frequency +
		cfg.WeightRecency*recency +
		cfg.WeightSimilarity*e.AvgSimilarity +
		cfg.WeightTokensSaved*tokensSaved
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
