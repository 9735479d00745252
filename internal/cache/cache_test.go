// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"testing"

	"github.com/traylinx/semantic-gateway/internal/embedding"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinCostToCache = 0
	cfg.MinTokensToCache = 0
	cfg.MaxTokensToCache = 1_000_000
	return cfg
}

func TestAdmitAndLookupExactRepeat(t *testing.T) {
	c := New(embedding.NewHashProvider(32), testConfig())

	ok := c.Admit("what is the capital of france", "Paris", 20, 10, 0.01, nil)
	if !ok {
		t.Fatal("expected admission to succeed")
	}

	result := c.Lookup("what is the capital of france")
	if !result.Hit {
		t.Fatalf("expected exact repeat to hit, got similarity=%v threshold=%v", result.Similarity, result.ThresholdUsed)
	}
}

func TestLookupMissesOnDissimilarQuery(t *testing.T) {
	c := New(embedding.NewHashProvider(32), testConfig())
	c.Admit("what is the capital of france", "Paris", 20, 10, 0.01, nil)

	result := c.Lookup("how do I bake sourdough bread at high altitude")
	if result.Hit {
		t.Fatalf("expected unrelated query to miss, got similarity=%v", result.Similarity)
	}
}

func TestAdmitRejectsBelowMinTokens(t *testing.T) {
	cfg := testConfig()
	cfg.MinTokensToCache = 100
	c := New(embedding.NewHashProvider(32), cfg)

	if c.Admit("short", "ok", 1, 1, 1.0, nil) {
		t.Fatal("expected admission to be rejected for too few tokens")
	}
}

func TestAdmitRejectsCheapResponses(t *testing.T) {
	cfg := testConfig()
	cfg.MinCostToCache = 1.0
	c := New(embedding.NewHashProvider(32), cfg)

	if c.Admit("a reasonably long query text", "response", 20, 20, 0.0001, nil) {
		t.Fatal("expected admission to be rejected for cost below min_cost_to_cache")
	}
}

func TestAdmitRejectsNearDuplicateCoverage(t *testing.T) {
	c := New(embedding.NewHashProvider(32), testConfig())
	sim := 0.99
	if c.Admit("a query with plenty of coverage already", "resp", 20, 20, 1.0, &sim) {
		t.Fatal("expected admission to be rejected when coverage threshold already met")
	}
}

func TestCacheSizeNeverExceedsMaxSize(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSize = 10
	c := New(embedding.NewHashProvider(16), cfg)

	for i := 0; i < 50; i++ {
		c.Admit(fmt.Sprintf("distinct query number %d about topic %d", i, i*7), "resp", 20, 20, 1.0, nil)
		if c.Size() > cfg.MaxSize {
			t.Fatalf("cache size %d exceeded MaxSize %d after admission %d", c.Size(), cfg.MaxSize, i)
		}
	}
}

func TestEvictionPrefersLowValueEntries(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSize = 4
	cfg.EvictionPercentage = 0.25
	c := New(embedding.NewHashProvider(16), cfg)

	for i := 0; i < 4; i++ {
		c.Admit(fmt.Sprintf("query %d with enough tokens to admit", i), "resp", 20, 20, 1.0, nil)
	}

	valuable := c.Entries(0)[0]
	for i := 0; i < 5; i++ {
		c.RecordHit(valuable, 0.95, 500, 0.01)
	}

	c.Admit("a brand new query that forces an eviction pass", "resp", 20, 20, 1.0, nil)

	for _, e := range c.Entries(0) {
		if e == valuable {
			return
		}
	}
	t.Fatal("expected the high-value entry to survive eviction")
}

func TestRecordHitUpdatesRunningAverageSimilarity(t *testing.T) {
	c := New(embedding.NewHashProvider(16), testConfig())
	c.Admit("a sample query with enough tokens", "resp", 20, 20, 1.0, nil)
	entry := c.Entries(0)[0]

	c.RecordHit(entry, 1.0, 10, 0.001)
	c.RecordHit(entry, 0.9, 10, 0.001)

	want := (1.0 + 0.9) / 2
	if diff := entry.AvgSimilarity - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("avg similarity = %v, want %v", entry.AvgSimilarity, want)
	}
	if entry.Hits != 2 {
		t.Fatalf("hits = %d, want 2", entry.Hits)
	}
	if entry.TokensSaved != 20 {
		t.Fatalf("tokens saved = %d, want 20", entry.TokensSaved)
	}
}

func TestClearResetsEverything(t *testing.T) {
	c := New(embedding.NewHashProvider(16), testConfig())
	c.Admit("a query to be cleared shortly after insert", "resp", 20, 20, 1.0, nil)
	c.RecordHit(c.Entries(0)[0], 0.9, 10, 0.01)

	c.Clear()

	if c.Size() != 0 {
		t.Fatalf("expected size 0 after clear, got %d", c.Size())
	}
	if snap := c.Metrics().Snapshot(); snap.TotalRequests != 0 || snap.CacheHits != 0 {
		t.Fatalf("expected metrics reset, got %+v", snap)
	}
}

func TestAdaptiveThresholdBuckets(t *testing.T) {
	c := New(embedding.NewHashProvider(16), testConfig())
	short := c.adaptiveThreshold("hi")
	medium := c.adaptiveThreshold(stringsRepeat("a", 100))
	long := c.adaptiveThreshold(stringsRepeat("a", 300))

	if short != DefaultThresholds().Short {
		t.Fatalf("short threshold = %v, want %v", short, DefaultThresholds().Short)
	}
	if medium != DefaultThresholds().Medium {
		t.Fatalf("medium threshold = %v, want %v", medium, DefaultThresholds().Medium)
	}
	if long != DefaultThresholds().Long {
		t.Fatalf("long threshold = %v, want %v", long, DefaultThresholds().Long)
	}
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
