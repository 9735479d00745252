// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package optimizer implements the background threshold self-tuning loop
// from spec.md §4.1's "Background optimizer" subsection, grounded on the
// adaptive-cache prototype's CacheOptimizer (dynamic_cache/optimizer.py):
// every OPTIMIZATION_INTERVAL requests, compare the observed hit rate
// against a target band and relax or tighten the cache's adaptive
// thresholds accordingly.
package optimizer

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/semantic-gateway/internal/cache"
	"github.com/traylinx/semantic-gateway/internal/metrics"
)

// Config bundles the optimizer's tunables, ported from
// dynamic_cache/config.py.
type Config struct {
	Interval       int64
	TargetHitRate  float64
	AdjustmentStep float64
	MinThreshold   float64
	MaxThreshold   float64
	LowBandOffset  float64
	HighBandOffset float64
}

// DefaultConfig matches the prototype's defaults: a 50-request interval,
// a 40% target hit rate, a 0.02 adjustment step, and a [0.70, 0.98]
// threshold range.
func DefaultConfig() Config {
	return Config{
		Interval:       50,
		TargetHitRate:  0.40,
		AdjustmentStep: 0.02,
		MinThreshold:   0.70,
		MaxThreshold:   0.98,
		LowBandOffset:  0.05,
		HighBandOffset: 0.10,
	}
}

// ThresholdAdjustment records one threshold's before/after value for a
// single optimization pass.
type ThresholdAdjustment struct {
	Bucket string  `json:"bucket"`
	Old    float64 `json:"old"`
	New    float64 `json:"new"`
	Change string  `json:"change"`
}

// Record is one completed optimization pass, matching the prototype's
// optimization_history entries plus the richer per-run action report.
type Record struct {
	OptimizationNumber int64                 `json:"optimization_number"`
	Timestamp          time.Time             `json:"timestamp"`
	HitRate            float64               `json:"hit_rate"`
	TargetHitRate      float64               `json:"target_hit_rate"`
	CacheSize          int                   `json:"cache_size"`
	TotalRequests      int64                 `json:"total_requests"`
	Adjustments        []ThresholdAdjustment `json:"threshold_adjustments"`
	Recommendations    []string              `json:"recommendations"`
}

// Summary mirrors get_optimization_summary from the prototype.
type Summary struct {
	OptimizationCount             int64                 `json:"optimization_count"`
	LastOptimizationTime          *time.Time            `json:"last_optimization_time"`
	RequestsSinceLastOptimization int64                 `json:"requests_since_last_optimization"`
	NextOptimizationAt            int64                 `json:"next_optimization_at"`
	CurrentThresholds             cache.ThresholdConfig `json:"current_thresholds"`
	RecentHistory                 []Record              `json:"recent_history"`
}

// Optimizer periodically retunes a Cache's adaptive thresholds based on
// its own observed metrics. Safe for concurrent use; a single mutex
// guards the optimization count and history, separate from the cache's
// own locking.
type Optimizer struct {
	mu sync.Mutex

	cache   *cache.Cache
	cfg     Config
	count   int64
	lastAt  *time.Time
	history []Record
}

// New creates an Optimizer bound to the given cache.
func New(c *cache.Cache, cfg Config) *Optimizer {
	return &Optimizer{cache: c, cfg: cfg}
}

// ShouldOptimize reports whether the cache has processed enough requests
// since the last optimization to warrant another pass.
func (o *Optimizer) ShouldOptimize() bool {
	total := o.cache.Metrics().Snapshot().TotalRequests
	return total > 0 && total%o.cfg.Interval == 0
}

// MaybeOptimize runs Optimize if ShouldOptimize reports true, returning
// the resulting Record and whether an optimization actually ran.
func (o *Optimizer) MaybeOptimize() (Record, bool) {
	if !o.ShouldOptimize() {
		return Record{}, false
	}
	return o.Optimize(), true
}

// Optimize runs one unconditional optimization pass: it inspects the
// cache's current hit rate against the target band and relaxes or
// tightens every threshold bucket in lockstep, then appends efficiency
// recommendations and records the pass in history.
func (o *Optimizer) Optimize() Record {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.count++
	now := time.Now()
	o.lastAt = &now

	snap := o.cache.Metrics().Snapshot()
	rec := Record{
		OptimizationNumber: o.count,
		Timestamp:          now,
		HitRate:            snap.HitRate,
		TargetHitRate:      o.cfg.TargetHitRate,
		CacheSize:          snap.CacheSize,
		TotalRequests:      snap.TotalRequests,
	}

	switch {
	case snap.HitRate < o.cfg.TargetHitRate-o.cfg.LowBandOffset:
		rec.Adjustments = o.relaxThresholds()
		rec.Recommendations = append(rec.Recommendations, "hit rate below target, thresholds relaxed to increase hits")
	case snap.HitRate > o.cfg.TargetHitRate+o.cfg.HighBandOffset:
		rec.Adjustments = o.tightenThresholds()
		rec.Recommendations = append(rec.Recommendations, "hit rate above target, thresholds tightened to improve match quality")
	default:
		rec.Recommendations = append(rec.Recommendations, "hit rate within target band, no threshold adjustment needed")
	}

	rec.Recommendations = append(rec.Recommendations, o.analyzeEfficiency(snap)...)

	o.history = append(o.history, rec)
	log.WithFields(log.Fields{
		"optimization_number": o.count,
		"hit_rate":            snap.HitRate,
	}).Info("optimizer: pass complete")

	return rec
}

func (o *Optimizer) relaxThresholds() []ThresholdAdjustment {
	t := o.cache.Thresholds()
	adjustments := []ThresholdAdjustment{
		o.adjustBucket("short", &t.Short, -o.cfg.AdjustmentStep, "relaxed"),
		o.adjustBucket("medium", &t.Medium, -o.cfg.AdjustmentStep, "relaxed"),
		o.adjustBucket("long", &t.Long, -o.cfg.AdjustmentStep, "relaxed"),
	}
	o.cache.SetThresholds(t)
	return adjustments
}

func (o *Optimizer) tightenThresholds() []ThresholdAdjustment {
	t := o.cache.Thresholds()
	adjustments := []ThresholdAdjustment{
		o.adjustBucket("short", &t.Short, o.cfg.AdjustmentStep, "tightened"),
		o.adjustBucket("medium", &t.Medium, o.cfg.AdjustmentStep, "tightened"),
		o.adjustBucket("long", &t.Long, o.cfg.AdjustmentStep, "tightened"),
	}
	o.cache.SetThresholds(t)
	return adjustments
}

// adjustBucket mutates *field by delta, clamped to [MinThreshold,
// MaxThreshold], and returns the before/after record for it.
func (o *Optimizer) adjustBucket(name string, field *float64, delta float64, change string) ThresholdAdjustment {
	old := *field
	next := old + delta
	if next < o.cfg.MinThreshold {
		next = o.cfg.MinThreshold
	}
	if next > o.cfg.MaxThreshold {
		next = o.cfg.MaxThreshold
	}
	*field = next
	return ThresholdAdjustment{Bucket: name, Old: old, New: next, Change: change}
}

// analyzeEfficiency surfaces non-threshold recommendations from the
// cache's broader metrics, mirroring _analyze_cache_efficiency.
func (o *Optimizer) analyzeEfficiency(snap metrics.Snapshot) []string {
	var recs []string

	if snap.Evictions > 0 && snap.CacheSize > 0 {
		evictionRate := float64(snap.Evictions) / float64(snap.CacheSize)
		if evictionRate > 0.5 {
			recs = append(recs, "high eviction rate, consider increasing MaxSize")
		}
	}

	if snap.CostSaved > 0 {
		recs = append(recs, "measurable cost reduction observed")
	}

	if snap.CacheSize > 0 {
		avgHits := float64(snap.CacheHits) / float64(snap.CacheSize)
		if avgHits < 1.5 {
			recs = append(recs, "low average hits per entry, admission policy may be too lenient")
		}
	}

	return recs
}

// Summary reports the optimizer's running state, mirroring
// get_optimization_summary.
func (o *Optimizer) Summary() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()

	total := o.cache.Metrics().Snapshot().TotalRequests
	requestsSinceLast := total % o.cfg.Interval

	recent := o.history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	recentCopy := append([]Record(nil), recent...)

	return Summary{
		OptimizationCount:             o.count,
		LastOptimizationTime:          o.lastAt,
		RequestsSinceLastOptimization: requestsSinceLast,
		NextOptimizationAt:            total + (o.cfg.Interval - requestsSinceLast),
		CurrentThresholds:             o.cache.Thresholds(),
		RecentHistory:                 recentCopy,
	}
}
