// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package router implements the cost-first threshold model selector
// described in spec.md §4.2. It is grounded on the prototype's
// catalog_selector.py: pick the cheapest/fastest model that clears a
// capability bar, escalating the bar for complexity and compliance, and
// break ties deterministically for provider diversity instead of with
// random jitter (Design Note §9).
package router

import (
	"hash/fnv"
	"sort"

	"github.com/traylinx/semantic-gateway/internal/analysis"
	"github.com/traylinx/semantic-gateway/internal/catalog"
)

// Config holds the tunables for the selection rule. Zero-value Config is
// invalid; use DefaultConfig.
type Config struct {
	LowMinStrength      float64
	MediumMinStrength   float64
	HighMinStrength     float64
	ComplianceBonus     float64
	LowLatencyBonus     float64
	DiversityTopN       int
}

// DefaultConfig matches the thresholds in spec.md §4.2.
func DefaultConfig() Config {
	return Config{
		LowMinStrength:    2.2,
		MediumMinStrength: 2.8,
		HighMinStrength:   4.0,
		ComplianceBonus:   0.6,
		LowLatencyBonus:   0.2,
		DiversityTopN:     5,
	}
}

// Router selects a catalog model for each request's Analysis.
type Router struct {
	catalog *catalog.Catalog
	cfg     Config
}

// New creates a Router over the given immutable catalog.
func New(cat *catalog.Catalog, cfg Config) *Router {
	return &Router{catalog: cat, cfg: cfg}
}

// Config returns the router's active selection configuration, for the
// /metrics observability surface.
func (r *Router) Config() Config { return r.cfg }

// CandidateDebug describes one ranked candidate, for Debug.TopCandidates.
type CandidateDebug struct {
	Name        string
	CostTier    catalog.CostTier
	LatencyTier catalog.LatencyTier
	Strength    float64
}

// Debug carries the intermediate selection state, useful for the /metrics
// and /query observability surface without re-deriving the decision.
type Debug struct {
	Intent           string
	Complexity       analysis.ComplexityLevel
	LatencyTolerance analysis.LatencyTolerance
	ComplianceNeeded bool
	RequiredStrength float64
	CandidateCount   int
	TopCandidates    []CandidateDebug
	Chosen           CandidateDebug
}

// NormalizeIntent maps an Analysis intent onto one of the four strength-map
// families per spec.md §4.2 step 1.
func NormalizeIntent(intent analysis.IntentType) string {
	switch intent {
	case analysis.IntentCoding:
		return catalog.IntentCoding
	case analysis.IntentReasoning:
		return catalog.IntentReasoning
	case analysis.IntentSummarization:
		return catalog.IntentSummarization
	case analysis.IntentDataAnalysis:
		return catalog.IntentReasoning
	default:
		return catalog.IntentGeneral
	}
}

// requiredStrength computes R from complexity, with compliance and
// low-latency escalations, per spec.md §4.2 step 2.
func (r *Router) requiredStrength(a analysis.Analysis) float64 {
	var required float64
	switch a.ComplexityLevel {
	case analysis.ComplexityHigh:
		required = r.cfg.HighMinStrength
	case analysis.ComplexityMedium:
		required = r.cfg.MediumMinStrength
	default:
		required = r.cfg.LowMinStrength
	}

	if a.ComplianceNeeded {
		required += r.cfg.ComplianceBonus
	}
	if a.LatencyTolerance == analysis.LatencyLow &&
		(a.ComplexityLevel == analysis.ComplexityMedium || a.ComplexityLevel == analysis.ComplexityHigh) {
		required += r.cfg.LowLatencyBonus
	}

	return required
}

// candidateKey is the lexicographic sort key from spec.md §4.2 step 4:
// (cost_rank, latency_rank, -strength, -provider_boost). Lower sorts first.
type candidateKey struct {
	costRank    int
	latencyRank int
	negStrength float64
	negBoost    float64
	model       catalog.Model
}

func less(a, b candidateKey) bool {
	if a.costRank != b.costRank {
		return a.costRank < b.costRank
	}
	if a.latencyRank != b.latencyRank {
		return a.latencyRank < b.latencyRank
	}
	if a.negStrength != b.negStrength {
		return a.negStrength < b.negStrength
	}
	return a.negBoost < b.negBoost
}

// Select implements spec.md §4.2's select(analysis) -> (model_name, debug).
// Selection never fails: the catalog is non-empty by construction and every
// strength lookup degrades to 0 rather than erroring.
func (r *Router) Select(a analysis.Analysis) (string, Debug) {
	intent := NormalizeIntent(a.IntentType)
	required := r.requiredStrength(a)

	candidates := make([]catalog.Model, 0, r.catalog.Len())
	for _, m := range r.catalog.Models() {
		if m.Strength(intent) >= required {
			candidates = append(candidates, m)
		}
	}

	// Fallback: nothing meets the bar, so take the five strongest models.
	if len(candidates) == 0 {
		candidates = append(candidates, r.catalog.Models()...)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Strength(intent) > candidates[j].Strength(intent)
		})
		if len(candidates) > 5 {
			candidates = candidates[:5]
		}
	}

	keys := make([]candidateKey, len(candidates))
	for i, m := range candidates {
		keys[i] = candidateKey{
			costRank:    catalog.CostRank(m.CostTier),
			latencyRank: catalog.LatencyRank(m.LatencyTier),
			negStrength: -m.Strength(intent),
			negBoost:    -providerBoost(m, intent, a.ComplexityLevel),
			model:       m,
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	topN := r.cfg.DiversityTopN
	if topN < 1 {
		topN = 1
	}
	if topN > len(keys) {
		topN = len(keys)
	}
	top := keys[:topN]

	idx := int(selectionHash(intent, a) % uint64(len(top)))
	chosen := top[idx].model

	debug := Debug{
		Intent:           intent,
		Complexity:       a.ComplexityLevel,
		LatencyTolerance: a.LatencyTolerance,
		ComplianceNeeded: a.ComplianceNeeded,
		RequiredStrength: required,
		CandidateCount:   len(candidates),
		TopCandidates:    make([]CandidateDebug, len(top)),
		Chosen: CandidateDebug{
			Name: chosen.Name, CostTier: chosen.CostTier, LatencyTier: chosen.LatencyTier,
			Strength: chosen.Strength(intent),
		},
	}
	for i, k := range top {
		debug.TopCandidates[i] = CandidateDebug{
			Name: k.model.Name, CostTier: k.model.CostTier, LatencyTier: k.model.LatencyTier,
			Strength: k.model.Strength(intent),
		}
	}

	return chosen.Name, debug
}

// providerBoost applies the same small, bounded (<=0.2) tie-breaks the
// prototype used to keep routing from collapsing onto a single provider,
// without affecting the primary cost/latency/strength ordering.
func providerBoost(m catalog.Model, intent string, complexity analysis.ComplexityLevel) float64 {
	var boost float64

	if intent == catalog.IntentReasoning && m.Provider == "deepseek" && contains(m.Name, "reasoner") {
		boost += 0.2
	}
	if intent == catalog.IntentCoding && m.Provider == "deepseek" && contains(m.Name, "chat") &&
		(complexity == analysis.ComplexityLow || complexity == analysis.ComplexityMedium) {
		boost += 0.15
	}
	if intent == catalog.IntentSummarization && m.Provider == "anthropic" && contains(m.Name, "haiku") {
		boost += 0.15
	}
	if intent == catalog.IntentCoding && m.Provider == "google" && contains(m.Name, "flash") && complexity != analysis.ComplexityHigh {
		boost += 0.1
	}
	if m.Provider == "xai" && contains(m.Name, "mini") &&
		(complexity == analysis.ComplexityLow || complexity == analysis.ComplexityMedium) {
		boost += 0.08
	}

	return boost
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// selectionHash derives the deterministic index used for top-N diversity
// tie-breaking. Using a real string hash (rather than the prototype's
// sum-of-byte-values) avoids the obvious collisions that scheme produces
// on anagram-like feature keys, while keeping the same "hash mod N"
// contract spec.md §4.2 step 5 and Design Note §9 call for.
func selectionHash(intent string, a analysis.Analysis) uint64 {
	h := fnv.New64a()
	h.Write([]byte(intent))
	h.Write([]byte{'|'})
	h.Write([]byte(a.ComplexityLevel))
	h.Write([]byte{'|'})
	h.Write([]byte(a.LatencyTolerance))
	h.Write([]byte{'|'})
	if a.ComplianceNeeded {
		h.Write([]byte{'1'})
	} else {
		h.Write([]byte{'0'})
	}
	return h.Sum64()
}
