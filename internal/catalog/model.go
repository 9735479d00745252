// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package catalog holds the static model catalog consulted by the router.
// Entries are loaded once at startup and never mutated at runtime, mirroring
// how the teacher's capability.Analyzer infers a fixed set of traits per
// model rather than recomputing them per request.
package catalog

import "fmt"

// CostTier orders models from cheapest to most expensive to run.
type CostTier string

const (
	CostVeryLow    CostTier = "very-low"
	CostLow        CostTier = "low"
	CostMedium     CostTier = "medium"
	CostMediumHigh CostTier = "medium-high"
	CostHigh       CostTier = "high"
)

// LatencyTier orders models from fastest to slowest to respond.
type LatencyTier string

const (
	LatencyLow    LatencyTier = "low"
	LatencyMedium LatencyTier = "medium"
	LatencyHigh   LatencyTier = "high"
)

// costRank and latencyRank give the router a total order to sort by; lower
// is better. Unknown tiers rank as "medium" so a malformed catalog entry
// degrades gracefully instead of sorting first or last.
var costRank = map[CostTier]int{
	CostVeryLow:    0,
	CostLow:        1,
	CostMedium:     2,
	CostMediumHigh: 3,
	CostHigh:       4,
}

var latencyRank = map[LatencyTier]int{
	LatencyLow:    0,
	LatencyMedium: 1,
	LatencyHigh:   2,
}

// CostRank returns the sort rank for a cost tier, defaulting to "medium".
func CostRank(t CostTier) int {
	if r, ok := costRank[t]; ok {
		return r
	}
	return costRank[CostMedium]
}

// LatencyRank returns the sort rank for a latency tier, defaulting to "medium".
func LatencyRank(t LatencyTier) int {
	if r, ok := latencyRank[t]; ok {
		return r
	}
	return latencyRank[LatencyMedium]
}

// Intent family used to index a model's StrengthMap. Only these four keys
// are meaningful; any other intent normalizes to IntentGeneral before the
// map is consulted (see router.NormalizeIntent).
const (
	IntentCoding        = "coding"
	IntentReasoning     = "reasoning"
	IntentSummarization = "summarization"
	IntentGeneral       = "general"
)

// Model is a static catalog entry describing one routable LLM.
type Model struct {
	Name          string             `yaml:"name" json:"name"`
	Provider      string             `yaml:"provider" json:"provider"`
	Family        string             `yaml:"family" json:"family"`
	CostTier      CostTier           `yaml:"cost_tier" json:"cost_tier"`
	LatencyTier   LatencyTier        `yaml:"latency_tier" json:"latency_tier"`
	ContextWindow int                `yaml:"context_window" json:"context_window"`
	StrengthMap   map[string]float64 `yaml:"strength_map" json:"strength_map"`
}

// Strength returns the model's capability score for the given intent,
// falling back to the "general" entry, and to 0 if that is also absent.
// This mirrors spec §4.2 failure semantics: a missing strength_map key
// never fails selection, it just scores as unsuited.
func (m Model) Strength(intent string) float64 {
	if m.StrengthMap == nil {
		return 0
	}
	if v, ok := m.StrengthMap[intent]; ok {
		return v
	}
	if v, ok := m.StrengthMap[IntentGeneral]; ok {
		return v
	}
	return 0
}

func (m Model) String() string {
	return fmt.Sprintf("%s(%s/%s)", m.Name, m.CostTier, m.LatencyTier)
}

// Catalog is an immutable, ordered list of models plus a name index.
// Immutability after construction means no synchronization is required to
// read it concurrently from router goroutines (spec §5).
type Catalog struct {
	models []Model
	byName map[string]Model
}

// New builds a Catalog from a slice of models. The slice is copied so later
// mutation of the caller's slice cannot affect the catalog.
func New(models []Model) *Catalog {
	c := &Catalog{
		models: append([]Model(nil), models...),
		byName: make(map[string]Model, len(models)),
	}
	for _, m := range c.models {
		c.byName[m.Name] = m
	}
	return c
}

// Models returns the full ordered catalog. Callers must not mutate the
// returned slice's elements' maps.
func (c *Catalog) Models() []Model {
	return c.models
}

// Lookup returns the model descriptor for name, if the catalog has one.
func (c *Catalog) Lookup(name string) (Model, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.models)
}
