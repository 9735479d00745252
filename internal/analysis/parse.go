// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analysis

import "sync"

// RawAnalysis is the loosely-typed shape the upstream preprocessor emits.
// Parser.Parse accepts this duck-typed dictionary and rejects unknown enum
// values by mapping to the nearest defined bucket, per Design Note §9.
type RawAnalysis struct {
	IntentType           string `json:"intent_type"`
	ComplexityLevel      string `json:"complexity_level"`
	ExpectedOutputLength string `json:"expected_output_length"`
	LatencyTolerance     string `json:"latency_tolerance"`
	ComplianceNeeded     bool   `json:"compliance_needed"`
}

// Parser turns RawAnalysis into validated Analysis values and tracks how
// often a fallback substitution was needed, mirroring the distribution
// metrics the teacher's confidence.Scorer keeps over classifier output.
type Parser struct {
	mu sync.Mutex

	totalParsed     int64
	fallbackIntent  int64
	fallbackComplex int64
	fallbackLength  int64
	fallbackLatency int64
}

// NewParser creates a Parser with zeroed metrics.
func NewParser() *Parser {
	return &Parser{}
}

// Parse validates a RawAnalysis, substituting the nearest defined bucket for
// any unrecognized enum value: unknown intent -> general, unknown complexity
// -> medium, unknown output length -> medium, unknown latency tolerance ->
// medium. This never fails; the caller always gets a usable Analysis.
func (p *Parser) Parse(raw RawAnalysis) Analysis {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalParsed++

	intent := IntentType(raw.IntentType)
	if !validIntents[intent] {
		intent = IntentGeneral
		p.fallbackIntent++
	}

	complexity := ComplexityLevel(raw.ComplexityLevel)
	if !validComplexity[complexity] {
		complexity = ComplexityMedium
		p.fallbackComplex++
	}

	length := OutputLength(raw.ExpectedOutputLength)
	if !validOutputLength[length] {
		length = OutputMedium
		p.fallbackLength++
	}

	latency := LatencyTolerance(raw.LatencyTolerance)
	if !validLatencyTolerance[latency] {
		latency = LatencyMedium
		p.fallbackLatency++
	}

	return Analysis{
		IntentType:           intent,
		ComplexityLevel:      complexity,
		ExpectedOutputLength: length,
		LatencyTolerance:     latency,
		ComplianceNeeded:     raw.ComplianceNeeded,
	}
}

// Metrics summarizes how often the parser had to fall back to a default
// bucket, broken down by field.
type Metrics struct {
	TotalParsed         int64   `json:"total_parsed"`
	FallbackIntentRate  float64 `json:"fallback_intent_rate"`
	FallbackComplexRate float64 `json:"fallback_complexity_rate"`
	FallbackLengthRate  float64 `json:"fallback_length_rate"`
	FallbackLatencyRate float64 `json:"fallback_latency_rate"`
}

// GetMetrics returns a snapshot of the fallback distribution.
func (p *Parser) GetMetrics() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.totalParsed == 0 {
		return Metrics{}
	}
	total := float64(p.totalParsed)
	return Metrics{
		TotalParsed:         p.totalParsed,
		FallbackIntentRate:  float64(p.fallbackIntent) / total,
		FallbackComplexRate: float64(p.fallbackComplex) / total,
		FallbackLengthRate:  float64(p.fallbackLength) / total,
		FallbackLatencyRate: float64(p.fallbackLatency) / total,
	}
}
