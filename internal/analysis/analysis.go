// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package analysis defines the Analysis metadata attached to every inbound
// request and the boundary parser that turns loosely-typed upstream JSON
// into the enumerated struct the router and batcher consume. The
// preprocessor that produces this JSON (intent/complexity/length
// classification) lives upstream and is out of scope (spec.md §1); this
// package only validates and normalizes what it receives.
package analysis

// IntentType enumerates the recognized request intents.
type IntentType string

const (
	IntentReasoning     IntentType = "reasoning"
	IntentSummarization IntentType = "summarization"
	IntentCoding        IntentType = "coding"
	IntentDataAnalysis  IntentType = "data_analysis"
	IntentCreative      IntentType = "creative_writing"
	IntentFactual       IntentType = "factual_answering"
	IntentConversation  IntentType = "conversation"
	IntentClassify      IntentType = "classification"
	IntentOther         IntentType = "other"
	IntentGeneral       IntentType = "general"
)

var validIntents = map[IntentType]bool{
	IntentReasoning: true, IntentSummarization: true, IntentCoding: true,
	IntentDataAnalysis: true, IntentCreative: true, IntentFactual: true,
	IntentConversation: true, IntentClassify: true, IntentOther: true, IntentGeneral: true,
}

// ComplexityLevel enumerates how hard a request is believed to be.
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "low"
	ComplexityMedium ComplexityLevel = "medium"
	ComplexityHigh   ComplexityLevel = "high"
)

var validComplexity = map[ComplexityLevel]bool{ComplexityLow: true, ComplexityMedium: true, ComplexityHigh: true}

// OutputLength enumerates the expected length of the model's answer.
type OutputLength string

const (
	OutputShort  OutputLength = "short"
	OutputMedium OutputLength = "medium"
	OutputLong   OutputLength = "long"
)

var validOutputLength = map[OutputLength]bool{OutputShort: true, OutputMedium: true, OutputLong: true}

// LatencyTolerance enumerates how sensitive the caller is to response time.
type LatencyTolerance string

const (
	LatencyLow    LatencyTolerance = "low"
	LatencyMedium LatencyTolerance = "medium"
	LatencyHigh   LatencyTolerance = "high"
)

var validLatencyTolerance = map[LatencyTolerance]bool{LatencyLow: true, LatencyMedium: true, LatencyHigh: true}

// Analysis is read-only metadata produced upstream and carried by a Request.
// It is never mutated after creation (spec.md §3).
type Analysis struct {
	IntentType           IntentType       `json:"intent_type"`
	ComplexityLevel      ComplexityLevel  `json:"complexity_level"`
	ExpectedOutputLength OutputLength     `json:"expected_output_length"`
	LatencyTolerance     LatencyTolerance `json:"latency_tolerance"`
	ComplianceNeeded     bool             `json:"compliance_needed"`
}
