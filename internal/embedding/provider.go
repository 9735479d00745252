// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"hash/fnv"
	"math"
)

// Provider is the embedding contract the cache consults: embed(text) ->
// fixed-dimension vector, plus the similarity measure used to compare two
// embeddings and a readiness check (spec.md §6's "Embedding provider
// contract"). Engine (ONNX/MiniLM) and HashProvider both satisfy it.
type Provider interface {
	Embed(text string) ([]float32, error)
	CosineSimilarity(a, b []float32) float64
	IsEnabled() bool
	GetDimension() int
}

// HashProvider is a deterministic, dependency-free Provider used when no
// ONNX model is configured (local development, unit tests, or a
// degraded-mode deployment). It derives a unit-norm vector from a rolling
// FNV hash of text shingles, generalizing the teacher's
// mockEmbeddingEngine test double into something usable outside tests:
// unlike the mock, it produces a genuine fixed-dimension vector rather
// than a 3-byte prefix, so near-duplicate strings land close in cosine
// space and unrelated strings do not.
type HashProvider struct {
	dimension int
}

// NewHashProvider creates a HashProvider that emits vectors of the given
// dimension. Dimension <= 0 defaults to 768, the spec's default D.
func NewHashProvider(dimension int) *HashProvider {
	if dimension <= 0 {
		dimension = 768
	}
	return &HashProvider{dimension: dimension}
}

// GetDimension returns the configured output dimension.
func (p *HashProvider) GetDimension() int { return p.dimension }

// IsEnabled always reports ready; HashProvider has no external resources
// to initialize.
func (p *HashProvider) IsEnabled() bool { return true }

// Embed derives a deterministic unit-norm vector from overlapping
// trigrams of text, so that textually similar inputs share hash buckets
// and land at a smaller angle than unrelated inputs.
func (p *HashProvider) Embed(text string) ([]float32, error) {
	vec := make([]float32, p.dimension)
	if len(text) == 0 {
		return vec, nil
	}

	shingles := shingle(text, 3)
	for _, s := range shingles {
		h := fnv.New32a()
		h.Write([]byte(s))
		idx := h.Sum32() % uint32(p.dimension)
		// Sign bit from a second, independent hash avoids every shingle
		// pushing the same direction on a collision.
		h2 := fnv.New32a()
		h2.Write([]byte(s))
		h2.Write([]byte{0xff})
		if h2.Sum32()%2 == 0 {
			vec[idx]++
		} else {
			vec[idx]--
		}
	}

	return normalize(vec), nil
}

// shingle splits text into overlapping windows of n runes; text shorter
// than n yields the whole string as a single shingle.
func shingle(text string, n int) []string {
	r := []rune(text)
	if len(r) <= n {
		return []string{text}
	}
	out := make([]string, 0, len(r)-n+1)
	for i := 0; i+n <= len(r); i++ {
		out = append(out, string(r[i:i+n]))
	}
	return out
}

// normalize L2-normalizes a vector in place, returning it for convenience.
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(sumSq))
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// CosineSimilarity computes the cosine similarity between two embeddings,
// shared by every Provider implementation.
func (p *HashProvider) CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}
