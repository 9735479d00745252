// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

// shouldAdmit implements spec.md §4.1's admit() admission rule, directly
// grounded on cache_policy.py's CacheDecisionPolicy.should_cache: every
// rule must pass for the entry to be cached.
func shouldAdmit(totalTokens int, cost float64, bestExistingSimilarity *float64, cfg Config) bool {
	if totalTokens < cfg.MinTokensToCache {
		return false
	}
	if totalTokens > cfg.MaxTokensToCache {
		return false
	}
	if cost < cfg.MinCostToCache {
		return false
	}
	if bestExistingSimilarity != nil && *bestExistingSimilarity >= cfg.SimilarityCoverage {
		return false
	}
	return true
}
