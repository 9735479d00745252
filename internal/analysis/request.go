// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analysis

// Request is an immutable record describing one inbound query. It is
// created by the request handler and flows unmodified through the cache,
// router, and batcher (spec.md §3).
type Request struct {
	RequestID   string
	CreatedAtMs int64
	QueryText   string
	Analysis    Analysis
	InputTokens int
	UserID      string

	// SelectedModel is set by the router before the request reaches the
	// batcher. It is empty until routing has happened.
	SelectedModel string
}
