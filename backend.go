// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RawOutput is what a backend adapter produces before quality scoring.
type RawOutput struct {
	// Text is the extracted page text, possibly empty for a blank page.
	Text string
	// Signal is the backend-native confidence in [0,1]; zero means the
	// backend does not report one.
	Signal float64
	// BlockCount is the number of structurally recognized text blocks.
	BlockCount int
}

// Extractor is the single capability every backend adapter implements.
// Adapters must not fail on recoverable input issues such as blank pages;
// they return an empty-text RawOutput instead and leave the verdict to the
// quality scorer.
type Extractor interface {
	Method() Method
	Extract(ctx context.Context, chunk *Chunk) (RawOutput, error)
}

// MethodStats is the usage record for one backend in the pool.
type MethodStats struct {
	Acquired int64 `json:"acquired"`
	Released int64 `json:"released"`
	InUse    int64 `json:"in_use"`
}

// PoolStats maps method tags to their usage counters.
type PoolStats map[string]MethodStats

// Pool holds the swappable backend adapters and tracks how often each is
// checked out. The orchestrator is agnostic to what sits behind a Method
// tag; individual adapters are expected to be concurrency-safe.
type Pool struct {
	mu         sync.Mutex
	extractors map[Method]Extractor
	stats      map[Method]*MethodStats
}

// NewPool creates an empty backend pool.
func NewPool() *Pool {
	return &Pool{
		extractors: make(map[Method]Extractor),
		stats:      make(map[Method]*MethodStats),
	}
}

// Register adds (or replaces) the adapter serving e.Method().
func (p *Pool) Register(e Extractor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := e.Method()
	p.extractors[m] = e
	if _, ok := p.stats[m]; !ok {
		p.stats[m] = &MethodStats{}
	}
}

// Acquire checks out the adapter for a method. The caller must pair it with
// Release. A method with no registered adapter is reported as an unavailable
// backend so the fallback chain can move on.
func (p *Pool) Acquire(m Method) (Extractor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.extractors[m]
	if !ok {
		return nil, TransientError(m, fmt.Errorf("no adapter registered: %w", ErrBackendUnavailable))
	}
	st := p.stats[m]
	st.Acquired++
	st.InUse++
	return e, nil
}

// Release returns a previously acquired adapter to the pool.
func (p *Pool) Release(m Method) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.stats[m]
	if !ok || st.InUse == 0 {
		return
	}
	st.Released++
	st.InUse--
}

// Methods lists the registered method tags in stable order.
func (p *Pool) Methods() []Method {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Method, 0, len(p.extractors))
	for m := range p.extractors {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats snapshots the per-method usage counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(PoolStats, len(p.stats))
	for m, st := range p.stats {
		out[string(m)] = *st
	}
	return out
}
