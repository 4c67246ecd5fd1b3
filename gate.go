// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate bounds the number of extraction operations performing backend I/O at
// once. Waiters are served in strict FIFO order. On top of the weighted
// semaphore it keeps atomic counters so capacity and queue depth can be
// observed for backpressure monitoring and tests.
type Gate struct {
	capacity int64
	sem      *semaphore.Weighted
	held     atomic.Int64
	waiting  atomic.Int64
}

// NewGate creates a gate with a fixed number of permits. Capacity below one
// is a programming error.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		panic(fmt.Sprintf("xtract: gate capacity must be >= 1, got %d", capacity))
	}
	return &Gate{
		capacity: int64(capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// Acquire blocks until a permit is available or ctx is done. Every
// successful Acquire must be paired with exactly one Release; callers do
// this with defer so the permit returns on every exit path.
func (g *Gate) Acquire(ctx context.Context) error {
	g.waiting.Add(1)
	err := g.sem.Acquire(ctx, 1)
	g.waiting.Add(-1)
	if err != nil {
		return fmt.Errorf("acquire permit: %w", err)
	}
	g.held.Add(1)
	return nil
}

// Release returns a permit and wakes the longest-waiting caller, if any.
// Releasing more than was acquired panics: a double release means a permit
// accounting bug that must not be papered over.
func (g *Gate) Release() {
	if g.held.Add(-1) < 0 {
		g.held.Add(1)
		panic("xtract: gate release without matching acquire")
	}
	g.sem.Release(1)
}

// AvailablePermits returns how many permits are currently free.
func (g *Gate) AvailablePermits() int {
	free := g.capacity - g.held.Load()
	if free < 0 {
		free = 0
	}
	return int(free)
}

// QueueLength returns how many callers are blocked inside Acquire.
func (g *Gate) QueueLength() int {
	n := g.waiting.Load()
	if n < 0 {
		n = 0
	}
	return int(n)
}

// Capacity returns the fixed permit count the gate was built with.
func (g *Gate) Capacity() int { return int(g.capacity) }
