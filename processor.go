// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/report-xtract/telemetry"
)

// Processor is the extraction orchestrator: it splits a batch of page
// buffers into chunks, fans them out through the concurrency gate, applies
// the retry/fallback policy per chunk, and merges the results in page order.
// All collaborators are injected; one process can run several independent
// pipelines.
type Processor struct {
	cfg    *Config
	gate   *Gate
	pool   *Pool
	cache  *resultCache
	scorer Scorer
	sink   telemetry.Sink
	logger *slog.Logger
}

// NewProcessor validates the config and wires the orchestrator. A nil store
// disables caching; a nil sink discards telemetry.
func NewProcessor(cfg *Config, pool *Pool, store Store, sink telemetry.Sink) (*Processor, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("invalid config: backend pool is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	scorer := cfg.Scorer
	if scorer == nil {
		scorer = NewWeightedScorer(cfg.ExpectedPageChars)
	}

	logger.Debug("processor initialized",
		"gate_capacity", cfg.GateCapacity,
		"max_attempts", cfg.MaxAttempts,
		"fallback_chain", cfg.FallbackChain,
		"cache_enabled", store != nil,
	)

	return &Processor{
		cfg:    cfg,
		gate:   NewGate(cfg.GateCapacity),
		pool:   pool,
		cache:  newResultCache(store, cfg.CacheTTL, cfg.MinCacheConfidence, logger, sink),
		scorer: scorer,
		sink:   sink,
		logger: logger,
	}, nil
}

// ProcessingStats is a point-in-time operational snapshot.
type ProcessingStats struct {
	GateAvailablePermits int       `json:"gate_available_permits"`
	GateQueueLength      int       `json:"gate_queue_length"`
	Backends             PoolStats `json:"backends"`
}

// Stats reports current gate occupancy and backend pool usage.
func (p *Processor) Stats() ProcessingStats {
	return ProcessingStats{
		GateAvailablePermits: p.gate.AvailablePermits(),
		GateQueueLength:      p.gate.QueueLength(),
		Backends:             p.pool.Stats(),
	}
}

// batchCounters aggregates per-chunk outcomes for the summary event.
type batchCounters struct {
	cacheHits atomic.Int64
	failures  atomic.Int64
	retries   atomic.Int64
}

// ProcessPages extracts text from an ordered batch of page buffers. It
// always returns exactly one Result per input page, sorted by page number;
// individual chunk failures degrade to zero-confidence stubs instead of
// aborting the batch. The only returned error is a batch configuration
// problem (empty input or an unknown method).
func (p *Processor) ProcessPages(ctx context.Context, pages [][]byte, primary Method) ([]Result, error) {
	chunks, err := BuildChunks(pages, primary)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	start := time.Now()
	p.logger.Info("batch started", "batch_id", batchID, "pages", len(chunks), "primary_method", primary)

	results := make([]Result, len(chunks))
	var counters batchCounters

	// Fan out one task per chunk. The tasks settle independently: a chunk
	// that exhausts every method still writes a stub into its slot.
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.processChunk(ctx, &chunks[i], &counters)
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].PageNumber < results[j].PageNumber })

	elapsed := time.Since(start)
	p.sink.Record("batch.completed",
		"batch_id", batchID,
		"pages", len(chunks),
		"failed", counters.failures.Load(),
		"cache_hits", counters.cacheHits.Load(),
		"retries", counters.retries.Load(),
		"duration_ms", elapsed.Milliseconds(),
	)
	p.logger.Info("batch completed",
		"batch_id", batchID,
		"pages", len(chunks),
		"failed", counters.failures.Load(),
		"cache_hits", counters.cacheHits.Load(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return results, nil
}

// methodChain is the ordered list of methods to try for a chunk: the primary
// first, then the configured fallbacks with duplicates removed.
func (p *Processor) methodChain(primary Method) []Method {
	chain := make([]Method, 0, 1+len(p.cfg.FallbackChain))
	chain = append(chain, primary)
	for _, m := range p.cfg.FallbackChain {
		seen := false
		for _, existing := range chain {
			if existing == m {
				seen = true
				break
			}
		}
		if !seen {
			chain = append(chain, m)
		}
	}
	return chain
}

// processChunk walks the fallback chain for one chunk and always produces a
// Result. Per-method transient failures are retried with backoff; permanent
// ones move straight to the next method.
func (p *Processor) processChunk(ctx context.Context, chunk *Chunk, counters *batchCounters) Result {
	start := time.Now()
	chain := p.methodChain(chunk.AssignedMethod)
	last := chunk.AssignedMethod

	for _, m := range chain {
		if ctx.Err() != nil {
			p.logger.Warn("batch cancelled, stubbing remaining work", "page", chunk.PageNumber, "err", ctx.Err())
			break
		}
		last = m

		if res, ok := p.cache.lookup(ctx, chunk, m); ok {
			counters.cacheHits.Add(1)
			res.ProcessingTimeMs = time.Since(start).Milliseconds()
			p.logger.Debug("cache hit", "page", chunk.PageNumber, "method", m)
			return res
		}

		res, err := p.extractWithMethod(ctx, chunk, m, counters)
		if err != nil {
			p.logger.Warn("method exhausted, falling back",
				"page", chunk.PageNumber, "method", m, "err", err)
			continue
		}
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		p.cache.persist(ctx, chunk, res)
		return res
	}

	counters.failures.Add(1)
	p.sink.Record("chunk.failed", "page", chunk.PageNumber, "last_method", last)
	res := stubResult(chunk, last)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res
}

// extractWithMethod runs one method for a chunk under the gate, retrying
// transient failures, and turns raw output into a scored Result.
func (p *Processor) extractWithMethod(ctx context.Context, chunk *Chunk, m Method, counters *batchCounters) (Result, error) {
	if err := p.gate.Acquire(ctx); err != nil {
		return Result{}, TransientError(m, err)
	}
	defer p.gate.Release()

	extractor, err := p.pool.Acquire(m)
	if err != nil {
		return Result{}, err
	}
	defer p.pool.Release(m)

	var raw RawOutput
	attempt := 0
	err = retryWithBackoff(ctx, p.cfg.MaxAttempts, p.cfg.BaseRetryDelay, p.cfg.MaxRetryDelay, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			counters.retries.Add(1)
		}
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.AttemptTimeout)
		defer cancel()
		var attemptErr error
		raw, attemptErr = extractor.Extract(attemptCtx, chunk)
		return attemptErr
	})
	if err != nil {
		return Result{}, err
	}

	confidence := p.scorer.Score(m, raw)
	return Result{
		ChunkID:    chunk.ID,
		PageNumber: chunk.PageNumber,
		Text:       raw.Text,
		Confidence: confidence,
		MethodUsed: m,
		Meta: Metadata{
			ByteSize:     chunk.Size,
			BlockCount:   raw.BlockCount,
			ImageQuality: classifyImageQuality(chunk.Size),
			Timestamp:    time.Now().UTC(),
		},
	}, nil
}
