// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/finsight/report-xtract/telemetry"
)

// Store is the key/value service the cache facade sits on. Implementations
// live in the cache subpackage; any collaborator-provided store with TTL
// semantics works.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cacheSampleBytes bounds how much page content feeds the cache key.
// Hashing a fixed prefix instead of the whole buffer keeps key derivation
// cheap on large scans; together with the exact size it is selective enough.
const cacheSampleBytes = 4096

const cacheKeyPrefix = "xtract:v1:"

// cacheKey derives the deterministic lookup key for one (method, page) pair.
func cacheKey(m Method, size int, data []byte) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(m))
	var sz [8]byte
	binary.BigEndian.PutUint64(sz[:], uint64(size))
	_, _ = h.Write(sz[:])
	sample := data
	if len(sample) > cacheSampleBytes {
		sample = sample[:cacheSampleBytes]
	}
	_, _ = h.Write(sample)
	return cacheKeyPrefix + strconv.FormatUint(h.Sum64(), 16)
}

// resultCache is the best-effort facade in front of a Store. Every error is
// logged and degraded to a miss or no-op; cache trouble never blocks or
// fails chunk processing.
type resultCache struct {
	store  Store
	ttl    time.Duration
	minCfd float64
	logger *slog.Logger
	sink   telemetry.Sink
}

func newResultCache(store Store, ttl time.Duration, minConfidence float64, logger *slog.Logger, sink telemetry.Sink) *resultCache {
	return &resultCache{
		store:  store,
		ttl:    ttl,
		minCfd: minConfidence,
		logger: logger,
		sink:   sink,
	}
}

// lookup returns a previously cached Result for this chunk and method, if
// any. Errors and undecodable entries count as misses.
func (c *resultCache) lookup(ctx context.Context, chunk *Chunk, m Method) (Result, bool) {
	if c.store == nil {
		return Result{}, false
	}
	key := cacheKey(m, chunk.Size, chunk.Data)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		cerr := &CacheError{Op: "get", Key: key, Err: err}
		c.logger.Warn("cache lookup failed, treating as miss", "page", chunk.PageNumber, "err", cerr)
		c.sink.Record("cache.error", "op", "get", "page", chunk.PageNumber)
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		cerr := &CacheError{Op: "decode", Key: key, Err: err}
		c.logger.Warn("cache entry undecodable, treating as miss", "page", chunk.PageNumber, "err", cerr)
		return Result{}, false
	}
	// The cached entry was produced for another chunk id and page slot.
	res.ChunkID = chunk.ID
	res.PageNumber = chunk.PageNumber
	return res, true
}

// persist stores a Result if it clears the quality threshold. Failures are
// logged and dropped.
func (c *resultCache) persist(ctx context.Context, chunk *Chunk, res Result) {
	if c.store == nil || res.Confidence < c.minCfd {
		return
	}
	key := cacheKey(res.MethodUsed, chunk.Size, chunk.Data)
	raw, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("cache encode failed, skipping store", "page", chunk.PageNumber, "err", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		cerr := &CacheError{Op: "set", Key: key, Err: err}
		c.logger.Warn("cache store failed, continuing", "page", chunk.PageNumber, "err", cerr)
		c.sink.Record("cache.error", "op", "set", "page", chunk.PageNumber)
	}
}
