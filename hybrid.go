// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// HybridExtractor races two backends concurrently and keeps whichever
// succeeded with the higher scored confidence. One backend failing is
// tolerated; both failing fails the hybrid like any other adapter. On an
// exact tie the first-listed backend wins, so the outcome does not depend on
// goroutine scheduling.
type HybridExtractor struct {
	first  Extractor
	second Extractor
	scorer Scorer
	logger *slog.Logger
}

// NewHybridExtractor composes two adapters into the hybrid method. The
// scorer arbitrates between their outputs; a nil logger falls back to
// slog.Default().
func NewHybridExtractor(first, second Extractor, scorer Scorer, logger *slog.Logger) *HybridExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridExtractor{first: first, second: second, scorer: scorer, logger: logger}
}

func (h *HybridExtractor) Method() Method { return MethodHybrid }

type raceOutcome struct {
	raw   RawOutput
	score float64
	err   error
}

// Extract runs both backends to completion and returns the winner's output
// with Signal set to its arbitrated score, which the scorer passes through
// for the hybrid method.
func (h *HybridExtractor) Extract(ctx context.Context, chunk *Chunk) (RawOutput, error) {
	contenders := []Extractor{h.first, h.second}
	outcomes := make([]raceOutcome, len(contenders))

	var wg sync.WaitGroup
	for i, ex := range contenders {
		wg.Add(1)
		go func(i int, ex Extractor) {
			defer wg.Done()
			raw, err := ex.Extract(ctx, chunk)
			if err != nil {
				outcomes[i] = raceOutcome{err: err}
				return
			}
			outcomes[i] = raceOutcome{raw: raw, score: h.scorer.Score(ex.Method(), raw)}
		}(i, ex)
	}
	wg.Wait()

	winner := -1
	for i, oc := range outcomes {
		if oc.err != nil {
			h.logger.Debug("hybrid contender failed",
				"method", contenders[i].Method(), "page", chunk.PageNumber, "err", oc.err)
			continue
		}
		// Strict greater-than keeps the first-listed backend on ties.
		if winner == -1 || oc.score > outcomes[winner].score {
			winner = i
		}
	}
	if winner == -1 {
		transient := IsTransient(outcomes[0].err) || IsTransient(outcomes[1].err)
		err := fmt.Errorf("both backends failed: %v; %v", outcomes[0].err, outcomes[1].err)
		if transient {
			return RawOutput{}, TransientError(MethodHybrid, err)
		}
		return RawOutput{}, PermanentError(MethodHybrid, err)
	}

	out := outcomes[winner].raw
	out.Signal = outcomes[winner].score
	return out, nil
}
