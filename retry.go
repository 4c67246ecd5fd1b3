// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"time"
)

// retryWithBackoff runs fn up to attempts times, sleeping between tries with
// exponential backoff (doubling from base, capped at max). Only transient
// failures are retried; a permanent failure or a done context returns
// immediately. This is the single retry loop in the engine; adapters do not
// carry their own.
func retryWithBackoff(ctx context.Context, attempts int, base, max time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := base
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) || attempt == attempts {
			return lastErr
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > max {
				backoff = max
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
