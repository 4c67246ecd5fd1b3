// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel causes carried inside a BackendError.
var (
	// ErrBackendUnavailable marks a backend that could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrNoText marks a backend that ran but produced no usable text.
	ErrNoText = errors.New("no usable text")
)

// BackendError is the failure of a single extraction attempt. Transient
// failures (unreachable backend, timeout) are retried with backoff;
// permanent ones fall straight through to the next fallback method.
type BackendError struct {
	Method    Method
	Transient bool
	Err       error
}

func (e *BackendError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s: %s extraction failure: %v", e.Method, kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// TransientError wraps err as a retryable backend failure.
func TransientError(m Method, err error) *BackendError {
	return &BackendError{Method: m, Transient: true, Err: err}
}

// PermanentError wraps err as a non-retryable backend failure.
func PermanentError(m Method, err error) *BackendError {
	return &BackendError{Method: m, Transient: false, Err: err}
}

// IsTransient reports whether err should feed the retry loop. Attempt
// deadline expiry counts as transient even when an adapter forgot to
// classify it.
func IsTransient(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Transient
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// CacheError is any cache get/set failure. It is always swallowed by the
// facade: logged, counted, never surfaced to the caller.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// BatchConfigError is the only error class ProcessPages returns to the
// caller. Everything else degrades to per-page stub Results.
type BatchConfigError struct {
	Reason string
}

func (e *BatchConfigError) Error() string {
	return "invalid batch: " + e.Reason
}
