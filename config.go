// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config controls the extraction engine. Construct with NewDefaultConfig and
// override fields as needed; NewProcessor validates the result.
type Config struct {
	// GateCapacity is the maximum number of concurrent backend calls.
	GateCapacity int `validate:"min=1,max=64"`
	// MaxAttempts caps how often a transient failure is retried per method.
	MaxAttempts int `validate:"min=1,max=5"`
	// BaseRetryDelay is the first backoff delay; it doubles per attempt.
	BaseRetryDelay time.Duration `validate:"required"`
	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay time.Duration `validate:"required"`
	// AttemptTimeout is the per-attempt deadline for one backend call.
	// Expiry counts as a transient failure.
	AttemptTimeout time.Duration `validate:"required"`
	// FallbackChain lists the methods tried, in order, after the primary
	// method fails. Entries equal to the primary are skipped at runtime.
	FallbackChain []Method `validate:"min=1,dive,oneof=primary-structured general-ocr vision-model hybrid"`
	// CacheTTL bounds how long a cached Result stays valid.
	CacheTTL time.Duration `validate:"required"`
	// MinCacheConfidence is the quality threshold a Result must clear
	// before it is persisted to the cache.
	MinCacheConfidence float64 `validate:"min=0,max=1"`
	// ExpectedPageChars is the text length a fully readable page is
	// expected to yield; the scorer normalizes length against it.
	ExpectedPageChars int `validate:"min=1"`

	// Scorer converts raw backend output into a [0,1] confidence.
	// Nil selects the weighted heuristic scorer.
	Scorer Scorer
	// Logger receives structured diagnostics. Nil selects slog.Default().
	Logger *slog.Logger
}

// NewDefaultConfig returns a Config with production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		GateCapacity:       5,
		MaxAttempts:        3,
		BaseRetryDelay:     200 * time.Millisecond,
		MaxRetryDelay:      2 * time.Second,
		AttemptTimeout:     30 * time.Second,
		FallbackChain:      []Method{MethodOCR, MethodVision},
		CacheTTL:           24 * time.Hour,
		MinCacheConfidence: 0.7,
		ExpectedPageChars:  1800,
	}
}

// Validate checks the configuration against its constraints.
func (cfg *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(cfg)
}
