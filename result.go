// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import "time"

// ImageQuality is a coarse classification of the source page image derived
// from its byte size. It travels in Result metadata so callers can weigh a
// low-confidence extraction against the input it came from.
type ImageQuality string

const (
	QualityLow    ImageQuality = "low"
	QualityMedium ImageQuality = "medium"
	QualityHigh   ImageQuality = "high"
)

// Size thresholds for classifying a page image. Scans below ~50KiB are
// usually heavily compressed or tiny; above ~500KiB the resolution is
// typically enough for reliable OCR.
const (
	lowQualityBytes  = 50 << 10
	highQualityBytes = 500 << 10
)

func classifyImageQuality(size int) ImageQuality {
	switch {
	case size < lowQualityBytes:
		return QualityLow
	case size < highQualityBytes:
		return QualityMedium
	default:
		return QualityHigh
	}
}

// Metadata carries per-page observations recorded alongside the extracted
// text. JSON tags keep the shape stable for cache serialization.
type Metadata struct {
	ByteSize     int          `json:"byte_size"`
	BlockCount   int          `json:"block_count"`
	ImageQuality ImageQuality `json:"image_quality"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Result is the immutable outcome of processing one Chunk. Every chunk
// submitted to the orchestrator yields exactly one Result, even on total
// failure (a zero-confidence, empty-text stub).
type Result struct {
	ChunkID          string   `json:"chunk_id"`
	PageNumber       int      `json:"page_number"`
	Text             string   `json:"text"`
	Confidence       float64  `json:"confidence"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	MethodUsed       Method   `json:"method_used"`
	Meta             Metadata `json:"metadata"`
}

// stubResult is returned when every method exhausted its attempts for a
// chunk. MethodUsed records the last method tried so callers can see how far
// the fallback chain went.
func stubResult(c *Chunk, last Method) Result {
	return Result{
		ChunkID:    c.ID,
		PageNumber: c.PageNumber,
		Text:       "",
		Confidence: 0,
		MethodUsed: last,
		Meta: Metadata{
			ByteSize:     c.Size,
			ImageQuality: classifyImageQuality(c.Size),
			Timestamp:    time.Now().UTC(),
		},
	}
}
