// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package ocr adapts the Tesseract engine (via gosseract) as the general-ocr
// extraction backend.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	xtract "github.com/finsight/report-xtract"
)

// Config tunes the Tesseract adapter.
type Config struct {
	// Languages are Tesseract trained-data hints, e.g. "eng". Empty means
	// the engine default.
	Languages []string
	// TessdataDir overrides the trained-data location when set.
	TessdataDir string
}

// Extractor runs page bytes through Tesseract. A fresh client is created per
// call, so one Extractor is safe for concurrent use.
type Extractor struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// NewExtractor builds the general-ocr backend adapter.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (e *Extractor) Method() xtract.Method { return xtract.MethodOCR }

// Extract recognizes the chunk's image bytes. A page Tesseract cannot read
// as an image is a permanent failure; an engine error is transient. A blank
// page is not an error: it yields empty text with a zero signal.
func (e *Extractor) Extract(ctx context.Context, chunk *xtract.Chunk) (xtract.RawOutput, error) {
	if err := ctx.Err(); err != nil {
		return xtract.RawOutput{}, xtract.TransientError(xtract.MethodOCR, err)
	}

	client := e.clientFactory()
	defer client.Close()

	if e.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return xtract.RawOutput{}, xtract.TransientError(xtract.MethodOCR, fmt.Errorf("set tessdata dir: %w", err))
		}
	}
	if len(e.cfg.Languages) > 0 {
		if err := client.SetLanguage(e.cfg.Languages...); err != nil {
			return xtract.RawOutput{}, xtract.TransientError(xtract.MethodOCR, fmt.Errorf("set languages: %w", err))
		}
	}
	if err := client.SetImageFromBytes(chunk.Data); err != nil {
		return xtract.RawOutput{}, xtract.PermanentError(xtract.MethodOCR, fmt.Errorf("unreadable page image: %w", err))
	}

	text, err := client.Text()
	if err != nil {
		return xtract.RawOutput{}, xtract.TransientError(xtract.MethodOCR, fmt.Errorf("recognize text: %w", err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		// Blank page: recoverable input, let the scorer rate it.
		return xtract.RawOutput{}, nil
	}

	signal, blocks := wordConfidence(client)
	return xtract.RawOutput{Text: text, Signal: signal, BlockCount: blocks}, nil
}

// wordConfidence averages Tesseract's per-word confidences into [0,1] and
// counts the recognized block boxes. Missing box data degrades to a zero
// signal rather than an error.
func wordConfidence(client *gosseract.Client) (float64, int) {
	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(words) == 0 {
		return 0, 0
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence / 100.0
	}
	signal := sum / float64(len(words))

	blocks, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return signal, 0
	}
	return signal, len(blocks)
}
