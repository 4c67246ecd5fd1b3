// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"math"
	"strings"
	"unicode"
)

// Scorer converts backend-specific raw output into the universal confidence
// in [0,1]. Implementations must never return NaN or a value outside the
// range.
type Scorer interface {
	Score(method Method, raw RawOutput) float64
}

// domainVocabulary is the fixed keyword set the scorer checks for. Pages
// from consumer credit reports reliably contain a handful of these terms
// when extraction worked.
var domainVocabulary = []string{
	"account", "balance", "credit", "payment", "inquiry", "creditor",
	"report", "opened", "limit", "status", "collection", "charge",
	"dispute", "bureau", "installment", "revolving",
}

// scoreWeights is one backend's blend of quality signals. Each row sums to 1.
type scoreWeights struct {
	length      float64
	blocks      float64
	keywords    float64
	readability float64
	signal      float64
}

// Per-backend weights. The structured service reports block structure and a
// trustworthy native signal; OCR output is judged mostly by the text itself;
// the vision model reports no native confidence so its text carries the
// weight.
var methodWeights = map[Method]scoreWeights{
	MethodStructured: {length: 0.25, blocks: 0.20, keywords: 0.15, readability: 0.15, signal: 0.25},
	MethodOCR:        {length: 0.30, blocks: 0.10, keywords: 0.20, readability: 0.20, signal: 0.20},
	MethodVision:     {length: 0.35, blocks: 0.10, keywords: 0.30, readability: 0.25, signal: 0},
}

// Expected densities a fully readable page normalizes against.
const expectedBlockCount = 12

// keywordTarget is how many distinct vocabulary terms amount to full
// keyword presence.
const keywordTarget = 6

// WeightedScorer is the default heuristic Scorer.
type WeightedScorer struct {
	expectedChars int
}

// NewWeightedScorer builds a scorer normalizing text length against
// expectedChars per page.
func NewWeightedScorer(expectedChars int) *WeightedScorer {
	if expectedChars < 1 {
		expectedChars = NewDefaultConfig().ExpectedPageChars
	}
	return &WeightedScorer{expectedChars: expectedChars}
}

// Score blends the signals available for the backend into one confidence.
// Hybrid output has already been arbitrated by the composite adapter, so its
// winning score passes through unchanged.
func (s *WeightedScorer) Score(method Method, raw RawOutput) float64 {
	if method == MethodHybrid {
		return clampScore(raw.Signal)
	}
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return 0
	}
	w, ok := methodWeights[method]
	if !ok {
		w = methodWeights[MethodOCR]
	}

	length := math.Min(1, float64(len(text))/float64(s.expectedChars))
	blocks := math.Min(1, float64(raw.BlockCount)/float64(expectedBlockCount))
	keywords := math.Min(1, float64(keywordHits(text))/float64(keywordTarget))
	readability := alphanumericDensity(text)
	signal := clampScore(raw.Signal)

	score := w.length*length + w.blocks*blocks + w.keywords*keywords +
		w.readability*readability + w.signal*signal
	return clampScore(score)
}

func keywordHits(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range domainVocabulary {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// alphanumericDensity is the share of non-space characters that are letters
// or digits. Garbled OCR output is dominated by punctuation noise and scores
// low here.
func alphanumericDensity(text string) float64 {
	var alnum, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
