// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePageText = `CREDIT REPORT
Account: CHASE BANK ****1234
Account Type: Revolving  Status: Current
Balance: $2,500.00  Credit Limit: $5,000.00
Date Opened: 01/15/2015  Last Payment: 12/15/2023
Inquiry: BEST BUY 12/01/2023
Creditor remarks: account in good standing.`

func TestWeightedScorer_Bounds(t *testing.T) {
	scorer := NewWeightedScorer(1800)

	outputs := []RawOutput{
		{},
		{Text: samplePageText, Signal: 0.8, BlockCount: 6},
		{Text: strings.Repeat(samplePageText, 20), Signal: 1, BlockCount: 100},
		{Text: "x", Signal: 5.0},
		{Text: "x", Signal: -3.0},
		{Text: "x", Signal: math.NaN()},
		{Text: strings.Repeat("#%@!", 500)},
	}
	for _, m := range Methods() {
		for _, raw := range outputs {
			score := scorer.Score(m, raw)
			assert.False(t, math.IsNaN(score), "score must never be NaN")
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestWeightedScorer_EmptyTextScoresZero(t *testing.T) {
	scorer := NewWeightedScorer(1800)
	assert.Zero(t, scorer.Score(MethodOCR, RawOutput{}))
	assert.Zero(t, scorer.Score(MethodStructured, RawOutput{Text: "   \n "}))
}

func TestWeightedScorer_KeywordsRaiseScore(t *testing.T) {
	scorer := NewWeightedScorer(1800)

	plain := RawOutput{Text: strings.Repeat("lorem ipsum dolor sit amet ", 10)}
	domain := RawOutput{Text: samplePageText}

	assert.Greater(t, scorer.Score(MethodOCR, domain), scorer.Score(MethodOCR, plain))
}

func TestWeightedScorer_GarbledTextScoresLow(t *testing.T) {
	scorer := NewWeightedScorer(1800)

	clean := scorer.Score(MethodOCR, RawOutput{Text: samplePageText})
	garbled := scorer.Score(MethodOCR, RawOutput{Text: strings.Repeat("~]#^*(@! ", 40)})

	assert.Greater(t, clean, garbled)
}

func TestWeightedScorer_SignalRaisesScore(t *testing.T) {
	scorer := NewWeightedScorer(1800)

	weak := scorer.Score(MethodStructured, RawOutput{Text: samplePageText, Signal: 0.1})
	strong := scorer.Score(MethodStructured, RawOutput{Text: samplePageText, Signal: 0.95})

	assert.Greater(t, strong, weak)
}

func TestWeightedScorer_HybridPassesThroughArbitratedScore(t *testing.T) {
	scorer := NewWeightedScorer(1800)
	assert.Equal(t, 0.9, scorer.Score(MethodHybrid, RawOutput{Text: "whatever", Signal: 0.9}))
	assert.Equal(t, 1.0, scorer.Score(MethodHybrid, RawOutput{Signal: 7}))
	assert.Equal(t, 0.0, scorer.Score(MethodHybrid, RawOutput{Signal: math.NaN()}))
}
