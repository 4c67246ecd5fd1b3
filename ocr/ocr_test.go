// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xtract "github.com/finsight/report-xtract"
)

func TestExtractor_Method(t *testing.T) {
	e := NewExtractor(Config{})
	assert.Equal(t, xtract.MethodOCR, e.Method())
}

func TestExtract_HonorsCancelledContext(t *testing.T) {
	e := NewExtractor(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunk := &xtract.Chunk{Data: []byte("irrelevant")}
	_, err := e.Extract(ctx, chunk)
	require.Error(t, err)
	assert.True(t, xtract.IsTransient(err))
	assert.ErrorIs(t, err, context.Canceled)
}
