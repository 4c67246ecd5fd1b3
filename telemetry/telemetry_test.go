// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CapturesEvents(t *testing.T) {
	rec := &Recorder{}
	rec.Record("batch.completed", "pages", 5, "failed", 0)
	rec.Record("chunk.failed", "page", 3)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "batch.completed", events[0].Name)
	assert.Contains(t, events[0].Fields, "pages")

	ev, ok := rec.Find("chunk.failed")
	require.True(t, ok)
	assert.Equal(t, []any{"page", 3}, ev.Fields)

	_, ok = rec.Find("nonexistent")
	assert.False(t, ok)

	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestRecorder_ConcurrentUse(t *testing.T) {
	rec := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Record("event", "k", "v")
		}()
	}
	wg.Wait()
	assert.Len(t, rec.Events(), 50)
}

func TestSlogSink_Forwards(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	sink := NewSlogSink(logger)
	sink.Record("batch.completed", "pages", 2)

	assert.Contains(t, buf.String(), "batch.completed")
	assert.Contains(t, buf.String(), "pages=2")
}

func TestSlogSink_NilLoggerDefaults(t *testing.T) {
	sink := NewSlogSink(nil)
	assert.NotPanics(t, func() { sink.Record("event") })
}

func TestNopSink(t *testing.T) {
	assert.NotPanics(t, func() { NopSink{}.Record("anything", "k", "v") })
}
