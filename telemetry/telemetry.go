// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry defines the fire-and-forget event sink the extraction
// engine reports into, with a slog-backed sink for production and a
// capturing recorder for tests.
package telemetry

import (
	"log/slog"
	"sync"
)

// Sink receives named events with structured key/value fields. Record must
// never block the caller and must tolerate concurrent use.
type Sink interface {
	Record(event string, fields ...any)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Record(string, ...any) {}

// SlogSink forwards events to a structured logger at info level.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps a logger as a Sink. A nil logger falls back to
// slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Record(event string, fields ...any) {
	s.logger.Info(event, fields...)
}

// Event is one recorded telemetry entry.
type Event struct {
	Name   string
	Fields []any
}

// Recorder captures events in memory so tests can assert on what the engine
// reported.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Record(event string, fields ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Fields: fields})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Find returns the first event with the given name.
func (r *Recorder) Find(name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Name == name {
			return ev, true
		}
	}
	return Event{}, false
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
