// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package loggingtest records harness logs in unit tests.
package loggingtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.chromium.org/icutest/internal/logging"
)

// Entry is a recorded log.
type Entry struct {
	Level logging.Level
	Msg   string
}

// Recorder is a logging.Logger that records every log it receives and
// echoes it to the test log.
type Recorder struct {
	t *testing.T

	mu      sync.Mutex
	entries []Entry
}

// NewContext returns a context whose logs are recorded by the returned
// Recorder.
func NewContext(t *testing.T) (context.Context, *Recorder) {
	rec := &Recorder{t: t}
	return logging.AttachLogger(context.Background(), rec), rec
}

// Log records a log entry.
func (r *Recorder) Log(level logging.Level, ts time.Time, msg string) {
	r.t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t.Logf("[%v] %s", level, msg)
	r.entries = append(r.entries, Entry{Level: level, Msg: msg})
}

// Entries returns the entries recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Has reports whether an entry at exactly level contains substr.
func (r *Recorder) Has(level logging.Level, substr string) bool {
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

// String returns the recorded entries one per line, each tagged with its
// level, for use in failure messages.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, e := range r.Entries() {
		fmt.Fprintf(&sb, "[%v] %s\n", e.Level, e.Msg)
	}
	return sb.String()
}
