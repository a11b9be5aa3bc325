// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

const fileTimeFormat = "2006-01-02T15:04:05.000000Z"

// FileLogger is a Logger writing the debug log kept next to the results.
//
// Each entry becomes one line holding a UTC timestamp, the level and the
// message. Lines after the first of a multi-line message, such as the
// captured stdout of a failed test binary, are indented by a tab so every
// unindented line starts a new entry. Invalid UTF-8 from device output is
// dropped.
type FileLogger struct {
	level Level

	mu sync.Mutex
	w  *bufio.Writer
}

// NewFileLogger returns a FileLogger writing entries at level or above to w.
// Every entry is flushed to w before Log returns.
func NewFileLogger(w io.Writer, level Level) *FileLogger {
	return &FileLogger{level: level, w: bufio.NewWriter(w)}
}

// Log writes a log entry.
func (l *FileLogger) Log(level Level, ts time.Time, msg string) {
	if level < l.level {
		return
	}
	msg = strings.ToValidUTF8(msg, "")
	msg = strings.TrimRight(msg, "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.WriteString(ts.UTC().Format(fileTimeFormat))
	l.w.WriteString(" [")
	l.w.WriteString(level.String())
	l.w.WriteString("] ")
	l.w.WriteString(strings.ReplaceAll(msg, "\n", "\n\t"))
	l.w.WriteByte('\n')
	l.w.Flush()
}
