// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LogrusLogger is a Logger that forwards logs to a logrus logger.
type LogrusLogger struct {
	lg *logrus.Logger
}

// NewLogrusLogger creates a LogrusLogger writing to lg. The minimum level is
// controlled by lg.Level.
func NewLogrusLogger(lg *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{lg: lg}
}

// Log forwards a log entry, keeping the timestamp it was emitted with.
func (l *LogrusLogger) Log(level Level, ts time.Time, msg string) {
	l.lg.WithTime(ts).Log(logrusLevel(level), msg)
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarning:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
