// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging_test

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"go.chromium.org/icutest/internal/logging"
)

func TestFileLogger(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC)
	for _, tc := range []struct {
		name  string
		level logging.Level
		msg   string
		want  string
	}{
		{"plain", logging.LevelInfo, "Running intltest", "2026-01-02T03:04:05.000006Z [INFO] Running intltest\n"},
		{"below level", logging.LevelDebug, "Running intltest LIST", ""},
		{"multi-line", logging.LevelInfo, "Command stdout:\n   format {\n   } ERRORS\n", "2026-01-02T03:04:05.000006Z [INFO] Command stdout:\n\t   format {\n\t   } ERRORS\n"},
		{"invalid utf-8", logging.LevelWarning, "bad \xff\xfebytes", "2026-01-02T03:04:05.000006Z [WARNING] bad bytes\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logging.NewFileLogger(&buf, logging.LevelInfo).Log(tc.level, ts, tc.msg)
			if diff := cmp.Diff(buf.String(), tc.want); diff != "" {
				t.Errorf("Log(%q) mismatch (-got +want):\n%s", tc.msg, diff)
			}
		})
	}
}

func TestFileLoggerLocalTime(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("UTC+9", 9*60*60)
	logging.NewFileLogger(&buf, logging.LevelDebug).Log(logging.LevelDebug, time.Date(2026, 1, 2, 12, 0, 0, 0, loc), "foo")

	if got, want := buf.String(), "2026-01-02T03:00:00.000000Z [DEBUG] foo\n"; got != want {
		t.Errorf("Log wrote %q; want %q", got, want)
	}
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := logrus.New()
	lg.SetOutput(&buf)
	lg.SetLevel(logrus.InfoLevel)
	lg.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	logger := logging.NewLogrusLogger(lg)
	logger.Log(logging.LevelDebug, time.Now(), "hidden")
	logger.Log(logging.LevelInfo, time.Now(), "shown")
	logger.Log(logging.LevelWarning, time.Now(), "careful")

	out := buf.String()
	if regexp.MustCompile(`hidden`).MatchString(out) {
		t.Errorf("Debug log was written at info level: %q", out)
	}
	for _, re := range []string{`level=info msg=shown`, `level=warning msg=careful`} {
		if !regexp.MustCompile(re).MatchString(out) {
			t.Errorf("Output %q does not match %q", out, re)
		}
	}
}
