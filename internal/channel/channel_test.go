// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package channel_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/channel/channeltest"
	"go.chromium.org/icutest/internal/logging"
	"go.chromium.org/icutest/internal/logging/loggingtest"
)

func TestExecute(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout("ok", "out\n")
	fake.Set("fail", &channel.Result{Stdout: "partial", Stderr: "boom", ExitCode: 3, Status: channel.StatusFailed})
	fake.Set("zero-but-timeout", &channel.Result{Status: channel.StatusTimedOut})

	ctx, rec := loggingtest.NewContext(t)

	res, err := channel.Execute(ctx, fake, "ok", time.Second)
	if err != nil {
		t.Fatalf("Execute(ok) failed: %v", err)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Execute(ok) stdout = %q; want %q", res.Stdout, "out\n")
	}
	if !rec.Has(logging.LevelDebug, "Running ok") {
		t.Errorf("Execute(ok) did not log the command; logs:\n%s", rec)
	}

	for _, tc := range []struct {
		cmd      string
		exitCode int
		status   channel.Status
	}{
		{"fail", 3, channel.StatusFailed},
		{"zero-but-timeout", 0, channel.StatusTimedOut},
		{"unknown", -1, channel.StatusException},
	} {
		_, err := channel.Execute(ctx, fake, tc.cmd, time.Second)
		var ce *channel.CommandError
		if !errors.As(err, &ce) {
			t.Errorf("Execute(%q) = %v; want *CommandError", tc.cmd, err)
			continue
		}
		if ce.Cmd != tc.cmd || ce.ExitCode != tc.exitCode || ce.Status != tc.status {
			t.Errorf("Execute(%q) = {%q, %d, %v}; want {%q, %d, %v}",
				tc.cmd, ce.Cmd, ce.ExitCode, ce.Status, tc.cmd, tc.exitCode, tc.status)
		}
	}

	want := []string{"ok", "fail", "zero-but-timeout", "unknown"}
	if diff := cmp.Diff(fake.Cmds(), want); diff != "" {
		t.Errorf("Commands mismatch (-got +want):\n%s", diff)
	}
}

func TestStatusString(t *testing.T) {
	for _, tc := range []struct {
		s    channel.Status
		want string
	}{
		{channel.StatusSuccess, "SUCCESS"},
		{channel.StatusFailed, "FAILED"},
		{channel.StatusTimedOut, "TIMED_OUT"},
		{channel.StatusException, "EXCEPTION"},
		{channel.Status(42), "Status(42)"},
	} {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q; want %q", int(tc.s), got, tc.want)
		}
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	var ch channel.Local

	res := ch.Run(ctx, "echo hello; echo oops >&2", 10*time.Second)
	if res.Status != channel.StatusSuccess || res.ExitCode != 0 {
		t.Fatalf("Run: status %v, exit %d; want success", res.Status, res.ExitCode)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Run stdout = %q; want %q", res.Stdout, "hello\n")
	}
	if res.Stderr != "oops\n" {
		t.Errorf("Run stderr = %q; want %q", res.Stderr, "oops\n")
	}

	res = ch.Run(ctx, "exit 7", 10*time.Second)
	if res.Status != channel.StatusFailed || res.ExitCode != 7 {
		t.Errorf("Run(exit 7): status %v, exit %d; want FAILED, 7", res.Status, res.ExitCode)
	}
}

func TestLocalTimeout(t *testing.T) {
	start := time.Now()
	res := channel.Local{}.Run(context.Background(), "sleep 60 & sleep 60", 100*time.Millisecond)
	if res.Status != channel.StatusTimedOut {
		t.Errorf("Run status = %v; want %v", res.Status, channel.StatusTimedOut)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Second {
		t.Errorf("Run took %v; the process group was not killed", elapsed)
	}
}
