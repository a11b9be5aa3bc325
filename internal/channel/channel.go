// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package channel executes shell command lines on the device under test.
package channel

import (
	"context"
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"

	"go.chromium.org/icutest/internal/logging"
)

// Status describes how a command finished.
type Status int

const (
	// StatusSuccess means the command ran to completion with exit code 0.
	StatusSuccess Status = iota
	// StatusFailed means the command ran to completion with a non-zero exit code.
	StatusFailed
	// StatusTimedOut means the command was killed when its timeout expired.
	StatusTimedOut
	// StatusException means the command could not be run or its transport broke.
	StatusException
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusException:
		return "EXCEPTION"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result holds the outcome of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Status   Status
	// Err describes the transport failure for StatusException.
	Err error
}

// Channel runs one shell command line at a time on a target.
//
// Run blocks until the command finishes or timeout expires and never
// retries. It always returns a non-nil Result; failures are described by
// Result.Status rather than by an error.
type Channel interface {
	Run(ctx context.Context, cmd string, timeout time.Duration) *Result
}

// CommandError is returned by Execute when a command exits with a non-zero
// code or does not complete successfully.
type CommandError struct {
	Cmd      string
	ExitCode int
	Status   Status
	Stdout   string
	Stderr   string
	cause    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%q exited with code %d and status %v", e.Cmd, e.ExitCode, e.Status)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the transport error, if any.
func (e *CommandError) Unwrap() error { return e.cause }

// clk measures command durations.
var clk clock.Clock = clock.NewClock()

// Execute runs cmd on ch and returns its result. Any outcome other than a
// zero exit code with StatusSuccess is returned as *CommandError.
func Execute(ctx context.Context, ch Channel, cmd string, timeout time.Duration) (*Result, error) {
	logging.Debugf(ctx, "Running %s", cmd)
	start := clk.Now()
	res := ch.Run(ctx, cmd, timeout)
	logging.Debugf(ctx, "%s finished with exit code %d and status %v in %v",
		cmd, res.ExitCode, res.Status, clk.Since(start).Round(time.Millisecond))

	if res.ExitCode != 0 || res.Status != StatusSuccess {
		return res, &CommandError{
			Cmd:      cmd,
			ExitCode: res.ExitCode,
			Status:   res.Status,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			cause:    res.Err,
		}
	}
	return res, nil
}
