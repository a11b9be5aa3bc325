// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package channel

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/ssh"
)

// SSH runs commands on a device over an established SSH connection.
type SSH struct {
	conn *ssh.Conn
}

var _ Channel = (*SSH)(nil)

// NewSSH returns a channel running commands over conn. The caller keeps
// ownership of conn.
func NewSSH(conn *ssh.Conn) *SSH {
	return &SSH{conn: conn}
}

// Run runs cmd through the remote user's shell.
func (s *SSH) Run(ctx context.Context, cmd string, timeout time.Duration) *Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	err := s.conn.Run(ctx, cmd, &stdout, &stderr)
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var ee *ssh.ExitError
	switch {
	case err == nil:
		res.Status = StatusSuccess
	case errors.As(err, &ee):
		res.ExitCode = ee.ExitStatus()
		res.Status = StatusFailed
	case errors.Is(err, context.DeadlineExceeded):
		res.ExitCode = -1
		res.Status = StatusTimedOut
		res.Err = err
	default:
		res.ExitCode = -1
		res.Status = StatusException
		res.Err = err
	}
	return res
}
