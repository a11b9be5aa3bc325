// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package channel

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Local runs commands with /bin/sh on the host itself, e.g. for a device
// image mounted locally or an emulator sharing the host filesystem.
type Local struct{}

var _ Channel = Local{}

// Run runs cmd with "sh -c". On timeout the whole process group is killed so
// that grandchildren of the shell do not keep the output pipes open.
func (Local) Run(ctx context.Context, cmd string, timeout time.Duration) *Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	c := exec.Command("/bin/sh", "-c", cmd)
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		return &Result{ExitCode: -1, Status: StatusException, Err: errors.Wrap(err, "failed to start shell")}
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- c.Wait() }()

	var err error
	select {
	case err = <-waitCh:
	case <-ctx.Done():
		unix.Kill(-c.Process.Pid, unix.SIGKILL)
		<-waitCh
		return &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
			Status:   StatusTimedOut,
			Err:      ctx.Err(),
		}
	}

	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var ee *exec.ExitError
	switch {
	case err == nil:
		res.Status = StatusSuccess
	case errors.As(err, &ee):
		res.ExitCode = ee.ExitCode()
		res.Status = StatusFailed
	default:
		res.ExitCode = -1
		res.Status = StatusException
		res.Err = err
	}
	return res
}
