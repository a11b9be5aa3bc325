// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package channeltest provides a scripted command channel for unit tests.
package channeltest

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/channel"
)

// Call records one command received by Fake.
type Call struct {
	Cmd     string
	Timeout time.Duration
}

// Fake is a channel.Channel returning canned results keyed by exact command
// line. Unknown commands fail with StatusException.
type Fake struct {
	mu        sync.Mutex
	responses map[string]*channel.Result
	calls     []Call
}

var _ channel.Channel = (*Fake)(nil)

// NewFake returns a Fake with no canned responses.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]*channel.Result)}
}

// SetStdout registers a successful response for cmd.
func (f *Fake) SetStdout(cmd, stdout string) {
	f.Set(cmd, &channel.Result{Stdout: stdout, Status: channel.StatusSuccess})
}

// Set registers res as the response for cmd.
func (f *Fake) Set(cmd string, res *channel.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = res
}

// Run implements channel.Channel.
func (f *Fake) Run(ctx context.Context, cmd string, timeout time.Duration) *channel.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Cmd: cmd, Timeout: timeout})
	res, ok := f.responses[cmd]
	if !ok {
		return &channel.Result{
			ExitCode: -1,
			Status:   channel.StatusException,
			Err:      errors.Errorf("unexpected command %q", cmd),
		}
	}
	cp := *res
	return &cp
}

// Calls returns the commands received so far, in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Cmds returns the command lines received so far, in order.
func (f *Fake) Cmds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cmds []string
	for _, c := range f.calls {
		cmds = append(cmds, c.Cmd)
	}
	return cmds
}
