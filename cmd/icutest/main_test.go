// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	gotesting "testing"

	"github.com/google/subcommands"

	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/channel/channeltest"
	"go.chromium.org/icutest/internal/config"
)

// stubOpener returns a channelOpener handing out ch and recording the
// configuration it was called with.
func stubOpener(ch channel.Channel, got **config.Config) channelOpener {
	return func(ctx context.Context, cfg *config.Config) (channel.Channel, func(), error) {
		if got != nil {
			*got = cfg
		}
		return ch, func() {}, nil
	}
}

// executeCmd parses args into a flag set registered by cmd and executes it.
func executeCmd(t *gotesting.T, cmd subcommands.Command, args []string) subcommands.ExitStatus {
	t.Helper()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	cmd.SetFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd.Execute(context.Background(), flags)
}

// newDevice returns a fake channel holding an executable binary at bin.
func newDevice(bin string) *channeltest.Fake {
	fake := channeltest.NewFake()
	fake.SetStdout("[ -e "+bin+" ]", "")
	fake.SetStdout("[ -x "+bin+" ]", "")
	return fake
}
