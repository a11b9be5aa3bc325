// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/config"
	"go.chromium.org/icutest/internal/logging"
	"go.chromium.org/icutest/ssh"
)

const sshRetryInterval = 2 * time.Second

// channelOpener opens a command channel to the device described by cfg.
// The returned function releases it.
type channelOpener func(ctx context.Context, cfg *config.Config) (channel.Channel, func(), error)

// openChannel is the channelOpener used outside of unit tests.
func openChannel(ctx context.Context, cfg *config.Config) (channel.Channel, func(), error) {
	if cfg.Local() {
		return channel.Local{}, func() {}, nil
	}

	o := &ssh.Options{
		KeyFile:              cfg.KeyFile(),
		KeyDir:               cfg.KeyDir(),
		ConnectTimeout:       cfg.ConnectTimeout(),
		ConnectRetries:       cfg.SSHRetries(),
		ConnectRetryInterval: sshRetryInterval,
		WarnFunc:             func(msg string) { logging.Info(ctx, msg) },
	}
	if err := ssh.ParseTarget(cfg.Target(), o); err != nil {
		return nil, nil, err
	}
	logging.Debugf(ctx, "Connecting to %s", o.Hostname)
	conn, err := ssh.New(ctx, o)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to connect to %s", cfg.Target())
	}
	return channel.NewSSH(conn), func() {
		if err := conn.Close(); err != nil {
			logging.Debugf(ctx, "Failed to close connection to %s: %v", cfg.Target(), err)
		}
	}, nil
}

// targetName returns the device name used in messages.
func targetName(cfg *config.Config) string {
	if cfg.Local() {
		return "localhost"
	}
	return cfg.Target()
}

// prepareConfig completes cfg from the positional arguments and the
// optional configuration file, returning the remaining arguments.
func prepareConfig(cfg *config.MutableConfig, f *flag.FlagSet) ([]string, error) {
	args := f.Args()
	if !cfg.Local && len(args) > 0 {
		cfg.Target = args[0]
		args = args[1:]
	}
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile, f); err != nil {
			return nil, err
		}
	}
	if err := cfg.DeriveDefaults(); err != nil {
		return nil, err
	}
	return args, nil
}
