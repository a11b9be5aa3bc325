// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/config"
	"go.chromium.org/icutest/internal/discovery"
	"go.chromium.org/icutest/internal/logging"
)

// listCmd implements subcommands.Command to support listing tests.
type listCmd struct {
	xml    bool                  // write the catalog XML instead of test paths
	cfg    *config.MutableConfig // shared config for listing tests
	open   channelOpener         // opens the device channel
	stdout io.Writer             // where to write tests
}

var _ = subcommands.Command(&listCmd{})

// newListCmd returns a new listCmd that will write tests to stdout.
func newListCmd(stdout io.Writer) *listCmd {
	return &listCmd{
		cfg:    config.NewMutableConfig(config.ListTestsMode),
		open:   openChannel,
		stdout: stdout,
	}
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list tests" }
func (*listCmd) Usage() string {
	return `Usage: list [flag]... -module=<binary> <target>

Description:
    List the tests of an ICU4C test binary without running them.

Target:
    The target is an SSH connection spec of the form "[user@]host[:port]".
    It is omitted when -local is passed.

    To list all intltest tests:

        $ icutest list -module=intltest <target>

    Tests are printed as "<classname> <name>", one per line, children
    before their parents. Pass -xml to print the catalog document instead.

Flag:
`
}

func (lc *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&lc.xml, "xml", false, "print the catalog as XML")
	lc.cfg.SetFlags(f)
}

func (lc *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !lc.cfg.Local && len(f.Args()) == 0 && lc.cfg.ConfigFile == "" {
		logging.Info(ctx, "Missing target.\n\n"+lc.Usage())
		return subcommands.ExitUsageError
	}
	if args, err := prepareConfig(lc.cfg, f); err != nil {
		logging.Info(ctx, "Bad configuration: ", err)
		return subcommands.ExitUsageError
	} else if len(args) > 0 {
		logging.Infof(ctx, "Unexpected arguments %q.\n\n%s", args, lc.Usage())
		return subcommands.ExitUsageError
	}
	cfg := lc.cfg.Freeze()

	entries, err := lc.list(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := lc.printTests(cfg.BinaryPath(), entries); err != nil {
		logging.Info(ctx, "Failed to write tests: ", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (lc *listCmd) list(ctx context.Context, cfg *config.Config) ([]catalog.Entry, error) {
	bin := cfg.BinaryPath()
	ch, done, err := lc.open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer done()

	d := discovery.ForBinary(ch, bin, cfg.NativeTestTimeout())
	if d == nil {
		return nil, errors.Errorf("tests of %s cannot be listed; only intltest and cintltst are supported", bin)
	}
	return d.DiscoverAll(ctx)
}

// printTests writes the supplied tests to lc.stdout.
func (lc *listCmd) printTests(bin string, entries []catalog.Entry) error {
	if lc.xml {
		return catalog.Write(lc.stdout, bin, entries)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(lc.stdout, e.ClassName, e.Name); err != nil {
			return err
		}
	}
	return nil
}
