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
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/config"
	"go.chromium.org/icutest/internal/logging"
	"go.chromium.org/icutest/internal/runner"
)

// logFilename is the name of the debug log written to the results dir.
const logFilename = "icutest.log"

// runCmd implements subcommands.Command to support running tests.
type runCmd struct {
	cfg    *config.MutableConfig // shared config for running tests
	open   channelOpener         // opens the device channel
	stdout io.Writer             // where to write the summary
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd(stdout io.Writer) *runCmd {
	return &runCmd{
		cfg:    config.NewMutableConfig(config.RunTestsMode),
		open:   openChannel,
		stdout: stdout,
	}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run tests" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... -module=<binary> <target> [filter]...

Description:
    Run an ICU4C test binary on a device and copy its XML report into
    -resultsdir. With -collectonly, the test catalog is written there
    instead and no test is run.

Target:
    The target is an SSH connection spec of the form "[user@]host[:port]".
    It is omitted when -local is passed.

Filter:
    Filters are dotted test paths starting with the module name. They are
    added to those passed with -include.

    To run the number format tests as the shell user:

        $ icutest run -module=intltest -runas=shell \
            <target> intltest.format.NumberTest

Flag:
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	r.cfg.SetFlags(f)
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !r.cfg.Local && len(f.Args()) == 0 && r.cfg.ConfigFile == "" {
		logging.Info(ctx, "Missing target.\n\n"+r.Usage())
		return subcommands.ExitUsageError
	}
	filters, err := prepareConfig(r.cfg, f)
	if err != nil {
		logging.Info(ctx, "Bad configuration: ", err)
		return subcommands.ExitUsageError
	}
	r.cfg.IncludeFilters = append(r.cfg.IncludeFilters, filters...)
	cfg := r.cfg.Freeze()

	sum, err := r.run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitFailure
	}
	if sum.OutPath == "" {
		fmt.Fprintf(r.stdout, "No report written; see %s\n", filepath.Join(cfg.ResultsDir(), logFilename))
		return subcommands.ExitSuccess
	}
	if sum.Collected {
		fmt.Fprintf(r.stdout, "Collected %d tests into %s\n", sum.Tests, sum.OutPath)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(r.stdout, "%d tests, %d failures; report in %s\n", sum.Tests, sum.Failures, sum.OutPath)
	if sum.Failures > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (r *runCmd) run(ctx context.Context, cfg *config.Config) (*runner.Summary, error) {
	if err := os.MkdirAll(cfg.ResultsDir(), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create results dir")
	}
	f, err := os.Create(filepath.Join(cfg.ResultsDir(), logFilename))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create log file")
	}
	defer f.Close()
	ctx = logging.AttachLogger(ctx, logging.NewFileLogger(f, logging.LevelDebug))

	ch, done, err := r.open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer done()
	return runner.New(cfg, ch, targetName(cfg)).Run(ctx)
}
