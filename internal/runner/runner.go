// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runner runs an ICU4C test binary on a device, or collects its
// test catalog without running it.
package runner

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/config"
	"go.chromium.org/icutest/internal/discovery"
	"go.chromium.org/icutest/internal/filter"
	"go.chromium.org/icutest/internal/logging"
	"go.chromium.org/icutest/shutil"
)

const reportSuffix = "_res.xml"

// Summary describes the outcome of Run.
type Summary struct {
	// OutPath is the local path of the written catalog or report. It is
	// empty if no report was pulled.
	OutPath string
	// Tests is the number of catalog entries or report cases.
	Tests int
	// Failures is the number of failed report cases. It is always zero
	// when tests were only collected.
	Failures int
	// Collected is true if tests were listed instead of run.
	Collected bool
}

// Runner runs the test binary selected by a configuration.
type Runner struct {
	cfg    *config.Config
	ch     channel.Channel
	target string
}

// New returns a Runner executing commands through ch. target names the
// device in error messages.
func New(cfg *config.Config, ch channel.Channel, target string) *Runner {
	return &Runner{cfg: cfg, ch: ch, target: target}
}

// Run checks that the test binary is present on the device and then either
// writes its test catalog (collect-only mode) or runs it and copies its
// report into the results directory. In collect-only mode a binary that
// cannot be listed is run without pulling a report.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	bin := r.cfg.BinaryPath()
	ctx = logging.WithPrefix(ctx, "["+path.Base(bin)+"] ")
	if err := r.checkBinary(ctx, bin); err != nil {
		return nil, err
	}
	if excl := r.cfg.ExcludeFilters(); len(excl) > 0 {
		logging.Warningf(ctx, "ICU4C test binaries do not support exclude filters; ignoring %v", excl)
	}

	outPath := filepath.Join(r.cfg.ResultsDir(), path.Base(bin)+".xml")
	if !r.cfg.CollectTestsOnly() {
		return r.runTests(ctx, bin, outPath, true)
	}
	if d := discovery.ForBinary(r.ch, bin, r.cfg.NativeTestTimeout()); d != nil {
		return r.collect(ctx, d, bin, outPath)
	}
	logging.Infof(ctx, "Cannot list tests of %s without running it", bin)
	sum, err := r.runTests(ctx, bin, outPath, false)
	if err != nil {
		return nil, err
	}
	sum.Collected = true
	return sum, nil
}

func (r *Runner) checkBinary(ctx context.Context, bin string) error {
	exists, err := r.test(ctx, "e", bin)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("could not find native test binary %s in %s", bin, r.target)
	}
	executable, err := r.test(ctx, "x", bin)
	if err != nil {
		return err
	}
	if !executable {
		return errors.Errorf("%s exists but is not executable in %s", bin, r.target)
	}
	return nil
}

// test runs a shell file test. A non-zero exit code means the test was
// false; any other failure is returned as an error.
func (r *Runner) test(ctx context.Context, op, p string) (bool, error) {
	cmd := shutil.FileTest(op, p)
	res := r.ch.Run(ctx, cmd, r.cfg.NativeTestTimeout())
	switch res.Status {
	case channel.StatusSuccess, channel.StatusFailed:
		return res.ExitCode == 0, nil
	default:
		return false, errors.Wrapf(&channel.CommandError{
			Cmd:      cmd,
			ExitCode: res.ExitCode,
			Status:   res.Status,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}, "failed to check %s in %s", p, r.target)
	}
}

func (r *Runner) collect(ctx context.Context, d discovery.Discoverer, bin, outPath string) (*Summary, error) {
	logging.Infof(ctx, "Collecting tests of %s", bin)
	entries, err := d.DiscoverAll(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to collect tests of %s", bin)
	}
	if err := catalog.WriteFile(outPath, bin, entries); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "Wrote %d tests to %s", len(entries), outPath)
	return &Summary{OutPath: outPath, Tests: len(entries), Collected: true}, nil
}

// CommandLine returns the shell command line running bin and writing its
// report to reportPath.
func (r *Runner) CommandLine(ctx context.Context, bin, reportPath string) string {
	var args []string
	if u := r.cfg.RunTestAs(); u != "" {
		args = append(args, "su", u)
	}
	args = append(args, bin)
	if r.cfg.NoFailDataErrors() {
		args = append(args, "-w")
	}
	args = append(args, "-x", reportPath)
	args = append(args, filter.Translate(ctx, filter.Spec{
		Filters:    r.cfg.IncludeFilters(),
		ModuleName: r.cfg.ModuleName(),
		Prefix:     r.cfg.CommandFilterPrefix(),
	})...)
	return shutil.EscapeSlice(args)
}

// runTests runs bin and, if pull is set, copies its report to outPath. A
// report that cannot be pulled is logged and yields a summary with an empty
// OutPath.
func (r *Runner) runTests(ctx context.Context, bin, outPath string, pull bool) (*Summary, error) {
	reportPath := bin + reportSuffix
	defer r.cleanUp(ctx, reportPath)

	cmd := r.CommandLine(ctx, bin, reportPath)
	logging.Infof(ctx, "Running %s on %s", cmd, r.target)
	if _, err := channel.Execute(ctx, r.ch, cmd, r.cfg.NativeTestTimeout()); err != nil {
		var ce *channel.CommandError
		if errors.As(err, &ce) {
			logging.Infof(ctx, "Command stdout:\n%s", ce.Stdout)
			logging.Infof(ctx, "Command stderr:\n%s", ce.Stderr)
		}
		return nil, errors.Wrapf(err, "failed to run %s", bin)
	}
	if !pull {
		return &Summary{}, nil
	}

	// The binary may exit cleanly without writing a report.
	res, err := channel.Execute(ctx, r.ch, shutil.Command("cat", reportPath), r.cfg.NativeTestTimeout())
	if err != nil {
		logging.Warningf(ctx, "No report pulled from %s: %v", reportPath, err)
		return &Summary{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create results dir")
	}
	if err := os.WriteFile(outPath, []byte(res.Stdout), 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to save report to %s", outPath)
	}

	rep, err := catalog.ReadReport(bytes.NewBufferString(res.Stdout))
	if err != nil {
		return nil, errors.Wrapf(err, "bad report %s", reportPath)
	}
	sum := &Summary{OutPath: outPath, Tests: len(rep.Cases), Failures: rep.Failures()}
	for _, c := range rep.Cases {
		if c.Failed {
			logging.Infof(ctx, "FAILED %s/%s: %s", c.ClassName, c.Name, c.Failure)
		}
	}
	logging.Infof(ctx, "Ran %d tests with %d failures; report saved to %s", sum.Tests, sum.Failures, outPath)
	return sum, nil
}

// cleanUp removes the report from the device. Failures are only logged.
func (r *Runner) cleanUp(ctx context.Context, reportPath string) {
	if _, err := channel.Execute(ctx, r.ch, shutil.Command("rm", reportPath), r.cfg.NativeTestTimeout()); err != nil {
		logging.Infof(ctx, "Failed to remove %s: %v", reportPath, err)
	}
}
