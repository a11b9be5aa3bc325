// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"go.chromium.org/icutest/internal/filter"
	"go.chromium.org/icutest/internal/logging"
)

// filtersCmd implements subcommands.Command to print the binary arguments
// selected by dotted filters.
type filtersCmd struct {
	module string
	prefix string
	stdout io.Writer
}

var _ = subcommands.Command(&filtersCmd{})

func newFiltersCmd(stdout io.Writer) *filtersCmd {
	return &filtersCmd{stdout: stdout}
}

func (*filtersCmd) Name() string     { return "filters" }
func (*filtersCmd) Synopsis() string { return "translate test filters" }
func (*filtersCmd) Usage() string {
	return `Usage: filters [flag]... -module=<binary> <filter>...

Description:
    Print the arguments passed to the test binary for the given dotted
    filters, one per line. Filters outside the module are dropped (run with
    -verbose to see why). No device is contacted.

    Example:

        $ icutest filters -module=intltest intltest.format.NumberTest
        format/NumberTest

Flag:
`
}

func (fc *filtersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&fc.module, "module", "", "test binary the filters belong to, e.g. intltest")
	f.StringVar(&fc.prefix, "filterprefix", "", "string replacing the leading slash of translated filters")
}

func (fc *filtersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if fc.module == "" || len(f.Args()) == 0 {
		logging.Info(ctx, "Missing module or filters.\n\n"+fc.Usage())
		return subcommands.ExitUsageError
	}
	for _, arg := range filter.Translate(ctx, filter.Spec{Filters: f.Args(), ModuleName: fc.module, Prefix: fc.prefix}) {
		fmt.Fprintln(fc.stdout, arg)
	}
	return subcommands.ExitSuccess
}
