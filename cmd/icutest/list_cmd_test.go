// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	gotesting "testing"

	"github.com/google/subcommands"

	"go.chromium.org/icutest/internal/channel/channeltest"
	"go.chromium.org/icutest/internal/config"
	"go.chromium.org/icutest/testutil"
)

const intltest = "/data/local/tmp/intltest"

func newIntltestDevice() *channeltest.Fake {
	fake := newDevice(intltest)
	fake.SetStdout(intltest+" LIST", "Test names:\n-----------\nSuiteA\n\n")
	fake.SetStdout(intltest+" SuiteA/LIST", " SuiteA {\ndesc : CaseOne\n} OK: SuiteA\n")
	fake.SetStdout(intltest+" SuiteA/CaseOne/LIST", " CaseOne {\n} OK: CaseOne\n")
	return fake
}

func TestListTests(t *gotesting.T) {
	stdout := bytes.Buffer{}
	cmd := newListCmd(&stdout)
	var cfg *config.Config
	cmd.open = stubOpener(newIntltestDevice(), &cfg)

	args := []string{"-module=intltest", "root@example.net"}
	if status := executeCmd(t, cmd, args); status != subcommands.ExitSuccess {
		t.Fatalf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitSuccess)
	}
	if exp := "SuiteA/CaseOne CaseOne\n/SuiteA SuiteA\n"; stdout.String() != exp {
		t.Errorf("listCmd.Execute(%v) printed %q; want %q", args, stdout.String(), exp)
	}
	if cfg.Target() != "root@example.net" {
		t.Errorf("Target() = %q; want %q", cfg.Target(), "root@example.net")
	}
}

func TestListTestsXML(t *gotesting.T) {
	stdout := bytes.Buffer{}
	cmd := newListCmd(&stdout)
	cmd.open = stubOpener(newIntltestDevice(), nil)

	args := []string{"-xml", "-local", "-module=intltest"}
	if status := executeCmd(t, cmd, args); status != subcommands.ExitSuccess {
		t.Fatalf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitSuccess)
	}
	if n := strings.Count(stdout.String(), "<testcase"); n != 2 {
		t.Errorf("listCmd.Execute(%v) printed %d testcases; want 2:\n%s", args, n, stdout.String())
	}
}

func TestListTestsConfigFile(t *gotesting.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"icutest.yaml": "target: dut\nmodule: intltest\n",
	}); err != nil {
		t.Fatal(err)
	}

	stdout := bytes.Buffer{}
	cmd := newListCmd(&stdout)
	var cfg *config.Config
	cmd.open = stubOpener(newIntltestDevice(), &cfg)

	args := []string{"-config=" + filepath.Join(td, "icutest.yaml")}
	if status := executeCmd(t, cmd, args); status != subcommands.ExitSuccess {
		t.Fatalf("listCmd.Execute(%v) returned status %v; want %v", args, status, subcommands.ExitSuccess)
	}
	if cfg.Target() != "dut" || cfg.ModuleName() != "intltest" {
		t.Errorf("Config has target %q and module %q; want dut and intltest", cfg.Target(), cfg.ModuleName())
	}
}

func TestListTestsErrors(t *gotesting.T) {
	for _, tc := range []struct {
		args []string
		want subcommands.ExitStatus
	}{
		{[]string{"-module=intltest"}, subcommands.ExitUsageError},
		{[]string{"-local"}, subcommands.ExitUsageError},
		{[]string{"-module=intltest", "dut", "extra"}, subcommands.ExitUsageError},
		{[]string{"-module=ctestfw", "dut"}, subcommands.ExitFailure},
		{[]string{"-module=cintltst", "dut"}, subcommands.ExitFailure},
	} {
		cmd := newListCmd(&bytes.Buffer{})
		cmd.open = stubOpener(newIntltestDevice(), nil)
		if status := executeCmd(t, cmd, tc.args); status != tc.want {
			t.Errorf("listCmd.Execute(%v) returned status %v; want %v", tc.args, status, tc.want)
		}
	}
}
