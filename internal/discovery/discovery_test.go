// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package discovery

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/channel/channeltest"
)

const (
	intltest = "/data/local/tmp/intltest"
	cintltst = "/data/local/tmp/cintltst"
	timeout  = 60 * time.Second
)

func TestSuiteDiscoverAll(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(intltest+" LIST", "Test names:\n-----------\nSuiteA\n\n")
	fake.SetStdout(intltest+" SuiteA/LIST", " SuiteA {\ndesc : CaseOne\n} OK: SuiteA\n")
	fake.SetStdout(intltest+" SuiteA/CaseOne/LIST", " CaseOne {\n} OK: CaseOne\n")

	d := NewSuiteDiscoverer(fake, intltest, timeout)
	got, err := d.DiscoverAll(context.Background())
	if err != nil {
		t.Fatal("DiscoverAll failed: ", err)
	}
	want := []catalog.Entry{
		{ClassName: "SuiteA/CaseOne", Name: "CaseOne", Time: "0.000000"},
		{ClassName: "/SuiteA", Name: "SuiteA", Time: "0.000000"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("DiscoverAll mismatch (-got +want):\n%s", diff)
	}
	for _, c := range fake.Calls() {
		if c.Timeout != timeout {
			t.Errorf("%q run with timeout %v; want %v", c.Cmd, c.Timeout, timeout)
		}
	}
}

func TestSuiteDiscoverPostOrder(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(intltest+" format/LIST", `
   format {
   Test names:
   -----------
   NumberTest
   DateTest
   } OK: format
`)
	fake.SetStdout(intltest+" format/NumberTest/LIST", `
   NumberTest {
   TestA
   NumberPermutationTest
   } OK: NumberTest
`)
	fake.SetStdout(intltest+" format/NumberTest/TestA/LIST", "   TestA {\n   } OK: TestA\n")
	fake.SetStdout(intltest+" format/NumberTest/NumberPermutationTest/LIST", `
   NumberPermutationTest {
   testPermutations
   } OK: NumberPermutationTest
`)
	fake.SetStdout(intltest+" format/DateTest/LIST", "   DateTest {\n   } ERRORS (1) in DateTest\n")

	d := NewSuiteDiscoverer(fake, intltest, timeout)
	got, err := d.Discover(context.Background(), "", "format")
	if err != nil {
		t.Fatal("Discover failed: ", err)
	}
	want := []catalog.Entry{
		catalog.NewEntry("format/NumberTest/TestA", "TestA"),
		catalog.NewEntry("format/NumberTest/NumberPermutationTest/testPermutations", "testPermutations"),
		catalog.NewEntry("format/NumberTest/NumberPermutationTest", "NumberPermutationTest"),
		catalog.NewEntry("format/NumberTest", "NumberTest"),
		catalog.NewEntry("format/DateTest", "DateTest"),
		catalog.NewEntry("/format", "format"),
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Discover mismatch (-got +want):\n%s", diff)
	}

	for _, cmd := range fake.Cmds() {
		if strings.Contains(cmd, "testPermutations") {
			t.Errorf("Skipped node was listed with %q", cmd)
		}
	}
}

func TestSuiteDiscoverSkipListing(t *testing.T) {
	for composite := range SkipListing {
		fake := channeltest.NewFake()
		i := strings.LastIndex(composite, "/")
		parent, name := composite[:i], composite[i+1:]

		got, err := NewSuiteDiscoverer(fake, intltest, timeout).Discover(context.Background(), parent, name)
		if err != nil {
			t.Errorf("Discover(%q, %q) failed: %v", parent, name, err)
			continue
		}
		want := []catalog.Entry{{ClassName: composite, Name: name, Time: "0.000000"}}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("Discover(%q, %q) mismatch (-got +want):\n%s", parent, name, diff)
		}
		if calls := fake.Calls(); len(calls) != 0 {
			t.Errorf("Discover(%q, %q) ran commands %v", parent, name, calls)
		}
	}
}

func TestSuiteDiscoverFailure(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(intltest+" format/LIST", "   format {\n   TestA\n   TestB\n   } OK: format\n")
	fake.SetStdout(intltest+" format/TestA/LIST", "   TestA {\n   } OK: TestA\n")
	fake.Set(intltest+" format/TestB/LIST", &channel.Result{Stderr: "segfault", ExitCode: 139, Status: channel.StatusFailed})

	got, err := NewSuiteDiscoverer(fake, intltest, timeout).Discover(context.Background(), "", "format")
	var ce *channel.CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("Discover = %v; want *channel.CommandError", err)
	}
	if ce.ExitCode != 139 {
		t.Errorf("CommandError exit code = %d; want 139", ce.ExitCode)
	}
	if !strings.Contains(err.Error(), "format/TestB") {
		t.Errorf("Discover error %q does not name the failing node", err)
	}
	want := []catalog.Entry{catalog.NewEntry("format/TestA", "TestA")}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Partial entries mismatch (-got +want):\n%s", diff)
	}
}

func TestSuiteDiscoverBlankOutput(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(intltest+" format/LIST", "  \n\n")

	_, err := NewSuiteDiscoverer(fake, intltest, timeout).Discover(context.Background(), "", "format")
	if err == nil || !strings.Contains(err.Error(), "command failed") {
		t.Errorf("Discover = %v; want command failed error", err)
	}
}

func TestDiscoverAllBlankOutput(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(intltest+" LIST", " \n")
	fake.SetStdout(cintltst+" -l", "\n")

	for _, d := range []Discoverer{
		NewSuiteDiscoverer(fake, intltest, timeout),
		NewFlatDiscoverer(fake, cintltst, timeout),
	} {
		got, err := d.DiscoverAll(context.Background())
		if err != nil {
			t.Errorf("%T.DiscoverAll failed: %v", d, err)
		}
		if len(got) != 0 {
			t.Errorf("%T.DiscoverAll = %v; want no entries", d, got)
		}
	}
	if diff := cmp.Diff(fake.Cmds(), []string{intltest + " LIST", cintltst + " -l"}); diff != "" {
		t.Errorf("Commands mismatch (-got +want):\n%s", diff)
	}
}

func TestSuiteDiscoverAllRootFailure(t *testing.T) {
	fake := channeltest.NewFake()
	if _, err := NewSuiteDiscoverer(fake, intltest, timeout).DiscoverAll(context.Background()); err == nil {
		t.Error("DiscoverAll succeeded without a root listing")
	}
}

func TestFlatDiscoverAll(t *testing.T) {
	fake := channeltest.NewFake()
	fake.SetStdout(cintltst+" -l", `
ICU C tests
 |---/
   |---tsutil/
   |  |---cstrcase/
   |  |  |---TestCaseLower
   |  |  |---TestCaseUpper
   |---tsconv/
      |---TestConvert  
---NotAChild
`)

	got, err := NewFlatDiscoverer(fake, cintltst, timeout).DiscoverAll(context.Background())
	if err != nil {
		t.Fatal("DiscoverAll failed: ", err)
	}
	want := []catalog.Entry{
		catalog.NewEntry("TestCaseLower", "TestCaseLower"),
		catalog.NewEntry("TestCaseUpper", "TestCaseUpper"),
		catalog.NewEntry("TestConvert", "TestConvert"),
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("DiscoverAll mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(fake.Cmds(), []string{cintltst + " -l"}); diff != "" {
		t.Errorf("Commands mismatch (-got +want):\n%s", diff)
	}
}

func TestFlatDiscoverAllFailure(t *testing.T) {
	fake := channeltest.NewFake()
	fake.Set(cintltst+" -l", &channel.Result{ExitCode: -1, Status: channel.StatusTimedOut})
	if _, err := NewFlatDiscoverer(fake, cintltst, timeout).DiscoverAll(context.Background()); err == nil {
		t.Error("DiscoverAll succeeded for a timed out command")
	}
}

func TestForBinary(t *testing.T) {
	fake := channeltest.NewFake()
	if _, ok := ForBinary(fake, cintltst, timeout).(*FlatDiscoverer); !ok {
		t.Errorf("ForBinary(%q) is not a FlatDiscoverer", cintltst)
	}
	if _, ok := ForBinary(fake, intltest, timeout).(*SuiteDiscoverer); !ok {
		t.Errorf("ForBinary(%q) is not a SuiteDiscoverer", intltest)
	}
	if d := ForBinary(fake, "/data/local/tmp/ctestfw", timeout); d != nil {
		t.Errorf("ForBinary(ctestfw) = %T; want nil", d)
	}
}
