// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil_test

import (
	"testing"

	"go.chromium.org/icutest/shutil"
)

func TestEscape(t *testing.T) {
	for _, c := range []struct {
		in, exp string
	}{
		{``, `''`},
		{` `, `' '`},
		{`intltest`, `intltest`},
		{`/data/local/tmp/intltest`, `/data/local/tmp/intltest`},
		{`-xformat/NumberTest`, `-xformat/NumberTest`},
		{`a b`, `'a b'`},
		{`a!b`, `'a!b'`},
		{`'`, `''"'"''`},
		{`=foo`, `'=foo'`},
		{`foo=bar`, `foo=bar`},
		{`Test's`, `'Test'"'"'s'`},
		{`a;rm -rf /`, `'a;rm -rf /'`},
	} {
		if s := shutil.Escape(c.in); s != c.exp {
			t.Errorf("Escape(%q) = %q; want %q", c.in, s, c.exp)
		}
	}
}

func TestEscapeSlice(t *testing.T) {
	const exp = `su shell /data/local/tmp/intltest -w 'a b'`
	if s := shutil.EscapeSlice([]string{"su", "shell", "/data/local/tmp/intltest", "-w", "a b"}); s != exp {
		t.Errorf("EscapeSlice() = %q; want %q", s, exp)
	}
}

func TestCommand(t *testing.T) {
	const exp = `rm '/tmp/x y_res.xml'`
	if s := shutil.Command("rm", "/tmp/x y_res.xml"); s != exp {
		t.Errorf("Command() = %q; want %q", s, exp)
	}
}

func TestFileTest(t *testing.T) {
	for _, c := range []struct {
		op, path, exp string
	}{
		{"e", "/data/local/tmp/intltest", "[ -e /data/local/tmp/intltest ]"},
		{"x", "/data/local/tmp/my bin", "[ -x '/data/local/tmp/my bin' ]"},
	} {
		if s := shutil.FileTest(c.op, c.path); s != c.exp {
			t.Errorf("FileTest(%q, %q) = %q; want %q", c.op, c.path, s, c.exp)
		}
	}
}
