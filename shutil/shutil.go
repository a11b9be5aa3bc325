// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil builds shell command lines for the device shell.
package shutil

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// \w is [0-9A-Za-z_]. A leading "=" triggers expansion in zsh.
	leadingSafeChars  = `-\w@%+:,./`
	trailingSafeChars = leadingSafeChars + "="
)

// safeRE matches an argument that needs no quoting.
var safeRE = regexp.MustCompile(fmt.Sprintf("^[%s][%s]*$", leadingSafeChars, trailingSafeChars))

// Escape quotes s for use as a single shell argument. s is returned
// unchanged if it needs no quoting.
func Escape(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// EscapeSlice returns a command line passing each of args as a separate
// argument.
func EscapeSlice(args []string) string {
	escaped := make([]string, len(args))
	for i, arg := range args {
		escaped[i] = Escape(arg)
	}
	return strings.Join(escaped, " ")
}

// Command returns a command line running name with args.
func Command(name string, args ...string) string {
	return EscapeSlice(append([]string{name}, args...))
}

// FileTest returns a "[ -OP PATH ]" test command line, e.g. FileTest("x", p)
// succeeds if p is executable.
func FileTest(op, path string) string {
	return fmt.Sprintf("[ -%s %s ]", op, Escape(path))
}
