// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package listing parses the test listings printed by ICU4C test binaries.
//
// A node listing printed by "intltest PATH/LIST" looks like:
//
//	   format {
//	   Test names:
//	   -----------
//	   TestSomething
//	   description : TestOther
//	   } OK:   format  (1ms)
//
// The block is opened by a line holding only the node name and "{" and
// closed by a "} OK:" or "} ERRORS" line naming the node.
package listing

import (
	"context"
	"regexp"
	"strings"

	"go.chromium.org/icutest/internal/logging"
)

const (
	namesHeader = "Test names:"
	divider     = "-----------"
	// moreDateParse is emitted by the date format suite with a trailing
	// description that is not separated by ":".
	moreDateParse = "TestMoreDateParse"
)

type blockState int

const (
	seekingStart blockState = iota
	inBlock
	done
)

// Lines splits command output into lines, dropping carriage returns left
// by devices writing CRLF line endings.
func Lines(stdout string) []string {
	lines := strings.Split(stdout, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseBlock extracts the child names listed in the block for name.
// Items are returned in output order. Lines before the block starts and
// after it ends are ignored. An ERRORS-terminated block yields no items.
// A block missing its end marker yields the items seen so far.
func ParseBlock(lines []string, name string) []string {
	return parseBlock(context.Background(), lines, name)
}

// ParseBlockContext is like ParseBlock but reports malformed blocks to the
// logger attached to ctx.
func ParseBlockContext(ctx context.Context, lines []string, name string) []string {
	return parseBlock(ctx, lines, name)
}

func parseBlock(ctx context.Context, lines []string, name string) []string {
	quoted := regexp.QuoteMeta(name)
	startRE := regexp.MustCompile(`^\s+` + quoted + `\s+\{$`)
	okRE := regexp.MustCompile(`^.*\}\s+OK:\s+` + quoted + `.*$`)
	errRE := regexp.MustCompile(`^.*\}\s+ERRORS.*` + quoted + `.*$`)

	var items []string
	state := seekingStart
	for _, line := range lines {
		if state == done {
			break
		}
		if state == seekingStart {
			if startRE.MatchString(line) {
				state = inBlock
			}
			continue
		}

		if strings.TrimSpace(line) == "" ||
			strings.Contains(line, namesHeader) ||
			strings.Contains(line, divider) ||
			strings.HasSuffix(line, ":") {
			continue
		}
		if okRE.MatchString(line) {
			state = done
			continue
		}
		if errRE.MatchString(line) {
			logging.Debugf(ctx, "Listing of %s terminated with errors; dropping %d items", name, len(items))
			items = nil
			state = done
			continue
		}

		item := normalize(line)
		if item == "" {
			logging.Debugf(ctx, "Ignoring line without a name in listing of %s: %q", name, line)
			continue
		}
		if strings.ContainsAny(item, "()") {
			logging.Debugf(ctx, "Ignoring line in listing of %s: %q", name, line)
			continue
		}
		items = append(items, item)
	}

	switch state {
	case seekingStart:
		logging.Debugf(ctx, "Listing of %s never started", name)
	case inBlock:
		logging.Debugf(ctx, "Listing of %s was not terminated", name)
	}
	return items
}

func normalize(line string) string {
	s := strings.TrimSpace(line)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	} else if strings.Contains(s, moreDateParse) {
		s = moreDateParse
	}
	return strings.TrimSpace(s)
}

// TopLevelNames returns the root suite names printed by "intltest LIST":
// the lines following the "Test names:" header up to the first blank line,
// skipping the divider.
func TopLevelNames(stdout string) []string {
	var names []string
	started := false
	for _, line := range Lines(stdout) {
		if !started {
			started = strings.Contains(line, namesHeader)
			continue
		}
		if strings.Contains(line, divider) {
			continue
		}
		name := strings.TrimSpace(line)
		if name == "" {
			break
		}
		names = append(names, name)
	}
	return names
}
