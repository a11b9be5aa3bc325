// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package catalog reads and writes JUnit-style XML test catalogs.
package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ZeroDuration is the duration recorded for every discovered test.
const ZeroDuration = "0.000000"

// Entry describes one discovered test or suite node.
type Entry struct {
	// ClassName is the full slash-separated path of the node. Root suites
	// carry a leading slash.
	ClassName string
	// Name is the last path segment.
	Name string
	// Time is the duration in seconds as a decimal string.
	Time string
}

// NewEntry returns an entry with a zero duration.
func NewEntry(className, name string) Entry {
	return Entry{ClassName: className, Name: name, Time: ZeroDuration}
}

// Write writes entries to w as a testsuite element named fullPath, one
// testcase element per line, in order. The closing tag is not followed by a
// newline.
func Write(w io.Writer, fullPath string, entries []Entry) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<testsuite name=\"%s\">", escape(fullPath))
	for _, e := range entries {
		fmt.Fprintf(&buf, "\n\t<testcase classname=\"%s\" name=\"%s\" time=\"%s\"/>",
			escape(e.ClassName), escape(e.Name), escape(e.Time))
	}
	buf.WriteString("\n</testsuite>")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// WriteFile writes the catalog for entries to path, creating its directory
// if needed.
func WriteFile(path, fullPath string, entries []Entry) (retErr error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to write catalog %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to write catalog %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = errors.Wrapf(err, "failed to write catalog %s", path)
		}
	}()
	if err := Write(f, fullPath, entries); err != nil {
		return errors.Wrapf(err, "failed to write catalog %s", path)
	}
	return nil
}

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText fails only if writing to buf fails.
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
