// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package catalog

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// Report is a parsed test report. Nested testsuite elements are flattened
// into a single list of cases.
type Report struct {
	Name  string
	Cases []ReportCase
}

// ReportCase is a test case in a report.
type ReportCase struct {
	Entry
	// Failure is the failure message, or empty if the case passed.
	Failure string
	// Failed is true if the case has a failure or error element.
	Failed bool
}

// Failures returns the number of failed cases in r.
func (r *Report) Failures() int {
	n := 0
	for _, c := range r.Cases {
		if c.Failed {
			n++
		}
	}
	return n
}

type xmlSuite struct {
	XMLName xml.Name
	Name    string     `xml:"name,attr"`
	Cases   []xmlCase  `xml:"testcase"`
	Suites  []xmlSuite `xml:"testsuite"`
}

type xmlCase struct {
	ClassName string       `xml:"classname,attr"`
	Name      string       `xml:"name,attr"`
	Time      string       `xml:"time,attr"`
	Failures  []xmlFailure `xml:"failure"`
	Errors    []xmlFailure `xml:"error"`
}

type xmlFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

func (f xmlFailure) String() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Text
}

// ReadReport parses a report with either a testsuite or a testsuites root
// element, such as catalogs produced by Write and reports produced by the
// test binaries' -x option.
func ReadReport(r io.Reader) (*Report, error) {
	var root xmlSuite
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "failed to parse report")
	}
	switch root.XMLName.Local {
	case "testsuite", "testsuites":
	default:
		return nil, errors.Errorf("unexpected root element <%s>", root.XMLName.Local)
	}

	rep := &Report{Name: root.Name}
	var walk func(s *xmlSuite)
	walk = func(s *xmlSuite) {
		for _, c := range s.Cases {
			rc := ReportCase{Entry: Entry{ClassName: c.ClassName, Name: c.Name, Time: c.Time}}
			for _, f := range append(c.Failures, c.Errors...) {
				rc.Failed = true
				if rc.Failure == "" {
					rc.Failure = f.String()
				}
			}
			rep.Cases = append(rep.Cases, rc)
		}
		for i := range s.Suites {
			walk(&s.Suites[i])
		}
	}
	walk(&root)
	return rep, nil
}
