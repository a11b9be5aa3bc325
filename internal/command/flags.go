// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command contains flag types shared by the icutest subcommands.
package command

import (
	"strconv"
	"strings"
	"time"
)

// DurationFlag implements flag.Value to save a user-supplied integer as a
// time.Duration in a fixed unit, e.g. the millisecond-based native test
// timeout.
type DurationFlag struct {
	units time.Duration
	dst   *time.Duration
}

// NewDurationFlag returns a DurationFlag that stores values in dst, which is
// initialized to def.
func NewDurationFlag(units time.Duration, dst *time.Duration, def time.Duration) *DurationFlag {
	*dst = def
	return &DurationFlag{units, dst}
}

func (f *DurationFlag) String() string {
	if f.dst == nil || f.units == 0 {
		return ""
	}
	return strconv.FormatInt(int64(*f.dst/f.units), 10)
}

// Set parses v as an integer count of units.
func (f *DurationFlag) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*f.dst = time.Duration(n) * f.units
	return nil
}

// ListFlag implements flag.Value to split a user-supplied string with a
// separator into a slice.
type ListFlag struct {
	sep    string
	assign ListFlagAssignFunc
	def    []string
}

// ListFlagAssignFunc is called by ListFlag to assign a slice to a target variable.
type ListFlagAssignFunc func(vals []string)

// NewListFlag returns a ListFlag using sep as the separator and assign to
// store values. def is assigned immediately.
func NewListFlag(sep string, assign ListFlagAssignFunc, def []string) *ListFlag {
	assign(def)
	return &ListFlag{sep, assign, def}
}

func (f *ListFlag) String() string { return strings.Join(f.def, f.sep) }

// Set splits v by the separator.
func (f *ListFlag) Set(v string) error {
	f.assign(strings.Split(v, f.sep))
	return nil
}

// RepeatedFlag implements flag.Value around a function that is called each
// time the flag is supplied, e.g. once per -include filter.
type RepeatedFlag func(v string) error

func (f *RepeatedFlag) String() string { return "" }

// Set calls the underlying function.
func (f *RepeatedFlag) Set(v string) error { return (*f)(v) }
