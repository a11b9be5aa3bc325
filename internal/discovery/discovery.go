// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package discovery enumerates the tests contained in ICU4C test binaries
// without running them.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/shutil"
)

// Discoverer enumerates every test of a binary.
type Discoverer interface {
	DiscoverAll(ctx context.Context) ([]catalog.Entry, error)
}

// ForBinary returns the discoverer matching the listing style of the
// binary at bin: flat for cintltst, hierarchical for intltest. It returns
// nil for other binaries, which can only be run.
func ForBinary(ch channel.Channel, bin string, timeout time.Duration) Discoverer {
	switch {
	case strings.HasSuffix(bin, "/cintltst"):
		return NewFlatDiscoverer(ch, bin, timeout)
	case strings.HasSuffix(bin, "/intltest"):
		return NewSuiteDiscoverer(ch, bin, timeout)
	default:
		return nil
	}
}

// list runs binary with args and returns its stdout.
func list(ctx context.Context, ch channel.Channel, timeout time.Duration, binary string, args ...string) (string, error) {
	cmd := shutil.Command(binary, args...)
	res, err := channel.Execute(ctx, ch, cmd, timeout)
	if err != nil {
		return "", errors.Wrap(err, "command failed")
	}
	return res.Stdout, nil
}
