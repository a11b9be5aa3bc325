// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/listing"
	"go.chromium.org/icutest/internal/logging"
)

// treeMarker separates the tree drawing from the test path in the output
// of "cintltst -l".
const treeMarker = "---"

// FlatDiscoverer enumerates the tests of a binary such as cintltst that
// prints its whole tree with "-l".
type FlatDiscoverer struct {
	ch      channel.Channel
	binary  string
	timeout time.Duration
}

var _ Discoverer = (*FlatDiscoverer)(nil)

// NewFlatDiscoverer returns a FlatDiscoverer listing binary through ch.
func NewFlatDiscoverer(ch channel.Channel, binary string, timeout time.Duration) *FlatDiscoverer {
	return &FlatDiscoverer{ch: ch, binary: binary, timeout: timeout}
}

// DiscoverAll returns one entry per leaf test. Nodes printed with a
// trailing slash are suites and are not recorded.
func (d *FlatDiscoverer) DiscoverAll(ctx context.Context) ([]catalog.Entry, error) {
	out, err := list(ctx, d.ch, d.timeout, d.binary, "-l")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list tests of %s", d.binary)
	}

	var entries []catalog.Entry
	for _, line := range listing.Lines(out) {
		i := strings.LastIndex(line, treeMarker)
		if i <= 0 || strings.HasSuffix(line, "/") {
			continue
		}
		name := strings.TrimSpace(line[i+len(treeMarker):])
		entries = append(entries, catalog.NewEntry(name, name))
	}
	logging.Debugf(ctx, "Found %d tests in %s", len(entries), d.binary)
	return entries, nil
}
