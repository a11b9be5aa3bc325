// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package discovery

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go.chromium.org/icutest/internal/catalog"
	"go.chromium.org/icutest/internal/channel"
	"go.chromium.org/icutest/internal/listing"
	"go.chromium.org/icutest/internal/logging"
)

// SkipListing holds the composite paths of nodes whose listing hangs or
// crashes the binary. They are recorded as leaves without being listed.
var SkipListing = map[string]struct{}{
	"utility/LocaleMatcherTest/testDataDriven":                 {},
	"format/NumberTest/NumberPermutationTest/testPermutations": {},
}

// SuiteDiscoverer walks the suite tree of a hierarchical binary such as
// intltest by listing every node with "PATH/LIST".
type SuiteDiscoverer struct {
	ch      channel.Channel
	binary  string
	timeout time.Duration
}

var _ Discoverer = (*SuiteDiscoverer)(nil)

// NewSuiteDiscoverer returns a SuiteDiscoverer listing binary through ch.
// Each listing command is given timeout.
func NewSuiteDiscoverer(ch channel.Channel, binary string, timeout time.Duration) *SuiteDiscoverer {
	return &SuiteDiscoverer{ch: ch, binary: binary, timeout: timeout}
}

// DiscoverAll lists the root suites of the binary and discovers each of
// them in order.
func (d *SuiteDiscoverer) DiscoverAll(ctx context.Context) ([]catalog.Entry, error) {
	out, err := list(ctx, d.ch, d.timeout, d.binary, "LIST")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list root suites of %s", d.binary)
	}
	names := listing.TopLevelNames(out)
	logging.Debugf(ctx, "Found %d root suites in %s", len(names), d.binary)

	var entries []catalog.Entry
	for _, name := range names {
		if err := d.discover(ctx, "", name, &entries); err != nil {
			return entries, err
		}
	}
	return entries, nil
}

// Discover returns entries for the node name under parent and all of its
// descendants, children before their parent. parent is empty for root
// suites. On error the entries discovered so far are returned with it.
func (d *SuiteDiscoverer) Discover(ctx context.Context, parent, name string) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	err := d.discover(ctx, parent, name, &entries)
	return entries, err
}

func (d *SuiteDiscoverer) discover(ctx context.Context, parent, name string, entries *[]catalog.Entry) error {
	composite := name
	if parent != "" {
		composite = parent + "/" + name
	}

	if _, ok := SkipListing[composite]; ok {
		logging.Debugf(ctx, "Not listing %s", composite)
		*entries = append(*entries, catalog.NewEntry(composite, path.Base(composite)))
		return nil
	}

	out, err := list(ctx, d.ch, d.timeout, d.binary, composite+"/LIST")
	if err != nil {
		return errors.Wrapf(err, "failed to list %s", composite)
	}
	// A node listing always prints at least the node's own block.
	if strings.TrimSpace(out) == "" {
		return errors.Errorf("command failed: %s %s/LIST printed nothing", d.binary, composite)
	}
	for _, item := range listing.ParseBlockContext(ctx, listing.Lines(out), name) {
		if err := d.discover(ctx, composite, item, entries); err != nil {
			return err
		}
	}

	className := composite
	if composite == name {
		className = "/" + name
	}
	*entries = append(*entries, catalog.NewEntry(className, name))
	return nil
}
