// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package filter converts dotted test filters into the path arguments
// accepted by ICU4C test binaries.
package filter

import (
	"context"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go.chromium.org/icutest/internal/logging"
)

// Spec describes a set of filters to translate.
type Spec struct {
	// Filters are dotted names such as "intltest.format.NumberTest".
	// Duplicates are ignored.
	Filters []string
	// ModuleName is the prefix every filter must start with, e.g. "intltest".
	ModuleName string
	// Prefix replaces the leading slash of each translated path.
	Prefix string
}

// Translate returns the binary arguments for the filters in spec. Filters
// outside the module, selecting the whole module, or naming nothing are
// dropped. The result is sorted.
func Translate(ctx context.Context, spec Spec) []string {
	args := make(map[string]struct{})
	for _, f := range spec.Filters {
		if arg, ok := translate(ctx, f, spec.ModuleName, spec.Prefix); ok {
			args[arg] = struct{}{}
		}
	}
	keys := maps.Keys(args)
	slices.Sort(keys)
	return keys
}

func translate(ctx context.Context, f, module, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(f, module)
	if !ok {
		logging.Debugf(ctx, "Dropping filter %q: not in module %s", f, module)
		return "", false
	}
	if rest == "" {
		// The whole module is selected.
		return "", false
	}
	rest = strings.ReplaceAll(rest, ".", "/")
	if !strings.HasPrefix(rest, "/") || len(rest) <= 1 {
		logging.Debugf(ctx, "Dropping invalid filter %q", f)
		return "", false
	}
	return prefix + rest[1:], true
}
