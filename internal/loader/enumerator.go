// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"

	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/registry"
)

// Enumerator lists the loadable identifiers of a category.
type Enumerator struct {
	src      modsource.Source
	disabled registry.DisabledSet
}

// NewEnumerator creates an Enumerator that hides every identifier in disabled.
func NewEnumerator(src modsource.Source, disabled registry.DisabledSet) *Enumerator {
	return &Enumerator{src: src, disabled: disabled}
}

// List returns the identifiers of category in source order, each at most once,
// without disabled ones. An unreadable category fails with the source's
// SourceUnavailableError; an empty one returns an empty slice.
func (e *Enumerator) List(ctx context.Context, category string) ([]string, error) {
	entries, err := e.src.ListEntries(ctx, category)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, id := range entries {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if e.disabled.Contains(id) {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// Disabled reports whether identifier is excluded from loading.
func (e *Enumerator) Disabled(identifier string) bool {
	return e.disabled.Contains(identifier)
}
