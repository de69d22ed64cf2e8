// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"strings"
)

// DisabledSet is a read-only set of command identifiers excluded from loading
// and remote synchronization. The zero value is an empty set.
type DisabledSet struct {
	names map[string]struct{}
}

// NewDisabledSet builds a set from names. Blank names are ignored.
func NewDisabledSet(names ...string) DisabledSet {
	set := DisabledSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set.names[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is disabled.
func (s DisabledSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of disabled names.
func (s DisabledSet) Len() int { return len(s.names) }

// Names returns the disabled names, sorted.
func (s DisabledSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
