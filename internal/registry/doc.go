// SPDX-License-Identifier: MPL-2.0

// Package registry holds the in-memory command registry.
//
// A Registry owns three indexes: command name to Descriptor, alias to command
// name, and (category, identifier) to command name. All three are updated
// inside a single critical section so concurrent loads of the same command
// are linearized: the second insert observes ErrDuplicateName instead of
// overwriting the first.
//
// There is no package-level registry. Each process (or test) constructs its
// own with New.
package registry
