// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cmdsync/cmdsync/internal/metrics"
	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/registry"
)

const (
	// Unloaded means the command was removed from the registry and its
	// module evicted from the cache.
	Unloaded UnloadOutcome = iota + 1
	// UnloadNotFound means neither a command nor an alias matched.
	UnloadNotFound
)

type (
	// UnloadOutcome tells callers which branch Unload took.
	UnloadOutcome int

	// UnloadResult is the outcome of Unload. A NotFound result is an expected
	// answer to a user lookup, not an error.
	UnloadResult struct {
		Outcome UnloadOutcome
		// Command is the unloaded descriptor (nil when not found).
		Command *registry.Descriptor
		// Message is a user-facing summary.
		Message string
	}

	// Unloader evicts commands so the next load re-reads their module.
	Unloader struct {
		src     modsource.Source
		reg     *registry.Registry
		logger  *log.Logger
		metrics *metrics.Metrics
	}
)

// OK reports whether the command was unloaded.
func (r UnloadResult) OK() bool { return r.Outcome == Unloaded }

// String returns the outcome name.
func (o UnloadOutcome) String() string {
	switch o {
	case Unloaded:
		return "unloaded"
	case UnloadNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// NewUnloader creates an Unloader. A nil logger discards output.
func NewUnloader(src modsource.Source, reg *registry.Registry, logger *log.Logger, m *metrics.Metrics) *Unloader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Unloader{src: src, reg: reg, logger: logger, metrics: m}
}

// Unload resolves nameOrAlias (name first, then alias), evicts the module
// cache entry of the command and removes it with all its aliases. category
// may be given as a name ("fun") or a path ("commands/fun"); when non-empty a
// command from another category is reported as not found.
func (u *Unloader) Unload(category, nameOrAlias string) UnloadResult {
	notFound := UnloadResult{
		Outcome: UnloadNotFound,
		Message: fmt.Sprintf("The command `%s` doesn't seem to exist, nor is it an alias. Try again!", nameOrAlias),
	}

	d, err := u.reg.Lookup(nameOrAlias)
	if err != nil {
		return notFound
	}
	if c := modsource.NormalizeCategory(category); c != "" && c != d.Category {
		return notFound
	}

	u.src.Evict(d.Category, d.Identifier)
	removed, err := u.reg.Remove(d.Name)
	if err != nil {
		// Removed concurrently between lookup and removal.
		return notFound
	}
	u.metrics.Removed(u.reg.Len())
	u.logger.Info("unloading command", "name", removed.Name, "category", removed.Category)

	return UnloadResult{
		Outcome: Unloaded,
		Command: removed,
		Message: fmt.Sprintf("The command `%s` has been unloaded.", removed.Name),
	}
}
