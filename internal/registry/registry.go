// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"strings"
	"sync"
)

type (
	// Registry maps command names and aliases to descriptors.
	Registry struct {
		mu       sync.RWMutex
		commands map[string]*Descriptor
		aliases  map[string]string
		sources  map[sourceKey]string
		disabled DisabledSet
	}

	// Option configures a Registry.
	Option func(*Registry)

	sourceKey struct {
		category   string
		identifier string
	}
)

// WithDisabled sets the disabled command set exposed by Disabled.
func WithDisabled(set DisabledSet) Option {
	return func(r *Registry) {
		r.disabled = set
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		commands: make(map[string]*Descriptor),
		aliases:  make(map[string]string),
		sources:  make(map[sourceKey]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert registers d and indexes its aliases. It fails with a
// DuplicateNameError if d.Name is taken and with a DuplicateAliasError if any
// alias already resolves to another command. On failure nothing is
// registered. The registry stores a copy of d and returns it.
func (r *Registry) Insert(d *Descriptor) (*Descriptor, error) {
	stored := d.clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[stored.Name]; ok {
		return nil, &DuplicateNameError{Name: stored.Name, ExistingCategory: existing.Category}
	}
	if owner, ok := r.aliases[stored.Name]; ok {
		return nil, &DuplicateNameError{Name: stored.Name, ExistingCategory: r.commands[owner].Category}
	}

	// Validate every alias before touching the indexes.
	for _, alias := range stored.Aliases {
		if owner, ok := r.aliases[alias]; ok && owner != stored.Name {
			return nil, &DuplicateAliasError{Alias: alias, Command: stored.Name, Owner: owner}
		}
		if _, ok := r.commands[alias]; ok {
			return nil, &DuplicateAliasError{Alias: alias, Command: stored.Name, Owner: alias}
		}
	}

	r.commands[stored.Name] = stored
	for _, alias := range stored.Aliases {
		r.aliases[alias] = stored.Name
	}
	if stored.Category != "" || stored.Identifier != "" {
		r.sources[sourceKey{stored.Category, stored.Identifier}] = stored.Name
	}
	return stored, nil
}

// Lookup resolves a command name, then an alias.
func (r *Registry) Lookup(nameOrAlias string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.commands[nameOrAlias]; ok {
		return d, nil
	}
	if name, ok := r.aliases[nameOrAlias]; ok {
		return r.commands[name], nil
	}
	return nil, &NotFoundError{Name: nameOrAlias}
}

// LookupSource returns the command loaded from (category, identifier).
func (r *Registry) LookupSource(category, identifier string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.sources[sourceKey{category, identifier}]
	if !ok {
		return nil, false
	}
	return r.commands[name], true
}

// Remove deletes the named command and every alias pointing to it.
func (r *Registry) Remove(name string) (*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.commands[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	delete(r.commands, name)
	for _, alias := range d.Aliases {
		if r.aliases[alias] == name {
			delete(r.aliases, alias)
		}
	}
	key := sourceKey{d.Category, d.Identifier}
	if r.sources[key] == name {
		delete(r.sources, key)
	}
	return d, nil
}

// Has reports whether name is a registered command name (aliases excluded).
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Names returns all command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.commands))
	for name := range r.commands {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Category returns the commands of one category sorted by name.
func (r *Registry) Category(category string) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Descriptor
	for _, d := range r.commands {
		if d.Category == category {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b *Descriptor) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Categories returns the distinct categories of registered commands, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, d := range r.commands {
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	slices.Sort(out)
	return out
}

// Disabled returns the configured disabled set.
func (r *Registry) Disabled() DisabledSet {
	return r.disabled
}
