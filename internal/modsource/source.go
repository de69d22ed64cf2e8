// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cmdsync/cmdsync/pkg/cueutil"
)

var errBadName = errors.New("name must be a single path element")

type (
	// Source is where command modules come from.
	Source interface {
		// Categories lists the category names present in the source.
		Categories(ctx context.Context) ([]string, error)
		// ListEntries lists module identifiers of a category in source
		// order. The same identifier may appear more than once.
		ListEntries(ctx context.Context, category string) ([]string, error)
		// Instantiate returns the module at category/identifier.
		Instantiate(ctx context.Context, category, identifier string) (*Module, error)
		// Evict drops any cached instance of category/identifier.
		Evict(category, identifier string) bool
	}

	// FS is a Source backed by a directory tree.
	FS struct {
		root        string
		cache       *Cache
		maxFileSize int64
	}

	// FSOption configures an FS.
	FSOption func(*FS)
)

// WithCache makes the FS share an existing module cache.
func WithCache(c *Cache) FSOption {
	return func(f *FS) {
		f.cache = c
	}
}

// WithMaxFileSize bounds the size of a single module file.
func WithMaxFileSize(n int64) FSOption {
	return func(f *FS) {
		f.maxFileSize = n
	}
}

// NewFS creates a Source rooted at root.
func NewFS(root string, opts ...FSOption) *FS {
	f := &FS{
		root:        root,
		maxFileSize: cueutil.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cache == nil {
		f.cache = NewCache()
	}
	return f
}

// Root returns the directory the FS reads from.
func (f *FS) Root() string { return f.root }

// Cache returns the module cache.
func (f *FS) Cache() *Cache { return f.cache }

// Categories lists the subdirectories of the root, sorted. Hidden
// directories are skipped.
func (f *FS) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, &SourceUnavailableError{Path: f.root, Cause: err}
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// ListEntries lists module identifiers of category in directory order.
// An identifier is reported once per matching file, so "joke.cue" and
// "joke.toml" both yield "joke".
func (f *FS) ListEntries(ctx context.Context, category string) ([]string, error) {
	dir := filepath.Join(f.root, category)
	if err := ctx.Err(); err != nil {
		return nil, &SourceUnavailableError{Category: category, Path: dir, Cause: err}
	}
	if err := checkName(category); err != nil {
		return nil, &SourceUnavailableError{Category: category, Path: dir, Cause: err}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &SourceUnavailableError{Category: category, Path: dir, Cause: err}
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !slices.Contains(extensions, ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ext))
	}
	return out, nil
}

// Instantiate returns the cached module or reads it from disk. When several
// files share the identifier the first extension in .cue, .toml, .yaml, .yml
// order wins.
func (f *FS) Instantiate(ctx context.Context, category, identifier string) (*Module, error) {
	key := Key{Category: category, Identifier: identifier}
	invalid := func(path string, reason error) error {
		return &InvalidModuleError{Category: category, Identifier: identifier, Path: path, Reason: reason}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("instantiate %s/%s: %w", category, identifier, err)
	}
	if err := checkName(category); err != nil {
		return nil, invalid("", fmt.Errorf("category: %w", err))
	}
	if err := checkName(identifier); err != nil {
		return nil, invalid("", fmt.Errorf("identifier: %w", err))
	}

	if m, ok := f.cache.Get(key); ok {
		return m, nil
	}

	path, err := f.resolve(category, identifier)
	if err != nil {
		return nil, invalid("", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid(path, err)
	}
	if err := cueutil.CheckFileSize(data, f.maxFileSize, path); err != nil {
		return nil, invalid(path, err)
	}

	m, err := decoders[filepath.Ext(path)](data, path)
	if err != nil {
		return nil, invalid(path, err)
	}
	m.Path = path

	f.cache.Put(key, m)
	return m, nil
}

// Evict drops the cached module at category/identifier.
func (f *FS) Evict(category, identifier string) bool {
	return f.cache.Evict(Key{Category: category, Identifier: identifier})
}

func (f *FS) resolve(category, identifier string) (string, error) {
	base := filepath.Join(f.root, category, identifier)
	for _, ext := range extensions {
		info, err := os.Stat(base + ext)
		if err == nil && info.Mode().IsRegular() {
			return base + ext, nil
		}
	}
	return "", fmt.Errorf("no module file for %s/%s: %w", category, identifier, fs.ErrNotExist)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, errBadName)
	}
	return nil
}

// NormalizeCategory reduces a category given as a path ("commands/fun",
// "./commands/fun/") to its category name ("fun").
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(filepath.FromSlash(category)))
}
