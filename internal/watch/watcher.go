// SPDX-License-Identifier: MPL-2.0

// Package watch follows a command module tree and reports debounced module
// changes, so edited commands can be reloaded without a restart.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before pending changes are delivered.
const DefaultDebounce = 500 * time.Millisecond

// modulePattern selects module files one directory below the root.
const modulePattern = "*/*.{cue,toml,yaml,yml}"

// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid watch config")

// defaultIgnores are editor and VCS artifacts that never name a module.
var defaultIgnores = []string{
	"**/.*",
	"**/*.swp",
	"**/*~",
	"**/#*#",
}

type (
	// Change identifies one changed module.
	Change struct {
		Category   string
		Identifier string
		// Path is relative to the watched root, slash-separated.
		Path string
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the command module tree.
		Root string
		// Ignore are extra doublestar patterns, relative to Root.
		Ignore []string
		// Debounce defaults to DefaultDebounce when zero.
		Debounce time.Duration
		// OnChange receives the changes of one debounce window, sorted by
		// path. A nil callback is a no-op.
		OnChange func(ctx context.Context, changes []Change) error
		Logger   *log.Logger
	}

	// InvalidConfigError lists every problem found by Config.Validate.
	InvalidConfigError struct {
		Problems []string
	}

	// Watcher reports module changes under Config.Root. Run may be called once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		root     string
		logger   *log.Logger
		started  atomic.Bool
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Key returns "category/identifier".
func (c Change) Key() string { return c.Category + "/" + c.Identifier }

// Validate checks the root, the debounce and the ignore patterns.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Root) == "" {
		problems = append(problems, "root must not be empty")
	}
	if c.Debounce < 0 {
		problems = append(problems, fmt.Sprintf("debounce must not be negative (got %s)", c.Debounce))
	}
	for _, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			problems = append(problems, fmt.Sprintf("invalid ignore pattern %q", pat))
		}
	}
	if len(problems) > 0 {
		return &InvalidConfigError{Problems: problems}
	}
	return nil
}

// New validates cfg and starts watching Root and each category directory.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: cfg.Debounce,
		root:     root,
		logger:   cfg.Logger,
	}
	if w.debounce == 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers debounced changes until ctx is cancelled. A callback still
// running when the next window closes delays that window instead of running
// concurrently.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]Change)
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("reload still running, delaying changes")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changes := make([]Change, 0, len(pending))
		for _, c := range pending {
			changes = append(changes, c)
		}
		clear(pending)
		mu.Unlock()

		if len(changes) == 0 || w.cfg.OnChange == nil {
			return
		}
		slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
		if err := w.cfg.OnChange(ctx, changes); err != nil {
			w.logger.Error("change handler failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing fsnotify watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			c, ok := w.classify(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("module changed", "path", c.Path, "op", evt.Op.String())

			mu.Lock()
			pending[c.Key()] = c
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// classify maps an event path to the module it belongs to.
func (w *Watcher) classify(path string) (Change, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return Change{}, false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) {
		return Change{}, false
	}
	if ok, _ := doublestar.Match(modulePattern, rel); !ok {
		return Change{}, false
	}

	category, file, _ := strings.Cut(rel, "/")
	return Change{
		Category:   category,
		Identifier: strings.TrimSuffix(file, filepath.Ext(file)),
		Path:       rel,
	}, true
}

// addDirectories watches the root and its direct subdirectories.
func (w *Watcher) addDirectories() error {
	if err := w.fsw.Add(w.root); err != nil {
		return fmt.Errorf("watch: add root %q: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("watch: read root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || w.isIgnored(e.Name()) {
			continue
		}
		path := filepath.Join(w.root, e.Name())
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add category %q: %w", path, err)
		}
	}
	return nil
}

// maybeAddDir starts watching a category directory created after New.
func (w *Watcher) maybeAddDir(path string) {
	if filepath.Dir(path) != w.root {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.isIgnored(filepath.Base(path)) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("cannot watch new category", "path", path, "err", err)
		return
	}
	w.logger.Debug("watching new category", "path", path)
}

func (w *Watcher) isIgnored(rel string) bool {
	for _, pat := range w.ignores {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
