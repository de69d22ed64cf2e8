// SPDX-License-Identifier: MPL-2.0

package catalogsync

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cmdsync/cmdsync/internal/loader"
	"github.com/cmdsync/cmdsync/internal/metrics"
	"github.com/cmdsync/cmdsync/internal/registry"
	"github.com/cmdsync/cmdsync/internal/remote"
)

// DefaultDeleteTimeout bounds each remote delete issued by PurgeCatalog.
const DefaultDeleteTimeout = 10 * time.Second

type (
	// Synchronizer builds, registers and purges category catalogs.
	Synchronizer struct {
		loader        *loader.Loader
		enum          *loader.Enumerator
		unloader      *loader.Unloader
		catalog       remote.Catalog
		policy        FailurePolicy
		deleteTimeout time.Duration
		logger        *log.Logger
		metrics       *metrics.Metrics
	}

	// Option configures a Synchronizer.
	Option func(*Synchronizer)

	// Report is the result of building one category.
	Report struct {
		Category string
		// Commands are the catalog entries in enumeration order.
		Commands []remote.Descriptor
		// Skipped holds the *CategoryError of every command left out under
		// SkipFailed.
		Skipped []error
	}
)

// WithFailurePolicy sets the load failure policy. Invalid policies are ignored.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *Synchronizer) {
		if p.Validate() == nil {
			s.policy = p
		}
	}
}

// WithDeleteTimeout bounds each remote delete. Non-positive values are ignored.
func WithDeleteTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.deleteTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// WithMetrics records remote operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// New creates a Synchronizer. catalog may be nil when only BuildCatalog and
// BuildAll are used.
func New(l *loader.Loader, enum *loader.Enumerator, u *loader.Unloader, catalog remote.Catalog, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		loader:        l,
		enum:          enum,
		unloader:      u,
		catalog:       catalog,
		policy:        FailFast,
		deleteTimeout: DefaultDeleteTimeout,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active failure policy.
func (s *Synchronizer) Policy() FailurePolicy { return s.policy }

// BuildCatalog loads every enabled command of category and returns the
// catalog entries of the remotely invocable ones, in enumeration order.
func (s *Synchronizer) BuildCatalog(ctx context.Context, category string) ([]remote.Descriptor, error) {
	r, err := s.BuildReport(ctx, category)
	if err != nil {
		return nil, err
	}
	return r.Commands, nil
}

// BuildReport is BuildCatalog with the skipped failures attached.
func (s *Synchronizer) BuildReport(ctx context.Context, category string) (Report, error) {
	ds, skipped, err := s.loadCategory(ctx, category)
	if err != nil {
		return Report{}, err
	}
	return Report{Category: category, Commands: remote.ProjectAll(ds), Skipped: skipped}, nil
}

// BuildAll builds categories concurrently. Reports follow the order of
// categories; repeated categories are built once. Under FailFast the first
// failure cancels the other builds.
func (s *Synchronizer) BuildAll(ctx context.Context, categories []string) ([]Report, error) {
	categories = uniqueCategories(categories)
	reports := make([]Report, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			r, err := s.BuildReport(gctx, category)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// RegisterCatalog builds categories and replaces the catalog of target with
// their combined entries in a single call.
func (s *Synchronizer) RegisterCatalog(ctx context.Context, target remote.Target, categories ...string) ([]remote.Descriptor, error) {
	reports, err := s.BuildAll(ctx, categories)
	if err != nil {
		return nil, err
	}

	var cmds []remote.Descriptor
	for _, r := range reports {
		cmds = append(cmds, r.Commands...)
	}

	err = s.catalog.Register(ctx, target, cmds)
	s.metrics.Remote(remote.OpRegister, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog registered", "target", target.String(), "commands", len(cmds))
	return cmds, nil
}

// PurgeCatalog deletes every remotely invocable command of category from
// target. Each delete runs under its own timeout and a failure does not stop
// the remaining deletes. Commands deleted remotely are unloaded locally.
// It returns the entries that were purged and the joined *DeleteError values.
func (s *Synchronizer) PurgeCatalog(ctx context.Context, category string, target remote.Target) ([]remote.Descriptor, error) {
	ds, _, err := s.loadCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	var (
		purged []remote.Descriptor
		errs   []error
	)
	for _, d := range ds {
		rd, ok := remote.Project(d)
		if !ok {
			continue
		}
		if err := s.delete(ctx, target, d.Name); err != nil {
			s.logger.Error("remote delete failed", "name", d.Name, "target", target.String(), "err", err)
			errs = append(errs, &DeleteError{Name: d.Name, Target: target, Err: err})
			continue
		}
		s.unloader.Unload(category, d.Name)
		purged = append(purged, rd)
	}
	return purged, errors.Join(errs...)
}

func (s *Synchronizer) delete(ctx context.Context, target remote.Target, name string) error {
	dctx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
	defer cancel()

	err := s.catalog.Delete(dctx, target, name)
	s.metrics.Remote(remote.OpDelete, err)
	return err
}

func (s *Synchronizer) loadCategory(ctx context.Context, category string) ([]*registry.Descriptor, []error, error) {
	ids, err := s.enum.List(ctx, category)
	if err != nil {
		return nil, nil, &CategoryError{Category: category, Err: err}
	}

	var (
		ds      []*registry.Descriptor
		skipped []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, nil, &CategoryError{Category: category, Err: err}
		}
		d, err := s.loader.Ensure(ctx, category, id)
		if err == nil {
			ds = append(ds, d)
			continue
		}

		catErr := &CategoryError{Category: category, Identifier: id, Err: err}
		if s.policy == FailFast {
			return nil, nil, catErr
		}
		s.logger.Warn("skipping command", "category", category, "module", id, "err", err)
		skipped = append(skipped, catErr)
	}
	return ds, skipped, nil
}

// uniqueCategories drops repeated categories, keeping first-seen order.
func uniqueCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
