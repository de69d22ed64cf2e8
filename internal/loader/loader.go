// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/cmdsync/cmdsync/internal/metrics"
	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/permission"
	"github.com/cmdsync/cmdsync/internal/registry"
	"github.com/cmdsync/cmdsync/internal/runner"
)

// maxDescriptionRunes is the remote platform's description limit.
const maxDescriptionRunes = 100

var (
	errMissingName        = errors.New("missing name")
	errMissingDescription = errors.New("missing description")

	namePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)
)

type (
	// Loader resolves modules from a Source and registers them.
	Loader struct {
		src               modsource.Source
		reg               *registry.Registry
		logger            *log.Logger
		metrics           *metrics.Metrics
		defaultPermission permission.Flag
	}

	// Option configures a Loader.
	Option func(*Loader)
)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// WithMetrics records loads on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ld *Loader) {
		ld.metrics = m
	}
}

// WithDefaultPermission sets the permission policy for modules that declare
// neither permissions nor a default_permission.
func WithDefaultPermission(f permission.Flag) Option {
	return func(ld *Loader) {
		ld.defaultPermission = f
	}
}

// New creates a Loader.
func New(src modsource.Source, reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{
		src:               src,
		reg:               reg,
		logger:            log.New(io.Discard),
		defaultPermission: permission.SendMessages,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the registry commands are loaded into.
func (l *Loader) Registry() *registry.Registry { return l.reg }

// Source returns the module source.
func (l *Loader) Source() modsource.Source { return l.src }

// Load instantiates the module at category/identifier, validates it and
// inserts it into the registry. Invalid modules fail with an
// InvalidModuleError; name and alias collisions surface the registry error.
// Nothing is registered on failure.
func (l *Loader) Load(ctx context.Context, category, identifier string) (*registry.Descriptor, error) {
	d, err := l.load(ctx, category, identifier)
	if err != nil {
		l.metrics.LoadFailed(category)
		return nil, err
	}
	l.metrics.Loaded(category, l.reg.Len())
	return d, nil
}

func (l *Loader) load(ctx context.Context, category, identifier string) (*registry.Descriptor, error) {
	m, err := l.src.Instantiate(ctx, category, identifier)
	if err != nil {
		return nil, err
	}

	d, err := l.Describe(m, category, identifier)
	if err != nil {
		return nil, err
	}

	l.logger.Info("loading command", "name", d.Name, "category", category)

	stored, err := l.reg.Insert(d)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", category, identifier, err)
	}
	return stored, nil
}

// Ensure returns the command already loaded from category/identifier, or
// loads it. Repeated catalog builds therefore do not trip over their own
// earlier registrations.
func (l *Loader) Ensure(ctx context.Context, category, identifier string) (*registry.Descriptor, error) {
	if d, ok := l.reg.LookupSource(category, identifier); ok {
		return d, nil
	}
	d, err := l.Load(ctx, category, identifier)
	if err != nil && errors.Is(err, registry.ErrDuplicateName) {
		// A concurrent Ensure of the same module won the insert.
		if prev, ok := l.reg.LookupSource(category, identifier); ok {
			return prev, nil
		}
	}
	return d, err
}

// LoadCategory ensures every enabled module of category is loaded. Failing
// modules are skipped and their errors joined.
func (l *Loader) LoadCategory(ctx context.Context, enum *Enumerator, category string) ([]*registry.Descriptor, error) {
	ids, err := enum.List(ctx, category)
	if err != nil {
		return nil, err
	}

	var (
		loaded []*registry.Descriptor
		errs   []error
	)
	for _, id := range ids {
		d, err := l.Ensure(ctx, category, id)
		if err != nil {
			l.logger.Warn("command failed to load", "category", category, "module", id, "err", err)
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, d)
	}
	return loaded, errors.Join(errs...)
}

// LoadAll runs LoadCategory over every category of the source.
func (l *Loader) LoadAll(ctx context.Context, enum *Enumerator) ([]*registry.Descriptor, error) {
	categories, err := l.src.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var (
		loaded []*registry.Descriptor
		errs   []error
	)
	for _, category := range categories {
		ds, err := l.LoadCategory(ctx, enum, category)
		loaded = append(loaded, ds...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return loaded, errors.Join(errs...)
}

// Describe validates m and converts it into a descriptor for
// category/identifier.
func (l *Loader) Describe(m *modsource.Module, category, identifier string) (*registry.Descriptor, error) {
	invalid := func(reason error) error {
		return &modsource.InvalidModuleError{Category: category, Identifier: identifier, Path: m.Path, Reason: reason}
	}

	name := strings.TrimSpace(m.Name)
	if name == "" {
		return nil, invalid(errMissingName)
	}
	if !namePattern.MatchString(name) {
		return nil, invalid(fmt.Errorf("name %q must match %s", name, namePattern))
	}
	description := strings.TrimSpace(m.Description)
	if description == "" {
		return nil, invalid(errMissingDescription)
	}
	if m.Slash && utf8.RuneCountInString(description) > maxDescriptionRunes {
		return nil, invalid(fmt.Errorf("description exceeds %d characters", maxDescriptionRunes))
	}

	aliases, err := validateAliases(name, m.Aliases)
	if err != nil {
		return nil, invalid(err)
	}

	perms, err := permission.ParseAll(m.Permissions)
	if err != nil {
		return nil, invalid(err)
	}

	policy := l.defaultPermission
	if m.DefaultPermission != "" {
		if policy, err = permission.Parse(m.DefaultPermission); err != nil {
			return nil, invalid(fmt.Errorf("default_permission: %w", err))
		}
	}

	params, err := convertOptions(m.Options)
	if err != nil {
		return nil, invalid(err)
	}

	var cooldown time.Duration
	if m.Cooldown != "" {
		if cooldown, err = time.ParseDuration(m.Cooldown); err != nil {
			return nil, invalid(fmt.Errorf("cooldown: %w", err))
		}
	}

	if m.Script != "" {
		if err := runner.CheckScript(m.Script); err != nil {
			return nil, invalid(err)
		}
	}

	return &registry.Descriptor{
		Name:                    name,
		Aliases:                 aliases,
		Category:                category,
		Identifier:              identifier,
		Description:             description,
		Usage:                   m.Usage,
		Examples:                m.Examples,
		RequiredPermissions:     perms,
		DefaultPermissionPolicy: policy,
		Parameters:              params,
		RemotelyInvocable:       m.Slash,
		OwnerOnly:               m.OwnerOnly,
		Cooldown:                cooldown,
		Script:                  m.Script,
		SourcePath:              m.Path,
	}, nil
}

func validateAliases(name string, aliases []string) ([]string, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(aliases))
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		switch {
		case a == "":
			return nil, errors.New("empty alias")
		case a == name:
			return nil, fmt.Errorf("alias %q repeats the command name", a)
		}
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("alias %q listed twice", a)
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

func convertOptions(opts []modsource.Option) ([]registry.Parameter, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	params := make([]registry.Parameter, 0, len(opts))
	seen := make(map[string]struct{}, len(opts))
	sawOptional := false
	for i, o := range opts {
		if !namePattern.MatchString(o.Name) {
			return nil, fmt.Errorf("options[%d]: invalid name %q", i, o.Name)
		}
		if _, dup := seen[o.Name]; dup {
			return nil, fmt.Errorf("options[%d]: duplicate option %q", i, o.Name)
		}
		seen[o.Name] = struct{}{}
		if strings.TrimSpace(o.Description) == "" {
			return nil, fmt.Errorf("options[%d]: missing description", i)
		}
		pt := registry.ParamType(o.Type)
		if err := pt.Validate(); err != nil {
			return nil, fmt.Errorf("options[%d]: %w", i, err)
		}
		// The remote platform rejects required options after optional ones.
		if o.Required && sawOptional {
			return nil, fmt.Errorf("options[%d]: required option %q follows an optional one", i, o.Name)
		}
		sawOptional = sawOptional || !o.Required

		p := registry.Parameter{
			Name:        o.Name,
			Description: o.Description,
			Type:        pt,
			Required:    o.Required,
		}
		for _, c := range o.Choices {
			p.Choices = append(p.Choices, registry.Choice{Name: c.Name, Value: c.Value})
		}
		params = append(params, p)
	}
	return params, nil
}
