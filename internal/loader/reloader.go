// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"io/fs"

	"github.com/cmdsync/cmdsync/internal/registry"
)

// Reloader refreshes single modules after their source changed.
type Reloader struct {
	loader   *Loader
	unloader *Unloader
	enum     *Enumerator
}

// NewReloader creates a Reloader.
func NewReloader(l *Loader, u *Unloader, e *Enumerator) *Reloader {
	return &Reloader{loader: l, unloader: u, enum: e}
}

// Reload unloads whatever was loaded from category/identifier and loads the
// module again. It returns a nil descriptor and nil error when the module no
// longer exists or is disabled.
func (r *Reloader) Reload(ctx context.Context, category, identifier string) (*registry.Descriptor, error) {
	if d, ok := r.loader.reg.LookupSource(category, identifier); ok {
		r.unloader.Unload(category, d.Name)
	}
	// Modules that failed validation stay cached; drop them too.
	r.loader.src.Evict(category, identifier)

	if r.enum.Disabled(identifier) {
		return nil, nil
	}

	d, err := r.loader.Load(ctx, category, identifier)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}
