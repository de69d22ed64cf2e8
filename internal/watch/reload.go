// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cmdsync/cmdsync/internal/registry"
)

// Reloader reloads a single module. *loader.Reloader satisfies it.
type Reloader interface {
	Reload(ctx context.Context, category, identifier string) (*registry.Descriptor, error)
}

// ReloadOnChange returns an OnChange callback that reloads every changed
// module. Failures are logged and joined; they do not stop later reloads.
func ReloadOnChange(r Reloader, logger *log.Logger) func(context.Context, []Change) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(ctx context.Context, changes []Change) error {
		var errs []error
		for _, c := range changes {
			d, err := r.Reload(ctx, c.Category, c.Identifier)
			switch {
			case err != nil:
				logger.Error("reload failed", "module", c.Key(), "err", err)
				errs = append(errs, err)
			case d == nil:
				logger.Info("command removed", "module", c.Key())
			default:
				logger.Info("command reloaded", "name", d.Name, "module", c.Key())
			}
		}
		return errors.Join(errs...)
	}
}
