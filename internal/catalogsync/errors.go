// SPDX-License-Identifier: MPL-2.0

package catalogsync

import (
	"errors"
	"fmt"

	"github.com/cmdsync/cmdsync/internal/remote"
)

// ErrCategory is the sentinel wrapped by CategoryError.
var ErrCategory = errors.New("category synchronization failed")

type (
	// CategoryError reports a category that could not be enumerated, or a
	// command of it that could not be loaded (Identifier set).
	CategoryError struct {
		Category   string
		Identifier string
		Err        error
	}

	// DeleteError reports one failed remote delete during a purge.
	DeleteError struct {
		Name   string
		Target remote.Target
		Err    error
	}
)

// Error implements the error interface.
func (e *CategoryError) Error() string {
	return fmt.Sprintf("unable to load category %s: %v", e.Category, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *CategoryError) Unwrap() []error {
	return []error{ErrCategory, e.Err}
}

// Error implements the error interface.
func (e *DeleteError) Error() string {
	return fmt.Sprintf("unable to delete command %s from %s: %v", e.Name, e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeleteError) Unwrap() error { return e.Err }
