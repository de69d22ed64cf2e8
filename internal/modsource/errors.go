// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is the sentinel error wrapped by SourceUnavailableError.
	ErrSourceUnavailable = errors.New("module source unavailable")
	// ErrInvalidModule is the sentinel error wrapped by InvalidModuleError.
	ErrInvalidModule = errors.New("invalid command module")
)

type (
	// SourceUnavailableError is returned when a category cannot be read.
	SourceUnavailableError struct {
		Category string
		Path     string
		Cause    error
	}

	// InvalidModuleError is returned when a module cannot be instantiated or
	// its metadata is malformed.
	InvalidModuleError struct {
		Category   string
		Identifier string
		Path       string
		Reason     error
	}
)

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("cannot read category %q at %s: %v", e.Category, e.Path, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Cause}
}

// Error implements the error interface.
func (e *InvalidModuleError) Error() string {
	where := e.Category + "/" + e.Identifier
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("invalid command module %s: %v", where, e.Reason)
}

// Unwrap returns both the sentinel and the underlying reason.
func (e *InvalidModuleError) Unwrap() []error {
	return []error{ErrInvalidModule, e.Reason}
}
