// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is the sentinel error wrapped by DuplicateNameError.
	ErrDuplicateName = errors.New("duplicate command name")
	// ErrDuplicateAlias is the sentinel error wrapped by DuplicateAliasError.
	ErrDuplicateAlias = errors.New("duplicate command alias")
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("command not found")
)

type (
	// DuplicateNameError is returned when a command name is already registered.
	DuplicateNameError struct {
		Name string
		// ExistingCategory is the category of the command already holding Name.
		ExistingCategory string
	}

	// DuplicateAliasError is returned when an alias already resolves to
	// another command, or collides with another command's name.
	DuplicateAliasError struct {
		Alias string
		// Command is the command that attempted to claim Alias.
		Command string
		// Owner is the command Alias currently resolves to.
		Owner string
	}

	// NotFoundError is returned when a name or alias is unknown.
	NotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	if e.ExistingCategory != "" {
		return fmt.Sprintf("command %q is already registered (category %q)", e.Name, e.ExistingCategory)
	}
	return fmt.Sprintf("command %q is already registered", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// Error implements the error interface.
func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q of command %q already resolves to %q", e.Alias, e.Command, e.Owner)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateAliasError) Unwrap() error { return ErrDuplicateAlias }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }
