// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoHandler is returned for commands without a script.
	ErrNoHandler = errors.New("command has no handler script")
	// ErrOwnerOnly is returned when a non-owner invokes an owner-only command.
	ErrOwnerOnly = errors.New("command is restricted to bot owners")
	// ErrCoolingDown is the sentinel wrapped by CooldownError.
	ErrCoolingDown = errors.New("command is cooling down")
	// ErrScriptSyntax is the sentinel wrapped by SyntaxError.
	ErrScriptSyntax = errors.New("handler script syntax error")
)

type (
	// CooldownError is returned when a caller invokes a command again before
	// its cooldown elapsed.
	CooldownError struct {
		Command   string
		Remaining time.Duration
	}

	// SyntaxError wraps a shell parse failure.
	SyntaxError struct {
		Err error
	}
)

// Error implements the error interface.
func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %s before reusing the `%s` command", e.Remaining.Round(100*time.Millisecond), e.Command)
}

// Unwrap returns ErrCoolingDown.
func (e *CooldownError) Unwrap() error { return ErrCoolingDown }

// Error implements the error interface.
func (e *SyntaxError) Error() string { return fmt.Sprintf("%v: %v", ErrScriptSyntax, e.Err) }

// Unwrap returns both the sentinel and the parse error.
func (e *SyntaxError) Unwrap() []error { return []error{ErrScriptSyntax, e.Err} }
