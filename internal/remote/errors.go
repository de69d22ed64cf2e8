// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"errors"
	"fmt"
)

// ErrRemote is the sentinel for failed catalog calls.
var ErrRemote = errors.New("remote catalog request failed")

// CallError describes a failed catalog call.
type CallError struct {
	Op     string
	Target Target
	Name   string
	Cause  error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q in %s: %v", e.Op, e.Name, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s in %s: %v", e.Op, e.Target, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *CallError) Unwrap() []error {
	return []error{ErrRemote, e.Cause}
}
