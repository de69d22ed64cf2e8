// SPDX-License-Identifier: MPL-2.0

package catalogsync

import (
	"errors"
	"fmt"
)

const (
	// FailFast aborts a category on its first load failure.
	FailFast FailurePolicy = "fail-fast"
	// SkipFailed logs load failures and continues with the next command.
	SkipFailed FailurePolicy = "skip"
)

// ErrInvalidPolicy is returned for unknown failure policy names.
var ErrInvalidPolicy = errors.New("invalid failure policy")

// FailurePolicy decides what a category build does when a command fails to load.
type FailurePolicy string

// String returns the policy name.
func (p FailurePolicy) String() string { return string(p) }

// Validate returns ErrInvalidPolicy for unknown policies.
func (p FailurePolicy) Validate() error {
	switch p {
	case FailFast, SkipFailed:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidPolicy, string(p), FailFast, SkipFailed)
	}
}

// ParsePolicy parses a policy name. The empty string selects FailFast.
func ParsePolicy(s string) (FailurePolicy, error) {
	if s == "" {
		return FailFast, nil
	}
	p := FailurePolicy(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}
