// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{name: "operation only", err: &ActionableError{Operation: "load config"}, want: "failed to load config"},
		{name: "with resource", err: &ActionableError{Operation: "load command", Resource: "fun/joke"}, want: "failed to load command: fun/joke"},
		{name: "with cause", err: &ActionableError{Operation: "purge catalog", Resource: "fun", Cause: cause}, want: "failed to purge catalog: fun: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	root := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check the path").
		WithSuggestion("Run 'cmdsync config show'").
		Wrap(fmt.Errorf("open: %w", root)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Check the path") || !strings.Contains(plain, "  • Run 'cmdsync config show'") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) must not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. open: no such file") || !strings.Contains(verbose, "2. no such file") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	ctx := NewErrorContext().WithOperation("run command").WithSuggestion("a")
	first := ctx.Build()
	ctx.WithSuggestion("b")
	if len(first.Suggestions) != 1 {
		t.Errorf("built error shares suggestions with its builder: %v", first.Suggestions)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("x").WithIssue(InvalidModuleId).Wrap(sentinel).BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue != InvalidModuleId {
		t.Errorf("errors.As() = %v, issue %d", ae, ae.Issue)
	}
	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
}
