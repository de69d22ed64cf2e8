// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing error.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load command").
	//		WithResource("commands/fun/joke.cue").
	//		WithSuggestion("Run 'cmdsync list fun' to see the loaded commands").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase, e.g. "purge catalog".
		Operation string
		// Resource names the file, category or command involved.
		Resource    string
		Suggestions []string
		Cause       error
		// Issue optionally links a Markdown write-up.
		Issue Id
	}

	// ErrorContext builds an ActionableError step by step.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err with an operation. It returns nil for a nil err.
func WrapWithOperation(err error, operation string) error {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one bullet per suggestion. Verbose
// output also lists every error in the cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for i, err := 1, e.Cause; err != nil; i, err = i+1, errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", i, err)
		}
	}
	return b.String()
}

// WithOperation sets the operation.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the resource.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

// WithIssue links a catalogued issue.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the error, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	out := c.err
	out.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &out
}

// BuildError is Build typed as error, so a missing operation yields a true
// nil interface.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
