// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/issue"
	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/registry"
	"github.com/cmdsync/cmdsync/internal/remote"
	"github.com/cmdsync/cmdsync/internal/runner"
)

// issueFor maps domain errors to catalogued issues.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}
	switch {
	case errors.Is(err, registry.ErrDuplicateName), errors.Is(err, registry.ErrDuplicateAlias):
		return issue.DuplicateCommandId
	case errors.Is(err, modsource.ErrInvalidModule):
		return issue.InvalidModuleId
	case errors.Is(err, modsource.ErrSourceUnavailable):
		return issue.CommandsDirNotFoundId
	case errors.Is(err, registry.ErrNotFound):
		return issue.CommandNotFoundId
	case errors.Is(err, remote.ErrRemote):
		return issue.RemoteCatalogFailedId
	case errors.Is(err, runner.ErrScriptSyntax), errors.Is(err, runner.ErrNoHandler):
		return issue.ScriptFailedId
	}
	return 0
}

// formatErrorForDisplay formats err for the terminal, using the actionable
// form when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// fail prints err (and, in verbose mode, its issue write-up) and returns an
// ExitError so fang does not print it again.
func (a *App) fail(cmd *cobra.Command, operation string, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		err = issue.NewErrorContext().
			WithOperation(operation).
			WithIssue(issueFor(err)).
			Wrap(err).
			BuildError()
	}
	fmt.Fprintln(a.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, a.verbose))

	if iss := issue.Get(issueFor(err)); a.verbose && iss != nil {
		if md, renderErr := iss.Render("dark"); renderErr == nil {
			fmt.Fprint(a.stderr, md)
		}
	}
	return &ExitError{Code: 1, Err: err}
}

// warnAll prints every line of err; errors.Join puts each joined error on
// its own line.
func warnAll(w io.Writer, err error) {
	if err == nil {
		return
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintln(w, WarningStyle.Render("! ")+line)
	}
}
