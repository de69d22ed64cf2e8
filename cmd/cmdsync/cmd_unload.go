// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/modsource"
)

func newUnloadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unload <category> <name|alias>",
		Short: "Load a category, then unload one of its commands",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := modsource.NormalizeCategory(args[0])
			_, loadErr := app.loader.LoadCategory(cmd.Context(), app.enum, category)
			warnAll(app.stderr, loadErr)

			res := app.unloader.Unload(category, args[1])
			if !res.OK() {
				fmt.Fprintln(app.stdout, WarningStyle.Render(res.Message))
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: 1}
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+res.Message)
			return nil
		},
	}
}
