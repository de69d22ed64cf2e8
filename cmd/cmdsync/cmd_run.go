// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/runner"
)

func newRunCommand(app *App) *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "run <name|alias> [args...]",
		Short: "Run the handler of a command",
		Long: `Run the handler script of a command. Arguments after the command name
are passed to the script as positional parameters.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.loader.LoadAll(ctx, app.enum); err != nil {
				// Only the requested command matters here.
				app.logger.Debug("some commands failed to load", "err", err)
			}

			d, err := app.registry.Lookup(args[0])
			if err != nil {
				return app.fail(cmd, "run command", err)
			}

			result := app.runner.Run(ctx, d, runner.Invocation{
				Caller: caller,
				Args:   args[1:],
				Stdin:  os.Stdin,
				Stdout: app.stdout,
				Stderr: app.stderr,
			})
			if result.Error != nil {
				return app.fail(cmd, "run command", result.Error)
			}
			if !result.ExitCode.IsSuccess() {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: int(result.ExitCode)}
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&caller, "as", "", "caller ID used for owner checks and cooldowns")
	return cmd
}
