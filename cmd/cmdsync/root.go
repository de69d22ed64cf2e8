// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "cmdsync",
		Short: "Load bot commands and keep the Discord catalog in sync",
		Long: TitleStyle.Render("cmdsync") + SubtitleStyle.Render(" - command registry and catalog reconciler") + `

Commands live in <commands_dir>/<category>/<name>.{cue,toml,yaml,yml}.
Remotely invocable ("slash") commands are projected into the Discord
application command catalog.

` + SubtitleStyle.Render("Examples:") + `
  cmdsync list                     List every loaded command
  cmdsync catalog build fun        Show the catalog entries of 'fun'
  cmdsync catalog register fun util --guild 1234
  cmdsync catalog purge fun --guild 1234
  cmdsync run ping -- --loud       Run a command handler
  cmdsync watch                    Reload commands as files change`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.setup(cmd.Context(), flags); err != nil {
				return app.fail(cmd, "load configuration", err)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is <user config dir>/cmdsync/config.cue)")
	root.PersistentFlags().StringVar(&flags.commandsDir, "commands-dir", "", "override commands_dir from the configuration")

	root.AddCommand(
		newListCommand(app),
		newCatalogCommand(app),
		newRunCommand(app),
		newUnloadCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
	)
	return root
}
