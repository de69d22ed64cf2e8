// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := app.cfgPath
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("# source: "+path))
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})
	return configCmd
}
