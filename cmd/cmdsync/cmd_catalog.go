// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/remote"
)

func newCatalogCommand(app *App) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build, register or purge the remote command catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	catalogCmd.AddCommand(newCatalogBuildCommand(app), newCatalogRegisterCommand(app), newCatalogPurgeCommand(app))
	return catalogCmd
}

func newCatalogBuildCommand(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "build <category>",
		Short: "Print the catalog entries of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, err := app.synchronizer(false)
			if err != nil {
				return app.fail(cmd, "build catalog", err)
			}
			category := modsource.NormalizeCategory(args[0])
			report, err := sync.BuildReport(cmd.Context(), category)
			if err != nil {
				return app.fail(cmd, "build catalog", err)
			}
			for _, skipped := range report.Skipped {
				warnAll(app.stderr, skipped)
			}

			if asJSON {
				out := report.Commands
				if out == nil {
					out = []remote.Descriptor{}
				}
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printDescriptors(app, report.Commands)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog payload as JSON")
	return cmd
}

func newCatalogRegisterCommand(app *App) *cobra.Command {
	var (
		guild  string
		global bool
	)
	cmd := &cobra.Command{
		Use:   "register <category...>",
		Short: "Replace the remote catalog with the given categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := app.target(guild, global)
			sync, err := app.synchronizer(true)
			if err != nil {
				return app.fail(cmd, "register catalog", err)
			}
			categories, err := app.categories(cmd.Context(), args)
			if err != nil {
				return app.fail(cmd, "register catalog", err)
			}
			cmds, err := sync.RegisterCatalog(cmd.Context(), target, categories...)
			if err != nil {
				return app.fail(cmd, "register catalog", err)
			}
			fmt.Fprintf(app.stdout, "%s Registered %d command(s) in %s\n", SuccessStyle.Render("✓"), len(cmds), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&guild, "guild", "", "guild ID (default discord.guild_id)")
	cmd.Flags().BoolVar(&global, "global", false, "register in the global catalog")
	cmd.MarkFlagsMutuallyExclusive("guild", "global")
	return cmd
}

func newCatalogPurgeCommand(app *App) *cobra.Command {
	var guild string
	cmd := &cobra.Command{
		Use:   "purge <category>",
		Short: "Delete the slash commands of a category from a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := app.target(guild, false)
			if target.GuildID == "" {
				return app.fail(cmd, "purge catalog", errNoGuild)
			}
			sync, err := app.synchronizer(true)
			if err != nil {
				return app.fail(cmd, "purge catalog", err)
			}

			purged, err := sync.PurgeCatalog(cmd.Context(), modsource.NormalizeCategory(args[0]), target)
			for _, d := range purged {
				fmt.Fprintf(app.stdout, "%s Deleted %s\n", SuccessStyle.Render("✓"), CmdStyle.Render("/"+d.Name))
			}
			if err != nil {
				return app.fail(cmd, "purge catalog", err)
			}
			if len(purged) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No slash commands in this category."))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&guild, "guild", "", "guild ID (default discord.guild_id)")
	return cmd
}

func printDescriptors(app *App, ds []remote.Descriptor) {
	if len(ds) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No slash commands in this category."))
		return
	}
	for _, d := range ds {
		fmt.Fprintf(app.stdout, "%s  %s\n", CmdStyle.Render("/"+d.Name), d.Description)
		for _, o := range d.Options {
			req := ""
			if o.Required {
				req = " (required)"
			}
			fmt.Fprintf(app.stdout, "    %s %s%s\n", o.Name, SubtitleStyle.Render(string(o.Type)), req)
		}
	}
}
