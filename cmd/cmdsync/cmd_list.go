// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/registry"
)

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category...]",
		Short: "Load and list commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories, err := app.categories(ctx, args)
			if err != nil {
				return app.fail(cmd, "list categories", err)
			}

			var descriptors []*registry.Descriptor
			for _, c := range categories {
				ds, loadErr := app.loader.LoadCategory(ctx, app.enum, c)
				warnAll(app.stderr, loadErr)
				descriptors = append(descriptors, ds...)
			}

			if len(descriptors) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No commands loaded."))
				return nil
			}
			fmt.Fprintln(app.stdout, commandTable(descriptors))
			return nil
		},
	}
}

func commandTable(ds []*registry.Descriptor) string {
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		slash := ""
		if d.RemotelyInvocable {
			slash = "✓"
		}
		rows = append(rows, []string{d.Name, strings.Join(d.Aliases, ", "), d.Category, slash, d.Description})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("NAME", "ALIASES", "CATEGORY", "SLASH", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		String()
}
