// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmdsync/cmdsync/internal/metrics"
	"github.com/cmdsync/cmdsync/internal/remote"
	"github.com/cmdsync/cmdsync/internal/watch"
)

func newWatchCommand(app *App) *cobra.Command {
	var (
		metricsAddr string
		guild       string
		register    bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load every command and reload modules as they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loaded, err := app.loader.LoadAll(ctx, app.enum)
			warnAll(app.stderr, err)
			fmt.Fprintf(app.stdout, "%s Loaded %d command(s) from %s\n",
				SuccessStyle.Render("✓"), len(loaded), CmdStyle.Render(app.cfg.CommandsDir))

			onChange := watch.ReloadOnChange(app.reloader, app.logger)
			if register {
				onChange, err = app.registerOnChange(onChange, app.target(guild, false))
				if err != nil {
					return app.fail(cmd, "watch commands", err)
				}
			}

			w, err := watch.New(watch.Config{
				Root:     app.cfg.CommandsDir,
				Debounce: app.cfg.Watch.Debounce,
				OnChange: onChange,
				Logger:   app.logger,
			})
			if err != nil {
				return app.fail(cmd, "watch commands", err)
			}

			if metricsAddr != "" {
				srv := metrics.NewServer(metricsAddr, app.metricsReg, app.logger)
				if err := srv.Start(ctx); err != nil {
					return app.fail(cmd, "serve metrics", err)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Stop(shutdownCtx)
				}()
			}

			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Watching for changes. Press Ctrl+C to stop."))
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return app.fail(cmd, "watch commands", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&register, "register", false, "re-register every category after each reload")
	cmd.Flags().StringVar(&guild, "guild", "", "guild used with --register (default discord.guild_id)")
	return cmd
}

// registerOnChange wraps next so the whole catalog is re-registered after
// each batch of reloads.
func (a *App) registerOnChange(next func(context.Context, []watch.Change) error, target remote.Target) (func(context.Context, []watch.Change) error, error) {
	sync, err := a.synchronizer(true)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, changes []watch.Change) error {
		reloadErr := next(ctx, changes)
		categories, err := a.source.Categories(ctx)
		if err != nil {
			return errors.Join(reloadErr, err)
		}
		cmds, err := sync.RegisterCatalog(ctx, target, categories...)
		if err != nil {
			a.logger.Error("catalog registration failed", "target", target.String(), "err", err)
			return errors.Join(reloadErr, err)
		}
		a.logger.Info("catalog registered", "target", target.String(), "commands", len(cmds))
		return reloadErr
	}, nil
}
