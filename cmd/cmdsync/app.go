// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cmdsync/cmdsync/internal/catalogsync"
	"github.com/cmdsync/cmdsync/internal/config"
	"github.com/cmdsync/cmdsync/internal/issue"
	"github.com/cmdsync/cmdsync/internal/loader"
	"github.com/cmdsync/cmdsync/internal/metrics"
	"github.com/cmdsync/cmdsync/internal/modsource"
	"github.com/cmdsync/cmdsync/internal/permission"
	"github.com/cmdsync/cmdsync/internal/registry"
	"github.com/cmdsync/cmdsync/internal/remote"
	"github.com/cmdsync/cmdsync/internal/runner"
)

type (
	// CatalogFactory opens the remote catalog.
	CatalogFactory func(cfg *config.Config, logger *log.Logger) (remote.Catalog, error)

	// App is the composition root of the CLI. Services are built by setup once
	// the configuration is known.
	App struct {
		Config     config.Provider
		NewCatalog CatalogFactory
		stdout     io.Writer
		stderr     io.Writer

		cfg        *config.Config
		cfgPath    string
		verbose    bool
		logger     *log.Logger
		metricsReg *prometheus.Registry
		metrics    *metrics.Metrics
		source     *modsource.FS
		registry   *registry.Registry
		loader     *loader.Loader
		enum       *loader.Enumerator
		unloader   *loader.Unloader
		reloader   *loader.Reloader
		runner     *runner.Runner
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config     config.Provider
		NewCatalog CatalogFactory
		Stdout     io.Writer
		Stderr     io.Writer
	}

	rootFlags struct {
		verbose     bool
		configPath  string
		commandsDir string
	}
)

// NewApp creates an App.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		NewCatalog: deps.NewCatalog,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewCatalog == nil {
		app.NewCatalog = discordCatalog
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// setup loads the configuration and wires every service.
func (a *App) setup(ctx context.Context, flags *rootFlags) error {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if flags.commandsDir != "" {
		cfg.CommandsDir = flags.commandsDir
	}
	a.cfg, a.cfgPath, a.verbose = cfg, path, flags.verbose

	level := cfg.LogLevel()
	if flags.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:           level,
		Prefix:          "cmdsync",
		ReportTimestamp: true,
	})

	a.metricsReg = prometheus.NewRegistry()
	a.metrics = metrics.New(a.metricsReg)

	a.source = modsource.NewFS(cfg.CommandsDir)
	disabled := registry.NewDisabledSet(cfg.DisabledCommands...)
	a.registry = registry.New(registry.WithDisabled(disabled))
	a.loader = loader.New(a.source, a.registry,
		loader.WithLogger(a.logger),
		loader.WithMetrics(a.metrics),
		loader.WithDefaultPermission(permission.Flag(cfg.DefaultPermission)),
	)
	a.enum = loader.NewEnumerator(a.source, disabled)
	a.unloader = loader.NewUnloader(a.source, a.registry, a.logger, a.metrics)
	a.reloader = loader.NewReloader(a.loader, a.unloader, a.enum)
	a.runner = runner.New(runner.WithOwners(cfg.Owners...), runner.WithLogger(a.logger))

	a.logger.Debug("configuration loaded", "path", path, "commands_dir", cfg.CommandsDir)
	return nil
}

// synchronizer builds a Synchronizer. The remote catalog is only opened when
// remoteOps is set.
func (a *App) synchronizer(remoteOps bool) (*catalogsync.Synchronizer, error) {
	var catalog remote.Catalog
	if remoteOps {
		var err error
		if catalog, err = a.NewCatalog(a.cfg, a.logger); err != nil {
			return nil, err
		}
	}
	return catalogsync.New(a.loader, a.enum, a.unloader, catalog,
		catalogsync.WithFailurePolicy(a.cfg.Policy()),
		catalogsync.WithDeleteTimeout(a.cfg.Sync.DeleteTimeout),
		catalogsync.WithLogger(a.logger),
		catalogsync.WithMetrics(a.metrics),
	), nil
}

// categories returns args, or every category of the source when args is empty.
func (a *App) categories(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		out := make([]string, 0, len(args))
		for _, c := range args {
			out = append(out, modsource.NormalizeCategory(c))
		}
		return out, nil
	}
	return a.source.Categories(ctx)
}

// discordCatalog opens a REST-only discordgo session with the environment's
// bot token.
func discordCatalog(cfg *config.Config, logger *log.Logger) (remote.Catalog, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if err := creds.Require(cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("connect to Discord").
			WithSuggestion("Export DISCORD_TOKEN and DISCORD_APPLICATION_ID").
			WithIssue(issue.MissingCredentialsId).
			Wrap(err).
			BuildError()
	}

	session, err := discordgo.New("Bot " + creds.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return remote.NewDiscordCatalog(session, creds.ResolveApplicationID(cfg), logger), nil
}

// target resolves the guild for catalog calls: the flag, else the configured
// guild. global forces the application-wide catalog.
func (a *App) target(guild string, global bool) remote.Target {
	if global {
		return remote.Target{}
	}
	if guild == "" {
		guild = a.cfg.Discord.GuildID
	}
	return remote.Target{GuildID: guild}
}

var errNoGuild = errors.New("no guild given and discord.guild_id is not configured")
