// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"github.com/spf13/viper"

	"github.com/cmdsync/cmdsync/internal/issue"
	"github.com/cmdsync/cmdsync/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "cmdsync"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the cmdsync configuration directory under
// os.UserConfigDir().
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("commands_dir", defaults.CommandsDir)
	v.SetDefault("disabled_commands", defaults.DisabledCommands)
	v.SetDefault("default_permission", defaults.DefaultPermission)
	v.SetDefault("owners", defaults.Owners)
	v.SetDefault("sync.failure_policy", defaults.Sync.FailurePolicy)
	v.SetDefault("sync.delete_timeout", defaults.Sync.DeleteTimeout)
	v.SetDefault("discord.application_id", defaults.Discord.ApplicationID)
	v.SetDefault("discord.guild_id", defaults.Discord.GuildID)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the configuration schema").
				WithSuggestion("Run 'cmdsync config show' to see the defaults").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Fix the listed fields in " + ConfigFileName + "." + ConfigFileExt).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

// resolvePath picks the file to load: the explicit path (which must exist),
// then the config directory, then the working directory. An empty result
// means defaults only.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	name := ConfigFileName + "." + ConfigFileExt
	for _, candidate := range []string{filepath.Join(dir, name), name} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadCUEIntoViper validates the file against #Config and merges it over the
// defaults already registered in v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}
	// Every field is optional, so the value need not be concrete.
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// cmdsync configuration\n\n")
	fmt.Fprintf(&sb, "commands_dir: %q\n", cfg.CommandsDir)
	fmt.Fprintf(&sb, "disabled_commands: %s\n", cueList(cfg.DisabledCommands))
	fmt.Fprintf(&sb, "default_permission: %q\n", cfg.DefaultPermission)
	fmt.Fprintf(&sb, "owners: %s\n", cueList(cfg.Owners))

	sb.WriteString("\nsync: {\n")
	fmt.Fprintf(&sb, "\tfailure_policy: %q\n", cfg.Sync.FailurePolicy)
	fmt.Fprintf(&sb, "\tdelete_timeout: %q\n", cfg.Sync.DeleteTimeout.String())
	sb.WriteString("}\n")

	sb.WriteString("\ndiscord: {\n")
	fmt.Fprintf(&sb, "\tapplication_id: %q\n", cfg.Discord.ApplicationID)
	fmt.Fprintf(&sb, "\tguild_id: %q\n", cfg.Discord.GuildID)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, fmt.Sprintf("%q", it))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
