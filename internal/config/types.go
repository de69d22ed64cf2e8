// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cmdsync/cmdsync/internal/catalogsync"
	"github.com/cmdsync/cmdsync/internal/permission"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the application configuration.
	Config struct {
		// CommandsDir is the root of the command module tree.
		CommandsDir string `json:"commands_dir" mapstructure:"commands_dir"`
		// DisabledCommands are module identifiers that are never loaded.
		DisabledCommands []string `json:"disabled_commands" mapstructure:"disabled_commands"`
		// DefaultPermission applies to commands without explicit permissions.
		DefaultPermission string `json:"default_permission" mapstructure:"default_permission"`
		// Owners may run owner-only commands and bypass cooldowns.
		Owners  []string      `json:"owners" mapstructure:"owners"`
		Sync    SyncConfig    `json:"sync" mapstructure:"sync"`
		Discord DiscordConfig `json:"discord" mapstructure:"discord"`
		Log     LogConfig     `json:"log" mapstructure:"log"`
		Watch   WatchConfig   `json:"watch" mapstructure:"watch"`
	}

	// SyncConfig configures catalog synchronization.
	SyncConfig struct {
		FailurePolicy string        `json:"failure_policy" mapstructure:"failure_policy"`
		DeleteTimeout time.Duration `json:"delete_timeout" mapstructure:"delete_timeout"`
	}

	// DiscordConfig identifies the application and the default guild.
	DiscordConfig struct {
		ApplicationID string `json:"application_id" mapstructure:"application_id"`
		GuildID       string `json:"guild_id" mapstructure:"guild_id"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
	}

	// WatchConfig configures hot reload.
	WatchConfig struct {
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CommandsDir:       "./commands",
		DisabledCommands:  []string{},
		DefaultPermission: string(permission.SendMessages),
		Owners:            []string{},
		Sync: SyncConfig{
			FailurePolicy: string(catalogsync.FailFast),
			DeleteTimeout: catalogsync.DefaultDeleteTimeout,
		},
		Log:   LogConfig{Level: "info"},
		Watch: WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Validate checks the constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CommandsDir) == "" {
		errs = append(errs, errors.New("commands_dir must not be empty"))
	}
	if _, err := permission.Parse(c.DefaultPermission); err != nil {
		errs = append(errs, fmt.Errorf("default_permission: %w", err))
	}
	if _, err := catalogsync.ParsePolicy(c.Sync.FailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("sync.failure_policy: %w", err))
	}
	if c.Sync.DeleteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("sync.delete_timeout must be positive (got %s)", c.Sync.DeleteTimeout))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative (got %s)", c.Watch.Debounce))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Policy returns the parsed failure policy. Call after Validate.
func (c *Config) Policy() catalogsync.FailurePolicy {
	p, err := catalogsync.ParsePolicy(c.Sync.FailurePolicy)
	if err != nil {
		return catalogsync.FailFast
	}
	return p
}

// LogLevel returns the parsed log level, info when unset or invalid.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
