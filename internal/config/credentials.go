// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrMissingCredentials is returned by Credentials.Require.
var ErrMissingCredentials = errors.New("missing discord credentials")

// Credentials are secrets read from the environment.
type Credentials struct {
	Token         string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"DISCORD_APPLICATION_ID"`
}

// LoadCredentials reads Credentials from the process environment.
func LoadCredentials() (Credentials, error) {
	return parseCredentials(env.Options{})
}

func parseCredentials(opts env.Options) (Credentials, error) {
	var c Credentials
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Credentials{}, fmt.Errorf("read credentials from environment: %w", err)
	}
	return c, nil
}

// ResolveApplicationID prefers the environment over the config file.
func (c Credentials) ResolveApplicationID(cfg *Config) string {
	if c.ApplicationID != "" {
		return c.ApplicationID
	}
	return cfg.Discord.ApplicationID
}

// Require fails unless a token and an application ID are available.
func (c Credentials) Require(cfg *Config) error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.ResolveApplicationID(cfg) == "" {
		missing = append(missing, "DISCORD_APPLICATION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}
