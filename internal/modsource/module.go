// SPDX-License-Identifier: MPL-2.0

package modsource

type (
	// Module is the raw metadata decoded from one module file. Fields mirror
	// the file format and are validated by the loader, not here.
	Module struct {
		Name        string   `json:"name" toml:"name" yaml:"name"`
		Description string   `json:"description" toml:"description" yaml:"description"`
		Aliases     []string `json:"aliases,omitempty" toml:"aliases" yaml:"aliases"`
		Usage       string   `json:"usage,omitempty" toml:"usage" yaml:"usage"`
		Examples    []string `json:"examples,omitempty" toml:"examples" yaml:"examples"`
		// Permissions are the permission flag names a member needs.
		Permissions []string `json:"permissions,omitempty" toml:"permissions" yaml:"permissions"`
		// DefaultPermission overrides the configured default permission policy.
		DefaultPermission string   `json:"default_permission,omitempty" toml:"default_permission" yaml:"default_permission"`
		Options           []Option `json:"options,omitempty" toml:"options" yaml:"options"`
		// Slash marks the command as remotely invocable.
		Slash     bool   `json:"slash" toml:"slash" yaml:"slash"`
		OwnerOnly bool   `json:"owner_only" toml:"owner_only" yaml:"owner_only"`
		Cooldown  string `json:"cooldown,omitempty" toml:"cooldown" yaml:"cooldown"`
		Script    string `json:"script,omitempty" toml:"script" yaml:"script"`

		// Path is the file the module was read from.
		Path string `json:"-" toml:"-" yaml:"-"`
	}

	// Option is one declared command parameter.
	Option struct {
		Name        string   `json:"name" toml:"name" yaml:"name"`
		Description string   `json:"description" toml:"description" yaml:"description"`
		Type        string   `json:"type" toml:"type" yaml:"type"`
		Required    bool     `json:"required,omitempty" toml:"required" yaml:"required"`
		Choices     []Choice `json:"choices,omitempty" toml:"choices" yaml:"choices"`
	}

	// Choice is one allowed option value.
	Choice struct {
		Name  string `json:"name" toml:"name" yaml:"name"`
		Value string `json:"value" toml:"value" yaml:"value"`
	}
)
