// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"slices"
	"time"

	"github.com/cmdsync/cmdsync/internal/permission"
)

// Parameter types accepted by the remote platform.
const (
	ParamString      ParamType = "string"
	ParamInteger     ParamType = "integer"
	ParamNumber      ParamType = "number"
	ParamBoolean     ParamType = "boolean"
	ParamUser        ParamType = "user"
	ParamChannel     ParamType = "channel"
	ParamRole        ParamType = "role"
	ParamMentionable ParamType = "mentionable"
	ParamAttachment  ParamType = "attachment"
)

type (
	// ParamType is the declared type of a command parameter.
	ParamType string

	// Choice is one allowed value of a parameter.
	Choice struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// Parameter describes one command parameter.
	Parameter struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Type        ParamType `json:"type"`
		Required    bool      `json:"required,omitempty"`
		Choices     []Choice  `json:"choices,omitempty"`
	}

	// Descriptor is the metadata of one loaded command. Descriptors returned by
	// a Registry are shared and must be treated as read-only.
	Descriptor struct {
		// Name is the unique registry key.
		Name string
		// Aliases are alternate names, each resolving to Name.
		Aliases []string
		// Category is the source subdirectory the command was loaded from.
		Category string
		// Identifier is the module entry name inside Category.
		Identifier string
		// Description is the human-readable summary.
		Description string
		// Usage is an optional usage line, e.g. "ban <user> [reason]".
		Usage string
		// Examples are optional usage examples.
		Examples []string
		// RequiredPermissions lists the flags needed to invoke the command.
		// Empty means DefaultPermissionPolicy applies.
		RequiredPermissions []permission.Flag
		// DefaultPermissionPolicy is used when RequiredPermissions is empty.
		DefaultPermissionPolicy permission.Flag
		// Parameters is the ordered parameter schema.
		Parameters []Parameter
		// RemotelyInvocable marks the command for remote catalog sync.
		RemotelyInvocable bool
		// OwnerOnly restricts invocation to the bot owners.
		OwnerOnly bool
		// Cooldown is the per-user delay between invocations.
		Cooldown time.Duration
		// Script is the shell handler run by the runner package.
		Script string
		// SourcePath is the module file the descriptor was decoded from.
		SourcePath string
	}
)

var paramTypes = []ParamType{
	ParamString, ParamInteger, ParamNumber, ParamBoolean, ParamUser,
	ParamChannel, ParamRole, ParamMentionable, ParamAttachment,
}

// Validate reports whether pt is a known parameter type.
func (pt ParamType) Validate() error {
	if !slices.Contains(paramTypes, pt) {
		return fmt.Errorf("unknown parameter type %q", string(pt))
	}
	return nil
}

// String returns the string representation of the ParamType.
func (pt ParamType) String() string { return string(pt) }

// Names returns the command name followed by its aliases.
func (d *Descriptor) Names() []string {
	out := make([]string, 0, 1+len(d.Aliases))
	out = append(out, d.Name)
	return append(out, d.Aliases...)
}

// clone copies d so the registry never shares slices with the caller.
func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.Aliases = slices.Clone(d.Aliases)
	c.Examples = slices.Clone(d.Examples)
	c.RequiredPermissions = slices.Clone(d.RequiredPermissions)
	if d.Parameters != nil {
		c.Parameters = make([]Parameter, len(d.Parameters))
		for i, p := range d.Parameters {
			p.Choices = slices.Clone(p.Choices)
			c.Parameters[i] = p
		}
	}
	return &c
}
