// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"slices"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/cmdsync/cmdsync/internal/permission"
	"github.com/cmdsync/cmdsync/internal/registry"
)

// Descriptor is the catalog entry of one remotely invocable command.
type Descriptor struct {
	Name                     string               `json:"name"`
	Description              string               `json:"description"`
	DefaultMemberPermissions []permission.Flag    `json:"default_member_permissions"`
	Options                  []registry.Parameter `json:"options,omitempty"`
}

var optionTypes = map[registry.ParamType]discordgo.ApplicationCommandOptionType{
	registry.ParamString:      discordgo.ApplicationCommandOptionString,
	registry.ParamInteger:     discordgo.ApplicationCommandOptionInteger,
	registry.ParamNumber:      discordgo.ApplicationCommandOptionNumber,
	registry.ParamBoolean:     discordgo.ApplicationCommandOptionBoolean,
	registry.ParamUser:        discordgo.ApplicationCommandOptionUser,
	registry.ParamChannel:     discordgo.ApplicationCommandOptionChannel,
	registry.ParamRole:        discordgo.ApplicationCommandOptionRole,
	registry.ParamMentionable: discordgo.ApplicationCommandOptionMentionable,
	registry.ParamAttachment:  discordgo.ApplicationCommandOptionAttachment,
}

// Project returns the catalog entry of d, or false when d is not remotely
// invocable. Commands without required permissions fall back to their default
// permission policy, or SendMessages when that is unset.
func Project(d *registry.Descriptor) (Descriptor, bool) {
	if d == nil || !d.RemotelyInvocable {
		return Descriptor{}, false
	}

	policy := d.DefaultPermissionPolicy
	if policy == "" {
		policy = permission.SendMessages
	}
	perms := []permission.Flag{policy}
	if len(d.RequiredPermissions) > 0 {
		perms = slices.Clone(d.RequiredPermissions)
	}

	out := Descriptor{
		Name:                     d.Name,
		Description:              d.Description,
		DefaultMemberPermissions: perms,
	}
	if len(d.Parameters) > 0 {
		out.Options = slices.Clone(d.Parameters)
	}
	return out, true
}

// ProjectAll projects every remotely invocable descriptor, keeping order.
func ProjectAll(ds []*registry.Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(ds))
	for _, d := range ds {
		if rd, ok := Project(d); ok {
			out = append(out, rd)
		}
	}
	return out
}

// ToApplicationCommand converts d into the discordgo chat command payload.
func ToApplicationCommand(d Descriptor) *discordgo.ApplicationCommand {
	perms := permission.Bitfield(d.DefaultMemberPermissions)
	cmd := &discordgo.ApplicationCommand{
		Type:                     discordgo.ChatApplicationCommand,
		Name:                     d.Name,
		Description:              d.Description,
		DefaultMemberPermissions: &perms,
	}
	for _, p := range d.Options {
		opt := &discordgo.ApplicationCommandOption{
			Type:        optionTypes[p.Type],
			Name:        p.Name,
			Description: p.Description,
			Required:    p.Required,
		}
		for _, c := range p.Choices {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  c.Name,
				Value: choiceValue(p.Type, c.Value),
			})
		}
		cmd.Options = append(cmd.Options, opt)
	}
	return cmd
}

// choiceValue converts numeric choices; the platform rejects numbers sent as
// strings for integer and number options.
func choiceValue(t registry.ParamType, v string) any {
	switch t {
	case registry.ParamInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case registry.ParamNumber:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}
