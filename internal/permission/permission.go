// SPDX-License-Identifier: MPL-2.0

// Package permission maps the permission flag names used in command modules
// to the remote platform's permission bitfield.
package permission

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// SendMessages is the minimal permission every member needs to invoke a
// command. It is the default permission policy when a module declares none.
const SendMessages Flag = "SendMessages"

// ErrUnknownFlag is the sentinel error wrapped by UnknownFlagError.
var ErrUnknownFlag = errors.New("unknown permission flag")

var bits = map[Flag]int64{
	"Administrator":       discordgo.PermissionAdministrator,
	"ManageGuild":         discordgo.PermissionManageGuild,
	"ManageChannels":      discordgo.PermissionManageChannels,
	"ManageRoles":         discordgo.PermissionManageRoles,
	"ManageMessages":      discordgo.PermissionManageMessages,
	"ManageNicknames":     discordgo.PermissionManageNicknames,
	"ManageWebhooks":      discordgo.PermissionManageWebhooks,
	"ManageEvents":        discordgo.PermissionManageEvents,
	"ManageThreads":       discordgo.PermissionManageThreads,
	"KickMembers":         discordgo.PermissionKickMembers,
	"BanMembers":          discordgo.PermissionBanMembers,
	"ModerateMembers":     discordgo.PermissionModerateMembers,
	"ViewAuditLog":        discordgo.PermissionViewAuditLogs,
	"ViewChannel":         discordgo.PermissionViewChannel,
	SendMessages:          discordgo.PermissionSendMessages,
	"EmbedLinks":          discordgo.PermissionEmbedLinks,
	"AttachFiles":         discordgo.PermissionAttachFiles,
	"ReadMessageHistory":  discordgo.PermissionReadMessageHistory,
	"MentionEveryone":     discordgo.PermissionMentionEveryone,
	"UseExternalEmojis":   discordgo.PermissionUseExternalEmojis,
	"AddReactions":        discordgo.PermissionAddReactions,
	"CreateInstantInvite": discordgo.PermissionCreateInstantInvite,
	"ChangeNickname":      discordgo.PermissionChangeNickname,
	"Connect":             discordgo.PermissionVoiceConnect,
	"Speak":               discordgo.PermissionVoiceSpeak,
}

type (
	// Flag is the name of a single permission, e.g. "ManageGuild".
	Flag string

	// UnknownFlagError is returned when a flag name has no bit assigned.
	// It wraps ErrUnknownFlag for errors.Is() compatibility.
	UnknownFlagError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown permission flag %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownFlagError) Unwrap() error {
	return ErrUnknownFlag
}

// String returns the string representation of the Flag.
func (f Flag) String() string { return string(f) }

// Validate returns an UnknownFlagError if f is not a known flag.
func (f Flag) Validate() error {
	if _, ok := bits[f]; !ok {
		return &UnknownFlagError{Value: string(f)}
	}
	return nil
}

// Parse resolves a flag name. Matching is exact after trimming whitespace.
func Parse(name string) (Flag, error) {
	f := Flag(strings.TrimSpace(name))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// ParseAll resolves every name in order and fails on the first unknown one.
func ParseAll(names []string) ([]Flag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	flags := make([]Flag, 0, len(names))
	for _, name := range names {
		f, err := Parse(name)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, nil
}

// Bitfield ORs the bits of all flags. Unknown flags contribute nothing.
func Bitfield(flags []Flag) int64 {
	var out int64
	for _, f := range flags {
		out |= bits[f]
	}
	return out
}

// Known returns every known flag name, sorted.
func Known() []Flag {
	out := make([]Flag, 0, len(bits))
	for f := range bits {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
