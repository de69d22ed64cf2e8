// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Operation names used in errors and metrics.
const (
	OpRegister = "register"
	OpDelete   = "delete"
)

var errMissingApplicationID = errors.New("application id is not set")

type (
	// Target selects where catalog calls apply: one guild, or the global
	// catalog when GuildID is empty.
	Target struct {
		GuildID string
	}

	// Catalog is the remote command catalog.
	Catalog interface {
		// Register replaces the catalog of target with cmds.
		Register(ctx context.Context, target Target, cmds []Descriptor) error
		// Delete removes the command called name from target. Deleting a
		// command that is not present succeeds.
		Delete(ctx context.Context, target Target, name string) error
	}

	// commandAPI is the subset of *discordgo.Session used by DiscordCatalog.
	commandAPI interface {
		ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
		ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
		ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
	}

	// DiscordCatalog is the Catalog of a Discord application.
	DiscordCatalog struct {
		api    commandAPI
		appID  string
		logger *log.Logger
	}
)

// String returns "guild <id>" or "global catalog".
func (t Target) String() string {
	if t.GuildID == "" {
		return "global catalog"
	}
	return "guild " + t.GuildID
}

// NewDiscordCatalog creates a catalog for application appID over session.
// A nil logger discards output.
func NewDiscordCatalog(session *discordgo.Session, appID string, logger *log.Logger) *DiscordCatalog {
	return newDiscordCatalog(session, appID, logger)
}

func newDiscordCatalog(api commandAPI, appID string, logger *log.Logger) *DiscordCatalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &DiscordCatalog{api: api, appID: appID, logger: logger}
}

// Register overwrites the catalog of target with cmds.
func (c *DiscordCatalog) Register(ctx context.Context, target Target, cmds []Descriptor) error {
	if c.appID == "" {
		return &CallError{Op: OpRegister, Target: target, Cause: errMissingApplicationID}
	}

	payload := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, d := range cmds {
		payload = append(payload, ToApplicationCommand(d))
	}

	created, err := c.api.ApplicationCommandBulkOverwrite(c.appID, target.GuildID, payload, discordgo.WithContext(ctx))
	if err != nil {
		return &CallError{Op: OpRegister, Target: target, Cause: err}
	}
	c.logger.Info("registered commands", "target", target.String(), "count", len(created))
	return nil
}

// Delete looks the command up by name and deletes it by ID.
func (c *DiscordCatalog) Delete(ctx context.Context, target Target, name string) error {
	if c.appID == "" {
		return &CallError{Op: OpDelete, Target: target, Name: name, Cause: errMissingApplicationID}
	}

	existing, err := c.api.ApplicationCommands(c.appID, target.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return &CallError{Op: OpDelete, Target: target, Name: name, Cause: err}
	}

	for _, cmd := range existing {
		if cmd.Name != name {
			continue
		}
		if err := c.api.ApplicationCommandDelete(c.appID, target.GuildID, cmd.ID, discordgo.WithContext(ctx)); err != nil {
			return &CallError{Op: OpDelete, Target: target, Name: name, Cause: err}
		}
		c.logger.Info("deleted command", "name", name, "target", target.String())
		return nil
	}

	c.logger.Debug("command already absent", "name", name, "target", target.String())
	return nil
}
