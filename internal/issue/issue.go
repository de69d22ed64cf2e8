// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Issue identifiers.
const (
	ConfigLoadFailedId Id = iota + 1
	CommandsDirNotFoundId
	InvalidModuleId
	DuplicateCommandId
	CommandNotFoundId
	MissingCredentialsId
	RemoteCatalogFailedId
	ScriptFailedId
)

type (
	// Id identifies a catalogued issue.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a well-known failure with a Markdown explanation.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the issue with the glamour style at stylePath (or a
// built-in style name such as "dark" or "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var b strings.Builder
		b.WriteString(md)
		b.WriteString("\n\n## See also\n")
		for _, l := range i.docLinks {
			b.WriteString("- <" + string(l) + ">\n")
		}
		md = b.String()
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Configuration could not be loaded

The configuration file is not valid CUE or does not match the schema.

## Things you can try
- Print the effective configuration:
~~~
$ cmdsync config show
~~~
- Check ` + "`sync.failure_policy`" + ` is either "fail-fast" or "skip"
- Durations such as ` + "`sync.delete_timeout`" + ` use Go syntax ("10s", "1m30s")`,
		},
		CommandsDirNotFoundId: {
			id: CommandsDirNotFoundId,
			mdMsg: `
# Command directory not found

Commands are read from ` + "`<commands_dir>/<category>/<name>.{cue,toml,yaml,yml}`" + `.

## Things you can try
- Create a category directory:
~~~
$ mkdir -p commands/fun
~~~
- Point ` + "`commands_dir`" + ` in config.cue at your command tree`,
		},
		InvalidModuleId: {
			id: InvalidModuleId,
			mdMsg: `
# Invalid command module

Every command needs a ` + "`name`" + ` and a ` + "`description`" + `.

## Example
~~~cue
name:        "ping"
description: "Replies with pong"
aliases: ["p"]
slash: true
script: "echo pong"
~~~

## Common mistakes
- Required options listed after optional ones
- Unknown permission names (run ` + "`cmdsync config show`" + ` for the default)
- An alias equal to the command name`,
		},
		DuplicateCommandId: {
			id: DuplicateCommandId,
			mdMsg: `
# Duplicate command name or alias

Command names and aliases share one namespace across all categories.

## Things you can try
- Rename one of the commands
- Remove the clashing alias
- Disable one module with ` + "`disabled_commands`" + ` in config.cue`,
		},
		CommandNotFoundId: {
			id: CommandNotFoundId,
			mdMsg: `
# Command not found

No loaded command has that name or alias.

## Things you can try
- List the loaded commands:
~~~
$ cmdsync list
~~~
- Check the module is not listed in ` + "`disabled_commands`",
		},
		MissingCredentialsId: {
			id: MissingCredentialsId,
			mdMsg: `
# Discord credentials missing

Catalog operations need a bot token and an application ID.

## Things you can try
~~~
$ export DISCORD_TOKEN=...
$ export DISCORD_APPLICATION_ID=...
~~~
The application ID may also be set as ` + "`discord.application_id`" + ` in config.cue.`,
			docLinks: []HttpLink{"https://discord.com/developers/docs/interactions/application-commands"},
		},
		RemoteCatalogFailedId: {
			id: RemoteCatalogFailedId,
			mdMsg: `
# Remote catalog request failed

Discord rejected or did not answer a catalog request.

## Things you can try
- Check the bot was invited with the ` + "`applications.commands`" + ` scope
- Raise ` + "`sync.delete_timeout`" + ` on slow connections
- Retry the purge; already deleted commands are skipped`,
			docLinks: []HttpLink{"https://discord.com/developers/docs/topics/rate-limits"},
		},
		ScriptFailedId: {
			id: ScriptFailedId,
			mdMsg: `
# Command handler failed

The command's ` + "`script`" + ` could not be run.

## Things you can try
- Run it with debug logging:
~~~
$ cmdsync run -v <name> [args...]
~~~
- Arguments are available as ` + "`$1`, `$2`, ... and `$@`",
		},
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
