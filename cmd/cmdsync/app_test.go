// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdsync/cmdsync/internal/config"
	"github.com/cmdsync/cmdsync/internal/remote"
	"github.com/cmdsync/cmdsync/internal/testutil"
)

type staticProvider struct {
	cfg *config.Config
}

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	cfg := *p.cfg
	return &cfg, "", nil
}

type fakeCatalog struct {
	mu         sync.Mutex
	registered map[remote.Target][]remote.Descriptor
	deleted    []string
}

func (f *fakeCatalog) Register(_ context.Context, target remote.Target, cmds []remote.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered[target] = cmds
	return nil
}

func (f *fakeCatalog) Delete(_ context.Context, _ remote.Target, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return nil
}

type testEnv struct {
	root    string
	catalog *fakeCatalog
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CommandsDir = root
	cfg.Discord.GuildID = "42"
	return &testEnv{
		root:    root,
		catalog: &fakeCatalog{registered: make(map[remote.Target][]remote.Descriptor)},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		cfg:     cfg,
	}
}

func (e *testEnv) write(t *testing.T, category, file, content string) {
	t.Helper()
	testutil.WriteModule(t, e.root, category, file, content)
}

func (e *testEnv) run(args ...string) error {
	e.stdout.Reset()
	e.stderr.Reset()
	app := NewApp(Dependencies{
		Config: staticProvider{cfg: e.cfg},
		NewCatalog: func(*config.Config, *log.Logger) (remote.Catalog, error) {
			return e.catalog, nil
		},
		Stdout: e.stdout,
		Stderr: e.stderr,
	})
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	return root.ExecuteContext(context.Background())
}

const (
	jokeYAML = `
name: joke
description: Tells a joke
aliases: [j]
slash: true
script: echo "why did the gopher cross the road"
`
	coinflipYAML = `
name: coinflip
description: Flips a coin
slash: true
`
	echoYAML = `
name: echo
description: Echoes its arguments
script: echo "$CMDSYNC_CALLER:$1:$2"
`
	failYAML = `
name: fail
description: Exits with 3
script: exit 3
`
)

func TestList(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "fun", "joke.yaml", jokeYAML)
	env.write(t, "fun", "coinflip.yaml", coinflipYAML)

	require.NoError(t, env.run("list"))
	out := env.stdout.String()
	assert.Contains(t, out, "joke")
	assert.Contains(t, out, "coinflip")
}

func TestList_ReportsInvalidModules(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "fun", "joke.yaml", jokeYAML)
	env.write(t, "fun", "broken.yaml", "name: broken\n")

	require.NoError(t, env.run("list", "fun"))
	assert.Contains(t, env.stdout.String(), "joke")
	assert.Contains(t, env.stderr.String(), "broken")
}

func TestCatalogBuild_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.DisabledCommands = []string{"coinflip"}
	env.write(t, "fun", "joke.yaml", jokeYAML)
	env.write(t, "fun", "coinflip.yaml", coinflipYAML)

	require.NoError(t, env.run("catalog", "build", "fun", "--json"))

	var got []remote.Descriptor
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "joke", got[0].Name)
}

func TestCatalogBuild_EmptyCategoryIsEmptyArray(t *testing.T) {
	env := newTestEnv(t)
	testutil.MustMkdirAll(t, filepath.Join(env.root, "empty"), 0o755)

	require.NoError(t, env.run("catalog", "build", "empty", "--json"))
	assert.JSONEq(t, "[]", env.stdout.String())
}

func TestCatalogRegister(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "fun", "joke.yaml", jokeYAML)

	require.NoError(t, env.run("catalog", "register", "fun"))
	got := env.catalog.registered[remote.Target{GuildID: "42"}]
	require.Len(t, got, 1)
	assert.Equal(t, "joke", got[0].Name)

	require.NoError(t, env.run("catalog", "register", "fun", "--global"))
	assert.Len(t, env.catalog.registered[remote.Target{}], 1)
}

func TestCatalogPurge(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "fun", "joke.yaml", jokeYAML)

	require.NoError(t, env.run("catalog", "purge", "fun", "--guild", "7"))
	assert.Equal(t, []string{"joke"}, env.catalog.deleted)
	assert.Contains(t, env.stdout.String(), "/joke")
}

func TestCatalogPurge_RequiresGuild(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Discord.GuildID = ""
	env.write(t, "fun", "joke.yaml", jokeYAML)

	err := env.run("catalog", "purge", "fun")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, errors.Is(err, errNoGuild))
	assert.Empty(t, env.catalog.deleted)
}

func TestUnload(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "fun", "joke.yaml", jokeYAML)

	require.NoError(t, env.run("unload", "fun", "j"))
	assert.Contains(t, env.stdout.String(), "The command `joke` has been unloaded.")

	err := env.run("unload", "fun", "unknownCmd")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, env.stdout.String(), "The command `unknownCmd` doesn't seem to exist, nor is it an alias. Try again!")
}

func TestRun(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "util", "echo.yaml", echoYAML)

	require.NoError(t, env.run("run", "--as", "alice", "echo", "-x", "y"))
	assert.Equal(t, "alice:-x:y\n", env.stdout.String())
}

func TestRun_ExitCode(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "util", "fail.yaml", failYAML)

	err := env.run("run", "fail")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestRun_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "util", "echo.yaml", echoYAML)

	err := env.run("run", "nope")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, env.stderr.String(), "nope")
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run("config", "show"))
	assert.Contains(t, env.stdout.String(), "commands_dir")
	assert.Contains(t, env.stdout.String(), "(defaults)")
}
