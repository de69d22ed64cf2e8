// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdsync/cmdsync/internal/modsource"
)

func TestUnloader_Unload(t *testing.T) {
	root, l, _ := newFixture(t)
	writeModule(t, root, "util", "ping.toml", pingTOML)
	src := l.Source().(*modsource.FS)
	u := NewUnloader(src, l.Registry(), nil, nil)

	_, err := l.Load(context.Background(), "util", "ping")
	require.NoError(t, err)
	require.Equal(t, 1, src.Cache().Len())

	res := u.Unload("commands/util", "p")
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, Unloaded, res.Outcome)
	assert.Equal(t, "ping", res.Command.Name)
	assert.False(t, l.Registry().Has("ping"))
	assert.False(t, l.Registry().Has("p"))
	assert.Zero(t, src.Cache().Len(), "module cache entry must be evicted")
}

func TestUnloader_UnloadUnknown(t *testing.T) {
	root, l, _ := newFixture(t)
	writeModule(t, root, "fun", "ping.toml", pingTOML)
	u := NewUnloader(l.Source(), l.Registry(), nil, nil)

	loaded, err := l.Load(context.Background(), "fun", "ping")
	require.NoError(t, err)
	names := l.Registry().Names()

	res := u.Unload("commands/fun", "unknownCmd")
	assert.False(t, res.OK())
	assert.Equal(t, UnloadNotFound, res.Outcome)
	assert.Nil(t, res.Command)
	assert.Equal(t, "The command `unknownCmd` doesn't seem to exist, nor is it an alias. Try again!", res.Message)

	assert.Equal(t, 1, l.Registry().Len())
	assert.Equal(t, names, l.Registry().Names())
	d, err := l.Registry().Lookup("p")
	require.NoError(t, err)
	assert.Same(t, loaded, d)
}

func TestUnloader_UnloadWrongCategory(t *testing.T) {
	root, l, _ := newFixture(t)
	writeModule(t, root, "util", "ping.toml", pingTOML)
	u := NewUnloader(l.Source(), l.Registry(), nil, nil)

	_, err := l.Load(context.Background(), "util", "ping")
	require.NoError(t, err)

	res := u.Unload("fun", "ping")
	assert.Equal(t, UnloadNotFound, res.Outcome)
	assert.True(t, l.Registry().Has("ping"))
}

func TestUnloader_UnloadThenLoadPicksUpEdits(t *testing.T) {
	root, l, _ := newFixture(t)
	writeModule(t, root, "util", "ping.toml", pingTOML)
	u := NewUnloader(l.Source(), l.Registry(), nil, nil)
	ctx := context.Background()

	_, err := l.Load(ctx, "util", "ping")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "util", "ping.toml"),
		[]byte("name = \"ping\"\ndescription = \"Edited\"\n"), 0o644))

	require.True(t, u.Unload("util", "ping").OK())
	d, err := l.Load(ctx, "util", "ping")
	require.NoError(t, err)
	assert.Equal(t, "Edited", d.Description)
	assert.Empty(t, d.Aliases)

	// Unload+load leaves the registry as it was after the first load.
	require.True(t, u.Unload("util", "ping").OK())
	again, err := l.Load(ctx, "util", "ping")
	require.NoError(t, err)
	assert.Equal(t, d.Name, again.Name)
	assert.Equal(t, 1, l.Registry().Len())
}
