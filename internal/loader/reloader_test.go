// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloader_Reload(t *testing.T) {
	root, l, enum := newFixture(t, "coinflip")
	r := NewReloader(l, NewUnloader(l.Source(), l.Registry(), nil, nil), enum)
	ctx := context.Background()

	writeModule(t, root, "util", "ping.toml", pingTOML)
	d, err := r.Reload(ctx, "util", "ping")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, l.Registry().Has("p"))

	// Edit that drops the alias.
	writeModule(t, root, "util", "ping.toml", "name = \"ping\"\ndescription = \"v2\"\n")
	d, err = r.Reload(ctx, "util", "ping")
	require.NoError(t, err)
	assert.Equal(t, "v2", d.Description)
	assert.False(t, l.Registry().Has("p"))

	// Broken edit keeps nothing registered and reports the error.
	writeModule(t, root, "util", "ping.toml", "name = \"ping\"\n")
	_, err = r.Reload(ctx, "util", "ping")
	require.Error(t, err)
	assert.False(t, l.Registry().Has("ping"))

	// Fixing it again is picked up even though the broken module was cached.
	writeModule(t, root, "util", "ping.toml", "name = \"ping\"\ndescription = \"v3\"\n")
	d, err = r.Reload(ctx, "util", "ping")
	require.NoError(t, err)
	assert.Equal(t, "v3", d.Description)

	// Deleting the file unloads the command.
	require.NoError(t, os.Remove(filepath.Join(root, "util", "ping.toml")))
	d, err = r.Reload(ctx, "util", "ping")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Zero(t, l.Registry().Len())
}

func TestReloader_ReloadDisabled(t *testing.T) {
	root, l, enum := newFixture(t, "coinflip")
	r := NewReloader(l, NewUnloader(l.Source(), l.Registry(), nil, nil), enum)

	writeModule(t, root, "fun", "coinflip.toml", "name = \"coinflip\"\ndescription = \"Flips\"\n")
	d, err := r.Reload(context.Background(), "fun", "coinflip")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.False(t, l.Registry().Has("coinflip"))
}
