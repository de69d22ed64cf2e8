// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdsync/cmdsync/internal/registry"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{Root: "commands"}},
		{name: "valid with ignores", cfg: Config{Root: "commands", Ignore: []string{"drafts/**"}, Debounce: time.Second}},
		{name: "empty root", cfg: Config{}, wantErr: true},
		{name: "negative debounce", cfg: Config{Root: "x", Debounce: -time.Second}, wantErr: true},
		{name: "bad pattern", cfg: Config{Root: "x", Ignore: []string{"[unterminated"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigValidate_ListsEveryProblem(t *testing.T) {
	err := Config{Debounce: -1, Ignore: []string{"[", "[a"}}.Validate()
	var cfgErr *InvalidConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Problems, 4)
}

func TestWatcher_Classify(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, Ignore: []string{"drafts/**"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		path string
		want Change
		ok   bool
	}{
		{path: "fun/joke.cue", want: Change{Category: "fun", Identifier: "joke", Path: "fun/joke.cue"}, ok: true},
		{path: "util/ping.yml", want: Change{Category: "util", Identifier: "ping", Path: "util/ping.yml"}, ok: true},
		{path: "fun/README.md"},
		{path: "fun/.joke.cue.swp"},
		{path: "fun/joke.cue~"},
		{path: "joke.cue"},
		{path: "fun/nested/joke.cue"},
		{path: "drafts/wip.cue"},
	}
	for _, tt := range tests {
		got, ok := w.classify(filepath.Join(root, filepath.FromSlash(tt.path)))
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestWatcher_DebouncedChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fun"), 0o755))

	var (
		mu    sync.Mutex
		calls [][]Change
	)
	got := make(chan struct{}, 1)
	w, err := New(Config{
		Root:     root,
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			mu.Lock()
			calls = append(calls, changes)
			mu.Unlock()
			select {
			case got <- struct{}{}:
			default:
			}
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for _, name := range []string{"joke.toml", "coinflip.toml", "joke.toml"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "fun", name), []byte("name = \"x\"\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
	cancel()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1, "rapid writes must coalesce into one callback")
	keys := make([]string, 0, len(calls[0]))
	for _, c := range calls[0] {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"fun/coinflip", "fun/joke"}, keys)
}

func TestWatcher_DoubleRun(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	require.Error(t, w.Run(ctx))
}

type fakeReloader struct {
	calls []string
	fail  map[string]bool
	gone  map[string]bool
}

func (f *fakeReloader) Reload(_ context.Context, category, identifier string) (*registry.Descriptor, error) {
	key := category + "/" + identifier
	f.calls = append(f.calls, key)
	switch {
	case f.fail[key]:
		return nil, errors.New("broken module")
	case f.gone[key]:
		return nil, nil
	}
	return &registry.Descriptor{Name: identifier, Category: category, Identifier: identifier}, nil
}

func TestReloadOnChange(t *testing.T) {
	r := &fakeReloader{fail: map[string]bool{"fun/bad": true}, gone: map[string]bool{"fun/old": true}}
	onChange := ReloadOnChange(r, nil)

	err := onChange(context.Background(), []Change{
		{Category: "fun", Identifier: "bad"},
		{Category: "fun", Identifier: "joke"},
		{Category: "fun", Identifier: "old"},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"fun/bad", "fun/joke", "fun/old"}, r.calls, "a failure must not stop later reloads")
}
