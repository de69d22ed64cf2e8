// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmdsync/cmdsync/internal/testutil"
)

// writeModule creates root/category/file with content.
func writeModule(t *testing.T, root, category, file, content string) string {
	t.Helper()
	return testutil.WriteModule(t, root, category, file, content)
}

const jokeCUE = `
name:        "joke"
description: "Tells a joke"
aliases: ["j"]
slash: true
options: [{name: "topic", description: "Joke topic", type: "string"}]
`

func TestFS_ListEntries(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "fun", "joke.cue", jokeCUE)
	writeModule(t, root, "fun", "joke.toml", "name = \"joke\"\ndescription = \"dup\"\n")
	writeModule(t, root, "fun", "coinflip.yaml", "name: coinflip\ndescription: Flips a coin\n")
	writeModule(t, root, "fun", "README.md", "not a module")
	writeModule(t, root, "fun", ".hidden.cue", jokeCUE)
	if err := os.MkdirAll(filepath.Join(root, "fun", "assets"), 0o755); err != nil {
		t.Fatal(err)
	}

	src := NewFS(root)
	got, err := src.ListEntries(context.Background(), "fun")
	if err != nil {
		t.Fatalf("ListEntries() unexpected error: %v", err)
	}

	want := []string{"coinflip", "joke", "joke"}
	if len(got) != len(want) {
		t.Fatalf("ListEntries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListEntries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFS_ListEntries_EmptyVersusMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := NewFS(root)

	got, err := src.ListEntries(context.Background(), "empty")
	if err != nil {
		t.Fatalf("empty category should not fail: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}

	_, err = src.ListEntries(context.Background(), "missing")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("missing category error = %v, want ErrSourceUnavailable", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected underlying cause to be preserved, got %v", err)
	}
	var sue *SourceUnavailableError
	if !errors.As(err, &sue) || sue.Category != "missing" {
		t.Errorf("expected SourceUnavailableError for category missing, got %#v", err)
	}

	if _, err := src.ListEntries(context.Background(), "../etc"); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("path traversal should be rejected, got %v", err)
	}
}

func TestFS_Instantiate_Formats(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "fun", "joke.cue", jokeCUE)
	writeModule(t, root, "fun", "coinflip.toml", `
name = "coinflip"
description = "Flips a coin"
aliases = ["flip"]
permissions = ["SendMessages"]
slash = true
`)
	writeModule(t, root, "mod", "ban.yml", `
name: ban
description: Bans a member
permissions: [BanMembers]
slash: true
options:
  - name: user
    description: Member to ban
    type: user
    required: true
`)
	src := NewFS(root)
	ctx := context.Background()

	joke, err := src.Instantiate(ctx, "fun", "joke")
	if err != nil {
		t.Fatalf("Instantiate(joke) error: %v", err)
	}
	if joke.Name != "joke" || !joke.Slash || len(joke.Options) != 1 || joke.Options[0].Type != "string" {
		t.Errorf("unexpected joke module: %+v", joke)
	}
	if joke.Path != filepath.Join(root, "fun", "joke.cue") {
		t.Errorf("Path = %q", joke.Path)
	}

	flip, err := src.Instantiate(ctx, "fun", "coinflip")
	if err != nil {
		t.Fatalf("Instantiate(coinflip) error: %v", err)
	}
	if flip.Name != "coinflip" || len(flip.Aliases) != 1 || flip.Aliases[0] != "flip" {
		t.Errorf("unexpected coinflip module: %+v", flip)
	}

	ban, err := src.Instantiate(ctx, "mod", "ban")
	if err != nil {
		t.Fatalf("Instantiate(ban) error: %v", err)
	}
	if len(ban.Options) != 1 || !ban.Options[0].Required || ban.Permissions[0] != "BanMembers" {
		t.Errorf("unexpected ban module: %+v", ban)
	}
}

func TestFS_Instantiate_Invalid(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "fun", "nodesc.cue", `name: "nodesc"`)
	writeModule(t, root, "fun", "badtype.cue", `
name: "badtype"
description: "x"
options: [{name: "a", description: "b", type: "float"}]
`)
	writeModule(t, root, "fun", "unknown.toml", "name = \"u\"\ndescription = \"d\"\ncolour = \"red\"\n")
	writeModule(t, root, "fun", "empty.yaml", "")
	src := NewFS(root)

	for _, id := range []string{"nodesc", "badtype", "unknown", "empty", "absent"} {
		t.Run(id, func(t *testing.T) {
			_, err := src.Instantiate(context.Background(), "fun", id)
			if !errors.Is(err, ErrInvalidModule) {
				t.Fatalf("Instantiate(%s) error = %v, want ErrInvalidModule", id, err)
			}
			var ime *InvalidModuleError
			if !errors.As(err, &ime) || ime.Identifier != id || ime.Category != "fun" {
				t.Errorf("expected InvalidModuleError for fun/%s, got %#v", id, err)
			}
		})
	}

	if _, err := src.Instantiate(context.Background(), "fun", "../x"); !errors.Is(err, ErrInvalidModule) {
		t.Errorf("identifier with separator should be invalid, got %v", err)
	}
}

func TestFS_Instantiate_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "fun", "joke.cue", `name: "joke", description: "Tells a joke"`)
	src := NewFS(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Instantiate(ctx, "fun", "joke")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Instantiate error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrInvalidModule) {
		t.Errorf("cancellation must not be reported as an invalid module: %v", err)
	}
}

func TestFS_Instantiate_PrefersCUE(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "fun", "joke.cue", jokeCUE)
	writeModule(t, root, "fun", "joke.toml", "name = \"joke\"\ndescription = \"from toml\"\n")

	m, err := NewFS(root).Instantiate(context.Background(), "fun", "joke")
	if err != nil {
		t.Fatal(err)
	}
	if m.Description != "Tells a joke" {
		t.Errorf("expected the .cue module to win, got description %q", m.Description)
	}
}

func TestFS_CacheAndEvict(t *testing.T) {
	root := t.TempDir()
	path := writeModule(t, root, "fun", "joke.cue", jokeCUE)
	src := NewFS(root)
	ctx := context.Background()

	first, err := src.Instantiate(ctx, "fun", "joke")
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(`name: "joke", description: "Edited"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cached, err := src.Instantiate(ctx, "fun", "joke")
	if err != nil {
		t.Fatal(err)
	}
	if cached != first {
		t.Error("expected the cached module before eviction")
	}

	if !src.Evict("fun", "joke") {
		t.Fatal("Evict() = false, want true")
	}
	if src.Evict("fun", "joke") {
		t.Error("second Evict() = true, want false")
	}

	fresh, err := src.Instantiate(ctx, "fun", "joke")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Description != "Edited" {
		t.Errorf("expected fresh source after eviction, got %q", fresh.Description)
	}
}

func TestFS_Categories(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "music", "play.cue", jokeCUE)
	writeModule(t, root, "fun", "joke.cue", jokeCUE)
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFS(root).Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "fun" || got[1] != "music" {
		t.Errorf("Categories() = %v, want [fun music]", got)
	}

	if _, err := NewFS(filepath.Join(root, "nope")).Categories(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("missing root should be ErrSourceUnavailable, got %v", err)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"fun":             "fun",
		"commands/fun":    "fun",
		"./commands/fun/": "fun",
		"":                "",
		"  music ":        "music",
	}
	for in, want := range tests {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}
