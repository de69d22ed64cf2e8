// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteModule writes a command module file to root/category/file and returns
// its path. The test fails immediately if the write fails.
func WriteModule(t testing.TB, root, category, file, content string) string {
	t.Helper()
	dir := filepath.Join(root, category)
	MustMkdirAll(t, dir, 0o755)
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write module %s: %v", path, err)
	}
	return path
}

// RemoveModule deletes root/category/file.
func RemoveModule(t testing.TB, root, category, file string) {
	t.Helper()
	path := filepath.Join(root, category, file)
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove module %s: %v", path, err)
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}
