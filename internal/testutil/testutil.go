// Package testutil provides fixture helpers for tests that need a synthetic
// workspace on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes files (relative path → content) under a fresh
// temporary directory and returns its root. Parent directories are created
// as needed.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}
