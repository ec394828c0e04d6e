package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielchristiancazares/forgegate/internal/scan"
)

// Cache is the run-scoped read-through source cache. Several validators
// re-scan overlapping files; the cache guarantees each file is read and
// scanned at most once per run.
//
// A Cache is owned by exactly one run and must be passed explicitly. It is
// never shared across runs and holds no process-wide state, which keeps the
// engine re-entrant and testable against synthetic file sets.
type Cache struct {
	root  string
	files map[string]*scan.File
}

// NewCache creates an empty cache rooted at the workspace root.
func NewCache(root string) *Cache {
	return &Cache{root: root, files: make(map[string]*scan.File)}
}

// File returns the scan of the workspace-relative path, reading and scanning
// it on first use.
func (c *Cache) File(rel string) (*scan.File, error) {
	if f, ok := c.files[rel]; ok {
		return f, nil
	}
	data, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	f := scan.Scan(rel, splitLines(string(data)))
	c.files[rel] = f
	return f, nil
}

// splitLines splits source text into lines without dropping the final
// unterminated line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
