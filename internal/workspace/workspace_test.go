package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielchristiancazares/forgegate/internal/testutil"
)

func TestLoadWorkspace(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"Cargo.toml": `[workspace]
members = ["engine", "mod-a"]
`,
		"engine/README.md":   "# engine",
		"engine/src/lib.rs":  "pub struct Engine;",
		"engine/src/io/x.rs": "pub fn read() {}",
		"mod-a/README.md":    "# mod-a",
		"mod-a/src/lib.rs":   "pub struct Widget;",
	})

	w, err := Load(root)
	require.NoError(t, err)
	require.Len(t, w.Modules, 2)

	engine := w.Module("engine")
	require.NotNil(t, engine)
	assert.Equal(t, []string{"engine/src/io/x.rs", "engine/src/lib.rs"}, engine.Files)

	// Hyphenated member directories map to underscore identifiers.
	modA := w.Module("mod_a")
	require.NotNil(t, modA)
	assert.Equal(t, "mod-a", modA.Dir)

	assert.Len(t, w.Files(), 3)
	assert.NoError(t, w.Health())
}

func TestLoadMissingManifest(t *testing.T) {
	root := t.TempDir()

	_, err := Load(root)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "unreadable")
}

func TestLoadEmptyMemberList(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"Cargo.toml": "[workspace]\nmembers = []\n",
	})

	_, err := Load(root)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "absent or empty")
}

func TestLoadMissingSourceRoot(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"Cargo.toml":       "[workspace]\nmembers = [\"engine\"]\n",
		"engine/README.md": "# engine",
	})

	_, err := Load(root)
	var healthErr *HealthError
	require.ErrorAs(t, err, &healthErr)
	assert.Contains(t, healthErr.Message, "source root")
	assert.Empty(t, healthErr.Missing)
}

func TestLoadEmptySourceRoot(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"Cargo.toml":           "[workspace]\nmembers = [\"engine\"]\n",
		"engine/README.md":     "# engine",
		"engine/src/notes.txt": "not source",
	})

	_, err := Load(root)
	var healthErr *HealthError
	require.ErrorAs(t, err, &healthErr)
	assert.Contains(t, healthErr.Message, "no source files")
}

func TestHealthBatchesMissingReadmes(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"Cargo.toml":       "[workspace]\nmembers = [\"engine\", \"mod_a\"]\n",
		"engine/src/a.rs":  "fn a() {}",
		"mod_a/src/lib.rs": "fn b() {}",
	})

	w, err := Load(root)
	require.NoError(t, err)

	err = w.Health()
	var healthErr *HealthError
	require.ErrorAs(t, err, &healthErr)
	assert.Equal(t, []string{"engine", "mod_a"}, healthErr.Missing)
	assert.Contains(t, healthErr.Error(), "engine, mod_a")
}

func TestCacheReadsOnce(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"mod_a/src/lib.rs": "pub struct Widget { pub id: u64 }",
	})

	cache := NewCache(root)
	first, err := cache.File("mod_a/src/lib.rs")
	require.NoError(t, err)
	require.NotNil(t, first.TypeDecl("Widget"))

	again, err := cache.File("mod_a/src/lib.rs")
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(t.TempDir())
	_, err := cache.File("mod_a/src/lib.rs")
	assert.Error(t, err)
}
