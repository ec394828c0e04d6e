package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

// SourcePattern matches the files the gate scans, relative to a module's
// source root.
const SourcePattern = "**/*.rs"

// ConfigError reports a malformed or unreadable root manifest.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// HealthError reports missing source files or README-equivalents.
//
// README checks are the sole batched check in the gate: enumeration is cheap
// and exhaustive, so every missing document is listed in one diagnostic.
// Source-root problems fail fast like everything else.
type HealthError struct {
	Message string
	Missing []string // batched module README list, empty for fail-fast cases
}

func (e *HealthError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Missing, ", "))
	}
	return e.Message
}

// Module is one workspace member.
type Module struct {
	// Name is the module identifier used in symbol paths. Manifest member
	// directories may use hyphens; identifiers use underscores.
	Name string
	// Dir is the member directory relative to the workspace root.
	Dir string
	// Files lists source files relative to the workspace root, sorted,
	// forward slashes.
	Files []string
	// HasReadme records whether the member carries its README-equivalent.
	HasReadme bool
}

// Workspace is the loaded module set.
type Workspace struct {
	Root    string
	Modules []Module

	byName map[string]*Module
}

type manifest struct {
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Load reads the root manifest and enumerates every member's source files.
// It fails fast on a missing/empty member list or a missing or empty source
// root. README presence is recorded but judged later by Health, so all
// missing READMEs surface in one batch.
func Load(root string) (*Workspace, error) {
	manifestPath := filepath.Join(root, "Cargo.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &ConfigError{Path: manifestPath, Message: "root manifest is unreadable"}
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ConfigError{Path: manifestPath, Message: fmt.Sprintf("root manifest is not valid TOML: %v", err)}
	}
	if len(m.Workspace.Members) == 0 {
		return nil, &ConfigError{Path: manifestPath, Message: "workspace member list is absent or empty"}
	}

	w := &Workspace{Root: root, byName: make(map[string]*Module)}
	for _, member := range m.Workspace.Members {
		member = path.Clean(strings.TrimSpace(member))
		name := strings.ReplaceAll(path.Base(member), "-", "_")

		srcRoot := filepath.Join(root, filepath.FromSlash(member), "src")
		if info, err := os.Stat(srcRoot); err != nil || !info.IsDir() {
			return nil, &HealthError{Message: fmt.Sprintf("module '%s': source root %s is missing", name, srcRoot)}
		}

		matches, err := doublestar.Glob(os.DirFS(srcRoot), SourcePattern)
		if err != nil {
			return nil, &HealthError{Message: fmt.Sprintf("module '%s': listing source files: %v", name, err)}
		}
		if len(matches) == 0 {
			return nil, &HealthError{Message: fmt.Sprintf("module '%s': source root %s contains no source files", name, srcRoot)}
		}
		sort.Strings(matches)

		files := make([]string, len(matches))
		for i, rel := range matches {
			files[i] = path.Join(member, "src", rel)
		}

		_, readmeErr := os.Stat(filepath.Join(root, filepath.FromSlash(member), "README.md"))
		mod := Module{
			Name:      name,
			Dir:       member,
			Files:     files,
			HasReadme: readmeErr == nil,
		}
		w.Modules = append(w.Modules, mod)
		slog.Debug("module enumerated", "module", name, "files", len(files))
	}

	for i := range w.Modules {
		w.byName[w.Modules[i].Name] = &w.Modules[i]
	}
	return w, nil
}

// Module returns the member with the given identifier, or nil.
func (w *Workspace) Module(name string) *Module {
	return w.byName[name]
}

// ModuleForFile returns the member owning a workspace-relative source file,
// or nil.
func (w *Workspace) ModuleForFile(rel string) *Module {
	for i := range w.Modules {
		if strings.HasPrefix(rel, w.Modules[i].Dir+"/") {
			return &w.Modules[i]
		}
	}
	return nil
}

// Files returns every source file in the workspace, in module order.
func (w *Workspace) Files() []string {
	var all []string
	for _, m := range w.Modules {
		all = append(all, m.Files...)
	}
	return all
}

// Health reports every module missing its README-equivalent as one batched
// error, or nil when all are present.
func (w *Workspace) Health() error {
	var missing []string
	for _, m := range w.Modules {
		if !m.HasReadme {
			missing = append(missing, m.Name)
		}
	}
	if len(missing) > 0 {
		return &HealthError{Message: "modules missing README.md", Missing: missing}
	}
	return nil
}
