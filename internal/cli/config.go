package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ToolConfig is the optional on-disk configuration passed with --config. It
// only carries defaults; explicit flags and arguments win.
type ToolConfig struct {
	// Root is the default workspace root.
	Root string `yaml:"root"`
	// PolicyDir is the default policy-document directory.
	PolicyDir string `yaml:"policy_dir"`
}

// LoadToolConfig reads a YAML tool config. An empty path yields a zero
// config; an unreadable or malformed file is a command error.
func LoadToolConfig(path string) (ToolConfig, error) {
	var cfg ToolConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, fmt.Sprintf("reading config %s", path), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, WrapExitError(ExitCommandError, fmt.Sprintf("parsing config %s", path), err)
	}
	return cfg, nil
}

// resolveRoot picks the workspace root from the positional argument, the
// config default, or the current directory, in that order.
func resolveRoot(args []string, cfg ToolConfig) (string, error) {
	root := "."
	switch {
	case len(args) > 0:
		root = args[0]
	case cfg.Root != "":
		root = cfg.Root
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("workspace root %s", root), err)
	}
	if !info.IsDir() {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("workspace root %s is not a directory", root))
	}
	return root, nil
}
