// This file contains the project config-discovery helper: resolving a
// configuration root from a project directory and preparing its output
// directory. It is pre-run setup the assembler calls into, not run logic.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the conventional configuration file name looked up
// under a project root.
const ProjectConfigFile = "config.yaml"

// LoadForProject resolves configuration for the project rooted at root.
//
// It loads a .env file when present, reads <root>/config.yaml if it exists,
// applies SURROUND_* environment overrides, and ensures the configured
// output directory exists (relative paths are taken relative to root).
// An empty root yields defaults plus environment overrides with no output
// directory creation.
func LoadForProject(root string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := New()
	if root == "" {
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	file := filepath.Join(root, ProjectConfigFile)
	if _, err := os.Stat(file); err == nil {
		if err := cfg.ReadFiles(file); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvOverrides()

	out := cfg.OutputPath()
	if !filepath.IsAbs(out) {
		out = filepath.Join(root, out)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", out, err)
	}

	return cfg, nil
}
