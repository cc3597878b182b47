// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package buildcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/depfence/depgroup"
)

// Config is the per-invocation configuration.
type Config struct {
	// FuzzyDeps selects fuzzy (directory-level) dependency resolution
	// for the whole invocation. Default off: precise enumeration.
	FuzzyDeps bool `json:"fuzzy_deps"`

	// WorkspaceRoot is the directory all dependency paths are
	// relative to. Defaults to the current working directory.
	WorkspaceRoot string `json:"workspace_root"`

	// ManifestPath is the dependency-group manifest location,
	// relative to the workspace root unless absolute.
	ManifestPath string `json:"manifest_path"`

	// ProfilePath is the sandbox profile location, relative to the
	// workspace root unless absolute. Empty means no profile (plans
	// contain only dependency mounts).
	ProfilePath string `json:"profile_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FuzzyDeps:    false,
		ManifestPath: "depfence.yaml",
	}
}

// OverridePath returns the per-user override file location:
// $DEPFENCE_OVERRIDE if set, otherwise
// ~/.config/depfence/override.jsonc.
func OverridePath() string {
	if path := os.Getenv("DEPFENCE_OVERRIDE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "depfence", "override.jsonc")
}

// ApplyOverrideFile layers the per-user override file onto the
// config. The file is JSONC; only keys present in the file are
// applied. A missing file is not an error.
func (c *Config) ApplyOverrideFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading override file %s: %w", path, err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
		return fmt.Errorf("parsing override file %s: %w", path, err)
	}
	return nil
}

// RegisterFlags binds the config's fields to command-line flags. Call
// after ApplyOverrideFile so the layered values become the flag
// defaults; flags the user passes then take final precedence.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.FuzzyDeps, "fuzzy-deps", c.FuzzyDeps,
		"use directory-level dependency references instead of precise file enumeration")
	fs.StringVar(&c.WorkspaceRoot, "workspace", c.WorkspaceRoot,
		"workspace root all dependency paths are relative to (default: current directory)")
	fs.StringVar(&c.ManifestPath, "manifest", c.ManifestPath,
		"dependency group manifest path")
	fs.StringVar(&c.ProfilePath, "profile", c.ProfilePath,
		"sandbox profile path")
}

// Finalize resolves the workspace root to an absolute path (falling
// back to the current directory) and anchors relative file paths to
// it. Call once, after flag parsing.
func (c *Config) Finalize() error {
	if c.WorkspaceRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining working directory: %w", err)
		}
		c.WorkspaceRoot = cwd
	}
	absRoot, err := filepath.Abs(c.WorkspaceRoot)
	if err != nil {
		return fmt.Errorf("resolving workspace root %q: %w", c.WorkspaceRoot, err)
	}
	c.WorkspaceRoot = absRoot

	if c.ManifestPath != "" && !filepath.IsAbs(c.ManifestPath) {
		c.ManifestPath = filepath.Join(c.WorkspaceRoot, c.ManifestPath)
	}
	if c.ProfilePath != "" && !filepath.IsAbs(c.ProfilePath) {
		c.ProfilePath = filepath.Join(c.WorkspaceRoot, c.ProfilePath)
	}
	return nil
}

// Mode returns the resolution mode the configuration selects.
func (c *Config) Mode() depgroup.Mode {
	if c.FuzzyDeps {
		return depgroup.ModeFuzzy
	}
	return depgroup.ModePrecise
}
