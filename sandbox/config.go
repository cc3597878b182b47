// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile defines the sandbox configuration for a build action.
type Profile struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Filesystem  []Mount           `yaml:"filesystem,omitempty"`
	Namespaces  NamespaceConfig   `yaml:"namespaces,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Security    SecurityConfig    `yaml:"security,omitempty"`
	CreateDirs  []string          `yaml:"create_dirs,omitempty"`
}

// Mount defines a filesystem mount in the sandbox.
type Mount struct {
	Source   string `yaml:"source,omitempty"`
	Dest     string `yaml:"dest"`
	Mode     string `yaml:"mode,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// MountType constants for the Type field.
const (
	MountTypeBind  = ""      // Default: bind mount
	MountTypeTmpfs = "tmpfs" // tmpfs mount
	MountTypeProc  = "proc"  // /proc
	MountTypeDev   = "dev"   // /dev (minimal)
)

// MountMode constants for the Mode field.
const (
	MountModeRO = "ro" // Read-only
	MountModeRW = "rw" // Read-write
)

// NamespaceConfig defines which namespaces to unshare.
type NamespaceConfig struct {
	PID    bool `yaml:"pid"`
	Net    bool `yaml:"net"`
	IPC    bool `yaml:"ipc"`
	UTS    bool `yaml:"uts"`
	Cgroup bool `yaml:"cgroup"`
	User   bool `yaml:"user"`
}

// SecurityConfig defines security settings for the sandbox.
type SecurityConfig struct {
	NewSession    bool `yaml:"new_session"`
	DieWithParent bool `yaml:"die_with_parent"`
}

// ParseProfile parses profile YAML.
func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	profile, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

// Validate checks that a profile is valid. Unlike dependency spec
// validation this accumulates: profile authoring errors are cheapest
// to fix all at once.
func (p *Profile) Validate() error {
	var errors []string

	for i, m := range p.Filesystem {
		if m.Dest == "" {
			errors = append(errors, fmt.Sprintf("filesystem[%d]: dest is required", i))
		}
		if m.Type == MountTypeBind && m.Source == "" {
			errors = append(errors, fmt.Sprintf("filesystem[%d]: source is required for bind mounts", i))
		}
		if m.Mode != "" && m.Mode != MountModeRO && m.Mode != MountModeRW {
			errors = append(errors, fmt.Sprintf("filesystem[%d]: invalid mode %q (must be ro or rw)", i, m.Mode))
		}
		switch m.Type {
		case MountTypeBind, MountTypeTmpfs, MountTypeProc, MountTypeDev:
		default:
			errors = append(errors, fmt.Sprintf("filesystem[%d]: unknown mount type %q", i, m.Type))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("profile %q validation failed:\n  %s", p.Name, strings.Join(errors, "\n  "))
	}
	return nil
}

// Clone creates a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	clone := &Profile{
		Name:        p.Name,
		Description: p.Description,
		Namespaces:  p.Namespaces,
		Security:    p.Security,
	}

	if p.Filesystem != nil {
		clone.Filesystem = make([]Mount, len(p.Filesystem))
		copy(clone.Filesystem, p.Filesystem)
	}
	if p.CreateDirs != nil {
		clone.CreateDirs = make([]string, len(p.CreateDirs))
		copy(clone.CreateDirs, p.CreateDirs)
	}
	if p.Environment != nil {
		clone.Environment = make(map[string]string)
		for k, v := range p.Environment {
			clone.Environment[k] = v
		}
	}

	return clone
}

// Variables holds the variable values for expansion in profiles.
type Variables map[string]string

// Expand expands variables in a string using ${VAR} syntax.
// Falls back to environment variables if not in the Variables map.
func (v Variables) Expand(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]

		if val, ok := v[varName]; ok {
			return val
		}
		if val := os.Getenv(varName); val != "" {
			return val
		}

		// Return original if not found.
		return match
	})
}

// ExpandProfile expands all variables in a profile.
func (v Variables) ExpandProfile(p *Profile) *Profile {
	result := p.Clone()

	for i := range result.Filesystem {
		result.Filesystem[i].Source = v.Expand(result.Filesystem[i].Source)
		result.Filesystem[i].Dest = v.Expand(result.Filesystem[i].Dest)
	}
	for key, val := range result.Environment {
		result.Environment[key] = v.Expand(val)
	}
	for i := range result.CreateDirs {
		result.CreateDirs[i] = v.Expand(result.CreateDirs[i])
	}

	return result
}

// DefaultVariables returns the default variable set for profile
// expansion. WORKSPACE is the workspace root all dependency paths are
// relative to.
func DefaultVariables(workspaceRoot string) Variables {
	return Variables{
		"WORKSPACE": workspaceRoot,
		"TERM":      os.Getenv("TERM"),
	}
}
