// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk declaration of dependency groups, one named
// entry per group. Groups are validated at load time so authoring
// mistakes surface before any build-graph work happens.
type Manifest struct {
	Groups map[string]*GroupConfig `yaml:"groups"`
}

// GroupConfig is the YAML form of one dependency group.
type GroupConfig struct {
	IncludeDirs  []string `yaml:"include_dirs"`
	HardExcludes []string `yaml:"hard_excludes,omitempty"`
	SoftExcludes []string `yaml:"soft_excludes,omitempty"`

	// PreciseFiles and PrecisePatterns populate the precise override.
	// At most one may be set.
	PreciseFiles    []string `yaml:"precise_files,omitempty"`
	PrecisePatterns []string `yaml:"precise_patterns,omitempty"`
}

// Spec converts the YAML form into a DependencySpec.
func (g *GroupConfig) Spec() *DependencySpec {
	spec := &DependencySpec{
		IncludeDirs:  g.IncludeDirs,
		HardExcludes: g.HardExcludes,
		SoftExcludes: g.SoftExcludes,
	}
	if len(g.PreciseFiles) > 0 || len(g.PrecisePatterns) > 0 {
		spec.Precise = &PreciseOverride{
			Paths:    g.PreciseFiles,
			Patterns: g.PrecisePatterns,
		}
	}
	return spec
}

// ParseManifest parses and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return manifest, nil
}

// Validate checks every group. The first failing group aborts, with
// the group name prefixed to the underlying validation error.
func (m *Manifest) Validate() error {
	if len(m.Groups) == 0 {
		return fmt.Errorf("manifest declares no dependency groups")
	}
	for _, name := range m.Names() {
		if err := m.Groups[name].Spec().Validate(); err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
	}
	return nil
}

// Spec returns the DependencySpec for a named group.
func (m *Manifest) Spec(name string) (*DependencySpec, error) {
	group, ok := m.Groups[name]
	if !ok {
		return nil, fmt.Errorf("dependency group not found: %s", name)
	}
	return group.Spec(), nil
}

// Names returns the group names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Groups))
	for name := range m.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
