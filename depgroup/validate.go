// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"fmt"
	"strings"
)

// Validate checks the spec's shape before any pattern expansion.
// Validation is fail-fast: the first violation aborts with an error
// naming the offending value. It performs no filesystem access, so a
// spec that validates cleanly may still enumerate zero files — that
// is not an error.
func (s *DependencySpec) Validate() error {
	if len(s.IncludeDirs) == 0 {
		return fmt.Errorf("include_dirs must not be empty")
	}

	for _, dir := range s.IncludeDirs {
		if err := checkPathEntry("include_dirs", dir); err != nil {
			return err
		}
		if !strings.HasSuffix(dir, "/") {
			return fmt.Errorf("include_dirs entry %q: directory paths must end with a trailing \"/\"", dir)
		}
	}

	// Excludes are only expressible against a single root: with more
	// than one include directory there is no way to tell which root
	// an exclude is carved out of.
	if len(s.IncludeDirs) > 1 && (len(s.HardExcludes) > 0 || len(s.SoftExcludes) > 0) {
		return fmt.Errorf("excludes require exactly one include_dirs entry, got %d: %v",
			len(s.IncludeDirs), s.IncludeDirs)
	}

	for _, kind := range []struct {
		field   string
		entries []string
	}{
		{"hard_excludes", s.HardExcludes},
		{"soft_excludes", s.SoftExcludes},
	} {
		for _, exclude := range kind.entries {
			if err := checkPathEntry(kind.field, exclude); err != nil {
				return err
			}
			root := s.IncludeDirs[0]
			if !strings.HasPrefix(exclude, root) || stripDir(exclude) == stripDir(root) {
				return fmt.Errorf("%s entry %q is not a sub-path of include directory %q",
					kind.field, exclude, root)
			}
		}
	}

	if s.Precise != nil {
		if err := s.Precise.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (o *PreciseOverride) validate() error {
	if len(o.Paths) > 0 && len(o.Patterns) > 0 {
		return fmt.Errorf("precise override must set exactly one of paths or patterns, got both: paths=%v patterns=%v",
			o.Paths, o.Patterns)
	}
	if len(o.Paths) == 0 && len(o.Patterns) == 0 {
		return fmt.Errorf("precise override set but both paths and patterns are empty")
	}

	for _, path := range o.Paths {
		if err := checkPathEntry("precise paths", path); err != nil {
			return err
		}
	}
	// Patterns legitimately contain glob metacharacters; only the
	// path-safety checks apply.
	for _, pattern := range o.Patterns {
		if err := checkPathSafety("precise patterns", pattern); err != nil {
			return err
		}
	}
	return nil
}

// checkPathEntry rejects glob metacharacters plus everything
// checkPathSafety rejects.
func checkPathEntry(field, entry string) error {
	if strings.Contains(entry, "*") {
		return fmt.Errorf("%s entry %q contains a glob metacharacter; glob patterns are not allowed here", field, entry)
	}
	return checkPathSafety(field, entry)
}

// checkPathSafety rejects absolute paths, empty entries, and
// parent-traversal segments. These are the violations that would let
// a spec reach outside the workspace.
func checkPathSafety(field, entry string) error {
	if entry == "" {
		return fmt.Errorf("%s entry is empty", field)
	}
	if strings.HasPrefix(entry, "/") {
		return fmt.Errorf("%s entry %q is an absolute path; only workspace-relative paths are allowed", field, entry)
	}
	for _, segment := range strings.Split(stripDir(entry), "/") {
		if segment == ".." {
			return fmt.Errorf("%s entry %q contains a parent-traversal segment", field, entry)
		}
	}
	return nil
}
