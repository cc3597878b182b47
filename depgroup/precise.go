// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolvePrecise produces the exact file enumeration for the spec:
// every file reachable under the include directories, minus both
// exclude lists. The result is sorted and uses forward slashes,
// relative to root.
func (s *DependencySpec) resolvePrecise(root string) ([]string, error) {
	if s.Precise != nil {
		return s.Precise.expand(root)
	}

	var files []string
	for _, dir := range s.IncludeDirs {
		walked, err := walkFiles(root, stripDir(dir))
		if err != nil {
			return nil, err
		}
		files = append(files, walked...)
	}

	files = subtractExcludes(files, s.HardExcludes)
	files = subtractExcludes(files, s.SoftExcludes)
	sort.Strings(files)
	return files, nil
}

// walkFiles enumerates every regular file and symlink under
// root/dir, returning root-relative slash paths. A missing directory
// yields an empty result: "the pattern matched zero files" is valid,
// not an error.
func walkFiles(root, dir string) ([]string, error) {
	start := filepath.Join(root, filepath.FromSlash(dir))
	if _, err := os.Lstat(start); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading include directory %q: %w", dir, err)
	}

	var files []string
	err := filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %q: %w", dir, err)
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %q against %q: %w", path, root, err)
		}
		files = append(files, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// subtractExcludes removes every path that equals an exclude entry or
// sits anywhere beneath it. An exclude entry is ambiguous between
// "this file" and "this directory", so both readings are applied:
// the exact path and the entire subtree go. Entries that match
// nothing are silently accepted.
func subtractExcludes(files, excludes []string) []string {
	if len(excludes) == 0 {
		return files
	}

	kept := files[:0]
	for _, file := range files {
		if !excluded(file, excludes) {
			kept = append(kept, file)
		}
	}
	return kept
}

func excluded(file string, excludes []string) bool {
	for _, exclude := range excludes {
		exclude = stripDir(exclude)
		if file == exclude || strings.HasPrefix(file, exclude+"/") {
			return true
		}
	}
	return false
}

// expand materializes a precise override. Literal paths are used
// verbatim; patterns go through filepath.Glob relative to root, with
// matched directories skipped. No exclude subtraction happens here —
// the caller is responsible for having already embedded excludes in
// the override.
func (o *PreciseOverride) expand(root string) ([]string, error) {
	if len(o.Paths) > 0 {
		files := make([]string, len(o.Paths))
		copy(files, o.Paths)
		sort.Strings(files)
		return files, nil
	}

	var files []string
	for _, pattern := range o.Patterns {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("expanding precise pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := os.Lstat(match)
			if err != nil {
				return nil, fmt.Errorf("inspecting pattern match %q: %w", match, err)
			}
			if info.IsDir() {
				continue
			}
			relative, err := filepath.Rel(root, match)
			if err != nil {
				return nil, fmt.Errorf("relativizing %q against %q: %w", match, root, err)
			}
			files = append(files, filepath.ToSlash(relative))
		}
	}
	sort.Strings(files)
	return files, nil
}
