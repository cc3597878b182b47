// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import "strings"

// DependencySpec describes one external dependency group: which host
// directories the action needs, and which sub-paths must be carved
// out of them. All paths are workspace-relative with forward slashes.
type DependencySpec struct {
	// IncludeDirs are the directories whose contents the action
	// depends on. Each entry must be a genuine directory path with a
	// trailing "/" — not a glob pattern, not absolute, and with no
	// parent-traversal segments.
	IncludeDirs []string

	// HardExcludes are sub-paths that must never be exposed to the
	// sandboxed action under any mode. Every exclude denotes the path
	// itself and its entire subtree. Valid only when IncludeDirs has
	// exactly one entry; each must be a strict sub-path of it.
	HardExcludes []string

	// SoftExcludes are sub-paths dropped from precise enumeration but
	// tolerated as present-but-untracked in fuzzy mode. Same subtree
	// semantics and single-root restriction as HardExcludes.
	SoftExcludes []string

	// Precise, when non-nil, supersedes computed precise enumeration
	// entirely. The override is caller-trusted: no consistency check
	// against IncludeDirs or the excludes is performed, and no
	// exclude subtraction is applied to its result.
	Precise *PreciseOverride
}

// PreciseOverride is an explicit precise-mode source: either a
// literal file list or a pattern-expansion request. Exactly one of
// the two must be set.
type PreciseOverride struct {
	// Paths is a literal list of workspace-relative file paths.
	Paths []string

	// Patterns is a list of workspace-relative glob patterns to
	// expand (filepath.Match syntax per path segment). Matched
	// directories are skipped; only files land in the result.
	Patterns []string
}

// Mode selects the representation a spec resolves to. It is a
// build-wide setting sourced once per invocation; there is no
// per-spec override.
type Mode int

const (
	// ModePrecise resolves to an exact file enumeration.
	ModePrecise Mode = iota

	// ModeFuzzy resolves to directory references plus exclude
	// metadata for out-of-band interpretation by the sandbox layer.
	ModeFuzzy
)

func (m Mode) String() string {
	switch m {
	case ModePrecise:
		return "precise"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// UnsoundDirectoryTag marks fuzzy-mode results. Downstream consumers
// use it to distinguish intentionally-fuzzy dependencies from
// accidental directory inputs, and the sandbox layer uses it to
// decide whether to honor the exclude metadata side channel.
const UnsoundDirectoryTag = "unsound-directory-source"

// ResolvedDependency is the output of resolving one spec. Exactly one
// of Files (precise) or Dirs (fuzzy) is populated, per Mode.
type ResolvedDependency struct {
	// Mode records which representation this is.
	Mode Mode

	// Files is the sorted precise file enumeration. Empty is valid:
	// an include directory matching zero files is not an error.
	Files []string

	// Dirs are the include directories with trailing separators
	// stripped. Only set in fuzzy mode.
	Dirs []string

	// Excludes is the side payload the sandbox layer reads at
	// action-setup time. Only meaningful in fuzzy mode; entries are
	// relative to the single include directory.
	Excludes ExcludeMetadata

	// Tags carries UnsoundDirectoryTag for fuzzy results.
	Tags []string
}

// HasTag reports whether the resolution carries the given tag.
func (r *ResolvedDependency) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// stripDir removes a single trailing path separator from a directory
// entry. Directory references in the host system's addressing scheme
// cannot carry a separator suffix.
func stripDir(dir string) string {
	return strings.TrimSuffix(dir, "/")
}
