// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"fmt"
	"log/slog"
)

// Resolver resolves dependency specs against a workspace root under a
// fixed mode. The mode is sourced once per build invocation (see
// lib/buildcfg) and threaded through explicitly — there is no ambient
// mode state. A Resolver holds no cache and no mutable state; it is
// safe for concurrent use.
type Resolver struct {
	// Root is the absolute path of the workspace all spec paths are
	// relative to.
	Root string

	// Mode selects the representation for every resolution performed
	// by this resolver.
	Mode Mode

	logger *slog.Logger
}

// NewResolver creates a resolver for the given workspace root and
// mode.
func NewResolver(root string, mode Mode) *Resolver {
	return &Resolver{Root: root, Mode: mode}
}

// SetLogger enables debug logging during resolution.
func (r *Resolver) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

func (r *Resolver) log(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// Resolve validates the spec and materializes the representation
// selected by the resolver's mode. Only the selected branch is
// computed: fuzzy resolution never walks the filesystem, and precise
// resolution never builds directory metadata. Validation failures are
// configuration errors and abort resolution for the whole group —
// there are no partial results.
func (r *Resolver) Resolve(spec *DependencySpec) (*ResolvedDependency, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependency spec: %w", err)
	}

	switch r.Mode {
	case ModePrecise:
		files, err := spec.resolvePrecise(r.Root)
		if err != nil {
			return nil, err
		}
		r.log("resolved precise dependency group", "include_dirs", spec.IncludeDirs, "files", len(files))
		return &ResolvedDependency{
			Mode:     ModePrecise,
			Files:    files,
			Excludes: emptyExcludeMetadata(),
		}, nil

	case ModeFuzzy:
		dirs, metadata := spec.resolveFuzzy()
		r.log("resolved fuzzy dependency group", "dirs", dirs,
			"hard_excludes", len(metadata.Hard), "soft_excludes", len(metadata.Soft))
		return &ResolvedDependency{
			Mode:     ModeFuzzy,
			Dirs:     dirs,
			Excludes: metadata,
			Tags:     []string{UnsoundDirectoryTag},
		}, nil

	default:
		return nil, fmt.Errorf("unknown resolution mode %d", r.Mode)
	}
}
