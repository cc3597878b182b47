// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package depgroup describes groups of external host files that a
// sandboxed build action depends on, and resolves those descriptions
// into one of two equivalent representations.
//
// The central type is [DependencySpec]: a set of workspace-relative
// include directories plus optional hard and soft exclude lists.
// [Resolver.Resolve] turns a validated spec into a
// [ResolvedDependency] in one of two modes:
//
//   - [ModePrecise]: an exact, recursively enumerated file list with
//     all excludes subtracted. Safe for any sandbox configuration,
//     costly for directories with tens of thousands of files.
//   - [ModeFuzzy]: a directory-level reference (trailing separators
//     stripped) plus an [ExcludeMetadata] side payload that the
//     sandbox layer interprets at action-setup time. Cheap to mount,
//     but the host build system cannot track membership changes, so
//     fuzzy results carry [UnsoundDirectoryTag].
//
// Both representations denote the same logical file set; the mode is
// a build-wide choice passed explicitly to the resolver, never a
// per-group one. Hard excludes must never be visible inside the
// sandbox under either mode; soft excludes are dropped from precise
// enumeration but tolerated as present-but-untracked in fuzzy mode.
//
// Specs are authored in a YAML [Manifest] and validated at load time.
// Validation is fail-fast: the first malformed entry aborts with an
// error naming the offending value. Malformed specs are configuration
// authoring bugs, not transient failures — there is no retry.
//
// Resolution is a pure function of the spec, the workspace root, and
// the mode. Precise mode performs read-only filesystem walks; nothing
// touches shared mutable state, so a single [Resolver] is safe for
// concurrent use across goroutines.
package depgroup
