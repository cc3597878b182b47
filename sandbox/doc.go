// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sandbox translates resolved external-dependency groups into
// bubblewrap (bwrap) bind-mount plans for isolated build actions.
//
// [DependencyMounts] is the bridge from the resolver: a precise
// [depgroup.ResolvedDependency] becomes one read-only bind per file,
// a fuzzy one becomes a read-only bind per directory plus a tmpfs
// mask over every hard exclude. Hard excludes must never be visible
// inside the sandbox under either strategy; soft excludes stay
// visible but untracked. Per-file binds are exact but expensive for
// directories with tens of thousands of files; the directory strategy
// is cheap to set up and exists precisely for those trees.
//
// [Profile] is the YAML-driven sandbox configuration: filesystem
// mounts, namespace isolation flags, environment variables, and
// directories to create. All string values undergo variable expansion
// ([Variables].ExpandProfile) before use. Every mount is declared
// explicitly; there is no implicit host filesystem visibility.
//
// [BwrapBuilder] assembles the bwrap command line from a profile plus
// dependency mount plans. [Capabilities] probes the host (bwrap
// availability, user namespace support); [Validator] folds the probe
// into its pre-flight report alongside workspace root, manifest
// validity, and dependency source checks.
//
// The package plans sandboxes; it does not run them. Executing the
// assembled command and supervising the process inside it is the host
// build system's job.
package sandbox
