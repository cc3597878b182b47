// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildcfg provides build-invocation configuration for
// Depfence components.
//
// The central setting is the fuzzy-dependency toggle: one
// process-wide boolean (default off) that selects directory-level
// dependency references instead of precise file enumeration. The mode
// is read once per build invocation and threaded through explicitly
// as a [depgroup.Mode]; nothing in this package is consulted again
// after startup.
//
// Configuration layers, lowest to highest precedence:
//
//  1. Built-in defaults ([Default]).
//  2. The per-user override file, JSONC (JSON with comments and
//     trailing commas), at $DEPFENCE_OVERRIDE or
//     ~/.config/depfence/override.jsonc. A missing file is not an
//     error; a malformed one is.
//  3. Command-line flags ([Config.RegisterFlags]).
//
// There is no other discovery. Deterministic, auditable configuration
// with no hidden overrides.
package buildcfg
