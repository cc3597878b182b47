// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Depfence's standard serialization for
// resolved dependency descriptors.
//
// Descriptors cross a process boundary: the resolver writes them at
// build-graph construction time and the sandbox layer reads them at
// action-setup time. Encoding is CBOR with Core Deterministic
// Encoding (RFC 8949 §4.2) — sorted map keys, smallest integer
// encoding, no indefinite-length items — so the same logical
// descriptor always produces identical bytes, which is what makes
// descriptor files usable as cache-key material alongside
// lib/fingerprint.
//
// [WriteFile] and [ReadFile] add zstd compression: a precise
// descriptor for a large host tree carries tens of thousands of
// paths with long shared prefixes, which compress extremely well.
package codec
