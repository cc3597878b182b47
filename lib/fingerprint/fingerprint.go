// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes stable identities for resolved
// dependency groups.
//
// The resolver holds no cache; the host build system caches
// pattern-expansion results keyed on the configuration that produced
// them. [Group] computes that key: a BLAKE3 keyed hash over the
// resolution's canonical serialization. Precise and fuzzy
// resolutions hash in separate domains, so the same logical group
// never collides across representations.
package fingerprint

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/depfence/depgroup"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// String returns the lowercase hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures the same input bytes produce different hashes in
// different contexts. The byte values are the ASCII encoding of the
// domain name, zero-padded to 32 bytes: readable in hex dumps without
// sacrificing any cryptographic property.
type domainKey [32]byte

var (
	preciseDomainKey = domainKey{
		'd', 'e', 'p', 'f', 'e', 'n', 'c', 'e', '.', 'g', 'r', 'o', 'u', 'p', '.',
		'p', 'r', 'e', 'c', 'i', 's', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	fuzzyDomainKey = domainKey{
		'd', 'e', 'p', 'f', 'e', 'n', 'c', 'e', '.', 'g', 'r', 'o', 'u', 'p', '.',
		'f', 'u', 'z', 'z', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Group computes the fingerprint of a resolved dependency group. The
// input is the canonical serialization of the selected
// representation: the sorted file list for precise resolutions, or
// the directory list plus exclude metadata for fuzzy ones. Two
// resolutions fingerprint identically exactly when they describe the
// same representation of the same logical file set.
func Group(resolved *depgroup.ResolvedDependency) Hash {
	var builder strings.Builder
	key := preciseDomainKey

	switch resolved.Mode {
	case depgroup.ModeFuzzy:
		key = fuzzyDomainKey
		writeSection(&builder, "dirs", resolved.Dirs)
		writeSection(&builder, "hard", resolved.Excludes.Hard)
		writeSection(&builder, "soft", resolved.Excludes.Soft)
	default:
		writeSection(&builder, "files", resolved.Files)
	}

	return keyedHash(key, []byte(builder.String()))
}

// writeSection appends a named section whose entries are each
// NUL-terminated. Paths cannot contain NUL, so entry boundaries are
// unambiguous: ["a","b"] and ["ab"] must not serialize identically.
func writeSection(builder *strings.Builder, name string, entries []string) {
	builder.WriteString(name)
	builder.WriteByte('\n')
	for _, entry := range entries {
		builder.WriteString(entry)
		builder.WriteByte(0)
	}
	builder.WriteByte('\n')
}

func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	// The error is only returned for wrong key length, so this cannot
	// fail with our fixed-size type.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
