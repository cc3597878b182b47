// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExcludeMetadata is the side payload attached to fuzzy resolutions.
// The sandbox layer reads it out-of-band at action-setup time; it is
// not part of the dependency-graph structure. Entries are relative to
// the single include directory, with no trailing separators.
type ExcludeMetadata struct {
	Hard []string `json:"hard"`
	Soft []string `json:"soft"`
}

// Encode serializes the metadata to its JSON side-channel form, for
// attachment to the host build system's generic string attribute
// slot: {"hard":[...],"soft":[...]}.
func (m ExcludeMetadata) Encode() (string, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding exclude metadata: %w", err)
	}
	return string(encoded), nil
}

// DecodeExcludeMetadata parses the JSON side-channel form back into
// typed metadata. The sandbox layer uses this when the descriptor
// arrives through the string attribute slot rather than in-process.
func DecodeExcludeMetadata(encoded string) (ExcludeMetadata, error) {
	metadata := emptyExcludeMetadata()
	if err := json.Unmarshal([]byte(encoded), &metadata); err != nil {
		return ExcludeMetadata{}, fmt.Errorf("decoding exclude metadata %q: %w", encoded, err)
	}
	return metadata, nil
}

// resolveFuzzy produces the directory-level representation: include
// directories with trailing separators stripped, plus exclude
// metadata relativized to the single root.
func (s *DependencySpec) resolveFuzzy() ([]string, ExcludeMetadata) {
	dirs := make([]string, len(s.IncludeDirs))
	for i, dir := range s.IncludeDirs {
		dirs[i] = stripDir(dir)
	}

	metadata := emptyExcludeMetadata()
	if len(s.HardExcludes) > 0 || len(s.SoftExcludes) > 0 {
		// Validation guarantees a single root when excludes exist.
		root := s.IncludeDirs[0]
		metadata.Hard = relativizeExcludes(s.HardExcludes, root)
		metadata.Soft = relativizeExcludes(s.SoftExcludes, root)
	}
	return dirs, metadata
}

// relativizeExcludes strips the common include-directory prefix from
// every exclude entry, along with any trailing separator.
func relativizeExcludes(excludes []string, root string) []string {
	relative := make([]string, 0, len(excludes))
	for _, exclude := range excludes {
		relative = append(relative, stripDir(strings.TrimPrefix(exclude, root)))
	}
	return relative
}

// emptyExcludeMetadata returns metadata with allocated (non-nil)
// lists so the JSON encoding is always {"hard":[],"soft":[]} rather
// than null-valued keys.
func emptyExcludeMetadata() ExcludeMetadata {
	return ExcludeMetadata{Hard: []string{}, Soft: []string{}}
}
