// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bureau-foundation/depfence/depgroup"
)

func TestMarshalDeterministic(t *testing.T) {
	resolved := &depgroup.ResolvedDependency{
		Mode: depgroup.ModeFuzzy,
		Dirs: []string{"pkg"},
		Excludes: depgroup.ExcludeMetadata{
			Hard: []string{"site-packages"},
			Soft: []string{},
		},
		Tags: []string{depgroup.UnsoundDirectoryTag},
	}

	first, err := Marshal(resolved)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Marshal(resolved)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("deterministic encoding produced different bytes")
	}

	var decoded depgroup.ResolvedDependency
	if err := Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(&decoded, resolved) {
		t.Errorf("round trip = %+v, want %+v", &decoded, resolved)
	}
}

func TestDescriptorFileRoundTrip(t *testing.T) {
	resolved := &depgroup.ResolvedDependency{
		Mode:  depgroup.ModePrecise,
		Files: []string{"pkg/a.py", "pkg/b.py", "pkg/sub/c.py"},
		Excludes: depgroup.ExcludeMetadata{
			Hard: []string{},
			Soft: []string{},
		},
	}

	path := filepath.Join(t.TempDir(), "group.desc")
	if err := WriteFile(path, resolved); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var decoded depgroup.ResolvedDependency
	if err := ReadFile(path, &decoded); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !reflect.DeepEqual(&decoded, resolved) {
		t.Errorf("round trip = %+v, want %+v", &decoded, resolved)
	}
}

func TestReadFileMissing(t *testing.T) {
	var decoded depgroup.ResolvedDependency
	if err := ReadFile(filepath.Join(t.TempDir(), "absent.desc"), &decoded); err == nil {
		t.Error("expected error for missing descriptor file")
	}
}

func TestReadFileNotCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.desc")
	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	var decoded depgroup.ResolvedDependency
	if err := ReadFile(path, &decoded); err == nil {
		t.Error("expected error for a non-zstd descriptor file")
	}
}
