// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Depfence packages.
//
// [WriteTree] materializes a file tree under a root directory from a
// list of slash-relative paths. Dependency resolver tests describe
// fixture workspaces as path lists rather than nested os.MkdirAll
// calls, which keeps the fixture adjacent to the assertions that read
// it.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates every listed file under root, creating parent
// directories as needed. Paths use forward slashes and are relative
// to root. Each file's content is its own relative path, so tests can
// verify that a bind or enumeration picked up the right file.
//
//	testutil.WriteTree(t, root,
//		"pkg/lib/mod.py",
//		"pkg/site-packages/vendored.py",
//	)
func WriteTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, path := range paths {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(path), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}

// WriteDir creates an empty directory under root. Use this for
// fixtures that need a directory with no files (a valid zero-file
// include directory).
func WriteDir(t *testing.T, root, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
		t.Fatalf("creating directory %s: %v", dir, err)
	}
}
