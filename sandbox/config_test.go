// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"strings"
	"testing"
)

const profileYAML = `
name: builder
description: Hermetic build action sandbox
filesystem:
  - source: /usr
    dest: /usr
    mode: ro
  - dest: /tmp
    type: tmpfs
  - source: ${WORKSPACE}
    dest: /workspace
    mode: ro
namespaces:
  pid: true
  net: true
environment:
  PATH: /usr/bin:/bin
  BUILD_WORKSPACE: /workspace
security:
  new_session: true
  die_with_parent: true
create_dirs:
  - /workspace/out
`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile([]byte(profileYAML))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}

	if profile.Name != "builder" {
		t.Errorf("name = %q, want builder", profile.Name)
	}
	if len(profile.Filesystem) != 3 {
		t.Errorf("filesystem = %d entries, want 3", len(profile.Filesystem))
	}
	if !profile.Namespaces.PID || !profile.Namespaces.Net {
		t.Error("expected pid and net namespaces")
	}
	if !profile.Security.DieWithParent {
		t.Error("expected die_with_parent")
	}
}

func TestParseProfileInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing dest",
			yaml: "name: p\nfilesystem:\n  - source: /usr\n",
			want: "dest is required",
		},
		{
			name: "bind without source",
			yaml: "name: p\nfilesystem:\n  - dest: /usr\n",
			want: "source is required",
		},
		{
			name: "bad mode",
			yaml: "name: p\nfilesystem:\n  - {source: /usr, dest: /usr, mode: rx}\n",
			want: "invalid mode",
		},
		{
			name: "unknown type",
			yaml: "name: p\nfilesystem:\n  - {dest: /x, type: overlay}\n",
			want: "unknown mount type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestProfileValidateAccumulates(t *testing.T) {
	// Profile validation reports everything at once, unlike the
	// fail-fast dependency spec validator.
	yaml := "name: p\nfilesystem:\n  - source: /usr\n  - {dest: /x, type: overlay}\n"
	_, err := ParseProfile([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "dest is required") || !strings.Contains(err.Error(), "unknown mount type") {
		t.Errorf("error %q should report both violations", err)
	}
}

func TestVariableExpansion(t *testing.T) {
	profile, err := ParseProfile([]byte(profileYAML))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}

	vars := Variables{"WORKSPACE": "/srv/build/ws-7"}
	expanded := vars.ExpandProfile(profile)

	var found bool
	for _, m := range expanded.Filesystem {
		if m.Source == "/srv/build/ws-7" && m.Dest == "/workspace" {
			found = true
		}
	}
	if !found {
		t.Errorf("filesystem = %+v, want ${WORKSPACE} expanded", expanded.Filesystem)
	}

	// The original is untouched.
	for _, m := range profile.Filesystem {
		if m.Source == "/srv/build/ws-7" {
			t.Error("ExpandProfile mutated the original profile")
		}
	}
}

func TestVariableExpandUnknownKept(t *testing.T) {
	vars := Variables{}
	if got := vars.Expand("${NO_SUCH_DEPFENCE_VAR}/x"); got != "${NO_SUCH_DEPFENCE_VAR}/x" {
		t.Errorf("Expand = %q, want unresolved reference kept verbatim", got)
	}
}
