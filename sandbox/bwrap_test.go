// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/depfence/depgroup"
	"github.com/bureau-foundation/depfence/lib/testutil"
)

func TestBwrapBuilder(t *testing.T) {
	profile := &Profile{
		Name: "test",
		Filesystem: []Mount{
			{Source: "/usr", Dest: "/usr", Mode: "ro"},
			{Dest: "/tmp", Type: "tmpfs"},
		},
		Namespaces: NamespaceConfig{
			PID: true,
			Net: true,
			IPC: true,
		},
		Security: SecurityConfig{
			NewSession:    true,
			DieWithParent: true,
		},
		Environment: map[string]string{
			"PATH": "/usr/bin",
			"HOME": "/workspace",
		},
	}

	builder := NewBwrapBuilder()
	args, err := builder.Build(&BwrapOptions{
		Profile: profile,
		Command: []string{"/bin/bash"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	argStr := strings.Join(args, " ")

	// Check namespaces.
	if !strings.Contains(argStr, "--unshare-pid") {
		t.Error("missing --unshare-pid")
	}
	if !strings.Contains(argStr, "--unshare-net") {
		t.Error("missing --unshare-net")
	}
	if !strings.Contains(argStr, "--unshare-ipc") {
		t.Error("missing --unshare-ipc")
	}

	// Check security.
	if !strings.Contains(argStr, "--new-session") {
		t.Error("missing --new-session")
	}
	if !strings.Contains(argStr, "--die-with-parent") {
		t.Error("missing --die-with-parent")
	}

	// Check filesystem.
	if !strings.Contains(argStr, "--ro-bind /usr /usr") {
		t.Error("missing /usr ro-bind")
	}
	if !strings.Contains(argStr, "--tmpfs /tmp") {
		t.Error("missing tmpfs /tmp")
	}

	// Check environment.
	if !strings.Contains(argStr, "--clearenv") {
		t.Error("missing --clearenv")
	}
	if !strings.Contains(argStr, "--setenv HOME /workspace") {
		t.Error("missing HOME env")
	}
	if !strings.Contains(argStr, "--setenv PATH /usr/bin") {
		t.Error("missing PATH env")
	}

	// Check command separator and command.
	if !strings.Contains(argStr, "-- /bin/bash") {
		t.Error("missing command")
	}
}

func TestBwrapBuilderDependencyMounts(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root,
		"pkg/keep.py",
		"pkg/secrets/key",
	)

	t.Run("precise", func(t *testing.T) {
		resolved, err := depgroup.NewResolver(root, depgroup.ModePrecise).Resolve(&depgroup.DependencySpec{
			IncludeDirs:  []string{"pkg/"},
			HardExcludes: []string{"pkg/secrets"},
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		mounts, err := DependencyMounts(resolved, root, "/workspace")
		if err != nil {
			t.Fatalf("DependencyMounts failed: %v", err)
		}

		args, err := NewBwrapBuilder().Build(&BwrapOptions{
			Profile:          &Profile{Name: "test"},
			DependencyMounts: mounts,
			Command:          []string{"/bin/true"},
		})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		argStr := strings.Join(args, " ")
		if !strings.Contains(argStr, "--ro-bind "+root+"/pkg/keep.py /workspace/pkg/keep.py") {
			t.Errorf("args %q missing per-file ro-bind", argStr)
		}
		if strings.Contains(argStr, "secrets") {
			t.Errorf("args %q expose a hard-excluded path", argStr)
		}
	})

	t.Run("fuzzy", func(t *testing.T) {
		resolved, err := depgroup.NewResolver(root, depgroup.ModeFuzzy).Resolve(&depgroup.DependencySpec{
			IncludeDirs:  []string{"pkg/"},
			HardExcludes: []string{"pkg/secrets"},
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		mounts, err := DependencyMounts(resolved, root, "/workspace")
		if err != nil {
			t.Fatalf("DependencyMounts failed: %v", err)
		}

		args, err := NewBwrapBuilder().Build(&BwrapOptions{
			Profile:          &Profile{Name: "test"},
			DependencyMounts: mounts,
			Command:          []string{"/bin/true"},
		})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		argStr := strings.Join(args, " ")
		bindIndex := strings.Index(argStr, "--ro-bind "+root+"/pkg /workspace/pkg")
		maskIndex := strings.Index(argStr, "--tmpfs /workspace/pkg/secrets")
		if bindIndex < 0 {
			t.Fatalf("args %q missing directory ro-bind", argStr)
		}
		if maskIndex < 0 {
			t.Fatalf("args %q missing tmpfs mask over hard exclude", argStr)
		}
		if maskIndex < bindIndex {
			t.Error("tmpfs mask must come after the directory bind it shadows")
		}
	})
}

func TestBwrapBuilderExtraBinds(t *testing.T) {
	profile := &Profile{
		Name: "test",
		Namespaces: NamespaceConfig{
			PID: true,
		},
	}

	builder := NewBwrapBuilder()
	args, err := builder.Build(&BwrapOptions{
		Profile: profile,
		ExtraBinds: []string{
			"/src/feature:/workspace/feature:ro",
			"/src/libs:/libs:rw",
		},
		Command: []string{"/bin/bash"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	argStr := strings.Join(args, " ")

	if !strings.Contains(argStr, "--ro-bind /src/feature /workspace/feature") {
		t.Error("missing feature bind")
	}
	if !strings.Contains(argStr, "--bind /src/libs /libs") {
		t.Error("missing libs bind")
	}
}

func TestBwrapBuilderErrors(t *testing.T) {
	builder := NewBwrapBuilder()

	if _, err := builder.Build(&BwrapOptions{Command: []string{"true"}}); err == nil {
		t.Error("expected error for missing profile")
	}

	if _, err := builder.Build(&BwrapOptions{Profile: &Profile{Name: "p"}}); err == nil {
		t.Error("expected error for missing command")
	}

	_, err := builder.Build(&BwrapOptions{
		Profile:    &Profile{Name: "p"},
		ExtraBinds: []string{"no-dest"},
		Command:    []string{"true"},
	})
	if err == nil {
		t.Error("expected error for malformed bind spec")
	}

	_, err = builder.Build(&BwrapOptions{
		Profile:    &Profile{Name: "p"},
		ExtraBinds: []string{"/a:/b:rx"},
		Command:    []string{"true"},
	})
	if err == nil {
		t.Error("expected error for invalid bind mode")
	}
}
