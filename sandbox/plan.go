// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/bureau-foundation/depfence/depgroup"
)

// DependencyMounts translates a resolved dependency group into mount
// entries for the sandbox. hostRoot is the workspace root on the host
// side; destRoot is where the workspace appears inside the sandbox.
//
// Precise resolutions become one read-only bind per enumerated file:
// exact, but costly to set up for very large trees. Fuzzy resolutions
// become one read-only bind per directory, with a tmpfs mounted over
// every hard exclude so the carved-out subtree is never visible
// inside the sandbox. Soft excludes stay visible (present but
// untracked by the host build system) and produce no mask.
//
// bwrap applies mounts in argument order, so the tmpfs masks must
// come after the directory bind they shadow; the returned slice
// preserves that ordering.
func DependencyMounts(resolved *depgroup.ResolvedDependency, hostRoot, destRoot string) ([]Mount, error) {
	switch resolved.Mode {
	case depgroup.ModePrecise:
		mounts := make([]Mount, 0, len(resolved.Files))
		for _, file := range resolved.Files {
			mounts = append(mounts, Mount{
				Source: filepath.Join(hostRoot, filepath.FromSlash(file)),
				Dest:   path.Join(destRoot, file),
				Mode:   MountModeRO,
			})
		}
		return mounts, nil

	case depgroup.ModeFuzzy:
		mounts := make([]Mount, 0, len(resolved.Dirs)+len(resolved.Excludes.Hard))
		for _, dir := range resolved.Dirs {
			mounts = append(mounts, Mount{
				Source: filepath.Join(hostRoot, filepath.FromSlash(dir)),
				Dest:   path.Join(destRoot, dir),
				Mode:   MountModeRO,
				// A fuzzy directory that enumerates to zero files is
				// valid, so the directory itself may be absent.
				Optional: true,
			})
		}
		// Exclude metadata is relative to the single include
		// directory (the resolver enforces the single-root rule
		// whenever excludes are present).
		for _, exclude := range resolved.Excludes.Hard {
			mounts = append(mounts, Mount{
				Type: MountTypeTmpfs,
				Dest: path.Join(destRoot, resolved.Dirs[0], exclude),
			})
		}
		return mounts, nil

	default:
		return nil, fmt.Errorf("unknown resolution mode %v", resolved.Mode)
	}
}
