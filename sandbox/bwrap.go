// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// BwrapOptions holds options for building a bwrap command.
type BwrapOptions struct {
	// Profile is the expanded profile to use.
	Profile *Profile

	// DependencyMounts are the mount plans produced by
	// [DependencyMounts] for the action's external dependency groups.
	// They are applied after the profile's own mounts.
	DependencyMounts []Mount

	// ExtraBinds are additional bind mounts specified via CLI.
	// Format: "source:dest:mode" where mode is "ro" or "rw".
	ExtraBinds []string

	// ExtraEnv are additional environment variables.
	ExtraEnv map[string]string

	// Command is the command to run inside the sandbox.
	Command []string
}

// BwrapBuilder builds bubblewrap command-line arguments.
type BwrapBuilder struct {
	args []string
	env  map[string]string
}

// NewBwrapBuilder creates a new builder.
func NewBwrapBuilder() *BwrapBuilder {
	return &BwrapBuilder{
		args: []string{},
		env:  make(map[string]string),
	}
}

// Build constructs the bwrap arguments from options.
func (b *BwrapBuilder) Build(opts *BwrapOptions) ([]string, error) {
	if opts.Profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("command is required")
	}

	b.args = []string{}
	b.env = make(map[string]string)

	b.addNamespaces(opts.Profile.Namespaces)
	b.addSecurity(opts.Profile.Security)
	b.addBaseMounts()

	if err := b.addMounts(opts.Profile.Filesystem); err != nil {
		return nil, err
	}
	if err := b.addMounts(opts.DependencyMounts); err != nil {
		return nil, err
	}
	if err := b.addExtraBinds(opts.ExtraBinds); err != nil {
		return nil, err
	}

	for _, dir := range opts.Profile.CreateDirs {
		b.args = append(b.args, "--dir", dir)
	}

	// The environment is always cleared: the only variables an action
	// sees are the ones its profile declares.
	b.args = append(b.args, "--clearenv")

	for key, value := range opts.Profile.Environment {
		b.env[key] = value
	}
	for key, value := range opts.ExtraEnv {
		b.env[key] = value
	}

	// Sort keys for deterministic output.
	envKeys := make([]string, 0, len(b.env))
	for key := range b.env {
		envKeys = append(envKeys, key)
	}
	sort.Strings(envKeys)
	for _, key := range envKeys {
		b.args = append(b.args, "--setenv", key, b.env[key])
	}

	b.args = append(b.args, "--")
	b.args = append(b.args, opts.Command...)

	return b.args, nil
}

// addNamespaces adds namespace unsharing options.
func (b *BwrapBuilder) addNamespaces(ns NamespaceConfig) {
	if ns.PID {
		b.args = append(b.args, "--unshare-pid")
	}
	if ns.Net {
		b.args = append(b.args, "--unshare-net")
	}
	if ns.IPC {
		b.args = append(b.args, "--unshare-ipc")
	}
	if ns.UTS {
		b.args = append(b.args, "--unshare-uts")
	}
	if ns.Cgroup {
		b.args = append(b.args, "--unshare-cgroup")
	}
	if ns.User {
		b.args = append(b.args, "--unshare-user")
	}
}

// addSecurity adds security options.
func (b *BwrapBuilder) addSecurity(sec SecurityConfig) {
	if sec.NewSession {
		b.args = append(b.args, "--new-session")
	}
	if sec.DieWithParent {
		b.args = append(b.args, "--die-with-parent")
	}
}

// addBaseMounts adds standard /proc and /dev mounts.
func (b *BwrapBuilder) addBaseMounts() {
	// /proc is needed for most programs.
	b.args = append(b.args, "--proc", "/proc")

	// Minimal /dev with only safe devices.
	b.args = append(b.args, "--dev", "/dev")
}

// addMounts translates mount entries into bwrap arguments, in order.
func (b *BwrapBuilder) addMounts(mounts []Mount) error {
	for _, mount := range mounts {
		switch mount.Type {
		case MountTypeTmpfs:
			b.args = append(b.args, "--tmpfs", mount.Dest)

		case MountTypeProc:
			b.args = append(b.args, "--proc", mount.Dest)

		case MountTypeDev:
			b.args = append(b.args, "--dev", mount.Dest)

		case MountTypeBind:
			if mount.Optional {
				if _, err := os.Stat(mount.Source); os.IsNotExist(err) {
					continue
				}
			}
			if mount.Mode == MountModeRO {
				b.args = append(b.args, "--ro-bind", mount.Source, mount.Dest)
			} else {
				b.args = append(b.args, "--bind", mount.Source, mount.Dest)
			}

		default:
			return fmt.Errorf("unknown mount type %q for %s", mount.Type, mount.Dest)
		}
	}
	return nil
}

// addExtraBinds adds CLI-specified bind mounts.
func (b *BwrapBuilder) addExtraBinds(binds []string) error {
	for _, bind := range binds {
		source, dest, mode, err := parseBindSpec(bind)
		if err != nil {
			return err
		}

		if mode == MountModeRO {
			b.args = append(b.args, "--ro-bind", source, dest)
		} else {
			b.args = append(b.args, "--bind", source, dest)
		}
	}
	return nil
}

// parseBindSpec parses a bind specification in format "source:dest[:mode]".
// For simplicity, paths are assumed not to contain colons (common on Linux).
func parseBindSpec(spec string) (source, dest, mode string, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", "", fmt.Errorf("invalid bind spec %q: must be source:dest[:mode]", spec)
	}

	source = parts[0]
	dest = parts[1]
	mode = MountModeRW // Default

	if len(parts) == 3 {
		if parts[2] != MountModeRO && parts[2] != MountModeRW {
			return "", "", "", fmt.Errorf("invalid bind mode %q: must be ro or rw", parts[2])
		}
		mode = parts[2]
	}

	return source, dest, mode, nil
}

// BwrapPath returns the path to the bwrap executable.
func BwrapPath() (string, error) {
	paths := []string{
		"/usr/bin/bwrap",
		"/usr/local/bin/bwrap",
		"/bin/bwrap",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("bwrap not found in standard locations")
}
