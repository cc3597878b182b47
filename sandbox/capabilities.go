// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"os"
	"os/exec"
	"strings"
)

// Capabilities describes the host features that sandbox planning
// depends on. [Validator.ValidateCapabilities] turns a probe result
// into pre-flight report entries; tests use [Capabilities.SkipReason]
// to gate cases that exec bwrap for real.
type Capabilities struct {
	// BwrapPath is the bubblewrap executable, or empty when it is
	// not installed.
	BwrapPath string

	// BwrapVersion is the output of "bwrap --version". Empty when
	// bwrap is missing or the version probe failed.
	BwrapVersion string

	// UserNamespaces reports whether unprivileged user namespaces
	// work on this host.
	UserNamespaces bool
}

// DetectCapabilities probes the host.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{}

	if path, err := BwrapPath(); err == nil {
		caps.BwrapPath = path
		if out, err := exec.Command(path, "--version").Output(); err == nil {
			caps.BwrapVersion = strings.TrimSpace(string(out))
		}
	}
	caps.UserNamespaces = probeUserNamespaces(caps.BwrapPath)

	return caps
}

// probeUserNamespaces checks the sysctl and, when bubblewrap is
// available, confirms by actually creating a user namespace.
func probeUserNamespaces(bwrapPath string) bool {
	data, err := os.ReadFile("/proc/sys/kernel/unprivileged_userns_clone")
	if err == nil && strings.TrimSpace(string(data)) == "0" {
		return false
	}
	// The sysctl not existing usually means there is no restriction.
	if bwrapPath == "" {
		return true
	}

	cmd := exec.Command(bwrapPath,
		"--unshare-user",
		"--ro-bind", "/", "/",
		"--",
		"true",
	)
	return cmd.Run() == nil
}

// CanRunSandbox reports whether sandbox execution is possible.
func (c *Capabilities) CanRunSandbox() bool {
	return c.BwrapPath != "" && c.UserNamespaces
}

// SkipReason returns a human-readable reason why sandbox execution is
// unavailable, or the empty string when it is available.
func (c *Capabilities) SkipReason() string {
	if c.BwrapPath == "" {
		return "bubblewrap not installed"
	}
	if !c.UserNamespaces {
		return "unprivileged user namespaces not enabled (set kernel.unprivileged_userns_clone=1)"
	}
	return ""
}
