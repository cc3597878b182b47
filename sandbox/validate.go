// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/depfence/depgroup"
)

// ValidationResult holds the result of a validation check.
type ValidationResult struct {
	Name    string
	Passed  bool
	Message string
	Warning bool // True if this is a warning, not an error.
}

// Validator performs pre-flight validation before dependency groups
// are resolved and mounted. Unlike spec validation (fail-fast, inside
// depgroup), pre-flight checks accumulate so the operator sees the
// whole picture in one run.
type Validator struct {
	results []ValidationResult
	errors  int
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		results: make([]ValidationResult, 0),
	}
}

// Results returns all validation results.
func (v *Validator) Results() []ValidationResult {
	return v.results
}

// HasErrors returns true if any validation failed.
func (v *Validator) HasErrors() bool {
	return v.errors > 0
}

// pass records a successful validation.
func (v *Validator) pass(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  true,
		Message: message,
	})
}

// warn records a warning (not a failure).
func (v *Validator) warn(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  true,
		Message: message,
		Warning: true,
	})
}

// fail records a validation failure.
func (v *Validator) fail(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  false,
		Message: message,
	})
	v.errors++
}

// ValidateAll runs all validation checks for a sandbox configuration.
func (v *Validator) ValidateAll(profile *Profile, workspaceRoot string, manifest *depgroup.Manifest) {
	v.ValidateCapabilities(DetectCapabilities())
	v.ValidateWorkspaceRoot(workspaceRoot)
	v.ValidateProfile(profile)
	v.ValidateManifest(manifest)
	v.ValidateDependencySources(manifest, workspaceRoot)
}

// ValidateCapabilities records the host capability probe results:
// bubblewrap availability and unprivileged user namespace support.
func (v *Validator) ValidateCapabilities(caps *Capabilities) {
	switch {
	case caps.BwrapPath == "":
		v.fail("bwrap", "bubblewrap not found in standard locations")
	case caps.BwrapVersion == "":
		v.warn("bwrap", fmt.Sprintf("found at %s but --version failed", caps.BwrapPath))
	default:
		v.pass("bwrap", fmt.Sprintf("available: %s (%s)", caps.BwrapPath, caps.BwrapVersion))
	}

	if caps.UserNamespaces {
		v.pass("userns", "unprivileged user namespaces available")
	} else {
		v.fail("userns", "unprivileged user namespaces unavailable (set kernel.unprivileged_userns_clone=1)")
	}
}

// ValidateWorkspaceRoot checks that the workspace root exists.
func (v *Validator) ValidateWorkspaceRoot(workspaceRoot string) {
	if workspaceRoot == "" {
		v.fail("workspace", "workspace root path is required")
		return
	}

	absPath, err := filepath.Abs(workspaceRoot)
	if err != nil {
		v.fail("workspace", fmt.Sprintf("cannot resolve path: %v", err))
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			v.fail("workspace", fmt.Sprintf("does not exist: %s", absPath))
		} else {
			v.fail("workspace", fmt.Sprintf("cannot access: %v", err))
		}
		return
	}
	if !info.IsDir() {
		v.fail("workspace", fmt.Sprintf("not a directory: %s", absPath))
		return
	}

	v.pass("workspace", fmt.Sprintf("exists: %s", absPath))
}

// ValidateProfile checks that the profile is valid.
func (v *Validator) ValidateProfile(profile *Profile) {
	if profile == nil {
		v.fail("profile", "profile is nil")
		return
	}

	if err := profile.Validate(); err != nil {
		v.fail("profile", err.Error())
		return
	}

	v.pass("profile", fmt.Sprintf("loaded: %s", profile.Name))
}

// ValidateManifest checks that every dependency group in the manifest
// is well-formed.
func (v *Validator) ValidateManifest(manifest *depgroup.Manifest) {
	if manifest == nil {
		v.fail("manifest", "manifest is nil")
		return
	}

	if err := manifest.Validate(); err != nil {
		v.fail("manifest", err.Error())
		return
	}

	v.pass("manifest", fmt.Sprintf("%d dependency groups", len(manifest.Groups)))
}

// ValidateDependencySources checks that every include directory in
// the manifest exists under the workspace root. A missing directory
// is a warning, not a failure: it resolves to zero files, which the
// resolver accepts.
func (v *Validator) ValidateDependencySources(manifest *depgroup.Manifest, workspaceRoot string) {
	if manifest == nil {
		return
	}

	for _, name := range manifest.Names() {
		spec, err := manifest.Spec(name)
		if err != nil {
			continue
		}
		for _, dir := range spec.IncludeDirs {
			path := filepath.Join(workspaceRoot, filepath.FromSlash(dir))
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					v.warn("sources", fmt.Sprintf("group %s: include directory not found: %s (resolves to zero files)", name, dir))
				} else {
					v.fail("sources", fmt.Sprintf("group %s: cannot access %s: %v", name, dir, err))
				}
				continue
			}
			if !info.IsDir() {
				v.fail("sources", fmt.Sprintf("group %s: %s is not a directory", name, dir))
			}
		}
	}
}

// PrintResults writes validation results to a writer.
func (v *Validator) PrintResults(w io.Writer) {
	for _, r := range v.results {
		var prefix string
		if r.Passed {
			if r.Warning {
				prefix = "⚠"
			} else {
				prefix = "✓"
			}
		} else {
			prefix = "✗"
		}
		fmt.Fprintf(w, "%s %s: %s\n", prefix, r.Name, r.Message)
	}

	fmt.Fprintln(w)
	if v.HasErrors() {
		fmt.Fprintf(w, "Validation failed with %d error(s)\n", v.errors)
	} else {
		fmt.Fprintln(w, "Ready to run sandbox")
	}
}
