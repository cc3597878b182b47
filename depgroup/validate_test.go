// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package depgroup

import (
	"strings"
	"testing"
)

func TestValidateRejectsMalformedSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec DependencySpec
		// want must appear in the error, and the offending value must
		// be named too.
		want      string
		offending string
	}{
		{
			name:      "glob in include dir",
			spec:      DependencySpec{IncludeDirs: []string{"a/*"}},
			want:      "glob metacharacter",
			offending: "a/*",
		},
		{
			name:      "absolute include dir",
			spec:      DependencySpec{IncludeDirs: []string{"/abs/"}},
			want:      "absolute path",
			offending: "/abs/",
		},
		{
			name:      "parent traversal",
			spec:      DependencySpec{IncludeDirs: []string{"a/../b/"}},
			want:      "parent-traversal",
			offending: "a/../b/",
		},
		{
			name:      "missing trailing separator",
			spec:      DependencySpec{IncludeDirs: []string{"a"}},
			want:      "trailing",
			offending: "a",
		},
		{
			name: "exclude not a sub-path",
			spec: DependencySpec{
				IncludeDirs:  []string{"a/"},
				HardExcludes: []string{"b/x"},
			},
			want:      "not a sub-path",
			offending: "b/x",
		},
		{
			name: "exclude equals the root",
			spec: DependencySpec{
				IncludeDirs:  []string{"a/"},
				HardExcludes: []string{"a/"},
			},
			want:      "not a sub-path",
			offending: "a/",
		},
		{
			name: "hard excludes with multiple roots",
			spec: DependencySpec{
				IncludeDirs:  []string{"a/", "b/"},
				HardExcludes: []string{"a/x"},
			},
			want:      "exactly one include_dirs entry",
			offending: "a/",
		},
		{
			name: "soft excludes with multiple roots",
			spec: DependencySpec{
				IncludeDirs:  []string{"a/", "b/"},
				SoftExcludes: []string{"b/y"},
			},
			want:      "exactly one include_dirs entry",
			offending: "b/",
		},
		{
			name: "glob in soft exclude",
			spec: DependencySpec{
				IncludeDirs:  []string{"a/"},
				SoftExcludes: []string{"a/*.pyc"},
			},
			want:      "glob metacharacter",
			offending: "a/*.pyc",
		},
		{
			name:      "absolute exclude",
			spec:      DependencySpec{IncludeDirs: []string{"a/"}, HardExcludes: []string{"/a/x"}},
			want:      "absolute path",
			offending: "/a/x",
		},
		{
			name: "empty include dirs",
			spec: DependencySpec{},
			want: "must not be empty",
		},
		{
			name: "precise override with both forms",
			spec: DependencySpec{
				IncludeDirs: []string{"a/"},
				Precise: &PreciseOverride{
					Paths:    []string{"a/f"},
					Patterns: []string{"a/*"},
				},
			},
			want:      "exactly one of paths or patterns",
			offending: "a/f",
		},
		{
			name: "precise override empty",
			spec: DependencySpec{
				IncludeDirs: []string{"a/"},
				Precise:     &PreciseOverride{},
			},
			want: "both paths and patterns are empty",
		},
		{
			name: "precise literal path with traversal",
			spec: DependencySpec{
				IncludeDirs: []string{"a/"},
				Precise:     &PreciseOverride{Paths: []string{"a/../secret"}},
			},
			want:      "parent-traversal",
			offending: "a/../secret",
		},
		{
			name: "precise pattern absolute",
			spec: DependencySpec{
				IncludeDirs: []string{"a/"},
				Precise:     &PreciseOverride{Patterns: []string{"/etc/*"}},
			},
			want:      "absolute path",
			offending: "/etc/*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if err == nil {
				t.Fatalf("Validate accepted malformed spec %+v", tt.spec)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if tt.offending != "" && !strings.Contains(err.Error(), tt.offending) {
				t.Errorf("error %q does not name the offending value %q", err, tt.offending)
			}
		})
	}
}

func TestValidateAcceptsWellFormedSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec DependencySpec
	}{
		{
			name: "single directory",
			spec: DependencySpec{IncludeDirs: []string{"pkg/"}},
		},
		{
			name: "multiple directories without excludes",
			spec: DependencySpec{IncludeDirs: []string{"a/", "b/", "c/nested/"}},
		},
		{
			name: "single root with both exclude kinds",
			spec: DependencySpec{
				IncludeDirs:  []string{"pkg/"},
				HardExcludes: []string{"pkg/site-packages"},
				SoftExcludes: []string{"pkg/cache/", "pkg/lib/generated.py"},
			},
		},
		{
			name: "literal precise override",
			spec: DependencySpec{
				IncludeDirs: []string{"pkg/"},
				Precise:     &PreciseOverride{Paths: []string{"pkg/a.py", "pkg/b.py"}},
			},
		},
		{
			name: "pattern precise override",
			spec: DependencySpec{
				IncludeDirs: []string{"pkg/"},
				Precise:     &PreciseOverride{Patterns: []string{"pkg/*/[!_]*.py"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); err != nil {
				t.Fatalf("Validate rejected well-formed spec: %v", err)
			}
		})
	}
}

func TestValidateFailsFast(t *testing.T) {
	// Two violations: the glob on the first entry must be reported,
	// and the absolute second entry must not reach the error.
	spec := DependencySpec{IncludeDirs: []string{"a/*", "/abs/"}}
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "a/*") {
		t.Errorf("error %q does not name the first offending entry", err)
	}
	if strings.Contains(err.Error(), "/abs/") {
		t.Errorf("error %q reports a later entry; validation should abort at the first failure", err)
	}
}
