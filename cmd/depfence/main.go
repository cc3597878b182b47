// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// depfence resolves external dependency groups and plans their
// read-only bind mounts for bubblewrap build sandboxes.
//
// Usage:
//
//	depfence resolve [flags] [group...]
//	depfence plan [flags] <group...> -- <command> [args...]
//	depfence validate [flags]
//	depfence show <descriptor-file>
//	depfence version
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/depfence/depgroup"
	"github.com/bureau-foundation/depfence/lib/buildcfg"
	"github.com/bureau-foundation/depfence/lib/codec"
	"github.com/bureau-foundation/depfence/lib/fingerprint"
	"github.com/bureau-foundation/depfence/lib/version"
	"github.com/bureau-foundation/depfence/sandbox"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Set up logging.
	logLevel := slog.LevelInfo
	if os.Getenv("DEPFENCE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "resolve":
		err = resolveCmd(args, logger)
	case "plan":
		err = planCmd(args, logger)
	case "validate":
		err = validateCmd(args, logger)
	case "show":
		err = showCmd(args)
	case "version", "--version", "-v":
		if len(args) > 0 && args[0] == "--full" {
			fmt.Printf("depfence %s\n", version.Full())
		} else {
			fmt.Printf("depfence %s\n", version.Info())
		}
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`depfence - Resolve external dependency groups for sandboxed builds

USAGE
    depfence <command> [flags] [-- <args>...]

COMMANDS
    resolve   Resolve dependency groups from the manifest
    plan      Print the bwrap invocation for a sandboxed command
    validate  Validate manifest, profile, and host prerequisites
    show      Print a stored descriptor file in diagnostic form
    version   Show version (--full adds Go and platform details)

EXAMPLES
    # Enumerate every file in the "python-deps" group
    depfence resolve python-deps

    # Same group as a directory reference with exclude metadata
    depfence resolve --fuzzy-deps python-deps

    # Store a descriptor for the host build system's cache
    depfence resolve --output=python-deps.desc python-deps

    # See the exact bwrap command a build action would run under
    depfence plan python-deps -- python setup.py build

ENVIRONMENT
    DEPFENCE_OVERRIDE  Per-user config override file
                       (default: ~/.config/depfence/override.jsonc)
    DEPFENCE_DEBUG     Enable debug logging

For more information, see: https://github.com/bureau-foundation/depfence
`)
}

// loadConfig builds the layered configuration for a subcommand:
// defaults, then the per-user override file, then the flags registered
// on fs. Callers parse fs and then call Finalize.
func loadConfig(fs *pflag.FlagSet) (*buildcfg.Config, error) {
	cfg := buildcfg.Default()
	if err := cfg.ApplyOverrideFile(buildcfg.OverridePath()); err != nil {
		return nil, err
	}
	cfg.RegisterFlags(fs)
	return cfg, nil
}

// selectGroups returns the requested group names, defaulting to every
// group in the manifest when none are named.
func selectGroups(manifest *depgroup.Manifest, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return manifest.Names(), nil
	}
	for _, name := range requested {
		if _, err := manifest.Spec(name); err != nil {
			return nil, err
		}
	}
	return requested, nil
}

// resolveOutput is the JSON shape of one resolved group.
type resolveOutput struct {
	Group       string                    `json:"group"`
	Mode        string                    `json:"mode"`
	Files       []string                  `json:"files,omitempty"`
	Dirs        []string                  `json:"dirs,omitempty"`
	Excludes    *depgroup.ExcludeMetadata `json:"excludes,omitempty"`
	Tags        []string                  `json:"tags,omitempty"`
	Fingerprint string                    `json:"fingerprint"`
}

// resolveCmd implements the "resolve" command.
func resolveCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("resolve", pflag.ExitOnError)

	asJSON := fs.Bool("json", false, "emit JSON instead of human-readable output")
	output := fs.String("output", "", "write a descriptor file instead of printing (single group only)")
	showFingerprint := fs.Bool("fingerprint", false, "print only the group fingerprint")

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	fs.Usage = func() {
		fmt.Print(`depfence resolve - Resolve dependency groups from the manifest

USAGE
    depfence resolve [flags] [group...]

With no group arguments, every group in the manifest is resolved.

FLAGS
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	manifest, err := depgroup.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}
	groups, err := selectGroups(manifest, fs.Args())
	if err != nil {
		return err
	}
	if *output != "" && len(groups) != 1 {
		return fmt.Errorf("--output requires exactly one group, got %d", len(groups))
	}

	resolver := depgroup.NewResolver(cfg.WorkspaceRoot, cfg.Mode())
	resolver.SetLogger(logger)

	for _, name := range groups {
		spec, err := manifest.Spec(name)
		if err != nil {
			return err
		}
		resolved, err := resolver.Resolve(spec)
		if err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}

		switch {
		case *output != "":
			if err := codec.WriteFile(*output, resolved); err != nil {
				return fmt.Errorf("group %q: %w", name, err)
			}
			logger.Info("wrote descriptor", "group", name, "path", *output,
				"fingerprint", fingerprint.Group(resolved))

		case *showFingerprint:
			fmt.Printf("%s  %s\n", fingerprint.Group(resolved), name)

		case *asJSON:
			if err := printResolvedJSON(name, resolved); err != nil {
				return err
			}

		default:
			printResolved(name, resolved)
		}
	}
	return nil
}

func printResolvedJSON(name string, resolved *depgroup.ResolvedDependency) error {
	out := resolveOutput{
		Group:       name,
		Mode:        resolved.Mode.String(),
		Files:       resolved.Files,
		Dirs:        resolved.Dirs,
		Tags:        resolved.Tags,
		Fingerprint: fingerprint.Group(resolved).String(),
	}
	if resolved.Mode == depgroup.ModeFuzzy {
		out.Excludes = &resolved.Excludes
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding group %q: %w", name, err)
	}
	fmt.Println(string(encoded))
	return nil
}

func printResolved(name string, resolved *depgroup.ResolvedDependency) {
	fmt.Printf("%s (%s)\n", name, resolved.Mode)
	switch resolved.Mode {
	case depgroup.ModePrecise:
		for _, file := range resolved.Files {
			fmt.Printf("  %s\n", file)
		}
		fmt.Printf("  %d files\n", len(resolved.Files))
	case depgroup.ModeFuzzy:
		for _, dir := range resolved.Dirs {
			fmt.Printf("  %s/\n", dir)
		}
		for _, exclude := range resolved.Excludes.Hard {
			fmt.Printf("  exclude (hard): %s\n", exclude)
		}
		for _, exclude := range resolved.Excludes.Soft {
			fmt.Printf("  exclude (soft): %s\n", exclude)
		}
		for _, tag := range resolved.Tags {
			fmt.Printf("  tag: %s\n", tag)
		}
	}
	fmt.Printf("  fingerprint: %s\n", fingerprint.Group(resolved))
}

// planCmd implements the "plan" command.
func planCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("plan", pflag.ExitOnError)

	destRoot := fs.String("dest", "/workspace", "workspace mount point inside the sandbox")
	var extraBinds []string
	var extraEnvs []string
	fs.StringArrayVar(&extraBinds, "bind", nil, "extra bind mount (source:dest[:mode]), repeatable")
	fs.StringArrayVar(&extraEnvs, "env", nil, "extra environment variable (KEY=VALUE), repeatable")

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	fs.Usage = func() {
		fmt.Print(`depfence plan - Print the bwrap invocation for a sandboxed command

USAGE
    depfence plan [flags] <group...> -- <command> [args...]

FLAGS
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	// Everything before "--" names dependency groups; everything after
	// is the command to run inside the sandbox.
	rest := fs.Args()
	dash := fs.ArgsLenAtDash()
	if dash < 0 || dash == len(rest) {
		return fmt.Errorf("command is required after --")
	}
	groupArgs, command := rest[:dash], rest[dash:]

	manifest, err := depgroup.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}
	groups, err := selectGroups(manifest, groupArgs)
	if err != nil {
		return err
	}

	resolver := depgroup.NewResolver(cfg.WorkspaceRoot, cfg.Mode())
	resolver.SetLogger(logger)

	var depMounts []sandbox.Mount
	for _, name := range groups {
		spec, err := manifest.Spec(name)
		if err != nil {
			return err
		}
		resolved, err := resolver.Resolve(spec)
		if err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
		mounts, err := sandbox.DependencyMounts(resolved, cfg.WorkspaceRoot, *destRoot)
		if err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
		depMounts = append(depMounts, mounts...)
	}

	profile, err := loadProfile(cfg, *destRoot)
	if err != nil {
		return err
	}

	extraEnvMap := make(map[string]string)
	for _, env := range extraEnvs {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid env format %q: must be KEY=VALUE", env)
		}
		extraEnvMap[parts[0]] = parts[1]
	}

	builder := sandbox.NewBwrapBuilder()
	bwrapArgs, err := builder.Build(&sandbox.BwrapOptions{
		Profile:          profile,
		DependencyMounts: depMounts,
		ExtraBinds:       extraBinds,
		ExtraEnv:         extraEnvMap,
		Command:          command,
	})
	if err != nil {
		return err
	}

	bwrapPath, err := sandbox.BwrapPath()
	if err != nil {
		// A missing bwrap is fine for a dry-run plan.
		bwrapPath = "bwrap"
	}

	fmt.Println(strings.Join(append([]string{bwrapPath}, bwrapArgs...), " \\\n  "))
	return nil
}

// loadProfile loads the configured sandbox profile, or synthesizes a
// minimal one when no profile path is configured. Variable expansion
// maps ${WORKSPACE} to the in-sandbox workspace root: profile authors
// write paths as the sandboxed process will see them.
func loadProfile(cfg *buildcfg.Config, destRoot string) (*sandbox.Profile, error) {
	if cfg.ProfilePath == "" {
		return &sandbox.Profile{
			Name:        "default",
			Description: "implicit profile: dependency mounts only",
			Namespaces: sandbox.NamespaceConfig{
				PID: true, Net: true, IPC: true, UTS: true, User: true,
			},
			Security: sandbox.SecurityConfig{
				NewSession:    true,
				DieWithParent: true,
			},
		}, nil
	}

	profile, err := sandbox.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	return sandbox.DefaultVariables(destRoot).ExpandProfile(profile), nil
}

// validateCmd implements the "validate" command.
func validateCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("validate", pflag.ExitOnError)

	destRoot := fs.String("dest", "/workspace", "workspace mount point inside the sandbox")

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	fs.Usage = func() {
		fmt.Print(`depfence validate - Validate manifest, profile, and host prerequisites

USAGE
    depfence validate [flags]

FLAGS
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	// Load errors are reported through the validator rather than
	// aborting, so a broken manifest and a broken profile both show up
	// in one run.
	manifest, err := depgroup.LoadManifest(cfg.ManifestPath)
	if err != nil {
		logger.Debug("manifest load failed", "path", cfg.ManifestPath, "error", err)
	}
	profile, err := loadProfile(cfg, *destRoot)
	if err != nil {
		logger.Debug("profile load failed", "path", cfg.ProfilePath, "error", err)
	}

	validator := sandbox.NewValidator()
	validator.ValidateAll(profile, cfg.WorkspaceRoot, manifest)
	validator.PrintResults(os.Stdout)

	if validator.HasErrors() {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// showCmd implements the "show" command: print a stored descriptor
// file in CBOR diagnostic notation.
func showCmd(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("descriptor file path required")
	}
	path := args[0]

	var resolved depgroup.ResolvedDependency
	if err := codec.ReadFile(path, &resolved); err != nil {
		return err
	}

	printResolved(path, &resolved)

	// The raw diagnostic form is useful when the descriptor was written
	// by a different depfence version and fields do not line up.
	if os.Getenv("DEPFENCE_DEBUG") != "" {
		encoded, err := codec.Marshal(&resolved)
		if err != nil {
			return err
		}
		diag, err := codec.Diagnose(encoded)
		if err != nil {
			return err
		}
		fmt.Printf("  cbor: %s\n", diag)
	}
	return nil
}
