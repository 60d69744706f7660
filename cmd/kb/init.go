package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/config"
	"github.com/kodebaseai/artifacts-sub003/internal/gitmeta"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a kodebase workspace",
	Long: `Initialize a kodebase workspace by creating a .kodebase/ directory with
an artifacts/ tree, a blueprints/ directory, and a commented config file.

Without a directory argument the workspace is created at the git repository
root when one is found, otherwise in the current directory.

Artifacts live as plain YAML files under .kodebase/artifacts/, one directory
per initiative, so the workspace diffs and merges like any other source.`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: GroupSetup,
	Run:     runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Reinitialize an existing workspace")
	rootCmd.AddCommand(initCmd)
}

type initResult struct {
	Workspace string `json:"workspace"`
	Created   bool   `json:"created"`
}

func runInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	// Without an explicit directory, anchor the workspace at the git repo
	// root so every subdirectory finds it via the walk-up discovery.
	root := "."
	if len(args) == 1 {
		root = args[0]
	} else if gitRoot, err := gitmeta.RepoRoot(); err == nil && gitRoot != "" {
		root = gitRoot
	}
	dir := filepath.Join(root, config.DirName)

	if _, err := os.Stat(dir); err == nil && !force {
		FatalErrorWithHint(fmt.Sprintf("workspace already exists at %s", dir),
			"Use --force to reinitialize")
	}

	for _, sub := range []string{"artifacts", "blueprints"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			FatalErrorRespectJSON("creating %s: %v", filepath.Join(dir, sub), err)
		}
	}

	if err := createConfigYaml(dir); err != nil {
		WarnError("failed to create config.yml: %v", err)
	}

	if jsonOutput {
		outputJSON(initResult{Workspace: dir, Created: true})
		return
	}

	check := color.New(color.FgGreen).Sprint("✓")
	fmt.Printf("%s Initialized kodebase workspace at %s\n", check, dir)
	fmt.Printf("%s Created artifacts/ and blueprints/\n", check)
	fmt.Println()
	fmt.Println("Next: create your first initiative with 'kb create initiative --title \"...\"'")
}

// createConfigYaml creates the config.yml template in the workspace directory
func createConfigYaml(dir string) error {
	configPath := filepath.Join(dir, "config.yml")

	// Skip if already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configTemplate := `# Kodebase Configuration File
# This file configures default behavior for all kb commands in this repository.
# All settings can also be set via environment variables (KB_* prefix)
# or overridden with command-line flags.

# Default actor for event audit trails (overridden by KB_ACTOR or --actor)
# actor: ""

# Enable JSON output by default
# json: false

# Disable emoji in terminal output (can also use KB_NO_EMOJI)
# no-emoji: false

# Default priority for new artifacts (1 highest .. 3 lowest)
# default-priority: 2

# Default owner for new artifacts when --owner is not given
# default-owner: ""

# How long mutating commands wait for the workspace lock
# lock-timeout: "10s"

# Enable OpenTelemetry export (can also use KB_OTEL_ENABLED)
# otel-enabled: false
`

	return os.WriteFile(configPath, []byte(configTemplate), 0o644)
}
