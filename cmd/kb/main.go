package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/config"
	"github.com/kodebaseai/artifacts-sub003/internal/gitmeta"
	"github.com/kodebaseai/artifacts-sub003/internal/lockfile"
	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/storage/yamlstore"
	"github.com/kodebaseai/artifacts-sub003/internal/telemetry"
)

var (
	// kodebaseDir is the workspace directory (.kodebase). Set by --dir or
	// discovered by walking up from the working directory.
	kodebaseDir string
	// actor is the identity recorded on appended events (from --actor flag)
	actor      string
	jsonOutput bool

	// store is the open workspace store, nil for commands that run without one
	store storage.Store
	// workLock serializes mutating commands; readers never take it
	workLock *lockfile.Lock

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

// Command group IDs for help organization
const (
	GroupArtifacts = "artifacts"
	GroupWorkflow  = "workflow"
	GroupGraph     = "graph"
	GroupSetup     = "setup"
)

// noWorkspaceCommands lists commands that run without an open workspace.
// init creates the workspace itself; version and completion never touch one.
var noWorkspaceCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

// mutatingCommands lists commands that append events or rewrite artifact
// files. They hold the workspace lock for the duration of the run. Keys are
// cobra command names, so "add" and "remove" cover the dep subcommands.
var mutatingCommands = map[string]bool{
	"create":   true,
	"ready":    true,
	"start":    true,
	"review":   true,
	"complete": true,
	"block":    true,
	"unblock":  true,
	"cancel":   true,
	"reopen":   true,
	"archive":  true,
	"cascade":  true,
	"add":      true,
	"remove":   true,
}

func isMutatingCommand(cmd *cobra.Command) bool {
	return mutatingCommands[cmd.Name()]
}

// getActorWithGit returns the actor for event audit trails.
// Priority: --actor flag > KB_ACTOR env / config actor > git identity > $USER > "unknown"
// This gives developers a sensible default: their git name and email are used
// unless explicitly overridden.
func getActorWithGit() string {
	// If actor is already set (from --actor flag), use it
	if actor != "" {
		return actor
	}

	// Config covers both KB_ACTOR / KODEBASE_ACTOR env vars and the
	// workspace config file
	if configActor := config.GetString("actor"); configActor != "" {
		return configActor
	}

	// Git identity ("Name (email)") is the natural default for a
	// repo-resident tool
	if identity := gitmeta.Identity(); identity != "" {
		return identity
	}

	// Fall back to system username
	if user := os.Getenv("USER"); user != "" {
		return user
	}

	return "unknown"
}

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	// Register persistent flags
	rootCmd.PersistentFlags().StringVar(&kodebaseDir, "dir", "", "Workspace directory (default: auto-discover .kodebase)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor recorded on events (default: $KB_ACTOR, git identity, $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	// Command groups for organized help output
	rootCmd.AddGroup(&cobra.Group{ID: GroupArtifacts, Title: "Working With Artifacts:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupWorkflow, Title: "Lifecycle & Workflow:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupGraph, Title: "Dependencies & Structure:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup & Configuration:"})
}

var rootCmd = &cobra.Command{
	Use:   "kb",
	Short: "kb - Work artifact tracker",
	Long: `Initiatives, milestones, and issues tracked as YAML files in your repo.
Every artifact carries an append-only event log; state is derived, never stored.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("kb version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// --- Phase 1: Universal setup (runs for every command) ---
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		if err := telemetry.Init(rootCtx, "kb", Version); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry init failed: %v\n", err)
		}
		telemetry.RecordCommand(rootCtx, cmd.Name())

		// Config can default --json on (json: true or KB_JSON); an explicit
		// flag always wins.
		if !cmd.Root().PersistentFlags().Changed("json") && config.GetBool("json") {
			jsonOutput = true
		}

		// --- Phase 2: Early exit for commands that run without a workspace ---
		if noWorkspaceCommands[cmd.Name()] {
			return
		}

		// --- Phase 3: Workspace discovery ---
		if kodebaseDir == "" {
			kodebaseDir = config.FindDir()
		}
		if kodebaseDir == "" {
			FatalErrorWithHint("no .kodebase workspace found", "Run 'kb init' to create one")
		}

		// --- Phase 4: Lock for mutating commands ---
		if isMutatingCommand(cmd) {
			lockCtx, cancel := context.WithTimeout(rootCtx, config.GetDuration("lock-timeout"))
			defer cancel()
			lock, err := lockfile.Acquire(lockCtx, kodebaseDir)
			if err != nil {
				FatalErrorRespectJSON("acquiring workspace lock: %v", err)
			}
			workLock = lock
		}

		// --- Phase 5: Store ---
		ys, err := yamlstore.Open(kodebaseDir)
		if err != nil {
			FatalErrorRespectJSON("opening workspace: %v", err)
		}
		store = telemetry.WrapStore(ys)

		// --- Phase 6: Actor resolution ---
		actor = getActorWithGit()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
		if workLock != nil {
			if err := workLock.Release(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: releasing workspace lock: %v\n", err)
			}
		}
		telemetry.Shutdown(context.Background())

		// Cancel the signal context to clean up resources
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
