package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/timeparsing"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list [initiative]",
	Short: "List artifacts",
	Long: `List artifacts across the workspace, or within one initiative's subtree.

Cancelled and archived artifacts are hidden unless --all or an explicit
--state filter asks for them.`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: GroupArtifacts,
	Run:     runList,
}

func init() {
	listCmd.Flags().StringSlice("state", nil, "Filter by state (draft, ready, blocked, in_progress, in_review, completed, cancelled, archived)")
	listCmd.Flags().String("level", "", "Filter by level (initiative, milestone, issue)")
	listCmd.Flags().String("owner", "", "Filter by owner (substring match)")
	listCmd.Flags().IntP("priority", "p", 0, "Filter by priority")
	listCmd.Flags().String("since", "", "Only artifacts updated since (6h, 2d, 2026-01-15, \"last monday\")")
	listCmd.Flags().Bool("blocked", false, "Only blocked artifacts")
	listCmd.Flags().BoolP("all", "a", false, "Include cancelled and archived artifacts")
	listCmd.Flags().BoolP("watch", "w", false, "Re-render when the workspace changes")
	rootCmd.AddCommand(listCmd)
}

// listFilter holds the predicate built from list flags.
type listFilter struct {
	scope       types.ArtifactID // zero value means the whole workspace
	states      map[types.State]bool
	level       types.Level
	owner       string
	priority    int
	since       time.Time
	blockedOnly bool
	includeAll  bool
}

func (f listFilter) matches(a *types.Artifact) bool {
	if f.scope != "" && a.ID != f.scope && !a.ID.IsDescendantOf(f.scope) {
		return false
	}
	state := a.CurrentState()
	if len(f.states) > 0 {
		if !f.states[state] {
			return false
		}
	} else if !f.includeAll && (state == types.StateCancelled || state == types.StateArchived) {
		return false
	}
	if f.blockedOnly && state != types.StateBlocked {
		return false
	}
	if f.level != types.LevelNone && a.Level() != f.level {
		return false
	}
	if f.owner != "" && !strings.Contains(strings.ToLower(a.Owner), strings.ToLower(f.owner)) {
		return false
	}
	if f.priority != 0 && a.Priority != f.priority {
		return false
	}
	if !f.since.IsZero() && a.UpdatedAt().Before(f.since) {
		return false
	}
	return true
}

func buildListFilter(cmd *cobra.Command, args []string) listFilter {
	var filter listFilter

	if len(args) == 1 {
		id, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		filter.scope = id
	}

	stateArgs, _ := cmd.Flags().GetStringSlice("state")
	if len(stateArgs) > 0 {
		filter.states = make(map[types.State]bool, len(stateArgs))
		for _, s := range stateArgs {
			state := types.State(strings.TrimSpace(s))
			if !state.IsValid() {
				FatalErrorRespectJSON("unknown state %q", s)
			}
			filter.states[state] = true
		}
	}

	if levelArg, _ := cmd.Flags().GetString("level"); levelArg != "" {
		level, err := types.ParseLevel(levelArg)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		filter.level = level
	}

	if sinceArg, _ := cmd.Flags().GetString("since"); sinceArg != "" {
		since, err := timeparsing.ParseSince(sinceArg, time.Now())
		if err != nil {
			FatalErrorRespectJSON("parsing --since: %v", err)
		}
		filter.since = since
	}

	filter.owner, _ = cmd.Flags().GetString("owner")
	filter.priority, _ = cmd.Flags().GetInt("priority")
	filter.blockedOnly, _ = cmd.Flags().GetBool("blocked")
	filter.includeAll, _ = cmd.Flags().GetBool("all")
	return filter
}

func runList(cmd *cobra.Command, args []string) {
	watch, _ := cmd.Flags().GetBool("watch")
	filter := buildListFilter(cmd, args)

	if watch {
		if jsonOutput {
			FatalError("--watch and --json cannot be combined")
		}
		watchArtifacts(filter)
		return
	}

	matched := collectArtifacts(filter)

	if jsonOutput {
		summaries := make([]artifactSummary, 0, len(matched))
		for _, a := range matched {
			summaries = append(summaries, newArtifactSummary(a))
		}
		outputJSON(summaries)
		return
	}

	displayList(matched, false)
}

func collectArtifacts(filter listFilter) []*types.Artifact {
	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}
	var matched []*types.Artifact
	for _, a := range snap.All() {
		if filter.matches(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// displayList prints artifacts flat, in natural ID order. Issues indent
// under their milestone and milestones under their initiative, so the
// hierarchy reads without a separate tree walk.
func displayList(artifacts []*types.Artifact, clearFirst bool) {
	if clearFirst {
		// Clear screen and show header
		fmt.Print("\033[2J\033[H")
		fmt.Println(ui.RenderSeparator())
		fmt.Printf("Kodebase artifacts (%s)\n", time.Now().Format("15:04:05"))
		fmt.Println(ui.RenderSeparator())
		fmt.Println()
	}

	if len(artifacts) == 0 {
		fmt.Println("No artifacts found.")
		return
	}

	for _, a := range artifacts {
		depth := int(a.Level()) - int(types.LevelInitiative)
		if depth < 0 {
			depth = 0 // malformed IDs surface via kb validate, not a panic here
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), formatArtifactLine(a))
	}
	fmt.Printf("\n%d artifacts\n", len(artifacts))
}

// watchArtifacts re-renders the list whenever artifact files change.
func watchArtifacts(filter listFilter) {
	artifactsDir := filepath.Join(kodebaseDir, "artifacts")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		return
	}
	defer func() { _ = watcher.Close() }() // Best effort cleanup

	// fsnotify does not recurse: watch the artifacts directory plus each
	// initiative subdirectory, and pick up new subdirectories as they appear.
	if err := watcher.Add(artifactsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching directory: %v\n", err)
		return
	}
	entries, _ := os.ReadDir(artifactsDir)
	for _, e := range entries {
		if e.IsDir() {
			_ = watcher.Add(filepath.Join(artifactsDir, e.Name()))
		}
	}

	// Initial display
	displayList(collectArtifacts(filter), true)

	fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")

	// Handle Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Debounce timer
	var debounceTimer *time.Timer
	debounceDelay := 500 * time.Millisecond

	for {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
					continue
				}
				// Debounce rapid changes
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					displayList(collectArtifacts(filter), true)
					fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}
