package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/depgraph"
	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	Short:   "Manage dependencies",
	GroupID: GroupGraph,
}

var depAddCmd = &cobra.Command{
	Use:   "add <id> <blocker-id>",
	Short: "Add a dependency",
	Long: `Record that the first artifact is blocked by the second. The edge is
written on both sides so blocks and blocked_by stay symmetric. Adds that
would close a dependency cycle are refused.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		blocked, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		blocker, err := types.ParseID(args[1])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if err := addDependencyChecked(blocker, blocked); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"status":     "added",
				"id":         string(blocked),
				"blocked_by": string(blocker),
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added dependency: %s is blocked by %s\n", green("✓"), blocked, blocker)
	},
}

var depRemoveCmd = &cobra.Command{
	Use:     "remove <id> <blocker-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a dependency",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		blocked, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		blocker, err := types.ParseID(args[1])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if err := store.RemoveDependency(rootCtx, blocker, blocked); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"status":     "removed",
				"id":         string(blocked),
				"blocked_by": string(blocker),
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Removed dependency: %s no longer blocked by %s\n", green("✓"), blocked, blocker)
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List an artifact's dependencies",
	Long: `List the dependency neighborhood of one artifact: what it waits on
(including transitively) and what waits on it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		snap, err := store.Snapshot(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("loading workspace: %v", err)
		}
		if _, err := snap.Get(id); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		g := snap.Graph()
		direct := g[id].BlockedBy
		transitive := depgraph.TransitiveDependencies(g, id)
		dependents := depgraph.Dependents(g, id)

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"id":         string(id),
				"blocked_by": idStrings(direct),
				"transitive": idStrings(transitive),
				"dependents": idStrings(dependents),
			})
			return
		}

		if len(direct) == 0 && len(dependents) == 0 {
			fmt.Printf("%s has no dependencies.\n", id)
			return
		}
		if len(direct) > 0 {
			fmt.Printf("Blocked by (%d):\n", len(direct))
			for _, dep := range direct {
				printDepLine(snap, dep)
			}
		}
		if len(transitive) > len(direct) {
			fmt.Printf("Transitively waiting on (%d):\n", len(transitive))
			for _, dep := range transitive {
				printDepLine(snap, dep)
			}
		}
		if len(dependents) > 0 {
			fmt.Printf("Blocks (%d):\n", len(dependents))
			for _, dep := range dependents {
				printDepLine(snap, dep)
			}
		}
	},
}

func printDepLine(snap *storage.Snapshot, id types.ArtifactID) {
	if a, err := snap.Get(id); err == nil {
		fmt.Printf("  %s\n", formatArtifactLine(a))
		return
	}
	fmt.Printf("  %s (missing)\n", id)
}

// addDependencyChecked adds blocker as a dependency of blocked after
// verifying the edge would not close a cycle. The check runs on the current
// snapshot: a cycle through the new edge exists exactly when the blocker
// already waits on the blocked artifact, directly or transitively.
func addDependencyChecked(blocker, blocked types.ArtifactID) error {
	if blocker == blocked {
		return fmt.Errorf("%s cannot depend on itself", blocked)
	}
	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		return fmt.Errorf("loading workspace: %w", err)
	}
	g := snap.Graph()
	for _, upstream := range depgraph.TransitiveDependencies(g, blocker) {
		if upstream == blocked {
			cycle := &depgraph.CycleError{Members: []types.ArtifactID{blocked, blocker}}
			return fmt.Errorf("adding the edge would close a cycle: %w", cycle)
		}
	}
	return store.AddDependency(rootCtx, blocker, blocked)
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depListCmd)
	rootCmd.AddCommand(depCmd)
}
