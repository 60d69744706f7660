package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var unblockCmd = &cobra.Command{
	Use:   "unblock <id>",
	Short: "Return a blocked artifact to ready",
	Long: `Return a blocked artifact to ready. With --from the dependency edge on
that blocker is removed first.

Unblocking refuses while incomplete blockers remain, since the next
completion cascade would not agree with the new state; --force overrides
when the dependency edge is stale on purpose.`,
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runUnblock,
}

func init() {
	unblockCmd.Flags().StringSlice("from", nil, "Blocker IDs to drop before unblocking")
	unblockCmd.Flags().Bool("force", false, "Unblock even with incomplete blockers")
	rootCmd.AddCommand(unblockCmd)
}

func runUnblock(cmd *cobra.Command, args []string) {
	fromArgs, _ := cmd.Flags().GetStringSlice("from")
	force, _ := cmd.Flags().GetBool("force")

	id, err := types.ParseID(args[0])
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	for _, fromArg := range fromArgs {
		blocker, err := types.ParseID(fromArg)
		if err != nil {
			FatalErrorRespectJSON("invalid blocker: %v", err)
		}
		if err := store.RemoveDependency(rootCtx, blocker, id); err != nil {
			FatalErrorRespectJSON("removing dependency on %s: %v", blocker, err)
		}
	}

	if !force {
		if waiting := incompleteBlockers(id); len(waiting) > 0 {
			FatalErrorWithHint(
				fmt.Sprintf("%s is still blocked by %s", id, strings.Join(waiting, ", ")),
				"Complete those first, drop the edges with --from, or pass --force")
		}
	}

	result := applyTransition(string(id), types.StateReady,
		lifecycle.WithTrigger(types.TriggerManual))
	reportTransition(result)
}

// incompleteBlockers returns the blockers of id that are not completed yet.
func incompleteBlockers(id types.ArtifactID) []string {
	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}
	artifact, err := snap.Get(id)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	var waiting []string
	for _, blockerID := range artifact.Relationships.BlockedBy {
		blocker, err := snap.Get(blockerID)
		if err != nil || blocker.CurrentState() != types.StateCompleted {
			waiting = append(waiting, string(blockerID))
		}
	}
	return waiting
}
