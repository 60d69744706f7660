package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/gitmeta"
	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start work on a ready artifact",
	Long: `Start work on a ready artifact, moving it to in_progress. Ancestors
still sitting in ready follow along through the progress cascade.

With --branch the event records the branch_created trigger and the current
git branch name, tying the artifact to where the work actually lives.`,
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runStart,
}

func init() {
	startCmd.Flags().Bool("branch", false, "Record the current git branch on the event")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) {
	withBranch, _ := cmd.Flags().GetBool("branch")

	opts := []lifecycle.EventOption{lifecycle.WithTrigger(types.TriggerWorkStarted)}
	if withBranch {
		opts = []lifecycle.EventOption{lifecycle.WithTrigger(types.TriggerBranchCreated)}
		branch, err := gitmeta.CurrentBranch()
		if err != nil {
			WarnError("could not resolve git branch: %v", err)
		} else {
			opts = append(opts, lifecycle.WithMetadata("branch", branch))
		}
	}

	result := applyTransition(args[0], types.StateInProgress, opts...)
	reportTransition(result)
}
