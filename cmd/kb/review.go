package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var reviewCmd = &cobra.Command{
	Use:     "review <id>",
	Short:   "Send an in-progress artifact to review",
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) {
	result := applyTransition(args[0], types.StateInReview,
		lifecycle.WithTrigger(types.TriggerManual))
	reportTransition(result)
}
