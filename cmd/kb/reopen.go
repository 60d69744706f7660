package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var reopenCmd = &cobra.Command{
	Use:     "reopen <id>",
	Short:   "Reopen a cancelled artifact as a draft",
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runReopen,
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}

func runReopen(_ *cobra.Command, args []string) {
	result := applyTransition(args[0], types.StateDraft,
		lifecycle.WithTrigger(types.TriggerManual))
	reportTransition(result)
}
