package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var readyCmd = &cobra.Command{
	Use:     "ready <id>",
	Short:   "Mark a draft artifact ready to work",
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runReady,
}

func init() {
	rootCmd.AddCommand(readyCmd)
}

func runReady(_ *cobra.Command, args []string) {
	result := applyTransition(args[0], types.StateReady,
		lifecycle.WithTrigger(types.TriggerManual))
	reportTransition(result)
}
