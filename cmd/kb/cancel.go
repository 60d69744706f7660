package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var cancelCmd = &cobra.Command{
	Use:     "cancel <id>",
	Short:   "Cancel an artifact",
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runCancel,
}

func init() {
	cancelCmd.Flags().String("reason", "", "Why the work is cancelled")
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) {
	reason, _ := cmd.Flags().GetString("reason")

	opts := []lifecycle.EventOption{lifecycle.WithTrigger(types.TriggerManual)}
	if reason != "" {
		opts = append(opts, lifecycle.WithReason(reason))
	}

	result := applyTransition(args[0], types.StateCancelled, opts...)
	reportTransition(result)
}
