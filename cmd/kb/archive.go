package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var archiveCmd = &cobra.Command{
	Use:     "archive <id>",
	Short:   "Archive a cancelled artifact",
	Long:    `Archive a cancelled artifact. Archived is terminal: the artifact stays on disk for history but no transition can leave it.`,
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(_ *cobra.Command, args []string) {
	result := applyTransition(args[0], types.StateArchived,
		lifecycle.WithTrigger(types.TriggerManual))
	reportTransition(result)
}
