package main

import (
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var completeCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "Complete artifacts that passed review",
	Long: `Complete one or more in-review artifacts. Each completion runs the
combined cascade, so parents whose children are now all completed move to
review and dependents whose blockers are all completed become ready.

The default trigger is pr_merged; pass --trigger manual for work that
completed outside a pull request.`,
	Args:    cobra.MinimumNArgs(1),
	GroupID: GroupWorkflow,
	Run:     runComplete,
}

func init() {
	completeCmd.Flags().String("trigger", string(types.TriggerPRMerged), "Trigger recorded on the event")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) {
	triggerArg, _ := cmd.Flags().GetString("trigger")
	trigger := types.Trigger(triggerArg)
	if !trigger.IsValid() {
		FatalErrorRespectJSON("unknown trigger %q", triggerArg)
	}

	results := make([]transitionResult, 0, len(args))
	for _, idArg := range args {
		results = append(results, applyTransition(idArg, types.StateCompleted,
			lifecycle.WithTrigger(trigger)))
	}

	if jsonOutput {
		outputJSON(results)
		return
	}
	for _, result := range results {
		reportTransition(result)
	}
}
