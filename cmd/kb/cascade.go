package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/cascade"
	"github.com/kodebaseai/artifacts-sub003/internal/telemetry"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

var cascadeCmd = &cobra.Command{
	Use:   "cascade <id>",
	Short: "Run the cascade for an artifact explicitly",
	Long: `Run the combined cascade for an artifact, as if its latest event had just
been appended. Lifecycle commands do this automatically; the explicit form
re-settles a workspace after hand edits or interrupted runs.

Cascades are idempotent: a settled workspace produces no actions.`,
	Args:    cobra.ExactArgs(1),
	GroupID: GroupGraph,
	Run:     runCascade,
}

func init() {
	cascadeCmd.Flags().String("cause", "", "Trigger to route by (default: the artifact's last trigger)")
	cascadeCmd.Flags().Bool("dry-run", false, "Print actions without appending them")
	rootCmd.AddCommand(cascadeCmd)
}

type cascadeRunResult struct {
	ID       string           `json:"id"`
	Cause    string           `json:"cause"`
	DryRun   bool             `json:"dry_run,omitempty"`
	Actions  []cascade.Action `json:"actions"`
	Warnings []string         `json:"warnings,omitempty"`
}

func runCascade(cmd *cobra.Command, args []string) {
	causeArg, _ := cmd.Flags().GetString("cause")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	id, err := types.ParseID(args[0])
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}
	artifact, err := snap.Get(id)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	cause := types.Trigger(causeArg)
	if cause == "" {
		last, ok := artifact.LastEvent()
		if !ok {
			FatalErrorRespectJSON("%s has no events to cascade from", id)
		}
		cause = last.Trigger
	}

	run := cascade.New(snap).Run(id, cause)

	result := cascadeRunResult{
		ID:     string(id),
		Cause:  string(cause),
		DryRun: dryRun,
	}
	for _, branchErr := range run.Errors {
		result.Warnings = append(result.Warnings, branchErr.Error())
	}

	if dryRun {
		result.Actions = run.Actions
	} else {
		for _, action := range run.Actions {
			if err := store.AppendEvent(rootCtx, action.ID, action.Event); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("writing %s: %v", action.ID, err))
				continue
			}
			result.Actions = append(result.Actions, action)
		}
		telemetry.RecordCascade(rootCtx, string(cause), len(result.Actions), len(run.Errors))
	}

	if jsonOutput {
		outputJSON(result)
		return
	}

	if len(result.Actions) == 0 {
		fmt.Printf("Nothing to cascade for %s (cause %s)\n", id, cause)
	} else {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Printf("%s %d action(s) for %s (cause %s):\n", verb, len(result.Actions), id, cause)
		for _, action := range result.Actions {
			fmt.Printf("  %s %s → %s (%s)\n",
				ui.StateIcon(action.Event.State), action.ID, action.Event.State, action.Event.Trigger)
		}
	}
	for _, warning := range result.Warnings {
		WarnError("%s", warning)
	}
}
