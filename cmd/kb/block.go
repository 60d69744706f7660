package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var blockCmd = &cobra.Command{
	Use:   "block <id> --reason <why>",
	Short: "Block a draft artifact on its dependencies",
	Long: `Block a draft artifact. A reason is always required; --on records the
blocking dependency edges at the same time:

  kb block A.2.3 --on A.2.1 --on A.2.2 --reason "needs the schema work"`,
	Args:    cobra.ExactArgs(1),
	GroupID: GroupWorkflow,
	Run:     runBlock,
}

func init() {
	blockCmd.Flags().StringSlice("on", nil, "Blocker IDs to add as dependencies")
	blockCmd.Flags().String("reason", "", "Why the artifact is blocked (required)")
	rootCmd.AddCommand(blockCmd)
}

func runBlock(cmd *cobra.Command, args []string) {
	onArgs, _ := cmd.Flags().GetStringSlice("on")
	reason, _ := cmd.Flags().GetString("reason")

	if strings.TrimSpace(reason) == "" {
		FatalErrorWithHint("--reason is required", "Blocked events must say what they are waiting on")
	}

	id, err := types.ParseID(args[0])
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	for _, onArg := range onArgs {
		blocker, err := types.ParseID(onArg)
		if err != nil {
			FatalErrorRespectJSON("invalid blocker: %v", err)
		}
		if err := addDependencyChecked(blocker, id); err != nil {
			FatalErrorRespectJSON("adding dependency on %s: %v", blocker, err)
		}
	}

	result := applyTransition(string(id), types.StateBlocked,
		lifecycle.WithTrigger(types.TriggerManual),
		lifecycle.WithReason(reason))
	reportTransition(result)
}
