package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/depgraph"
	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check workspace consistency",
	Long: `Check the whole workspace: every artifact's structure, every event log
replayed against the transition table, and the dependency graph's
referential integrity, symmetry, and acyclicity.

Exits 1 when anything is wrong, so it slots into CI next to the linters.`,
	GroupID: GroupGraph,
	Run:     runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateFinding is one problem found in the workspace.
type validateFinding struct {
	Kind    string `json:"kind"` // artifact, lifecycle, graph, orphaned, trigger
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type validateResult struct {
	Artifacts int               `json:"artifacts"`
	Findings  []validateFinding `json:"findings"`
	Warnings  []validateFinding `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) {
	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}

	result := validateResult{Artifacts: snap.Len()}

	for _, a := range snap.All() {
		if err := a.Validate(); err != nil {
			result.Findings = append(result.Findings, validateFinding{
				Kind: "artifact", ID: string(a.ID), Message: err.Error(),
			})
		}
		result.Findings = append(result.Findings, replayEvents(a)...)

		// Unknown triggers round-trip fine and cascade treats them as
		// completion-class, so they warn rather than fail.
		for i, ev := range a.Events {
			if ev.Trigger != "" && !ev.Trigger.IsValid() {
				result.Warnings = append(result.Warnings, validateFinding{
					Kind: "trigger", ID: string(a.ID),
					Message: fmt.Sprintf("%s: event %d has unrecognized trigger %q", a.ID, i, ev.Trigger),
				})
			}
		}
	}

	g := snap.Graph()
	if err := depgraph.Validate(g); err != nil {
		var verr *depgraph.ValidationError
		if errors.As(err, &verr) {
			for _, finding := range verr.Findings() {
				result.Findings = append(result.Findings, validateFinding{
					Kind: "graph", Message: finding.Error(),
				})
			}
		} else {
			result.Findings = append(result.Findings, validateFinding{Kind: "graph", Message: err.Error()})
		}
	}

	// Blocked artifacts nothing can ever unblock are legal but almost
	// always a mistake, so they surface as warnings, not failures.
	for _, id := range depgraph.Orphaned(g, snap.States()) {
		result.Warnings = append(result.Warnings, validateFinding{
			Kind: "orphaned", ID: string(id),
			Message: fmt.Sprintf("%s is blocked but no remaining blocker can complete", id),
		})
	}

	if jsonOutput {
		outputJSON(result)
		if len(result.Findings) > 0 {
			os.Exit(1)
		}
		return
	}

	if len(result.Findings) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %d artifacts, no problems found\n", green("✓"), result.Artifacts)
	} else {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("%s %d problem(s) in %d artifacts:\n", red("✗"), len(result.Findings), result.Artifacts)
		for _, finding := range result.Findings {
			fmt.Printf("  [%s] %s\n", finding.Kind, finding.Message)
		}
	}
	for _, warning := range result.Warnings {
		WarnError("%s", warning.Message)
	}
	if len(result.Findings) > 0 {
		os.Exit(1)
	}
}

// replayEvents walks an artifact's event log through the transition table.
// The log is the source of truth for state, so an illegal pair means the
// file was edited by hand or written by older tooling.
func replayEvents(a *types.Artifact) []validateFinding {
	var findings []validateFinding
	if len(a.Events) == 0 {
		return findings
	}
	if first := a.Events[0].State; first != types.StateDraft {
		findings = append(findings, validateFinding{
			Kind: "lifecycle", ID: string(a.ID),
			Message: fmt.Sprintf("%s: log opens with %s, want draft", a.ID, first),
		})
	}
	for i := 1; i < len(a.Events); i++ {
		from, to := a.Events[i-1].State, a.Events[i].State
		if !lifecycle.CanTransition(from, to) {
			findings = append(findings, validateFinding{
				Kind: "lifecycle", ID: string(a.ID),
				Message: fmt.Sprintf("%s: event %d makes an illegal %s → %s transition", a.ID, i, from, to),
			})
		}
	}
	return findings
}
