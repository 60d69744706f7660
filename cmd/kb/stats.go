package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/depgraph"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show workspace statistics",
	GroupID: GroupArtifacts,
	Run:     runStats,
}

func init() {
	statsCmd.Flags().IntP("top", "n", 5, "How many top blockers to show")
	rootCmd.AddCommand(statsCmd)
}

type blockerStat struct {
	ID         string `json:"id"`
	Dependents int    `json:"dependents"`
}

type statsResult struct {
	Total       int            `json:"total"`
	ByState     map[string]int `json:"by_state"`
	ByLevel     map[string]int `json:"by_level"`
	TopBlockers []blockerStat  `json:"top_blockers,omitempty"`
	// AvgHoursToComplete averages in_progress to completed across all
	// completed artifacts, from their event logs.
	AvgHoursToComplete float64 `json:"avg_hours_to_complete,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) {
	topN, _ := cmd.Flags().GetInt("top")

	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}

	result := statsResult{
		Total:   snap.Len(),
		ByState: make(map[string]int),
		ByLevel: make(map[string]int),
	}

	var totalHours float64
	var completedCount int
	for _, a := range snap.All() {
		result.ByState[string(a.CurrentState())]++
		result.ByLevel[a.Level().String()]++
		if hours, ok := hoursToComplete(a); ok {
			totalHours += hours
			completedCount++
		}
	}
	if completedCount > 0 {
		result.AvgHoursToComplete = totalHours / float64(completedCount)
	}

	// Bottlenecks: incomplete artifacts ranked by how many live artifacts
	// wait on them.
	g := snap.Graph()
	for _, a := range snap.All() {
		if a.CurrentState() == types.StateCompleted {
			continue
		}
		count := 0
		for _, dep := range depgraph.Dependents(g, a.ID) {
			if d, err := snap.Get(dep); err == nil && !d.IsTerminal() {
				count++
			}
		}
		if count > 0 {
			result.TopBlockers = append(result.TopBlockers, blockerStat{ID: string(a.ID), Dependents: count})
		}
	}
	sort.SliceStable(result.TopBlockers, func(i, j int) bool {
		return result.TopBlockers[i].Dependents > result.TopBlockers[j].Dependents
	})
	if len(result.TopBlockers) > topN {
		result.TopBlockers = result.TopBlockers[:topN]
	}

	if jsonOutput {
		outputJSON(result)
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("\n%s Kodebase Statistics:\n\n", cyan("📊"))
	fmt.Printf("Total Artifacts:   %d\n", result.Total)
	fmt.Printf("  Initiatives:     %d\n", result.ByLevel["initiative"])
	fmt.Printf("  Milestones:      %d\n", result.ByLevel["milestone"])
	fmt.Printf("  Issues:          %d\n", result.ByLevel["issue"])
	fmt.Println()
	fmt.Printf("Draft:             %d\n", result.ByState["draft"])
	fmt.Printf("Ready:             %s\n", green(fmt.Sprintf("%d", result.ByState["ready"])))
	fmt.Printf("Blocked:           %s\n", red(fmt.Sprintf("%d", result.ByState["blocked"])))
	fmt.Printf("In Progress:       %s\n", yellow(fmt.Sprintf("%d", result.ByState["in_progress"])))
	fmt.Printf("In Review:         %s\n", yellow(fmt.Sprintf("%d", result.ByState["in_review"])))
	fmt.Printf("Completed:         %s\n", green(fmt.Sprintf("%d", result.ByState["completed"])))
	if n := result.ByState["cancelled"]; n > 0 {
		fmt.Printf("Cancelled:         %d\n", n)
	}
	if n := result.ByState["archived"]; n > 0 {
		fmt.Printf("Archived:          %d\n", n)
	}
	if result.AvgHoursToComplete > 0 {
		fmt.Printf("Avg Time to Done:  %.1f hours\n", result.AvgHoursToComplete)
	}
	if len(result.TopBlockers) > 0 {
		fmt.Println()
		fmt.Println("Top blockers:")
		for _, blocker := range result.TopBlockers {
			fmt.Printf("  %s blocks %d artifact(s)\n", blocker.ID, blocker.Dependents)
		}
	}
	fmt.Println()
}

// hoursToComplete measures from the first in_progress event to the first
// completed event.
func hoursToComplete(a *types.Artifact) (float64, bool) {
	var started, completed time.Time
	for _, ev := range a.Events {
		switch ev.State {
		case types.StateInProgress:
			if started.IsZero() {
				started = ev.Timestamp
			}
		case types.StateCompleted:
			if completed.IsZero() {
				completed = ev.Timestamp
			}
		}
	}
	if started.IsZero() || completed.IsZero() || completed.Before(started) {
		return 0, false
	}
	return completed.Sub(started).Hours(), true
}
