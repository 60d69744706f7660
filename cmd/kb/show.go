package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show an artifact in detail",
	Args:    cobra.ExactArgs(1),
	GroupID: GroupArtifacts,
	Run:     runShow,
}

func init() {
	showCmd.Flags().Bool("context", false, "Include ancestors, children, and dependency neighbors")
	showCmd.Flags().Bool("full", false, "Show the full description without truncation")
	rootCmd.AddCommand(showCmd)
}

type showResult struct {
	artifactSummary
	Description string        `json:"description,omitempty"`
	Events      []types.Event `json:"events"`
	Ancestors   []string      `json:"ancestors,omitempty"`
	Children    []string      `json:"children,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) {
	withContext, _ := cmd.Flags().GetBool("context")
	full, _ := cmd.Flags().GetBool("full")

	id, err := types.ParseID(args[0])
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	artifact, err := store.Get(rootCtx, id)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	var snap *storage.Snapshot
	if withContext {
		snap, err = store.Snapshot(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("loading workspace: %v", err)
		}
	}

	if jsonOutput {
		result := showResult{
			artifactSummary: newArtifactSummary(artifact),
			Description:     artifact.Description,
			Events:          artifact.Events,
		}
		if snap != nil {
			ancestors, _ := snap.Ancestors(id)
			for _, a := range ancestors {
				result.Ancestors = append(result.Ancestors, string(a.ID))
			}
			children, _ := snap.Children(id)
			for _, c := range children {
				result.Children = append(result.Children, string(c.ID))
			}
		}
		outputJSON(result)
		return
	}

	printArtifactDetail(artifact, snap, full)
}

// printArtifactDetail renders the full pretty view of one artifact.
func printArtifactDetail(a *types.Artifact, snap *storage.Snapshot, full bool) {
	fmt.Println(formatArtifactHeader(a))

	meta := []string{fmt.Sprintf("Level: %s", a.Level())}
	if a.Owner != "" {
		meta = append(meta, fmt.Sprintf("Owner: %s", a.Owner))
	}
	if a.Estimate != "" {
		meta = append(meta, fmt.Sprintf("Estimate: %s", a.Estimate))
	}
	fmt.Println(ui.RenderMuted(strings.Join(meta, " · ")))

	if created := a.CreatedAt(); !created.IsZero() {
		stamp := fmt.Sprintf("Created: %s · Updated: %s",
			created.Format("2006-01-02"), a.UpdatedAt().Format("2006-01-02"))
		fmt.Println(ui.RenderMuted(stamp))
	}

	if a.Description != "" {
		fmt.Println()
		rendered := ui.RenderMarkdown(a.Description)
		if !full {
			rendered = ui.TruncateLines(rendered, ui.DefaultMaxLines, ui.DefaultContextLines)
		}
		fmt.Println(strings.TrimRight(rendered, "\n"))
	}

	if len(a.Relationships.BlockedBy) > 0 || len(a.Relationships.Blocks) > 0 {
		fmt.Println()
		if len(a.Relationships.BlockedBy) > 0 {
			fmt.Printf("Blocked by: %s\n", renderNeighborIDs(a.Relationships.BlockedBy, snap))
		}
		if len(a.Relationships.Blocks) > 0 {
			fmt.Printf("Blocks:     %s\n", renderNeighborIDs(a.Relationships.Blocks, snap))
		}
	}

	if snap != nil {
		if ancestors, _ := snap.Ancestors(a.ID); len(ancestors) > 0 {
			fmt.Println()
			fmt.Println(ui.RenderCategory("Context"))
			for _, anc := range ancestors {
				fmt.Printf("  %s\n", formatArtifactLine(anc))
			}
		}
		if children, _ := snap.Children(a.ID); len(children) > 0 {
			fmt.Println()
			fmt.Println(ui.RenderCategory(childLabel(a.Level())))
			for _, c := range children {
				fmt.Printf("  %s\n", formatArtifactLine(c))
			}
		}
	}

	if len(a.Events) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderCategory("History"))
		for _, ev := range a.Events {
			fmt.Printf("  %s\n", formatEventLine(ev))
		}
	}
}

// formatArtifactHeader returns the header line.
// Format: STATE_ICON ID · Title   [P2 · IN_PROGRESS]
func formatArtifactHeader(a *types.Artifact) string {
	state := a.CurrentState()
	icon := ui.StateIcon(state)
	idStyled := ui.RenderAccent(string(a.ID))
	stateStr := ui.StateStyle(state).Render(strings.ToUpper(string(state)))

	tag := renderPriorityTag(a.Priority)
	if tag == "" {
		return fmt.Sprintf("%s %s · %s   [%s]", icon, idStyled, a.Title, stateStr)
	}
	return fmt.Sprintf("%s %s · %s   [%s · %s]", icon, idStyled, a.Title, tag, stateStr)
}

// renderNeighborIDs renders dependency neighbor IDs, annotated with their
// state icon when a snapshot is available.
func renderNeighborIDs(ids []types.ArtifactID, snap *storage.Snapshot) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if snap != nil {
			if n, err := snap.Get(id); err == nil {
				parts = append(parts, fmt.Sprintf("%s %s", ui.StateIcon(n.CurrentState()), id))
				continue
			}
		}
		parts = append(parts, string(id))
	}
	return strings.Join(parts, ", ")
}

func childLabel(l types.Level) string {
	switch l {
	case types.LevelInitiative:
		return "Milestones"
	case types.LevelMilestone:
		return "Issues"
	}
	return "Children"
}
