package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

// outputJSON outputs data as pretty-printed JSON to stdout.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// outputJSONError outputs an error as JSON to stderr and exits with code 1.
func outputJSONError(err error, code string) {
	errObj := map[string]string{"error": err.Error()}
	if code != "" {
		errObj["code"] = code
	}
	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(errObj) // Best effort: if JSON encoding fails, error is already printed to stderr
	os.Exit(1)
}

// artifactSummary is the JSON shape shared by list, tree, and show.
type artifactSummary struct {
	ID        string   `json:"id"`
	Level     string   `json:"level"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Priority  int      `json:"priority,omitempty"`
	Owner     string   `json:"owner,omitempty"`
	Estimate  string   `json:"estimate,omitempty"`
	BlockedBy []string `json:"blocked_by,omitempty"`
	Blocks    []string `json:"blocks,omitempty"`
	Updated   string   `json:"updated,omitempty"`
}

func newArtifactSummary(a *types.Artifact) artifactSummary {
	s := artifactSummary{
		ID:        string(a.ID),
		Level:     a.Level().String(),
		Title:     a.Title,
		State:     string(a.CurrentState()),
		Priority:  a.Priority,
		Owner:     a.Owner,
		Estimate:  a.Estimate,
		BlockedBy: idStrings(a.Relationships.BlockedBy),
		Blocks:    idStrings(a.Relationships.Blocks),
	}
	if t := a.UpdatedAt(); !t.IsZero() {
		s.Updated = t.Format("2006-01-02T15:04:05Z07:00")
	}
	return s
}

func idStrings(ids []types.ArtifactID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// renderPriorityTag returns "P1".."P3" with semantic coloring, or "" when
// the priority is unset.
func renderPriorityTag(priority int) string {
	if priority == 0 {
		return ""
	}
	return ui.PriorityStyle(priority).Render(fmt.Sprintf("P%d", priority))
}

// formatArtifactLine formats one artifact for pretty list output.
// Format: STATE_ICON ID PRIORITY Title [blocker note]
// Terminal artifacts render fully muted so active work stands out.
func formatArtifactLine(a *types.Artifact) string {
	state := a.CurrentState()
	icon := ui.StateIcon(state)

	if state.IsTerminal() || state == types.StateCancelled {
		return fmt.Sprintf("%s %s", icon, ui.RenderMuted(fmt.Sprintf("%s %s", a.ID, a.Title)))
	}

	parts := []string{icon, string(a.ID)}
	if tag := renderPriorityTag(a.Priority); tag != "" {
		parts = append(parts, tag)
	}
	parts = append(parts, a.Title)
	if state == types.StateBlocked && len(a.Relationships.BlockedBy) > 0 {
		parts = append(parts, ui.RenderMuted(fmt.Sprintf("(blocked by %s)", strings.Join(idStrings(a.Relationships.BlockedBy), ", "))))
	}
	return strings.Join(parts, " ")
}

// formatEventLine formats one lifecycle event for log output.
func formatEventLine(ev types.Event) string {
	ts := ev.Timestamp.Format("2006-01-02 15:04")
	// Pad before styling so ANSI escapes don't skew the columns
	state := ui.StateStyle(ev.State).Render(fmt.Sprintf("%-11s", string(ev.State)))
	line := fmt.Sprintf("%s  %s", ts, state)
	if ev.Trigger != "" {
		line += fmt.Sprintf("  %-20s", ev.Trigger)
	}
	line += "  " + ev.Actor
	if ev.Reason != "" {
		line += "\n" + strings.Repeat(" ", 18) + ui.RenderMuted("reason: "+ev.Reason)
	}
	return line
}
