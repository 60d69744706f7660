package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/timeparsing"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

var logCmd = &cobra.Command{
	Use:   "log [id]",
	Short: "Show lifecycle event history",
	Long: `Show the event log of one artifact, or with --all the merged history of
the whole workspace in timestamp order.`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: GroupArtifacts,
	Run:     runLog,
}

func init() {
	logCmd.Flags().Bool("all", false, "Merge events across the whole workspace")
	logCmd.Flags().String("since", "", "Only events after (6h, 2d, 2026-01-15, \"last monday\")")
	logCmd.Flags().String("until", "", "Only events up to (same formats as --since)")
	logCmd.Flags().Bool("no-pager", false, "Print directly instead of piping long output to a pager")
	rootCmd.AddCommand(logCmd)
}

// logEntry pairs an event with the artifact it belongs to.
type logEntry struct {
	ID    string      `json:"id"`
	Event types.Event `json:"event"`
}

func runLog(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	sinceArg, _ := cmd.Flags().GetString("since")
	untilArg, _ := cmd.Flags().GetString("until")

	var since, until time.Time
	if sinceArg != "" {
		parsed, err := timeparsing.ParseSince(sinceArg, time.Now())
		if err != nil {
			FatalErrorRespectJSON("parsing --since: %v", err)
		}
		since = parsed
	}
	if untilArg != "" {
		parsed, err := timeparsing.ParseSince(untilArg, time.Now())
		if err != nil {
			FatalErrorRespectJSON("parsing --until: %v", err)
		}
		until = parsed
	}

	if !all && len(args) == 0 {
		FatalErrorWithHint("an artifact ID is required", "Pass an ID, or --all for the whole workspace")
	}

	var entries []logEntry
	if all {
		snap, err := store.Snapshot(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("loading workspace: %v", err)
		}
		scope := types.ArtifactID("")
		if len(args) == 1 {
			scope, err = types.ParseID(args[0])
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
		}
		for _, a := range snap.All() {
			if scope != "" && a.ID != scope && !a.ID.IsDescendantOf(scope) {
				continue
			}
			for _, ev := range a.Events {
				entries = append(entries, logEntry{ID: string(a.ID), Event: ev})
			}
		}
		// Merge by time; ties keep natural artifact order from the snapshot.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Event.Timestamp.Before(entries[j].Event.Timestamp)
		})
	} else {
		id, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		artifact, err := store.Get(rootCtx, id)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		for _, ev := range artifact.Events {
			entries = append(entries, logEntry{ID: string(id), Event: ev})
		}
	}

	if !since.IsZero() || !until.IsZero() {
		filtered := entries[:0]
		for _, e := range entries {
			if !since.IsZero() && e.Event.Timestamp.Before(since) {
				continue
			}
			if !until.IsZero() && e.Event.Timestamp.After(until) {
				continue
			}
			filtered = append(filtered, e)
		}
		entries = filtered
	}

	if jsonOutput {
		outputJSON(entries)
		return
	}

	if len(entries) == 0 {
		fmt.Println("No events.")
		return
	}

	// Build output in a buffer so long histories can go through a pager.
	var buf strings.Builder
	for _, e := range entries {
		if all {
			fmt.Fprintf(&buf, "%s  %s\n", ui.RenderAccent(fmt.Sprintf("%-8s", e.ID)), formatEventLine(e.Event))
		} else {
			fmt.Fprintln(&buf, formatEventLine(e.Event))
		}
	}
	noPager, _ := cmd.Flags().GetBool("no-pager")
	if err := ui.ToPager(buf.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
		fmt.Print(buf.String())
	}
}
