package main

import (
	"fmt"

	"github.com/kodebaseai/artifacts-sub003/internal/cascade"
	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/telemetry"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

// transitionResult is the JSON shape shared by every lifecycle command.
type transitionResult struct {
	ID       string           `json:"id"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Trigger  string           `json:"trigger,omitempty"`
	Cascaded []cascade.Action `json:"cascaded,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// applyTransition appends the event that moves id into target and then runs
// the follow-on cascade, persisting whatever it emits. This is the single
// write path behind start, review, complete, block, unblock, cancel,
// reopen, and archive.
func applyTransition(idArg string, target types.State, opts ...lifecycle.EventOption) transitionResult {
	id, err := types.ParseID(idArg)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	artifact, err := store.Get(rootCtx, id)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	from := artifact.CurrentState()

	ev, err := lifecycle.NextEvent(artifact, target, getActorWithGit(), opts...)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	if err := store.AppendEvent(rootCtx, id, ev); err != nil {
		FatalErrorRespectJSON("recording %s on %s: %v", target, id, err)
	}

	result := transitionResult{
		ID:      string(id),
		From:    string(from),
		To:      string(target),
		Trigger: string(ev.Trigger),
	}

	// The triggering event is on disk, so the cascade sees the workspace
	// as it now stands.
	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cascade skipped: %v", err))
		return result
	}
	cascaded := cascade.New(snap).Run(id, ev.Trigger)
	for _, action := range cascaded.Actions {
		if err := store.AppendEvent(rootCtx, action.ID, action.Event); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("cascade write %s: %v", action.ID, err))
			continue
		}
		result.Cascaded = append(result.Cascaded, action)
	}
	for _, branchErr := range cascaded.Errors {
		result.Warnings = append(result.Warnings, branchErr.Error())
	}
	telemetry.RecordCascade(rootCtx, string(ev.Trigger), len(result.Cascaded), len(cascaded.Errors))

	return result
}

// reportTransition prints the outcome in the active output mode.
func reportTransition(result transitionResult) {
	if jsonOutput {
		outputJSON(result)
		return
	}

	fmt.Printf("%s %s: %s → %s\n",
		ui.StateIcon(types.State(result.To)), result.ID, result.From, result.To)
	for _, action := range result.Cascaded {
		fmt.Printf("  %s %s → %s (%s)\n",
			ui.RenderMuted("cascade:"), action.ID, action.Event.State, action.Event.Trigger)
	}
	for _, warning := range result.Warnings {
		WarnError("%s", warning)
	}
}
