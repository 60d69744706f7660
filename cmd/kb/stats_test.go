package main

import (
	"testing"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func TestHoursToComplete(t *testing.T) {
	// makeArtifact spaces events an hour apart, so in_progress at +2h
	// and completed at +4h give a two hour cycle.
	done := makeArtifact("A.1", "Done",
		types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview, types.StateCompleted)
	hours, ok := hoursToComplete(done)
	if !ok {
		t.Fatal("hoursToComplete should succeed for a completed artifact")
	}
	if hours != 2 {
		t.Errorf("hours = %v, want 2", hours)
	}
}

func TestHoursToCompleteNeverStarted(t *testing.T) {
	a := makeArtifact("A.2", "Still drafting", types.StateDraft)
	if _, ok := hoursToComplete(a); ok {
		t.Error("hoursToComplete should fail without an in_progress event")
	}
}

func TestHoursToCompleteNotDone(t *testing.T) {
	a := makeArtifact("A.3", "In flight", types.StateDraft, types.StateReady, types.StateInProgress)
	if _, ok := hoursToComplete(a); ok {
		t.Error("hoursToComplete should fail without a completed event")
	}
}
