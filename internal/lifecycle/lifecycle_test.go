package lifecycle

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to types.State }{
		{types.StateDraft, types.StateReady},
		{types.StateDraft, types.StateBlocked},
		{types.StateDraft, types.StateCancelled},
		{types.StateBlocked, types.StateReady},
		{types.StateBlocked, types.StateCancelled},
		{types.StateReady, types.StateInProgress},
		{types.StateReady, types.StateCancelled},
		{types.StateInProgress, types.StateInReview},
		{types.StateInProgress, types.StateCancelled},
		{types.StateInReview, types.StateCompleted},
		{types.StateInReview, types.StateCancelled},
		{types.StateCancelled, types.StateDraft},
		{types.StateCancelled, types.StateArchived},
	}
	for _, tt := range legal {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be legal", tt.from, tt.to)
		}
	}

	illegal := []struct{ from, to types.State }{
		{types.StateDraft, types.StateInProgress},
		{types.StateDraft, types.StateCompleted},
		{types.StateReady, types.StateBlocked},
		{types.StateBlocked, types.StateInProgress},
		{types.StateInProgress, types.StateCompleted},
		{types.StateInReview, types.StateInProgress},
		{types.StateCompleted, types.StateReady},
		{types.StateCompleted, types.StateCancelled},
		{types.StateArchived, types.StateDraft},
		{types.StateCancelled, types.StateReady},
		{types.StateDraft, types.StateDraft},
	}
	for _, tt := range illegal {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be illegal", tt.from, tt.to)
		}
	}
}

func TestValidateErrorNamesTargets(t *testing.T) {
	err := Validate(types.StateReady, types.StateBlocked)
	if err == nil {
		t.Fatal("expected error")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if terr.From != types.StateReady || terr.To != types.StateBlocked {
		t.Errorf("error carries wrong states: %+v", terr)
	}
	msg := err.Error()
	if !strings.Contains(msg, "in_progress") || !strings.Contains(msg, "cancelled") {
		t.Errorf("error should list legal targets, got %q", msg)
	}
}

func TestValidateTerminal(t *testing.T) {
	err := Validate(types.StateCompleted, types.StateReady)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Errorf("expected terminal error, got %v", err)
	}
	if !IsTerminal(types.StateCompleted) || !IsTerminal(types.StateArchived) {
		t.Error("completed and archived are terminal")
	}
	if IsTerminal(types.StateCancelled) {
		t.Error("cancelled is not terminal")
	}
	if IsTerminal(types.State("paused")) {
		t.Error("unknown states are not terminal, they are invalid")
	}
}

func TestValidateUnknownStates(t *testing.T) {
	if err := Validate(types.State("paused"), types.StateReady); err == nil {
		t.Error("unknown from state should fail")
	}
	if err := Validate(types.StateDraft, types.State("paused")); err == nil {
		t.Error("unknown to state should fail")
	}
}

func TestValidTargetsIsolated(t *testing.T) {
	targets := ValidTargets(types.StateDraft)
	targets[0] = types.StateArchived
	if ValidTargets(types.StateDraft)[0] == types.StateArchived {
		t.Error("ValidTargets must return a copy")
	}
	if len(ValidTargets(types.StateArchived)) != 0 {
		t.Error("archived has no targets")
	}
}

func TestNewEventStamps(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	ev := NewEvent(types.StateReady, "Sam (sam@example.com)",
		WithTrigger(types.TriggerDependenciesMet),
		WithTimestamp(fixed),
		WithMetadata("source", "test"),
	)
	if ev.State != types.StateReady {
		t.Errorf("state = %s", ev.State)
	}
	if ev.Timestamp != fixed.Truncate(time.Second) {
		t.Errorf("timestamp should truncate to seconds, got %v", ev.Timestamp)
	}
	if ev.Trigger != types.TriggerDependenciesMet {
		t.Errorf("trigger = %s", ev.Trigger)
	}
	if ev.Metadata["source"] != "test" {
		t.Errorf("metadata = %v", ev.Metadata)
	}
}

func TestNextEvent(t *testing.T) {
	a := &types.Artifact{ID: "A.1", Title: "Test"}

	ev, err := NextEvent(a, types.StateReady, "Sam (sam@example.com)")
	if err != nil {
		t.Fatalf("draft -> ready: %v", err)
	}
	if ev.State != types.StateReady {
		t.Errorf("event state = %s", ev.State)
	}
	if len(a.Events) != 0 {
		t.Error("NextEvent must not mutate the artifact")
	}

	// Blocking without a reason is rejected.
	if _, err := NextEvent(a, types.StateBlocked, "Sam (sam@example.com)"); err == nil {
		t.Error("blocked without reason should fail")
	}
	if _, err := NextEvent(a, types.StateBlocked, "Sam (sam@example.com)", WithReason("waiting on A.2")); err != nil {
		t.Errorf("blocked with reason: %v", err)
	}

	a.Events = append(a.Events, NewEvent(types.StateCompleted, "x"))
	if _, err := NextEvent(a, types.StateReady, "Sam (sam@example.com)"); err == nil {
		t.Error("completed artifacts accept no transitions")
	}
}
