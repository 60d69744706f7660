package main

import (
	"context"
	"testing"

	"github.com/kodebaseai/artifacts-sub003/internal/cascade"
	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/storage/memory"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// useMemoryStore points the command globals at a fresh in-memory store and
// restores them when the test ends.
func useMemoryStore(t *testing.T) *memory.Store {
	t.Helper()
	mem := memory.New()
	prevStore, prevCtx, prevActor := store, rootCtx, actor
	store, rootCtx, actor = mem, context.Background(), "Test User (test@example.com)"
	t.Cleanup(func() {
		store, rootCtx, actor = prevStore, prevCtx, prevActor
	})
	return mem
}

func TestApplyTransitionPersistsCascade(t *testing.T) {
	mem := useMemoryStore(t)
	ctx := context.Background()

	milestone := makeArtifact("A.1", "Milestone", types.StateDraft, types.StateReady, types.StateInProgress)
	finishing := makeArtifact("A.1.1", "Last issue", types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview)
	done := makeArtifact("A.1.2", "First issue", types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview, types.StateCompleted)
	waiting := makeArtifact("A.2", "Downstream", types.StateDraft, types.StateBlocked)
	finishing.Relationships.Blocks = []types.ArtifactID{"A.2"}
	waiting.Relationships.BlockedBy = []types.ArtifactID{"A.1.1"}

	for _, a := range []*types.Artifact{milestone, finishing, done, waiting} {
		if err := mem.Create(ctx, a); err != nil {
			t.Fatalf("seeding %s: %v", a.ID, err)
		}
	}

	result := applyTransition("A.1.1", types.StateCompleted, lifecycle.WithTrigger(types.TriggerPRMerged))

	if result.From != string(types.StateInReview) || result.To != string(types.StateCompleted) {
		t.Errorf("transition = %s → %s, want in_review → completed", result.From, result.To)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if len(result.Cascaded) != 2 {
		t.Fatalf("cascaded = %+v, want milestone review and dependent release", result.Cascaded)
	}
	if result.Cascaded[0].ID != "A.1" || result.Cascaded[0].Event.State != types.StateInReview {
		t.Errorf("first cascade action = %+v, want A.1 → in_review", result.Cascaded[0])
	}
	if result.Cascaded[1].ID != "A.2" || result.Cascaded[1].Event.State != types.StateReady {
		t.Errorf("second cascade action = %+v, want A.2 → ready", result.Cascaded[1])
	}

	// The cascade's events are persisted, not just reported.
	for id, want := range map[types.ArtifactID]types.State{
		"A.1.1": types.StateCompleted,
		"A.1":   types.StateInReview,
		"A.2":   types.StateReady,
	} {
		got, err := mem.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if got.CurrentState() != want {
			t.Errorf("%s state = %s, want %s", id, got.CurrentState(), want)
		}
	}

	// Re-running against the settled workspace yields nothing.
	snap, err := mem.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if res := cascade.New(snap).Run("A.1.1", types.TriggerPRMerged); !res.IsEmpty() {
		t.Errorf("settled workspace should not cascade again: %+v", res)
	}
}
