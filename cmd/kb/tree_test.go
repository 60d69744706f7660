package main

import (
	"testing"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func TestProgressFraction(t *testing.T) {
	snap := storage.NewSnapshot([]*types.Artifact{
		makeArtifact("A", "Initiative", types.StateDraft),
		makeArtifact("A.1", "Done", types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview, types.StateCompleted),
		makeArtifact("A.2", "Active", types.StateDraft, types.StateReady, types.StateInProgress),
		makeArtifact("A.3", "Dropped", types.StateDraft, types.StateCancelled),
	})

	if got := progressFraction(snap, "A"); got != "[1/2]" {
		t.Errorf("progressFraction(A) = %q, want [1/2]", got)
	}
	if got := progressFraction(snap, "A.1"); got != "" {
		t.Errorf("progressFraction(A.1) = %q, want empty for a leaf", got)
	}
}

func TestVisibleChildren(t *testing.T) {
	children := []*types.Artifact{
		makeArtifact("A.1", "Keep", types.StateDraft),
		makeArtifact("A.2", "Drop", types.StateDraft, types.StateCancelled),
		makeArtifact("A.3", "Also keep", types.StateDraft, types.StateReady),
	}

	got := visibleChildren(children, false)
	if len(got) != 2 || got[0].ID != "A.1" || got[1].ID != "A.3" {
		t.Errorf("visibleChildren = %v, want A.1 and A.3", ids(got))
	}
	if got := visibleChildren(children, true); len(got) != 3 {
		t.Errorf("visibleChildren with all = %d children, want 3", len(got))
	}
}

func ids(arts []*types.Artifact) []types.ArtifactID {
	out := make([]types.ArtifactID, len(arts))
	for i, a := range arts {
		out[i] = a.ID
	}
	return out
}
