package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func draftArtifact(id string) *types.Artifact {
	return &types.Artifact{
		ID:    types.ArtifactID(id),
		Title: "artifact " + id,
		Events: []types.Event{{
			State:     types.StateDraft,
			Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			Actor:     "Rae Voss (rae@kodebase)",
			Trigger:   types.TriggerArtifactCreated,
		}},
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, draftArtifact("A.1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, draftArtifact("A.1")); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate Create error = %v, want ErrAlreadyExists", err)
	}

	got, err := s.Get(ctx, "A.1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "artifact A.1" {
		t.Errorf("Title = %q", got.Title)
	}
	if _, err := s.Get(ctx, "B"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing Get error = %v, want ErrNotFound", err)
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Create(ctx, draftArtifact("A")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, _ := s.Get(ctx, "A")
	got.Title = "mutated"
	got.Events = append(got.Events, types.Event{State: types.StateReady})

	again, _ := s.Get(ctx, "A")
	if again.Title != "artifact A" {
		t.Errorf("caller mutation leaked into store: Title = %q", again.Title)
	}
	if len(again.Events) != 1 {
		t.Errorf("caller mutation leaked into store: %d events", len(again.Events))
	}
}

func TestAppendEventRollsBackOnInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Create(ctx, draftArtifact("A")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := types.Event{
		State:     types.StateBlocked, // blocked requires a reason
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Actor:     "Rae Voss (rae@kodebase)",
	}
	if err := s.AppendEvent(ctx, "A", bad); err == nil {
		t.Fatal("AppendEvent accepted a blocked event without reason")
	}

	got, _ := s.Get(ctx, "A")
	if len(got.Events) != 1 {
		t.Errorf("failed append left %d events, want 1", len(got.Events))
	}
}

func TestDependenciesSymmetric(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed(draftArtifact("A.1"), draftArtifact("A.2"))

	if err := s.AddDependency(ctx, "A.1", "A.2"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	blocker, _ := s.Get(ctx, "A.1")
	blocked, _ := s.Get(ctx, "A.2")
	if !blocker.Relationships.HasDependent("A.2") || !blocked.Relationships.HasBlocker("A.1") {
		t.Fatal("edge not recorded on both sides")
	}

	if err := s.RemoveDependency(ctx, "A.1", "A.2"); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	blocker, _ = s.Get(ctx, "A.1")
	blocked, _ = s.Get(ctx, "A.2")
	if blocker.Relationships.HasDependent("A.2") || blocked.Relationships.HasBlocker("A.1") {
		t.Fatal("edge not removed from both sides")
	}
}

func TestListSorted(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed(draftArtifact("B"), draftArtifact("A.2"), draftArtifact("A"), draftArtifact("A.10"))

	arts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []types.ArtifactID{"A", "A.2", "A.10", "B"}
	if len(arts) != len(want) {
		t.Fatalf("List returned %d artifacts, want %d", len(arts), len(want))
	}
	for i, a := range arts {
		if a.ID != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, a.ID, want[i])
		}
	}
}
