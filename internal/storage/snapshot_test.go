package storage

import (
	"errors"
	"testing"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func snapFixture() *Snapshot {
	arts := []*types.Artifact{
		{ID: "A", Title: "initiative"},
		{ID: "A.1", Title: "milestone"},
		{ID: "A.1.1", Title: "issue one"},
		{ID: "A.1.2", Title: "issue two", Relationships: types.Relationships{BlockedBy: []types.ArtifactID{"A.1.1"}}},
		{ID: "A.2", Title: "milestone two"},
		{ID: "B", Title: "other initiative"},
	}
	arts[2].Relationships.Blocks = []types.ArtifactID{"A.1.2"}
	return NewSnapshot(arts)
}

func TestSnapshotGet(t *testing.T) {
	s := snapFixture()
	a, err := s.Get("A.1.1")
	if err != nil || a.Title != "issue one" {
		t.Fatalf("Get: %v %v", a, err)
	}
	_, err = s.Get("Z.9")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotOrdering(t *testing.T) {
	s := snapFixture()
	want := []types.ArtifactID{"A", "A.1", "A.1.1", "A.1.2", "A.2", "B"}
	got := s.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: %s != %s", i, got[i], want[i])
		}
	}
}

func TestSnapshotNeighborhoods(t *testing.T) {
	s := snapFixture()

	children, _ := s.Children("A.1")
	if len(children) != 2 || children[0].ID != "A.1.1" || children[1].ID != "A.1.2" {
		t.Errorf("Children(A.1) = %v", children)
	}

	sibs, _ := s.Siblings("A.1.2")
	if len(sibs) != 1 || sibs[0].ID != "A.1.1" {
		t.Errorf("Siblings(A.1.2) = %v", sibs)
	}

	anc, _ := s.Ancestors("A.1.2")
	if len(anc) != 2 || anc[0].ID != "A" || anc[1].ID != "A.1" {
		t.Errorf("Ancestors(A.1.2) = %v", anc)
	}

	deps, _ := s.Dependents("A.1.1")
	if len(deps) != 1 || deps[0].ID != "A.1.2" {
		t.Errorf("Dependents(A.1.1) = %v", deps)
	}
}

func TestSnapshotAncestorsSkipMissing(t *testing.T) {
	// Issue present without its milestone record.
	s := NewSnapshot([]*types.Artifact{
		{ID: "A", Title: "initiative"},
		{ID: "A.1.3", Title: "stray issue"},
	})
	anc, err := s.Ancestors("A.1.3")
	if err != nil {
		t.Fatal(err)
	}
	if len(anc) != 1 || anc[0].ID != "A" {
		t.Errorf("Ancestors should skip the missing milestone: %v", anc)
	}
}

func TestSnapshotProjections(t *testing.T) {
	s := snapFixture()
	g := s.Graph()
	if len(g) != s.Len() {
		t.Errorf("graph keys = %d, want %d", len(g), s.Len())
	}
	if !g["A.1.2"].HasBlocker("A.1.1") {
		t.Error("graph lost the blocked_by edge")
	}
	states := s.States()
	if states["A"] != types.StateDraft {
		t.Errorf("eventless artifact should project draft, got %s", states["A"])
	}
}

func TestSnapshotIsolation(t *testing.T) {
	src := []*types.Artifact{{ID: "A", Title: "before"}}
	s := NewSnapshot(src)
	src[0].Title = "after"
	a, _ := s.Get("A")
	if a.Title != "before" {
		t.Error("snapshot should copy artifacts at construction")
	}
}
