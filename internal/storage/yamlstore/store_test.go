package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func testArtifact(id, title string) *types.Artifact {
	return &types.Artifact{
		ID:    types.ArtifactID(id),
		Title: title,
		Events: []types.Event{{
			State:     types.StateDraft,
			Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			Actor:     "Rae Voss (rae@kodebase)",
			Trigger:   types.TriggerArtifactCreated,
		}},
	}
}

func TestOpenMissingWorkspace(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrWorkspaceMissing)
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtifact("A.1.2", "Wire up the importer")
	a.Priority = 1
	a.Owner = "rae@kodebase"
	require.NoError(t, s.Create(ctx, a))

	path := filepath.Join(s.Dir(), "artifacts", "A", "A.1.2.yml")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "event: draft")
	assert.Contains(t, string(raw), "trigger: artifact_created")

	got, err := s.Get(ctx, "A.1.2")
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, types.StateDraft, got.CurrentState())
}

func TestCreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testArtifact("A", "Platform revamp")))
	err := s.Create(ctx, testArtifact("A", "Platform revamp again"))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "Q.4")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetInvalidID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "a.01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestGetDetectsMisfiledArtifact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A.2", "Real milestone")))

	// Copy A.2's file over A.3's slot to simulate a bad manual edit.
	src := filepath.Join(s.Dir(), "artifacts", "A", "A.2.yml")
	dst := filepath.Join(s.Dir(), "artifacts", "A", "A.3.yml")
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))

	_, err = s.Get(ctx, "A.3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A.2")
	assert.Contains(t, err.Error(), "A.3")
}

func TestListOrdersNaturally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A.1.10", "B", "A.1.2", "A", "AA", "A.1"} {
		require.NoError(t, s.Create(ctx, testArtifact(id, "artifact "+id)))
	}

	arts, err := s.List(ctx)
	require.NoError(t, err)

	var got []string
	for _, a := range arts {
		got = append(got, string(a.ID))
	}
	assert.Equal(t, []string{"A", "A.1", "A.1.2", "A.1.10", "B", "AA"}, got)
}

func TestListEmptyWorkspace(t *testing.T) {
	s := newTestStore(t)
	arts, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestListRejectsCorruptFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A", "Fine")))

	bad := filepath.Join(s.Dir(), "artifacts", "A", "A.9.yml")
	require.NoError(t, os.WriteFile(bad, []byte("{not yaml:::"), 0o644))

	_, err := s.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A.9.yml")
}

func TestUpdateKeepsLogAndEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtifact("A.1", "Old title")
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, testArtifact("A.2", "Blocker")))
	require.NoError(t, s.AddDependency(ctx, "A.2", "A.1"))
	require.NoError(t, s.AppendEvent(ctx, "A.1", types.Event{
		State:     types.StateReady,
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Actor:     "Rae Voss (rae@kodebase)",
	}))

	// A stale caller copy: no events, no edges, new descriptive fields.
	stale := &types.Artifact{ID: "A.1", Title: "New title", Priority: 2}
	require.NoError(t, s.Update(ctx, stale))

	got, err := s.Get(ctx, "A.1")
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, 2, got.Priority)
	assert.Len(t, got.Events, 2, "update must not truncate the event log")
	assert.True(t, got.Relationships.HasBlocker("A.2"), "update must not drop edges")
}

func TestUpdateMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), testArtifact("A", "Ghost"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAppendEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A.1.3", "Ship it")))

	require.NoError(t, s.AppendEvent(ctx, "A.1.3", types.Event{
		State:     types.StateReady,
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Actor:     "System Cascade (cascade@kodebase)",
		Trigger:   types.TriggerDependenciesMet,
	}))

	got, err := s.Get(ctx, "A.1.3")
	require.NoError(t, err)
	assert.Equal(t, types.StateReady, got.CurrentState())

	raw, err := os.ReadFile(filepath.Join(s.Dir(), "artifacts", "A", "A.1.3.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "event: ready")
	assert.Contains(t, string(raw), "trigger: dependencies_met")
}

func TestAppendEventRejectsRewoundClock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A", "Initiative")))

	err := s.AppendEvent(ctx, "A", types.Event{
		State:     types.StateReady,
		Timestamp: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), // before creation
		Actor:     "Rae Voss (rae@kodebase)",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestDependencyEdgesStaySymmetric(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A.1", "Blocker")))
	require.NoError(t, s.Create(ctx, testArtifact("A.2", "Blocked")))

	require.NoError(t, s.AddDependency(ctx, "A.1", "A.2"))
	require.NoError(t, s.AddDependency(ctx, "A.1", "A.2")) // idempotent

	blocker, err := s.Get(ctx, "A.1")
	require.NoError(t, err)
	blocked, err := s.Get(ctx, "A.2")
	require.NoError(t, err)
	assert.Equal(t, []types.ArtifactID{"A.2"}, blocker.Relationships.Blocks)
	assert.Equal(t, []types.ArtifactID{"A.1"}, blocked.Relationships.BlockedBy)

	require.NoError(t, s.RemoveDependency(ctx, "A.1", "A.2"))
	require.NoError(t, s.RemoveDependency(ctx, "A.1", "A.2")) // idempotent

	blocker, err = s.Get(ctx, "A.1")
	require.NoError(t, err)
	blocked, err = s.Get(ctx, "A.2")
	require.NoError(t, err)
	assert.Empty(t, blocker.Relationships.Blocks)
	assert.Empty(t, blocked.Relationships.BlockedBy)
}

func TestAddDependencySelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A.1", "Loner")))
	err := s.AddDependency(ctx, "A.1", "A.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

func TestAddDependencyMissingEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testArtifact("A.1", "Here")))
	err := s.AddDependency(ctx, "A.1", "A.2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSnapshotNeighborhoods(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"A", "A.1", "A.1.1", "A.1.2", "A.2"} {
		require.NoError(t, s.Create(ctx, testArtifact(id, "artifact "+id)))
	}

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Len())

	kids, err := snap.Children("A.1")
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, types.ArtifactID("A.1.1"), kids[0].ID)
	assert.Equal(t, types.ArtifactID("A.1.2"), kids[1].ID)
}
