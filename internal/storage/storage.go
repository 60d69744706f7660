// Package storage defines the artifact store contract shared by the file
// and in-memory backends, plus the workspace snapshot the pure engines
// read from.
package storage

import (
	"context"
	"errors"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// ErrNotFound is returned when a requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// ErrAlreadyExists is returned when creating an artifact whose ID is taken.
var ErrAlreadyExists = errors.New("artifact already exists")

// ErrWorkspaceMissing is returned when no .kodebase workspace exists at or
// above the working directory.
var ErrWorkspaceMissing = errors.New("workspace not initialized (run kb init)")

// Store is the interface satisfied by the yamlstore and memory backends.
// Consumers depend on this interface so backends can be substituted in
// tests and tooling.
type Store interface {
	// Get returns one artifact by ID.
	Get(ctx context.Context, id types.ArtifactID) (*types.Artifact, error)
	// List returns every artifact in natural ID order.
	List(ctx context.Context) ([]*types.Artifact, error)
	// Create persists a new artifact. The ID must be unallocated.
	Create(ctx context.Context, a *types.Artifact) error
	// Update rewrites an existing artifact's descriptive fields. The
	// event log is owned by AppendEvent and is not touched here.
	Update(ctx context.Context, a *types.Artifact) error
	// AppendEvent appends one lifecycle event to an artifact's log.
	// Logs are append-only; there is no operation that rewrites them.
	AppendEvent(ctx context.Context, id types.ArtifactID, ev types.Event) error
	// AddDependency records blocker -> blocked on both artifacts so the
	// edge stays bidirectionally consistent.
	AddDependency(ctx context.Context, blocker, blocked types.ArtifactID) error
	// RemoveDependency removes the edge from both artifacts.
	RemoveDependency(ctx context.Context, blocker, blocked types.ArtifactID) error
	// Snapshot loads a consistent view of the whole workspace.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Close releases any resources held by the store.
	Close() error
}
