// Package memory provides a map-backed storage.Store used by tests and
// by commands that operate on an already-loaded snapshot.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Store keeps artifacts in memory. Artifacts are deep-copied at the
// boundary, so callers can mutate what they pass in or get back without
// corrupting the store.
type Store struct {
	mu   sync.RWMutex
	arts map[types.ArtifactID]*types.Artifact
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{arts: make(map[types.ArtifactID]*types.Artifact)}
}

// Seed loads artifacts without validation, for test fixtures.
func (s *Store) Seed(arts ...*types.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range arts {
		s.arts[a.ID] = a.Clone()
	}
}

func (s *Store) Get(ctx context.Context, id types.ArtifactID) (*types.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.arts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, storage.ErrNotFound)
	}
	return a.Clone(), nil
}

func (s *Store) List(ctx context.Context) ([]*types.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Artifact, 0, len(s.arts))
	for _, a := range s.arts {
		out = append(out, a.Clone())
	}
	types.SortArtifacts(out)
	return out, nil
}

func (s *Store) Create(ctx context.Context, a *types.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arts[a.ID]; ok {
		return fmt.Errorf("%s: %w", a.ID, storage.ErrAlreadyExists)
	}
	s.arts[a.ID] = a.Clone()
	return nil
}

func (s *Store) Update(ctx context.Context, a *types.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.arts[a.ID]
	if !ok {
		return fmt.Errorf("%s: %w", a.ID, storage.ErrNotFound)
	}
	current.Title = a.Title
	current.Description = a.Description
	current.Priority = a.Priority
	current.Owner = a.Owner
	current.Estimate = a.Estimate
	return current.Validate()
}

func (s *Store) AppendEvent(ctx context.Context, id types.ArtifactID, ev types.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.arts[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, storage.ErrNotFound)
	}
	a.Events = append(a.Events, ev)
	if err := a.Validate(); err != nil {
		a.Events = a.Events[:len(a.Events)-1]
		return fmt.Errorf("appending event to %s: %w", id, err)
	}
	return nil
}

func (s *Store) AddDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if blocker == blocked {
		return fmt.Errorf("%s cannot depend on itself", blocker)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.arts[blocker]
	if !ok {
		return fmt.Errorf("%s: %w", blocker, storage.ErrNotFound)
	}
	d, ok := s.arts[blocked]
	if !ok {
		return fmt.Errorf("%s: %w", blocked, storage.ErrNotFound)
	}
	if !b.Relationships.HasDependent(blocked) {
		b.Relationships.Blocks = append(b.Relationships.Blocks, blocked)
	}
	if !d.Relationships.HasBlocker(blocker) {
		d.Relationships.BlockedBy = append(d.Relationships.BlockedBy, blocker)
	}
	return nil
}

func (s *Store) RemoveDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.arts[blocker]
	if !ok {
		return fmt.Errorf("%s: %w", blocker, storage.ErrNotFound)
	}
	d, ok := s.arts[blocked]
	if !ok {
		return fmt.Errorf("%s: %w", blocked, storage.ErrNotFound)
	}
	b.Relationships.Blocks = removeID(b.Relationships.Blocks, blocked)
	d.Relationships.BlockedBy = removeID(d.Relationships.BlockedBy, blocker)
	return nil
}

func removeID(list []types.ArtifactID, id types.ArtifactID) []types.ArtifactID {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (s *Store) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	arts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewSnapshot(arts), nil
}

func (s *Store) Close() error {
	return nil
}
