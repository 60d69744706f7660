package storage

import (
	"fmt"

	"github.com/kodebaseai/artifacts-sub003/internal/depgraph"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Snapshot is an immutable view of every artifact at one point in time.
// It feeds the cascade engine (it satisfies its TreeAccessor) and projects
// the dependency graph for validation. Artifacts returned from a snapshot
// are shared; callers treat them as read-only.
type Snapshot struct {
	byID    map[types.ArtifactID]*types.Artifact
	ordered []*types.Artifact
}

// NewSnapshot copies arts into a snapshot. The input slice and artifacts
// can be mutated afterwards without affecting the snapshot.
func NewSnapshot(arts []*types.Artifact) *Snapshot {
	s := &Snapshot{
		byID:    make(map[types.ArtifactID]*types.Artifact, len(arts)),
		ordered: make([]*types.Artifact, 0, len(arts)),
	}
	for _, a := range arts {
		cp := a.Clone()
		s.byID[cp.ID] = cp
		s.ordered = append(s.ordered, cp)
	}
	types.SortArtifacts(s.ordered)
	return s
}

// Len returns the number of artifacts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.ordered)
}

// All returns every artifact in natural ID order.
func (s *Snapshot) All() []*types.Artifact {
	return s.ordered
}

// IDs returns every artifact ID in natural order.
func (s *Snapshot) IDs() []types.ArtifactID {
	ids := make([]types.ArtifactID, len(s.ordered))
	for i, a := range s.ordered {
		ids[i] = a.ID
	}
	return ids
}

// Get returns the artifact or an error wrapping ErrNotFound.
func (s *Snapshot) Get(id types.ArtifactID) (*types.Artifact, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return a, nil
}

// Children returns the direct structural children of id, sorted.
func (s *Snapshot) Children(id types.ArtifactID) ([]*types.Artifact, error) {
	var out []*types.Artifact
	for _, a := range s.ordered {
		if a.ID.IsChildOf(id) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Siblings returns the other children of id's parent, sorted. Initiatives
// have no siblings in the structural sense.
func (s *Snapshot) Siblings(id types.ArtifactID) ([]*types.Artifact, error) {
	parent, ok := id.Parent()
	if !ok {
		return nil, nil
	}
	children, _ := s.Children(parent)
	var out []*types.Artifact
	for _, c := range children {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out, nil
}

// Ancestors returns id's chain of parents, root first. Links missing from
// the snapshot are skipped so partial workspaces still resolve.
func (s *Snapshot) Ancestors(id types.ArtifactID) ([]*types.Artifact, error) {
	var chain []*types.Artifact
	cur := id
	for {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		if a, found := s.byID[parent]; found {
			chain = append([]*types.Artifact{a}, chain...)
		}
		cur = parent
	}
	return chain, nil
}

// Dependents returns the artifacts whose blocked_by names id, sorted.
func (s *Snapshot) Dependents(id types.ArtifactID) ([]*types.Artifact, error) {
	var out []*types.Artifact
	for _, a := range s.ordered {
		if a.Relationships.HasBlocker(id) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Graph projects the snapshot's dependency edges for the validator.
func (s *Snapshot) Graph() depgraph.Graph {
	g := make(depgraph.Graph, len(s.byID))
	for id, a := range s.byID {
		g[id] = a.Relationships
	}
	return g
}

// States projects every artifact's current state.
func (s *Snapshot) States() map[types.ArtifactID]types.State {
	m := make(map[types.ArtifactID]types.State, len(s.byID))
	for id, a := range s.byID {
		m[id] = a.CurrentState()
	}
	return m
}
