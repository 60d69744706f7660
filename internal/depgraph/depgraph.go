// Package depgraph validates and queries the artifact dependency graph.
//
// The graph is a pure value: dependency edges keyed by artifact ID, with
// no storage or I/O behind them. Validation runs three checks in order:
// referential integrity, bidirectional consistency, and cycle detection.
// All output is sorted so findings are stable run to run.
package depgraph

import (
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Graph maps every artifact in the workspace to its dependency edges.
// Artifacts without edges still appear as keys; that is what separates a
// leaf from a dangling reference.
type Graph map[types.ArtifactID]types.Relationships

// Validate checks the whole graph and returns nil or a *ValidationError
// carrying every finding. One bad edge never masks another.
func Validate(g Graph) error {
	verr := &ValidationError{}
	ids := sortedIDs(g)

	for _, id := range ids {
		rel := g[id]
		for _, to := range sortedCopy(rel.Blocks) {
			if _, ok := g[to]; !ok {
				verr.Missing = append(verr.Missing, &MissingReferenceError{From: id, Field: "blocks", To: to})
			}
		}
		for _, to := range sortedCopy(rel.BlockedBy) {
			if _, ok := g[to]; !ok {
				verr.Missing = append(verr.Missing, &MissingReferenceError{From: id, Field: "blocked_by", To: to})
			}
		}
	}

	for _, id := range ids {
		rel := g[id]
		for _, to := range sortedCopy(rel.Blocks) {
			other, ok := g[to]
			if !ok {
				continue // already reported as missing
			}
			if !other.HasBlocker(id) {
				verr.Asymmetric = append(verr.Asymmetric, &AsymmetryError{From: id, Field: "blocks", To: to})
			}
		}
		for _, to := range sortedCopy(rel.BlockedBy) {
			other, ok := g[to]
			if !ok {
				continue
			}
			if !other.HasDependent(id) {
				verr.Asymmetric = append(verr.Asymmetric, &AsymmetryError{From: id, Field: "blocked_by", To: to})
			}
		}
	}

	verr.Cycles = findCycles(g, ids)

	if verr.Count() == 0 {
		return nil
	}
	return verr
}

// findCycles runs DFS over blocked_by edges with a recursion stack,
// extracting each cycle's path once.
func findCycles(g Graph, ids []types.ArtifactID) []*CycleError {
	var cycles []*CycleError
	visited := make(map[types.ArtifactID]bool)
	recStack := make(map[types.ArtifactID]bool)
	path := make([]types.ArtifactID, 0)

	var dfs func(node types.ArtifactID)
	dfs = func(node types.ArtifactID) {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, dep := range sortedCopy(g[node].BlockedBy) {
			if _, ok := g[dep]; !ok {
				continue // dangling edges are a referential finding, not a cycle
			}
			if !visited[dep] {
				dfs(dep)
			} else if recStack[dep] {
				// Found a cycle: everything on the path from dep onward.
				start := -1
				for i, n := range path {
					if n == dep {
						start = i
						break
					}
				}
				if start >= 0 {
					members := append([]types.ArtifactID(nil), path[start:]...)
					cycles = append(cycles, &CycleError{Members: members})
				}
			}
		}

		path = path[:len(path)-1]
		recStack[node] = false
	}

	for _, id := range ids {
		if !visited[id] {
			dfs(id)
		}
	}
	return cycles
}

// Dependents returns the artifacts directly waiting on id: every artifact
// whose blocked_by names it. Sorted.
func Dependents(g Graph, id types.ArtifactID) []types.ArtifactID {
	var out []types.ArtifactID
	for other, rel := range g {
		if rel.HasBlocker(id) {
			out = append(out, other)
		}
	}
	types.SortIDs(out)
	return out
}

// TransitiveDependencies returns everything id waits on, directly or
// through other artifacts, following blocked_by edges. The artifact itself
// is excluded even when a cycle leads back to it. Sorted.
func TransitiveDependencies(g Graph, id types.ArtifactID) []types.ArtifactID {
	seen := make(map[types.ArtifactID]bool)
	var walk func(types.ArtifactID)
	walk = func(cur types.ArtifactID) {
		for _, dep := range g[cur].BlockedBy {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			walk(dep)
		}
	}
	walk(id)
	delete(seen, id)

	out := make([]types.ArtifactID, 0, len(seen))
	for dep := range seen {
		out = append(out, dep)
	}
	types.SortIDs(out)
	return out
}

// Orphaned returns blocked artifacts that the graph will never unblock:
// every blocker is terminal, missing, or there are no blockers at all, so
// no future completion can fire their readiness. Sorted.
func Orphaned(g Graph, states map[types.ArtifactID]types.State) []types.ArtifactID {
	var out []types.ArtifactID
	for id, st := range states {
		if st != types.StateBlocked {
			continue
		}
		stuck := true
		for _, b := range g[id].BlockedBy {
			bst, ok := states[b]
			if ok && !bst.IsTerminal() {
				stuck = false
				break
			}
		}
		if stuck {
			out = append(out, id)
		}
	}
	types.SortIDs(out)
	return out
}

func sortedIDs(g Graph) []types.ArtifactID {
	ids := make([]types.ArtifactID, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	types.SortIDs(ids)
	return ids
}

func sortedCopy(ids []types.ArtifactID) []types.ArtifactID {
	if len(ids) < 2 {
		return ids
	}
	cp := append([]types.ArtifactID(nil), ids...)
	types.SortIDs(cp)
	return cp
}
