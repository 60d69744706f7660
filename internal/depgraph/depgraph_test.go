package depgraph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// rel is shorthand for building edges in test graphs: first argument is
// blocks, second is blocked_by, both optional.
func rel(lists ...[]types.ArtifactID) types.Relationships {
	r := types.Relationships{}
	if len(lists) > 0 {
		r.Blocks = lists[0]
	}
	if len(lists) > 1 {
		r.BlockedBy = lists[1]
	}
	return r
}

func ids(ss ...string) []types.ArtifactID {
	out := make([]types.ArtifactID, len(ss))
	for i, s := range ss {
		out[i] = types.ArtifactID(s)
	}
	return out
}

func TestValidateClean(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.2")),
		"A.2": rel(nil, ids("A.1")),
		"A.3": rel(),
	}
	if err := Validate(g); err != nil {
		t.Errorf("clean graph should validate, got: %v", err)
	}
	if err := Validate(Graph{}); err != nil {
		t.Errorf("empty graph should validate, got: %v", err)
	}
}

func TestValidateMissingReference(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.9")), // A.9 does not exist
	}
	err := Validate(g)
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Missing) != 1 {
		t.Fatalf("missing findings = %d, want 1", len(verr.Missing))
	}
	m := verr.Missing[0]
	if m.From != "A.1" || m.To != "A.9" || m.Field != "blocks" {
		t.Errorf("wrong finding: %+v", m)
	}
}

func TestValidateAsymmetry(t *testing.T) {
	// A.1 claims to block A.2, but A.2 does not list A.1.
	// A.3 claims to be blocked by A.2, but A.2 does not block it.
	g := Graph{
		"A.1": rel(ids("A.2")),
		"A.2": rel(),
		"A.3": rel(nil, ids("A.2")),
	}
	err := Validate(g)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Asymmetric) != 2 {
		t.Fatalf("asymmetric findings = %d, want 2: %v", len(verr.Asymmetric), verr)
	}
	if verr.Asymmetric[0].Field != "blocks" || verr.Asymmetric[1].Field != "blocked_by" {
		t.Errorf("findings out of order: %v", verr.Findings())
	}
}

func TestValidateCycle(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.2"), ids("A.3")),
		"A.2": rel(ids("A.3"), ids("A.1")),
		"A.3": rel(ids("A.1"), ids("A.2")),
	}
	err := Validate(g)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Cycles) != 1 {
		t.Fatalf("cycles = %d, want 1: %v", len(verr.Cycles), verr)
	}
	members := verr.Cycles[0].Members
	if len(members) != 3 {
		t.Errorf("cycle should have 3 members, got %v", members)
	}
	seen := map[types.ArtifactID]bool{}
	for _, m := range members {
		seen[m] = true
	}
	for _, want := range ids("A.1", "A.2", "A.3") {
		if !seen[want] {
			t.Errorf("cycle missing member %s: %v", want, members)
		}
	}
}

func TestValidateSelfDependency(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.1"), ids("A.1")),
	}
	err := Validate(g)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Cycles) != 1 || len(verr.Cycles[0].Members) != 1 {
		t.Errorf("self dependency should be a length-1 cycle: %v", verr.Cycles)
	}
}

func TestValidateAggregatesFindings(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.9")),           // missing
		"A.2": rel(ids("A.3")),           // asymmetric
		"A.3": rel(nil, ids("A.4")),      // asymmetric (A.4 exists, no mirror)
		"A.4": rel(nil, ids("A.4")),      // self cycle + asymmetric pair
		"A.5": rel(),
	}
	err := Validate(g)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Count() < 3 {
		t.Errorf("expected at least one finding of each kind, got %v", verr)
	}
	if len(verr.Missing) == 0 || len(verr.Asymmetric) == 0 || len(verr.Cycles) == 0 {
		t.Errorf("findings not grouped: %+v", verr)
	}
}

func TestDependents(t *testing.T) {
	g := Graph{
		"A.1": rel(ids("A.2", "A.3")),
		"A.2": rel(nil, ids("A.1")),
		"A.3": rel(nil, ids("A.1", "A.2")),
		"B.1": rel(),
	}
	got := Dependents(g, "A.1")
	if !reflect.DeepEqual(got, ids("A.2", "A.3")) {
		t.Errorf("Dependents(A.1) = %v", got)
	}
	if got := Dependents(g, "B.1"); len(got) != 0 {
		t.Errorf("Dependents(B.1) = %v, want none", got)
	}
}

func TestTransitiveDependencies(t *testing.T) {
	// Diamond: A.4 waits on A.2 and A.3, both wait on A.1.
	g := Graph{
		"A.1": rel(ids("A.2", "A.3")),
		"A.2": rel(ids("A.4"), ids("A.1")),
		"A.3": rel(ids("A.4"), ids("A.1")),
		"A.4": rel(nil, ids("A.2", "A.3")),
	}
	got := TransitiveDependencies(g, "A.4")
	if !reflect.DeepEqual(got, ids("A.1", "A.2", "A.3")) {
		t.Errorf("closure = %v", got)
	}
	if got := TransitiveDependencies(g, "A.1"); len(got) != 0 {
		t.Errorf("A.1 has no dependencies, got %v", got)
	}
}

func TestTransitiveDependenciesToleratesCycles(t *testing.T) {
	g := Graph{
		"A.1": rel(nil, ids("A.2")),
		"A.2": rel(nil, ids("A.1")),
	}
	got := TransitiveDependencies(g, "A.1")
	if !reflect.DeepEqual(got, ids("A.2")) {
		t.Errorf("cycle closure = %v, want just A.2", got)
	}
}

func TestOrphaned(t *testing.T) {
	g := Graph{
		"A.1": rel(nil, ids("A.2")), // blocker completed: stuck
		"A.2": rel(ids("A.1")),
		"A.3": rel(nil, ids("A.4")), // blocker in flight: fine
		"A.4": rel(ids("A.3")),
		"A.5": rel(nil, ids("A.9")), // blocker missing entirely: stuck
		"A.6": rel(),                // blocked with no blockers: stuck
		"A.7": rel(nil, ids("A.4")), // not blocked, ignored
	}
	states := map[types.ArtifactID]types.State{
		"A.1": types.StateBlocked,
		"A.2": types.StateCompleted,
		"A.3": types.StateBlocked,
		"A.4": types.StateInProgress,
		"A.5": types.StateBlocked,
		"A.6": types.StateBlocked,
		"A.7": types.StateReady,
	}
	got := Orphaned(g, states)
	if !reflect.DeepEqual(got, ids("A.1", "A.5", "A.6")) {
		t.Errorf("Orphaned = %v", got)
	}
}
