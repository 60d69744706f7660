package depgraph

import (
	"fmt"
	"strings"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// MissingReferenceError reports a dependency edge pointing at an ID that
// does not exist in the workspace.
type MissingReferenceError struct {
	From  types.ArtifactID
	Field string // "blocks" or "blocked_by"
	To    types.ArtifactID
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: %s references %s, which does not exist", e.From, e.Field, e.To)
}

// AsymmetryError reports a one-sided edge: From lists To, but To's mirror
// list does not name From.
type AsymmetryError struct {
	From  types.ArtifactID
	Field string // the list on From that holds the edge
	To    types.ArtifactID
}

func (e *AsymmetryError) Error() string {
	if e.Field == "blocks" {
		return fmt.Sprintf("%s blocks %s, but %s is not blocked_by %s", e.From, e.To, e.To, e.From)
	}
	return fmt.Sprintf("%s is blocked_by %s, but %s does not block %s", e.From, e.To, e.To, e.From)
}

// CycleError reports a dependency cycle. Members holds the cycle path in
// walk order; a self-dependency is a cycle of length one.
type CycleError struct {
	Members []types.ArtifactID
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Members)+1)
	for _, id := range e.Members {
		parts = append(parts, string(id))
	}
	if len(e.Members) > 0 {
		parts = append(parts, string(e.Members[0]))
	}
	return "circular dependency: " + strings.Join(parts, " -> ")
}

// ValidationError aggregates every finding from one Validate pass, grouped
// by kind in detection order.
type ValidationError struct {
	Missing    []*MissingReferenceError
	Asymmetric []*AsymmetryError
	Cycles     []*CycleError
}

// Count returns the total number of findings.
func (e *ValidationError) Count() int {
	return len(e.Missing) + len(e.Asymmetric) + len(e.Cycles)
}

// Findings flattens the grouped findings into one ordered list.
func (e *ValidationError) Findings() []error {
	out := make([]error, 0, e.Count())
	for _, f := range e.Missing {
		out = append(out, f)
	}
	for _, f := range e.Asymmetric {
		out = append(out, f)
	}
	for _, f := range e.Cycles {
		out = append(out, f)
	}
	return out
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dependency graph has %d problem(s)", e.Count())
	for _, f := range e.Findings() {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}
