// Package types defines core data structures for the kodebase artifact tracker.
package types

import (
	"fmt"
	"time"
)

// State is a lifecycle state recorded by an artifact event.
type State string

// Lifecycle state constants
const (
	StateDraft      State = "draft"
	StateReady      State = "ready"
	StateBlocked    State = "blocked"
	StateInProgress State = "in_progress"
	StateInReview   State = "in_review"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
	StateArchived   State = "archived"
)

// IsValid checks if the state value is valid
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateReady, StateBlocked, StateInProgress, StateInReview, StateCompleted, StateCancelled, StateArchived:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions can leave the state.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateArchived
}

// AllStates returns every valid state in display order.
func AllStates() []State {
	return []State{
		StateDraft,
		StateReady,
		StateBlocked,
		StateInProgress,
		StateInReview,
		StateCompleted,
		StateCancelled,
		StateArchived,
	}
}

// Trigger records what caused a lifecycle event.
type Trigger string

// Trigger constants. The set is open: unknown triggers round-trip through
// storage untouched so older files keep working after vocabulary changes.
const (
	TriggerArtifactCreated   Trigger = "artifact_created"
	TriggerWorkStarted       Trigger = "work_started"
	TriggerBranchCreated     Trigger = "branch_created"
	TriggerPRMerged          Trigger = "pr_merged"
	TriggerDependenciesMet   Trigger = "dependencies_met"
	TriggerChildrenCompleted Trigger = "children_completed"
	TriggerChildStarted      Trigger = "child_started"
	TriggerChildrenStarted   Trigger = "children_started"
	TriggerManual            Trigger = "manual"
)

// IsValid checks if the trigger is part of the known vocabulary
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerArtifactCreated, TriggerWorkStarted, TriggerBranchCreated, TriggerPRMerged,
		TriggerDependenciesMet, TriggerChildrenCompleted, TriggerChildStarted, TriggerChildrenStarted,
		TriggerManual:
		return true
	}
	return false
}

// IsProgressCause reports whether the trigger marks work beginning rather
// than work finishing. Cascade routing keys off this split.
func (t Trigger) IsProgressCause() bool {
	switch t {
	case TriggerBranchCreated, TriggerWorkStarted, TriggerChildrenStarted:
		return true
	}
	return false
}

// Event is one append-only entry in an artifact's lifecycle log. The state
// entered is serialized under the legacy "event" key.
type Event struct {
	State     State             `yaml:"event" json:"event"`
	Timestamp time.Time         `yaml:"timestamp" json:"timestamp"`
	Actor     string            `yaml:"actor" json:"actor"` // "Name (email)" by convention
	Trigger   Trigger           `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Reason    string            `yaml:"reason,omitempty" json:"reason,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Relationships holds the dependency edges of an artifact. Blocks and
// BlockedBy must stay bidirectionally consistent across the workspace:
// X blocks Y exactly when Y is blocked by X.
type Relationships struct {
	Blocks    []ArtifactID `yaml:"blocks,omitempty" json:"blocks,omitempty"`
	BlockedBy []ArtifactID `yaml:"blocked_by,omitempty" json:"blocked_by,omitempty"`
}

// HasBlocker reports whether id appears in BlockedBy.
func (r Relationships) HasBlocker(id ArtifactID) bool {
	for _, b := range r.BlockedBy {
		if b == id {
			return true
		}
	}
	return false
}

// HasDependent reports whether id appears in Blocks.
func (r Relationships) HasDependent(id ArtifactID) bool {
	for _, b := range r.Blocks {
		if b == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (r Relationships) Clone() Relationships {
	out := Relationships{}
	if r.Blocks != nil {
		out.Blocks = append([]ArtifactID(nil), r.Blocks...)
	}
	if r.BlockedBy != nil {
		out.BlockedBy = append([]ArtifactID(nil), r.BlockedBy...)
	}
	return out
}

// Artifact represents a trackable unit of work: an initiative, milestone,
// or issue depending on its ID depth.
type Artifact struct {
	ID            ArtifactID    `yaml:"id" json:"id"`
	Title         string        `yaml:"title" json:"title"`
	Description   string        `yaml:"description,omitempty" json:"description,omitempty"`
	Priority      int           `yaml:"priority,omitempty" json:"priority,omitempty"` // 1..3; 0 means unset
	Owner         string        `yaml:"owner,omitempty" json:"owner,omitempty"`
	Estimate      string        `yaml:"estimate,omitempty" json:"estimate,omitempty"`
	Relationships Relationships `yaml:"relationships,omitempty" json:"relationships,omitempty"`
	Events        []Event       `yaml:"events,omitempty" json:"events,omitempty"`
}

// CurrentState returns the state named by the most recent event, or
// StateDraft for an artifact with no events yet.
func (a *Artifact) CurrentState() State {
	if len(a.Events) == 0 {
		return StateDraft
	}
	return a.Events[len(a.Events)-1].State
}

// LastEvent returns the most recent event, if any.
func (a *Artifact) LastEvent() (Event, bool) {
	if len(a.Events) == 0 {
		return Event{}, false
	}
	return a.Events[len(a.Events)-1], true
}

// CreatedAt returns the timestamp of the first event, or zero.
func (a *Artifact) CreatedAt() time.Time {
	if len(a.Events) == 0 {
		return time.Time{}
	}
	return a.Events[0].Timestamp
}

// UpdatedAt returns the timestamp of the last event, or zero.
func (a *Artifact) UpdatedAt() time.Time {
	if len(a.Events) == 0 {
		return time.Time{}
	}
	return a.Events[len(a.Events)-1].Timestamp
}

// Level returns the hierarchy level implied by the artifact's ID.
func (a *Artifact) Level() Level {
	return a.ID.Level()
}

// IsTerminal reports whether the artifact's current state is terminal.
func (a *Artifact) IsTerminal() bool {
	return a.CurrentState().IsTerminal()
}

// Clone returns a deep copy of the artifact.
func (a *Artifact) Clone() *Artifact {
	out := *a
	out.Relationships = a.Relationships.Clone()
	if a.Events != nil {
		out.Events = make([]Event, len(a.Events))
		copy(out.Events, a.Events)
		for i, ev := range a.Events {
			if ev.Metadata != nil {
				m := make(map[string]string, len(ev.Metadata))
				for k, v := range ev.Metadata {
					m[k] = v
				}
				out.Events[i].Metadata = m
			}
		}
	}
	return &out
}

// Validate checks structural soundness: a parseable ID, a title, and a
// well-formed event log. Dependency edges are checked workspace-wide by
// the graph validator, not here.
func (a *Artifact) Validate() error {
	if !a.ID.IsValid() {
		return fmt.Errorf("invalid artifact ID %q", a.ID)
	}
	if a.Title == "" {
		return fmt.Errorf("artifact %s: title is required", a.ID)
	}
	if a.Priority < 0 || a.Priority > 3 {
		return fmt.Errorf("artifact %s: priority %d out of range 0-3", a.ID, a.Priority)
	}
	var prev time.Time
	for i, ev := range a.Events {
		if !ev.State.IsValid() {
			return fmt.Errorf("artifact %s: event %d has unknown state %q", a.ID, i, ev.State)
		}
		if ev.Timestamp.IsZero() {
			return fmt.Errorf("artifact %s: event %d has no timestamp", a.ID, i)
		}
		if ev.Timestamp.Before(prev) {
			return fmt.Errorf("artifact %s: event %d timestamp precedes event %d", a.ID, i, i-1)
		}
		if ev.State == StateBlocked && ev.Reason == "" {
			return fmt.Errorf("artifact %s: event %d enters blocked without a reason", a.ID, i)
		}
		prev = ev.Timestamp
	}
	return nil
}
