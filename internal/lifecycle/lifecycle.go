// Package lifecycle implements the artifact state machine.
//
// The machine is a pure table: it validates transitions and mints the
// events that record them, but it never mutates an artifact and never
// touches storage. Callers append the returned events themselves.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// transitions maps each state to its legal successors. Anything absent is
// illegal. Completed and archived have no successors.
var transitions = map[types.State][]types.State{
	types.StateDraft:      {types.StateReady, types.StateBlocked, types.StateCancelled},
	types.StateBlocked:    {types.StateReady, types.StateCancelled},
	types.StateReady:      {types.StateInProgress, types.StateCancelled},
	types.StateInProgress: {types.StateInReview, types.StateCancelled},
	types.StateInReview:   {types.StateCompleted, types.StateCancelled},
	types.StateCompleted:  {},
	types.StateCancelled:  {types.StateDraft, types.StateArchived},
	types.StateArchived:   {},
}

// TransitionError reports an attempt to move between states the table does
// not connect.
type TransitionError struct {
	From    types.State
	To      types.State
	Allowed []types.State
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("illegal transition %s -> %s: %s is terminal", e.From, e.To, e.From)
	}
	targets := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		targets[i] = string(s)
	}
	return fmt.Sprintf("illegal transition %s -> %s: from %s only %s", e.From, e.To, e.From, strings.Join(targets, ", "))
}

// CanTransition reports whether the table connects from to to.
func CanTransition(from, to types.State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidTargets returns the legal successor states of from, in table order.
func ValidTargets(from types.State) []types.State {
	return append([]types.State(nil), transitions[from]...)
}

// Validate returns nil when the transition is legal, otherwise a
// *TransitionError naming the legal targets.
func Validate(from, to types.State) error {
	if !from.IsValid() {
		return fmt.Errorf("unknown state %q", from)
	}
	if !to.IsValid() {
		return fmt.Errorf("unknown state %q", to)
	}
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to, Allowed: ValidTargets(from)}
	}
	return nil
}

// IsTerminal reports whether the state has no successors in the table.
func IsTerminal(s types.State) bool {
	succ, ok := transitions[s]
	return ok && len(succ) == 0
}

// RequiresReason reports whether events entering the state must carry a
// reason. Blocked events without one are rejected everywhere.
func RequiresReason(to types.State) bool {
	return to == types.StateBlocked
}

// EventOption customizes an event built by NewEvent.
type EventOption func(*types.Event)

// WithTrigger sets the event trigger.
func WithTrigger(tr types.Trigger) EventOption {
	return func(ev *types.Event) { ev.Trigger = tr }
}

// WithReason sets the free-text reason.
func WithReason(reason string) EventOption {
	return func(ev *types.Event) { ev.Reason = reason }
}

// WithMetadata adds one metadata key.
func WithMetadata(key, value string) EventOption {
	return func(ev *types.Event) {
		if ev.Metadata == nil {
			ev.Metadata = map[string]string{}
		}
		ev.Metadata[key] = value
	}
}

// WithTimestamp overrides the event timestamp. Tests and the cascade
// engine use this to keep output deterministic.
func WithTimestamp(t time.Time) EventOption {
	return func(ev *types.Event) { ev.Timestamp = t.UTC().Truncate(time.Second) }
}

// NewEvent builds an event entering state, stamped with the current UTC
// time at second precision to match the on-disk format.
func NewEvent(state types.State, actor string, opts ...EventOption) types.Event {
	ev := types.Event{
		State:     state,
		Actor:     actor,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

// NextEvent validates the move from the artifact's current state to to and
// returns the event that would record it. The artifact is not modified.
func NextEvent(a *types.Artifact, to types.State, actor string, opts ...EventOption) (types.Event, error) {
	if err := Validate(a.CurrentState(), to); err != nil {
		return types.Event{}, err
	}
	ev := NewEvent(to, actor, opts...)
	if RequiresReason(to) && ev.Reason == "" {
		return types.Event{}, fmt.Errorf("transition to %s requires a reason", to)
	}
	return ev, nil
}
