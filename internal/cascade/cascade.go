// Package cascade computes the follow-on events that an artifact's state
// change owes the rest of the workspace.
//
// The engine is pure: it reads a snapshot through TreeAccessor, emits
// Actions (artifact ID + the event to append), and never persists. The
// caller appends the triggering event before running a cascade, so the
// snapshot already reflects it. Every emitted transition is guarded on the
// target's current state, which makes cascades idempotent: re-running
// after the actions are persisted yields nothing.
package cascade

import (
	"fmt"
	"time"

	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// DefaultActor identifies the engine on cascaded events, shaped like the
// "Name (email)" convention human actors use.
const DefaultActor = "System Cascade (cascade@kodebase)"

// TreeAccessor resolves artifacts and their neighborhoods from a
// consistent snapshot. Implementations return child, sibling, and
// dependent lists in natural ID order so cascade output is deterministic.
type TreeAccessor interface {
	// Get returns the artifact or an error when the ID is unknown.
	Get(id types.ArtifactID) (*types.Artifact, error)
	// Children returns the direct structural children of id.
	Children(id types.ArtifactID) ([]*types.Artifact, error)
	// Siblings returns the other children of id's parent.
	Siblings(id types.ArtifactID) ([]*types.Artifact, error)
	// Ancestors returns id's chain of parents, root first.
	Ancestors(id types.ArtifactID) ([]*types.Artifact, error)
	// Dependents returns the artifacts whose blocked_by names id.
	Dependents(id types.ArtifactID) ([]*types.Artifact, error)
}

// Action pairs an artifact with the event the cascade wants appended.
type Action struct {
	ID    types.ArtifactID `json:"id"`
	Event types.Event      `json:"event"`
}

// BranchError records a failure evaluating one branch of a cascade.
// Other branches keep going.
type BranchError struct {
	ID  types.ArtifactID
	Err error
}

func (e BranchError) Error() string {
	return fmt.Sprintf("cascade branch %s: %v", e.ID, e.Err)
}

func (e BranchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one cascade pass: actions in emission order
// (parent completions before dependent readiness before progress), plus
// any branch failures.
type Result struct {
	Actions []Action      `json:"actions"`
	Errors  []BranchError `json:"errors,omitempty"`
}

// IsEmpty reports whether the pass produced neither actions nor errors.
func (r Result) IsEmpty() bool {
	return len(r.Actions) == 0 && len(r.Errors) == 0
}

// Engine evaluates cascades against one snapshot.
type Engine struct {
	tree  TreeAccessor
	actor string
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithActor overrides the actor stamped on cascaded events.
func WithActor(actor string) Option {
	return func(e *Engine) { e.actor = actor }
}

// WithClock overrides the timestamp source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine over tree. The engine holds no cross-call state;
// one engine can serve many passes over the same snapshot.
func New(tree TreeAccessor, opts ...Option) *Engine {
	e := &Engine{
		tree:  tree,
		actor: DefaultActor,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pass carries the state overlay for one cascade invocation: states the
// pass has already decided to change, consulted before the snapshot so
// later stages see earlier emissions.
type pass struct {
	engine  *Engine
	pending map[types.ArtifactID]types.State
}

func (e *Engine) newPass() *pass {
	return &pass{engine: e, pending: make(map[types.ArtifactID]types.State)}
}

func (p *pass) stateOf(a *types.Artifact) types.State {
	if st, ok := p.pending[a.ID]; ok {
		return st
	}
	return a.CurrentState()
}

// emit validates the transition for a and appends the action. The overlay
// is updated so the rest of the pass sees the new state.
func (p *pass) emit(res *Result, a *types.Artifact, to types.State, trigger types.Trigger) error {
	from := p.stateOf(a)
	if err := lifecycle.Validate(from, to); err != nil {
		return err
	}
	ev := lifecycle.NewEvent(to, p.engine.actor,
		lifecycle.WithTrigger(trigger),
		lifecycle.WithTimestamp(p.engine.now()),
	)
	res.Actions = append(res.Actions, Action{ID: a.ID, Event: ev})
	p.pending[a.ID] = to
	return nil
}

// Completion evaluates id's parent after id completed: when the parent is
// in_progress and every one of its children is completed, the parent moves
// to in_review for human sign-off.
func (e *Engine) Completion(id types.ArtifactID) Result {
	p := e.newPass()
	res := &Result{}
	p.completion(res, id)
	return *res
}

func (p *pass) completion(res *Result, id types.ArtifactID) {
	parentID, ok := id.Parent()
	if !ok {
		return // initiatives have nothing above them
	}
	parent, err := p.engine.tree.Get(parentID)
	if err != nil {
		return // partial workspaces are not an error here
	}
	if p.stateOf(parent) != types.StateInProgress {
		return
	}
	children, err := p.engine.tree.Children(parentID)
	if err != nil || len(children) == 0 {
		return
	}
	for _, c := range children {
		if p.stateOf(c) != types.StateCompleted {
			return
		}
	}
	if err := p.emit(res, parent, types.StateInReview, types.TriggerChildrenCompleted); err != nil {
		res.Errors = append(res.Errors, BranchError{ID: parentID, Err: err})
	}
}

// Readiness evaluates the dependents of id after it completed: any
// dependent sitting in blocked whose blockers are now all completed moves
// to ready.
func (e *Engine) Readiness(id types.ArtifactID) Result {
	p := e.newPass()
	res := &Result{}
	p.readiness(res, id)
	return *res
}

func (p *pass) readiness(res *Result, id types.ArtifactID) {
	dependents, err := p.engine.tree.Dependents(id)
	if err != nil {
		return
	}
	for _, d := range dependents {
		if p.stateOf(d) != types.StateBlocked {
			continue
		}
		met := true
		var branchErr error
		for _, blockerID := range d.Relationships.BlockedBy {
			blocker, err := p.engine.tree.Get(blockerID)
			if err != nil {
				branchErr = fmt.Errorf("resolving blocker %s: %w", blockerID, err)
				met = false
				break
			}
			if p.stateOf(blocker) != types.StateCompleted {
				met = false
				break
			}
		}
		if branchErr != nil {
			res.Errors = append(res.Errors, BranchError{ID: d.ID, Err: branchErr})
			continue
		}
		if !met {
			continue
		}
		if err := p.emit(res, d, types.StateReady, types.TriggerDependenciesMet); err != nil {
			res.Errors = append(res.Errors, BranchError{ID: d.ID, Err: err})
		}
	}
}

// Progress walks up from id after work started on it: each ancestor still
// sitting in ready moves to in_progress, stopping at the first one that
// has nothing to do.
func (e *Engine) Progress(id types.ArtifactID) Result {
	p := e.newPass()
	res := &Result{}
	p.progress(res, id)
	return *res
}

func (p *pass) progress(res *Result, id types.ArtifactID) {
	cur := id
	for {
		parentID, ok := cur.Parent()
		if !ok {
			return
		}
		parent, err := p.engine.tree.Get(parentID)
		if err != nil {
			return
		}
		if p.stateOf(parent) != types.StateReady {
			return
		}
		if err := p.emit(res, parent, types.StateInProgress, types.TriggerChildStarted); err != nil {
			res.Errors = append(res.Errors, BranchError{ID: parentID, Err: err})
			return
		}
		cur = parentID
	}
}

// Run is the combined entry point. The cause trigger decides the route:
// progress-class causes (work beginning) run the progress cascade;
// everything else runs completion and then readiness. A parent promoted to
// in_review releases nothing downstream until it is completed itself, so
// one pass from id covers the whole reachable effect. Branch failures are
// collected in the result and never abort sibling branches.
func (e *Engine) Run(id types.ArtifactID, cause types.Trigger) Result {
	p := e.newPass()
	res := &Result{}

	if cause.IsProgressCause() {
		p.progress(res, id)
		return *res
	}

	p.completion(res, id)
	p.readiness(res, id)
	return *res
}
