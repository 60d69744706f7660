// Package kodebase provides a minimal public API for driving the artifact
// tracker programmatically.
//
// Most automation should shell out to kb with --json. This package exports
// only the essential types and functions for Go programs that want to read
// or mutate a workspace through the storage layer directly.
package kodebase

import (
	"github.com/kodebaseai/artifacts-sub003/internal/config"
	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/storage/yamlstore"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Core types for working with artifacts
type (
	Artifact      = types.Artifact
	ArtifactID    = types.ArtifactID
	Event         = types.Event
	State         = types.State
	Trigger       = types.Trigger
	Level         = types.Level
	Relationships = types.Relationships
)

// State constants
const (
	StateDraft      = types.StateDraft
	StateReady      = types.StateReady
	StateBlocked    = types.StateBlocked
	StateInProgress = types.StateInProgress
	StateInReview   = types.StateInReview
	StateCompleted  = types.StateCompleted
	StateCancelled  = types.StateCancelled
	StateArchived   = types.StateArchived
)

// Level constants
const (
	LevelInitiative = types.LevelInitiative
	LevelMilestone  = types.LevelMilestone
	LevelIssue      = types.LevelIssue
)

// Store is the workspace storage interface.
type Store = storage.Store

// Snapshot is an immutable point-in-time view of a workspace.
type Snapshot = storage.Snapshot

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = storage.ErrNotFound

// ErrWorkspaceMissing is returned by Open when the directory does not exist.
var ErrWorkspaceMissing = storage.ErrWorkspaceMissing

// ParseID validates a raw string as an artifact ID.
func ParseID(s string) (ArtifactID, error) {
	return types.ParseID(s)
}

// Open opens the workspace rooted at kodebaseDir (the .kodebase directory).
func Open(kodebaseDir string) (Store, error) {
	return yamlstore.Open(kodebaseDir)
}

// FindWorkspace walks up from the working directory looking for a .kodebase
// workspace, honoring the KB_DIR override. Empty when none is found.
func FindWorkspace() string {
	return config.FindDir()
}
