// Package yamlstore persists artifacts as YAML files under
// .kodebase/artifacts, one file per artifact grouped by initiative:
//
//	.kodebase/artifacts/A/A.yml
//	.kodebase/artifacts/A/A.1.yml
//	.kodebase/artifacts/A/A.1.3.yml
//
// Every operation reads fresh from disk and writes through a temp file
// rename, so concurrent readers never observe a half-written artifact.
package yamlstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// loadConcurrency bounds the fan-out when parsing a whole workspace.
const loadConcurrency = 8

// Store is the YAML-file implementation of storage.Store.
type Store struct {
	dir string // the .kodebase directory
}

var _ storage.Store = (*Store)(nil)

// Open returns a store rooted at kodebaseDir (the .kodebase directory).
// The directory must exist; callers create it with workspace init.
func Open(kodebaseDir string) (*Store, error) {
	info, err := os.Stat(kodebaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", kodebaseDir, storage.ErrWorkspaceMissing)
		}
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", kodebaseDir)
	}
	return &Store{dir: kodebaseDir}, nil
}

// Dir returns the .kodebase directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// ArtifactsDir returns the directory holding artifact files.
func (s *Store) ArtifactsDir() string {
	return filepath.Join(s.dir, "artifacts")
}

func (s *Store) artifactPath(id types.ArtifactID) string {
	return filepath.Join(s.ArtifactsDir(), string(id.Initiative()), string(id)+".yml")
}

// Get reads one artifact by ID.
func (s *Store) Get(ctx context.Context, id types.ArtifactID) (*types.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !id.IsValid() {
		return nil, fmt.Errorf("invalid artifact ID %q", id)
	}
	return s.readFile(s.artifactPath(id), id)
}

func (s *Store) readFile(path string, want types.ArtifactID) (*types.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", want, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var a types.Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if want != "" && a.ID != want {
		return nil, fmt.Errorf("%s: file holds artifact %s, expected %s", path, a.ID, want)
	}
	return &a, nil
}

// List reads every artifact in the workspace, in natural ID order. Files
// are parsed concurrently; the first failure aborts the load so callers
// never act on a partially corrupt workspace.
func (s *Store) List(ctx context.Context) ([]*types.Artifact, error) {
	paths, err := s.artifactFiles()
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out []*types.Artifact
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := s.readFile(path, "")
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, a)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	types.SortArtifacts(out)
	return out, nil
}

func (s *Store) artifactFiles() ([]string, error) {
	root := s.ArtifactsDir()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return nil // uninitialized artifact dir reads as empty
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".yml") || strings.HasSuffix(d.Name(), ".yaml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Create persists a new artifact. Fails when the ID is already on disk.
func (s *Store) Create(ctx context.Context, a *types.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	path := s.artifactPath(a.ID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", a.ID, storage.ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating initiative directory: %w", err)
	}
	return s.writeArtifact(path, a)
}

// Update rewrites the descriptive fields of an existing artifact. The
// event log and dependency edges on disk win over whatever the caller's
// copy carries, so a stale in-memory artifact cannot roll them back.
func (s *Store) Update(ctx context.Context, a *types.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	current, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	current.Title = a.Title
	current.Description = a.Description
	current.Priority = a.Priority
	current.Owner = a.Owner
	current.Estimate = a.Estimate
	if err := current.Validate(); err != nil {
		return err
	}
	return s.writeArtifact(s.artifactPath(a.ID), current)
}

// AppendEvent appends one lifecycle event to the artifact's log.
func (s *Store) AppendEvent(ctx context.Context, id types.ArtifactID, ev types.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	a.Events = append(a.Events, ev)
	if err := a.Validate(); err != nil {
		return fmt.Errorf("appending event to %s: %w", id, err)
	}
	return s.writeArtifact(s.artifactPath(id), a)
}

// AddDependency records blocker -> blocked symmetrically. Adding an edge
// that already exists is a no-op.
func (s *Store) AddDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	if blocker == blocked {
		return fmt.Errorf("%s cannot depend on itself", blocker)
	}
	b, err := s.Get(ctx, blocker)
	if err != nil {
		return err
	}
	d, err := s.Get(ctx, blocked)
	if err != nil {
		return err
	}
	if !b.Relationships.HasDependent(blocked) {
		b.Relationships.Blocks = append(b.Relationships.Blocks, blocked)
		if err := s.writeArtifact(s.artifactPath(blocker), b); err != nil {
			return err
		}
	}
	if !d.Relationships.HasBlocker(blocker) {
		d.Relationships.BlockedBy = append(d.Relationships.BlockedBy, blocker)
		if err := s.writeArtifact(s.artifactPath(blocked), d); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDependency removes the edge from both sides. Removing an edge
// that does not exist is a no-op.
func (s *Store) RemoveDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	b, err := s.Get(ctx, blocker)
	if err != nil {
		return err
	}
	d, err := s.Get(ctx, blocked)
	if err != nil {
		return err
	}
	if removed := removeID(&b.Relationships.Blocks, blocked); removed {
		if err := s.writeArtifact(s.artifactPath(blocker), b); err != nil {
			return err
		}
	}
	if removed := removeID(&d.Relationships.BlockedBy, blocker); removed {
		if err := s.writeArtifact(s.artifactPath(blocked), d); err != nil {
			return err
		}
	}
	return nil
}

func removeID(list *[]types.ArtifactID, id types.ArtifactID) bool {
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot loads the whole workspace into an immutable view.
func (s *Store) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	arts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewSnapshot(arts), nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

func (s *Store) writeArtifact(path string, a *types.Artifact) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", a.ID, err)
	}
	return writeFileAtomic(path, data, 0o644)
}
