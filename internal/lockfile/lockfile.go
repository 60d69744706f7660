// Package lockfile serializes mutating commands against a workspace.
//
// Artifact writes touch up to three YAML files (the artifact, its blocker,
// and cascade targets), so two concurrent kb processes could interleave and
// drop each other's edits. An advisory flock on .kodebase/kb.lock makes
// mutations take turns; readers never take the lock.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
)

// FileName is the lock file kept inside the .kodebase directory.
const FileName = "kb.lock"

const acquireMaxElapsed = 10 * time.Second

// ErrLockBusy reports that another process held the lock for the whole
// acquisition window.
var ErrLockBusy = errors.New("workspace is locked by another kb process")

// Lock is a held workspace lock. Release it when the mutation is done;
// the lock also dies with the process, so a crash cannot wedge the
// workspace.
type Lock struct {
	fl *flock.Flock
}

func newAcquireBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always build a fresh one.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = acquireMaxElapsed
	return bo
}

// Acquire takes the exclusive workspace lock, retrying with exponential
// backoff until the context is cancelled or the acquisition window runs
// out.
func Acquire(ctx context.Context, kodebaseDir string) (*Lock, error) {
	fl := flock.New(filepath.Join(kodebaseDir, FileName))
	err := backoff.Retry(func() error {
		locked, err := fl.TryLock()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("locking %s: %w", fl.Path(), err))
		}
		if !locked {
			return ErrLockBusy
		}
		return nil
	}, backoff.WithContext(newAcquireBackoff(), ctx))
	if err != nil {
		return nil, err
	}
	return &Lock{fl: fl}, nil
}

// TryAcquire takes the lock without waiting. It returns ErrLockBusy when
// another process holds it.
func TryAcquire(kodebaseDir string) (*Lock, error) {
	fl := flock.New(filepath.Join(kodebaseDir, FileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, ErrLockBusy
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock. The lock file itself stays behind; flock state
// lives in the kernel, not the file contents.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
