package lockfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	lock, err := Acquire(ctx, dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	// A second holder must not get the lock while the first is live.
	if _, err := TryAcquire(dir); !errors.Is(err, ErrLockBusy) {
		t.Fatalf("TryAcquire while held = %v, want ErrLockBusy", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	second, err := TryAcquire(dir)
	if err != nil {
		t.Fatalf("TryAcquire after release: %v", err)
	}
	_ = second.Release()
}

func TestAcquireWaitsForHolder(t *testing.T) {
	dir := t.TempDir()

	holder := flock.New(filepath.Join(dir, FileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("setup TryLock: locked=%v err=%v", locked, err)
	}

	released := make(chan struct{})
	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = holder.Unlock()
		close(released)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lock, err := Acquire(ctx, dir)
	if err != nil {
		t.Fatalf("Acquire did not take over after release: %v", err)
	}
	<-released
	_ = lock.Release()
}

func TestAcquireHonorsContextCancel(t *testing.T) {
	dir := t.TempDir()

	holder := flock.New(filepath.Join(dir, FileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("setup TryLock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := Acquire(ctx, dir); err == nil {
		t.Fatal("Acquire succeeded against a held lock with expired context")
	}
}
