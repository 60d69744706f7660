package yamlstore

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	renameRetries    = 3
	renameRetryDelay = 100 * time.Millisecond
)

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers see either the old content or the new
// content but never a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename lands

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	return renameWithRetry(tmpName, path)
}

// renameWithRetry renames with a short exponential backoff on Windows,
// where antivirus or indexing can hold the destination open briefly.
// Elsewhere a rename either works or fails for a real reason.
func renameWithRetry(oldPath, newPath string) error {
	err := os.Rename(oldPath, newPath)
	if err == nil || runtime.GOOS != "windows" {
		if err != nil {
			return fmt.Errorf("renaming %s to %s: %w", oldPath, newPath, err)
		}
		return nil
	}
	delay := renameRetryDelay
	for i := 0; i < renameRetries; i++ {
		time.Sleep(delay)
		if err = os.Rename(oldPath, newPath); err == nil {
			return nil
		}
		delay *= 2
	}
	return fmt.Errorf("renaming %s to %s after %d retries: %w", oldPath, newPath, renameRetries, err)
}
