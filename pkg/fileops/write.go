package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to path atomically. The destination either
// contains the full new content or is left untouched; partial writes are
// never visible to readers.
//
// The write goes through a temporary file in the destination directory,
// is synced to disk, and is then renamed over the destination. Permissions
// default to 0644 for new files; an existing file keeps its mode.
func AtomicWriteFile(path string, data []byte) error {
	return AtomicWriteFileMode(path, data, 0o644)
}

// AtomicWriteFileMode is AtomicWriteFile with an explicit permission mode
// for newly created files. An existing file keeps its current mode.
func AtomicWriteFileMode(path string, data []byte, mode os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tempPath := path + ".tmp"
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	var writeSuccess bool
	defer func() {
		tempFile.Close()
		if !writeSuccess {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	writeSuccess = true
	return nil
}

// EnsureDirectoryExists creates a directory and all necessary parents.
// Equivalent to `mkdir -p`; safe to call multiple times.
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// EnsureParentDirectory creates the parent directory of the given path.
func EnsureParentDirectory(path string) error {
	return EnsureDirectoryExists(filepath.Dir(path))
}
