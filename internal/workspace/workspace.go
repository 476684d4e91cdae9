// Package workspace manages an opened project directory. All file access
// goes through an os.Root handle so operations cannot escape the workspace,
// including via symlinks.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quill/internal/logging"
	"quill/pkg/fileops"
)

// MaxFileSize caps how large a file the editor and the protocol layer will
// read into memory.
const MaxFileSize = 10 * 1024 * 1024

// Workspace is an opened project directory.
type Workspace struct {
	path string
	root *os.Root
}

// Open validates and opens the directory at path as a workspace. The path
// may use ~ for the home directory.
func Open(path string) (*Workspace, error) {
	expanded := fileops.ExpandPath(path)

	if err := fileops.ValidatePathSecurity(expanded); err != nil {
		return nil, fmt.Errorf("invalid workspace path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("workspace directory does not exist: %s", abs)
		}
		return nil, fmt.Errorf("failed to access workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace path is not a directory: %s", abs)
	}

	if fileops.IsReservedDirectory(abs) {
		return nil, fmt.Errorf("refusing to open system directory as workspace: %s", abs)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace root: %w", err)
	}

	logging.Info("Opened workspace", "path", abs)
	return &Workspace{path: abs, root: root}, nil
}

// Close releases the workspace root handle.
func (w *Workspace) Close() error {
	if w.root == nil {
		return nil
	}
	err := w.root.Close()
	w.root = nil
	return err
}

// Path returns the absolute workspace directory.
func (w *Workspace) Path() string {
	return w.path
}

// Name returns the workspace directory name.
func (w *Workspace) Name() string {
	return filepath.Base(w.path)
}

// Abs converts a workspace-relative path to an absolute one. The relative
// path must already be validated.
func (w *Workspace) Abs(rel string) string {
	return filepath.Join(w.path, filepath.FromSlash(rel))
}

// Rel converts an absolute path inside the workspace to a slash-separated
// relative path.
func (w *Workspace) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(w.path, abs)
	if err != nil {
		return "", fmt.Errorf("path is not inside workspace: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside workspace: %s", abs)
	}
	return filepath.ToSlash(rel), nil
}

// Contains reports whether an absolute path lies inside the workspace.
func (w *Workspace) Contains(abs string) bool {
	_, err := w.Rel(abs)
	return err == nil
}

func (w *Workspace) checkRel(rel string) (string, error) {
	rel = filepath.ToSlash(strings.TrimPrefix(rel, "./"))
	if err := fileops.ValidateRelativePath(filepath.FromSlash(rel)); err != nil {
		return "", err
	}
	return filepath.FromSlash(rel), nil
}
