package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"quill/internal/logging"
	"quill/pkg/fileops"
)

// FileStat describes one workspace entry for listings and the protocol layer.
type FileStat struct {
	Path    string // workspace-relative, slash-separated
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Stat returns metadata for a workspace-relative path.
func (w *Workspace) Stat(rel string) (*FileStat, error) {
	clean, err := w.checkRel(rel)
	if err != nil {
		return nil, err
	}

	info, err := w.root.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}

	return &FileStat{
		Path:    filepath.ToSlash(clean),
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// ListDir returns the direct children of a workspace directory, including
// hidden entries. Use Scan for recursive listings with skip patterns.
func (w *Workspace) ListDir(rel string) ([]FileStat, error) {
	clean, err := w.checkRel(rel)
	if err != nil {
		return nil, err
	}

	f, err := w.root.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rel, err)
	}

	stats := make([]FileStat, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats = append(stats, FileStat{
			Path:    filepath.ToSlash(filepath.Join(clean, e.Name())),
			Name:    e.Name(),
			IsDir:   e.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats, nil
}

// ReadFile reads a workspace file. Files above MaxFileSize are refused.
func (w *Workspace) ReadFile(rel string) ([]byte, error) {
	clean, err := w.checkRel(rel)
	if err != nil {
		return nil, err
	}

	f, err := w.root.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", rel)
	}
	if err := fileops.ValidateFileSizeLimit(w.Abs(clean), MaxFileSize); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", rel, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, nil
}

// WriteFile writes a workspace file atomically, creating parent directories
// as needed.
func (w *Workspace) WriteFile(rel string, data []byte) error {
	clean, err := w.checkRel(rel)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(clean); dir != "." {
		if err := w.mkdirAll(dir); err != nil {
			return err
		}
	}

	// The relative path is validated and the parent now exists inside the
	// root, so the absolute target cannot escape the workspace.
	if err := fileops.AtomicWriteFile(w.Abs(clean), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}

	logging.Debug("Wrote workspace file", "path", clean, "bytes", len(data))
	return nil
}

// CreateFile creates a new empty file; it fails if the file already exists.
func (w *Workspace) CreateFile(rel string) error {
	clean, err := w.checkRel(rel)
	if err != nil {
		return err
	}
	if _, err := fileops.SanitizeFilename(filepath.Base(clean)); err != nil {
		return err
	}

	if dir := filepath.Dir(clean); dir != "." {
		if err := w.mkdirAll(dir); err != nil {
			return err
		}
	}

	f, err := w.root.OpenFile(clean, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("file already exists: %s", rel)
		}
		return fmt.Errorf("failed to create %s: %w", rel, err)
	}
	return f.Close()
}

// CreateDir creates a directory (and any missing parents) in the workspace.
func (w *Workspace) CreateDir(rel string) error {
	clean, err := w.checkRel(rel)
	if err != nil {
		return err
	}
	return w.mkdirAll(clean)
}

func (w *Workspace) mkdirAll(clean string) error {
	// os.Root.Mkdir has no MkdirAll, so build the chain one level at a
	// time inside the root.
	parts := splitPath(clean)
	built := ""
	for _, p := range parts {
		built = filepath.Join(built, p)
		if err := w.root.Mkdir(built, 0o755); err != nil && !os.IsExist(err) {
			return fmt.Errorf("failed to create directory %s: %w", built, err)
		}
	}
	return nil
}

func splitPath(clean string) []string {
	var parts []string
	for clean != "" && clean != "." {
		dir, base := filepath.Dir(clean), filepath.Base(clean)
		parts = append([]string{base}, parts...)
		if dir == "." || dir == clean {
			break
		}
		clean = dir
	}
	return parts
}

// Rename moves a file or directory within the workspace.
func (w *Workspace) Rename(oldRel, newRel string) error {
	oldClean, err := w.checkRel(oldRel)
	if err != nil {
		return err
	}
	newClean, err := w.checkRel(newRel)
	if err != nil {
		return err
	}
	if _, err := fileops.SanitizeFilename(filepath.Base(newClean)); err != nil {
		return err
	}

	if _, err := w.root.Stat(oldClean); err != nil {
		return fmt.Errorf("cannot rename %s: %w", oldRel, err)
	}
	if _, err := w.root.Stat(newClean); err == nil {
		return fmt.Errorf("rename target already exists: %s", newRel)
	}

	if dir := filepath.Dir(newClean); dir != "." {
		if err := w.mkdirAll(dir); err != nil {
			return err
		}
	}

	// Both paths are validated relative paths, so the absolute forms stay
	// inside the workspace.
	if err := os.Rename(w.Abs(oldClean), w.Abs(newClean)); err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldRel, err)
	}

	logging.Debug("Renamed workspace entry", "from", oldClean, "to", newClean)
	return nil
}

// Delete removes a file or an empty directory. Directories with contents
// require DeleteTree.
func (w *Workspace) Delete(rel string) error {
	clean, err := w.checkRel(rel)
	if err != nil {
		return err
	}
	if err := w.root.Remove(clean); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	logging.Debug("Deleted workspace entry", "path", clean)
	return nil
}

// DeleteTree removes a file or directory recursively.
func (w *Workspace) DeleteTree(rel string) error {
	clean, err := w.checkRel(rel)
	if err != nil {
		return err
	}
	if clean == "." {
		return fmt.Errorf("refusing to delete the workspace root")
	}
	if err := os.RemoveAll(w.Abs(clean)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	logging.Debug("Deleted workspace tree", "path", clean)
	return nil
}
