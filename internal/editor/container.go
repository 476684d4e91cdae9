package editor

import (
	"fmt"

	"quill/internal/logging"
	"quill/internal/session"
	"quill/internal/workspace"
)

// Layouts the container can arrange buffers in.
const (
	LayoutSingle          = "single"
	LayoutSplitHorizontal = "split-horizontal"
	LayoutSplitVertical   = "split-vertical"
)

// Container manages the set of open buffers for one workspace and keeps
// tab order, the active buffer, and the editor layout. It is the bridge
// between live editing state and the persisted session.
type Container struct {
	ws      *workspace.Workspace
	buffers []*Buffer
	active  int
	layout  string
}

// NewContainer creates an empty container for the workspace.
func NewContainer(ws *workspace.Workspace) *Container {
	return &Container{ws: ws, active: -1, layout: LayoutSingle}
}

// Workspace returns the container's workspace.
func (c *Container) Workspace() *workspace.Workspace { return c.ws }

// Layout returns the current editor layout.
func (c *Container) Layout() string { return c.layout }

// SetLayout changes the editor layout.
func (c *Container) SetLayout(layout string) error {
	switch layout {
	case LayoutSingle, LayoutSplitHorizontal, LayoutSplitVertical:
		c.layout = layout
		return nil
	}
	return fmt.Errorf("invalid editor layout: %s", layout)
}

// Buffers returns the open buffers in tab order.
func (c *Container) Buffers() []*Buffer { return c.buffers }

// Active returns the active buffer, or nil when nothing is open.
func (c *Container) Active() *Buffer {
	if c.active < 0 || c.active >= len(c.buffers) {
		return nil
	}
	return c.buffers[c.active]
}

// Open loads the file at the workspace-relative path into a buffer and
// makes it active. Opening an already-open file just activates its buffer.
func (c *Container) Open(rel string) (*Buffer, error) {
	for i, b := range c.buffers {
		if b.path == rel {
			c.active = i
			return b, nil
		}
	}

	data, err := c.ws.ReadFile(rel)
	if err != nil {
		return nil, err
	}

	b := NewBuffer(rel, string(data))
	if st, err := c.ws.Stat(rel); err == nil {
		b.modTime = st.ModTime
	}
	c.buffers = append(c.buffers, b)
	c.active = len(c.buffers) - 1
	logging.Debug("Opened buffer", "path", rel)
	return b, nil
}

// SetActive makes the buffer for the given path active.
func (c *Container) SetActive(rel string) error {
	for i, b := range c.buffers {
		if b.path == rel {
			c.active = i
			return nil
		}
	}
	return fmt.Errorf("file is not open: %s", rel)
}

// Close removes the buffer for the given path. Closing the active buffer
// activates the tab that slides into its position (the right neighbor),
// or the new last tab when the rightmost one was closed. Dirty buffers
// close without saving; callers prompt first.
func (c *Container) Close(rel string) error {
	for i, b := range c.buffers {
		if b.path != rel {
			continue
		}
		c.buffers = append(c.buffers[:i], c.buffers[i+1:]...)
		if c.active >= len(c.buffers) {
			c.active = len(c.buffers) - 1
		} else if c.active > i {
			c.active--
		}
		logging.Debug("Closed buffer", "path", rel)
		return nil
	}
	return fmt.Errorf("file is not open: %s", rel)
}

// Save writes one buffer back to the workspace and clears its dirty flag.
func (c *Container) Save(rel string) error {
	for _, b := range c.buffers {
		if b.path != rel {
			continue
		}
		if err := c.ws.WriteFile(rel, []byte(b.Content())); err != nil {
			return err
		}
		b.MarkSaved()
		b.lostEdits = false
		if st, err := c.ws.Stat(rel); err == nil {
			b.modTime = st.ModTime
		}
		return nil
	}
	return fmt.Errorf("file is not open: %s", rel)
}

// ModifiedOnDisk reports whether the file backing an open buffer changed
// after the buffer was loaded or last saved.
func (c *Container) ModifiedOnDisk(rel string) (bool, error) {
	for _, b := range c.buffers {
		if b.path != rel {
			continue
		}
		st, err := c.ws.Stat(rel)
		if err != nil {
			return false, err
		}
		return st.ModTime.After(b.modTime), nil
	}
	return false, fmt.Errorf("file is not open: %s", rel)
}

// SaveAll saves every dirty buffer; the first error aborts.
func (c *Container) SaveAll() error {
	for _, b := range c.buffers {
		if !b.Dirty() {
			continue
		}
		if err := c.Save(b.path); err != nil {
			return err
		}
	}
	return nil
}

// DirtyPaths returns the paths of buffers with unsaved changes.
func (c *Container) DirtyPaths() []string {
	var dirty []string
	for _, b := range c.buffers {
		if b.Dirty() {
			dirty = append(dirty, b.path)
		}
	}
	return dirty
}

// Snapshot captures the container as session open-file entries with
// absolute paths. Buffer contents are not captured; only the dirty flag
// survives a restart.
func (c *Container) Snapshot() ([]session.OpenFile, string) {
	files := make([]session.OpenFile, 0, len(c.buffers))
	for _, b := range c.buffers {
		line, col := b.Cursor()
		files = append(files, session.OpenFile{
			Path:   c.ws.Abs(b.path),
			Line:   line,
			Column: col,
			Dirty:  b.Dirty(),
		})
	}

	active := ""
	if b := c.Active(); b != nil {
		active = c.ws.Abs(b.path)
	}
	return files, active
}

// Restore reopens the session's files that belong to this workspace,
// restoring cursor positions. Files recorded as dirty are reloaded from
// disk with their lost-edits flag set. Files that fail to open are skipped.
func (c *Container) Restore(s *session.Session) {
	for _, f := range s.OpenFiles {
		rel, err := c.ws.Rel(f.Path)
		if err != nil {
			logging.Debug("Session file outside workspace, skipping", "path", f.Path)
			continue
		}

		b, err := c.Open(rel)
		if err != nil {
			logging.Warn("Failed to restore session file", "path", f.Path, "error", err)
			continue
		}
		b.SetCursor(f.Line, f.Column)
		if f.Dirty {
			b.lostEdits = true
		}
	}

	if s.EditorLayout != "" {
		if err := c.SetLayout(s.EditorLayout); err != nil {
			logging.Warn("Ignoring invalid session layout", "layout", s.EditorLayout)
		}
	}

	if s.ActiveFile != "" {
		if rel, err := c.ws.Rel(s.ActiveFile); err == nil {
			if err := c.SetActive(rel); err != nil {
				logging.Debug("Session active file not open", "path", s.ActiveFile)
			}
		}
	}
}

// SyncSession writes the container's state into the session: open files,
// active file, and layout. The caller persists the session afterwards.
func (c *Container) SyncSession(s *session.Session) {
	files, active := c.Snapshot()
	s.SetOpenFiles(files, active)
	s.EditorLayout = c.layout
	s.TouchWorkspace(c.ws.Path())
}
