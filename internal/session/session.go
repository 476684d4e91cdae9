// Package session persists editor state across restarts: the last opened
// workspace, a bounded most-recent-first workspace list, and the set of
// open files with their cursor positions.
//
// Unsaved buffer contents are deliberately not persisted; only the dirty
// flag survives so a restored buffer can warn that prior edits were lost.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"quill/internal/logging"
	"quill/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// MaxRecentWorkspaces bounds the most-recent-first workspace list.
const MaxRecentWorkspaces = 10

// OpenFile records one editor buffer for restoration at next launch.
type OpenFile struct {
	Path   string `yaml:"path"` // absolute path
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
	Dirty  bool   `yaml:"dirty,omitempty"`
}

// Session is the persisted workspace/session state.
type Session struct {
	LastWorkspace    string     `yaml:"last_workspace"`
	RecentWorkspaces []string   `yaml:"recent_workspaces"`
	OpenFiles        []OpenFile `yaml:"open_files"`
	ActiveFile       string     `yaml:"active_file,omitempty"`
	EditorLayout     string     `yaml:"editor_layout,omitempty"`
	WelcomeTabClosed bool       `yaml:"welcome_tab_closed,omitempty"`
}

// Path returns the session file location under the XDG state directory.
func Path() string {
	return filepath.Join(xdg.StateHome, "quill", "session.yaml")
}

// Load reads the session from the standard location. A missing file is an
// empty session, not an error.
func Load() (*Session, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the session from a specific path.
func LoadFrom(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("No session file, starting fresh", "path", path)
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &s, nil
}

// Save writes the session to the standard location.
func (s *Session) Save() error {
	return s.SaveTo(Path())
}

// SaveTo writes the session atomically to a specific path.
func (s *Session) SaveTo(path string) error {
	if err := fileops.EnsureParentDirectory(path); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := fileops.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// TouchWorkspace records workspacePath as the current workspace: it becomes
// the last workspace and moves to the front of the recent list, which is
// deduplicated and capped at MaxRecentWorkspaces.
func (s *Session) TouchWorkspace(workspacePath string) {
	recents := make([]string, 0, len(s.RecentWorkspaces)+1)
	recents = append(recents, workspacePath)
	for _, w := range s.RecentWorkspaces {
		if w != workspacePath {
			recents = append(recents, w)
		}
	}
	if len(recents) > MaxRecentWorkspaces {
		recents = recents[:MaxRecentWorkspaces]
	}

	s.RecentWorkspaces = recents
	s.LastWorkspace = workspacePath
}

// RemoveRecent removes a workspace from the recent list; the last
// workspace is cleared when it matches.
func (s *Session) RemoveRecent(workspacePath string) {
	recents := s.RecentWorkspaces[:0]
	for _, w := range s.RecentWorkspaces {
		if w != workspacePath {
			recents = append(recents, w)
		}
	}
	s.RecentWorkspaces = recents

	if s.LastWorkspace == workspacePath {
		s.LastWorkspace = ""
	}
}

// ClearRecents empties the recent workspace list and the last workspace.
func (s *Session) ClearRecents() {
	s.RecentWorkspaces = nil
	s.LastWorkspace = ""
}

// SetOpenFiles replaces the open-file list and active file.
func (s *Session) SetOpenFiles(files []OpenFile, active string) {
	s.OpenFiles = files
	s.ActiveFile = active
}

// Prune drops state that no longer matches the filesystem: open files
// whose paths are gone, recent workspaces that no longer exist, and the
// last workspace when its directory has been removed since the previous
// run. Returns true when anything was dropped.
func (s *Session) Prune() bool {
	changed := false

	files := s.OpenFiles[:0]
	for _, f := range s.OpenFiles {
		if info, err := os.Stat(f.Path); err == nil && !info.IsDir() {
			files = append(files, f)
		} else {
			logging.Debug("Pruning missing open file", "path", f.Path)
			changed = true
		}
	}
	s.OpenFiles = files

	if s.ActiveFile != "" {
		found := false
		for _, f := range s.OpenFiles {
			if f.Path == s.ActiveFile {
				found = true
				break
			}
		}
		if !found {
			s.ActiveFile = ""
			changed = true
		}
	}

	recents := s.RecentWorkspaces[:0]
	for _, w := range s.RecentWorkspaces {
		if info, err := os.Stat(w); err == nil && info.IsDir() {
			recents = append(recents, w)
		} else {
			logging.Debug("Pruning missing recent workspace", "path", w)
			changed = true
		}
	}
	s.RecentWorkspaces = recents

	if s.LastWorkspace != "" {
		if info, err := os.Stat(s.LastWorkspace); err != nil || !info.IsDir() {
			logging.Info("Last workspace no longer exists", "path", s.LastWorkspace)
			s.LastWorkspace = ""
			changed = true
		}
	}

	return changed
}
