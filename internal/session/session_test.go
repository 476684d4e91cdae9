package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFile(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "session.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v, want nil for missing file", err)
	}
	if s.LastWorkspace != "" || len(s.RecentWorkspaces) != 0 || len(s.OpenFiles) != 0 {
		t.Errorf("expected empty session, got %+v", s)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.yaml")

	orig := &Session{
		LastWorkspace:    "/home/dev/projects/alpha",
		RecentWorkspaces: []string{"/home/dev/projects/alpha", "/home/dev/projects/beta"},
		OpenFiles: []OpenFile{
			{Path: "/home/dev/projects/alpha/main.go", Line: 42, Column: 7},
			{Path: "/home/dev/projects/alpha/README.md", Line: 1, Column: 0, Dirty: true},
		},
		ActiveFile:   "/home/dev/projects/alpha/main.go",
		EditorLayout: "split-horizontal",
	}

	if err := orig.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if got.LastWorkspace != orig.LastWorkspace {
		t.Errorf("LastWorkspace = %q, want %q", got.LastWorkspace, orig.LastWorkspace)
	}
	if len(got.RecentWorkspaces) != 2 {
		t.Fatalf("RecentWorkspaces length = %d, want 2", len(got.RecentWorkspaces))
	}
	if len(got.OpenFiles) != 2 {
		t.Fatalf("OpenFiles length = %d, want 2", len(got.OpenFiles))
	}
	if got.OpenFiles[0].Line != 42 || got.OpenFiles[0].Column != 7 {
		t.Errorf("cursor = %d:%d, want 42:7", got.OpenFiles[0].Line, got.OpenFiles[0].Column)
	}
	if !got.OpenFiles[1].Dirty {
		t.Error("dirty flag not preserved")
	}
	if got.ActiveFile != orig.ActiveFile {
		t.Errorf("ActiveFile = %q, want %q", got.ActiveFile, orig.ActiveFile)
	}
	if got.EditorLayout != "split-horizontal" {
		t.Errorf("EditorLayout = %q, want split-horizontal", got.EditorLayout)
	}
}

func TestLoadFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("last_workspace: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for corrupt session file")
	}
}

func TestTouchWorkspace(t *testing.T) {
	s := &Session{}

	s.TouchWorkspace("/a")
	s.TouchWorkspace("/b")
	s.TouchWorkspace("/c")

	if s.LastWorkspace != "/c" {
		t.Errorf("LastWorkspace = %q, want /c", s.LastWorkspace)
	}
	want := []string{"/c", "/b", "/a"}
	if len(s.RecentWorkspaces) != len(want) {
		t.Fatalf("recents = %v, want %v", s.RecentWorkspaces, want)
	}
	for i, w := range want {
		if s.RecentWorkspaces[i] != w {
			t.Errorf("recents[%d] = %q, want %q", i, s.RecentWorkspaces[i], w)
		}
	}
}

func TestTouchWorkspaceDeduplicates(t *testing.T) {
	s := &Session{}

	s.TouchWorkspace("/a")
	s.TouchWorkspace("/b")
	s.TouchWorkspace("/a")

	want := []string{"/a", "/b"}
	if len(s.RecentWorkspaces) != len(want) {
		t.Fatalf("recents = %v, want %v", s.RecentWorkspaces, want)
	}
	for i, w := range want {
		if s.RecentWorkspaces[i] != w {
			t.Errorf("recents[%d] = %q, want %q", i, s.RecentWorkspaces[i], w)
		}
	}
}

func TestTouchWorkspaceCapsAtMax(t *testing.T) {
	s := &Session{}

	for i := 0; i < MaxRecentWorkspaces+5; i++ {
		s.TouchWorkspace(fmt.Sprintf("/ws/%d", i))
	}

	if len(s.RecentWorkspaces) != MaxRecentWorkspaces {
		t.Fatalf("recents length = %d, want %d", len(s.RecentWorkspaces), MaxRecentWorkspaces)
	}
	if s.RecentWorkspaces[0] != fmt.Sprintf("/ws/%d", MaxRecentWorkspaces+4) {
		t.Errorf("most recent = %q, want newest entry", s.RecentWorkspaces[0])
	}
}

func TestRemoveRecent(t *testing.T) {
	s := &Session{
		LastWorkspace:    "/b",
		RecentWorkspaces: []string{"/b", "/a"},
	}

	s.RemoveRecent("/b")

	if s.LastWorkspace != "" {
		t.Errorf("LastWorkspace = %q, want empty after removal", s.LastWorkspace)
	}
	if len(s.RecentWorkspaces) != 1 || s.RecentWorkspaces[0] != "/a" {
		t.Errorf("recents = %v, want [/a]", s.RecentWorkspaces)
	}
}

func TestClearRecents(t *testing.T) {
	s := &Session{
		LastWorkspace:    "/a",
		RecentWorkspaces: []string{"/a", "/b"},
	}

	s.ClearRecents()

	if s.LastWorkspace != "" || len(s.RecentWorkspaces) != 0 {
		t.Errorf("expected cleared session, got %+v", s)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()

	liveWS := filepath.Join(dir, "alive")
	if err := os.MkdirAll(liveWS, 0o755); err != nil {
		t.Fatal(err)
	}
	liveFile := filepath.Join(liveWS, "keep.go")
	if err := os.WriteFile(liveFile, []byte("package keep\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	goneWS := filepath.Join(dir, "deleted")
	goneFile := filepath.Join(liveWS, "deleted.go")

	s := &Session{
		LastWorkspace:    goneWS,
		RecentWorkspaces: []string{goneWS, liveWS},
		OpenFiles: []OpenFile{
			{Path: liveFile, Line: 3},
			{Path: goneFile, Line: 9},
		},
		ActiveFile: goneFile,
	}

	if !s.Prune() {
		t.Fatal("Prune() = false, want true when entries were dropped")
	}

	if len(s.OpenFiles) != 1 || s.OpenFiles[0].Path != liveFile {
		t.Errorf("OpenFiles = %+v, want only the surviving file", s.OpenFiles)
	}
	if s.ActiveFile != "" {
		t.Errorf("ActiveFile = %q, want cleared when its file is gone", s.ActiveFile)
	}
	if len(s.RecentWorkspaces) != 1 || s.RecentWorkspaces[0] != liveWS {
		t.Errorf("recents = %v, want only the surviving workspace", s.RecentWorkspaces)
	}
	if s.LastWorkspace != "" {
		t.Errorf("LastWorkspace = %q, want cleared when its directory is gone", s.LastWorkspace)
	}
}

func TestPruneNoChanges(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.go")
	if err := os.WriteFile(f, []byte("package a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &Session{
		LastWorkspace:    dir,
		RecentWorkspaces: []string{dir},
		OpenFiles:        []OpenFile{{Path: f, Line: 1}},
		ActiveFile:       f,
	}

	if s.Prune() {
		t.Error("Prune() = true, want false when everything still exists")
	}
	if s.LastWorkspace != dir || len(s.OpenFiles) != 1 {
		t.Errorf("session mutated unexpectedly: %+v", s)
	}
}
