package workspaceview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/config"
	"quill/internal/editor"
	"quill/internal/logging"
	"quill/internal/session"
	"quill/internal/tui/helpers"
	"quill/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestView(t *testing.T) (Model, *editor.Container) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"main.go":   "package main\n\nfunc main() {}\n",
		"README.md": "# Test\n\nSome docs.\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ws, err := workspace.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Close() })

	cfg := config.DefaultConfig()
	logger, _ := logging.NewTestLogger()
	ctx := helpers.NewUIContext(120, 40, &cfg, &session.Session{}, logger)

	container := editor.NewContainer(ws)
	m := New(ctx, container, nil)

	// Populate the explorer synchronously.
	msg := m.refreshExplorer()()
	updated, _ := m.Update(msg)
	return updated.(Model), container
}

func TestRestoredBufferAcceptsInput(t *testing.T) {
	m, container := newTestView(t)

	// Simulate a session restore: the container already has an active
	// buffer when the view is constructed.
	if _, err := container.Open("main.go"); err != nil {
		t.Fatal(err)
	}
	m = New(m.ctx, container, nil)

	if m.focus != focusEditor {
		t.Fatalf("focus = %v, want editor for a restored buffer", m.focus)
	}
	if !m.text.Focused() {
		t.Error("textarea should be focused for a restored buffer")
	}

	before := container.Active().Content()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)

	if container.Active().Content() == before {
		t.Error("typed rune was dropped by the restored editor")
	}
}

func TestExplorerListsFiles(t *testing.T) {
	m, _ := newTestView(t)

	if got := len(m.explorer.Items()); got != 2 {
		t.Fatalf("explorer items = %d, want 2", got)
	}
	if m.focus != focusExplorer {
		t.Error("initial focus should be the explorer")
	}
}

func TestOpenFileFromExplorer(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.focus != focusEditor {
		t.Errorf("focus = %v, want editor after open", m.focus)
	}
	b := container.Active()
	if b == nil {
		t.Fatal("no active buffer")
	}
	if b.Path() != "README.md" && b.Path() != "main.go" {
		t.Errorf("unexpected buffer path %q", b.Path())
	}
	if m.text.Value() != b.Content() {
		t.Error("textarea should mirror the buffer content")
	}
}

func TestEditAndSave(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)

	m.text.SetValue("package main\n\n// changed\nfunc main() {}\n")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)

	b := container.Active()
	if b.Dirty() {
		t.Error("buffer should be clean after save")
	}
	data, err := container.Workspace().ReadFile("main.go")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "// changed") {
		t.Errorf("saved content = %q, want the edit on disk", data)
	}
	if !strings.Contains(m.status, "Saved") {
		t.Errorf("status = %q, want a save confirmation", m.status)
	}
}

func TestAutoSaveWritesDirtyBuffers(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)
	m.text.SetValue("package main\n\n// autosaved\nfunc main() {}\n")

	updated, cmd := m.Update(autoSaveTickMsg{})
	m = updated.(Model)

	if cmd == nil {
		t.Error("auto-save should re-arm its timer")
	}
	if container.Active().Dirty() {
		t.Error("buffer should be clean after auto-save")
	}
	data, err := container.Workspace().ReadFile("main.go")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "// autosaved") {
		t.Errorf("auto-saved content = %q, want the edit on disk", data)
	}
	if !strings.Contains(m.status, "Auto-saved") {
		t.Errorf("status = %q, want an auto-save note", m.status)
	}
}

func TestDirtyCloseIsRefused(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)
	m.text.SetValue("changed")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m = updated.(Model)

	if container.Active() == nil {
		t.Error("dirty buffer should not close")
	}
	if !strings.Contains(m.status, "unsaved changes") {
		t.Errorf("status = %q, want an unsaved-changes warning", m.status)
	}
}

func TestFindAdvancesCursor(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("README.md")
	m = updated.(Model)

	m.findQuery = "docs"
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyF3})
	m = updated.(Model)

	line, col := container.Active().Cursor()
	if line != 2 {
		t.Errorf("cursor line = %d, want 2", line)
	}
	if col != 5 {
		t.Errorf("cursor col = %d, want 5", col)
	}
	if !strings.Contains(m.status, "Match at") {
		t.Errorf("status = %q, want a match location", m.status)
	}
}

func TestSplitLayoutShowsSecondBuffer(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("README.md")
	m = updated.(Model)
	updated, _ = m.openFile("main.go")
	m = updated.(Model)

	if err := container.SetLayout(editor.LayoutSplitVertical); err != nil {
		t.Fatal(err)
	}
	m.resize()

	if !m.splitActive() {
		t.Fatal("split should be active with two buffers and a split layout")
	}
	if !strings.Contains(m.View(), "Some docs.") {
		t.Error("split view should render the second buffer's content")
	}

	// A single layout collapses back to one pane.
	if err := container.SetLayout(editor.LayoutSingle); err != nil {
		t.Fatal(err)
	}
	m.resize()
	if strings.Contains(m.View(), "Some docs.") {
		t.Error("single layout should not render a second pane")
	}
}

func TestSplitNeedsTwoBuffers(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)
	if err := container.SetLayout(editor.LayoutSplitHorizontal); err != nil {
		t.Fatal(err)
	}
	m.resize()

	if m.splitActive() {
		t.Error("split should not be active with a single buffer")
	}
}

func TestEscReturnsToExplorer(t *testing.T) {
	m, _ := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.focus != focusExplorer {
		t.Errorf("focus = %v, want explorer after esc", m.focus)
	}
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestNewFilePrompt(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(Model)
	if m.focus != focusPrompt || m.promptAction != promptNewFile {
		t.Fatalf("focus = %v action = %v, want new-file prompt", m.focus, m.promptAction)
	}

	m = typeString(t, m, "notes.txt")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.focus != focusExplorer {
		t.Errorf("focus = %v, want explorer after submit", m.focus)
	}
	if _, err := container.Workspace().Stat("notes.txt"); err != nil {
		t.Errorf("new file was not created: %v", err)
	}
}

func TestNewFolderPrompt(t *testing.T) {
	m, container := newTestView(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})
	m = updated.(Model)
	m = typeString(t, m, "docs")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	st, err := container.Workspace().Stat("docs")
	if err != nil || !st.IsDir {
		t.Error("new folder was not created")
	}
}

func TestRenameSelectedFile(t *testing.T) {
	m, container := newTestView(t)

	sel, ok := m.explorer.SelectedItem().(fileItem)
	if !ok {
		t.Fatal("no selected item")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	m = updated.(Model)
	if m.promptAction != promptRename {
		t.Fatalf("promptAction = %v, want rename", m.promptAction)
	}
	if m.prompt.Value() != sel.path {
		t.Errorf("prompt prefill = %q, want %q", m.prompt.Value(), sel.path)
	}

	m.prompt.SetValue("renamed.txt")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if _, err := container.Workspace().Stat("renamed.txt"); err != nil {
		t.Errorf("rename target missing: %v", err)
	}
	if _, err := container.Workspace().Stat(sel.path); err == nil {
		t.Error("rename left the source in place")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, container := newTestView(t)

	sel := m.explorer.SelectedItem().(fileItem)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}})
	m = updated.(Model)
	if m.promptAction != promptDelete {
		t.Fatalf("promptAction = %v, want delete", m.promptAction)
	}

	// Anything but y cancels.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	if _, err := container.Workspace().Stat(sel.path); err != nil {
		t.Fatal("cancelled delete removed the file")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = updated.(Model)

	if _, err := container.Workspace().Stat(sel.path); err == nil {
		t.Error("confirmed delete left the file in place")
	}
	if !strings.Contains(m.status, "Deleted") {
		t.Errorf("status = %q, want a delete confirmation", m.status)
	}
}

func TestDeleteRefusedWhileOpen(t *testing.T) {
	m, _ := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	// Select main.go in the explorer before trying to delete it.
	for i := 0; i < len(m.explorer.Items()); i++ {
		if sel, ok := m.explorer.SelectedItem().(fileItem); ok && sel.path == "main.go" {
			break
		}
		m.explorer.CursorDown()
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}})
	m = updated.(Model)

	if m.promptAction == promptDelete {
		t.Error("delete prompt opened for a file with an open buffer")
	}
	if !strings.Contains(m.status, "close it before deleting") {
		t.Errorf("status = %q, want an open-buffer warning", m.status)
	}
}

func TestTabBarMarksDirtyBuffers(t *testing.T) {
	m, _ := newTestView(t)

	updated, _ := m.openFile("main.go")
	m = updated.(Model)
	m.text.SetValue("changed")
	m.syncBuffer(m.container.Active())

	bar := m.tabBar()
	if !strings.Contains(bar, "main.go") {
		t.Errorf("tab bar = %q, want the file name", bar)
	}
	if !strings.Contains(bar, "*") {
		t.Errorf("tab bar = %q, want a dirty marker", bar)
	}
}
