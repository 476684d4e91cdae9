package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/session"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	t.Helper()
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)
}

// TestWelcomeToWorkspaceFlow drives the full program: welcome screen,
// opening a workspace by path, and quitting.
func TestWelcomeToWorkspaceFlow(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	logger, _ := logging.NewTestLogger()
	model := NewMainModel(&cfg, &session.Session{}, logger, "")

	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(120, 40))

	// Welcome screen with no recents.
	waitForString(t, tm, "No recent workspaces")

	// Open the workspace by path.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	waitForString(t, tm, "Open workspace")
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(dir)})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	// The explorer lists the workspace file.
	waitForString(t, tm, "notes.md")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second*3))

	final, ok := tm.FinalModel(t).(*MainModel)
	if !ok {
		t.Fatal("unexpected final model type")
	}
	if final.state != StateQuitting {
		t.Errorf("final state = %v, want StateQuitting", final.state)
	}
	if final.session.LastWorkspace == "" {
		t.Error("session should record the opened workspace")
	}
}

// TestStartPathOpensImmediately verifies that a workspace given on the
// command line is opened without visiting the welcome screen.
func TestStartPathOpensImmediately(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	logger, _ := logging.NewTestLogger()
	model := NewMainModel(&cfg, &session.Session{}, logger, dir)

	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(120, 40))

	waitForString(t, tm, "main.go")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second*3))
}
