// Package tui provides the terminal user interface for the quill editor.
//
// The TUI follows a state-based architecture where different application
// states (welcome screen, workspace editing, settings) are handled by
// specialized models that implement the tea.Model interface. State
// transitions are managed through custom message types and a centralized
// navigation system in MainModel.
//
// Key components:
//   - MainModel: root model that orchestrates the application
//   - AppState: enumeration of possible application states
//   - welcomemenu: recent-workspace picker and path prompt
//   - workspaceview: file explorer, editor tabs, preview, find
//   - settingsmenu: configuration and MCP server token management
//
// MainModel owns the workspace lifecycle: it opens the workspace and the
// file watcher when the user picks a path, restores open files from the
// previous session, and persists the session on the way out.
package tui

import (
	"fmt"
	"strings"

	"quill/internal/config"
	"quill/internal/editor"
	"quill/internal/logging"
	"quill/internal/session"
	"quill/internal/tui/components"
	"quill/internal/tui/helpers"
	"quill/internal/tui/settingsmenu"
	"quill/internal/tui/styles"
	"quill/internal/tui/welcomemenu"
	"quill/internal/tui/workspaceview"
	"quill/internal/watch"
	"quill/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

// AppState represents the current state of the TUI application.
type AppState int

const (
	StateWelcome AppState = iota
	StateWorkspace
	StateSettings
	StateError
	StateConfirmQuit
	StateQuitting
)

// Custom messages for internal state transitions
type (
	ErrorMsg struct {
		Err error
	}
)

// MainModel is the root model for the TUI application.
//
// It coordinates state transitions, owns the open workspace and its file
// watcher, and persists the session when the workspace closes or the
// application quits.
type MainModel struct {
	config  *config.Config
	session *session.Session
	logger  *logging.AppLogger

	state     AppState
	prevState AppState

	activeModel tea.Model

	// Open workspace resources; nil outside StateWorkspace.
	ws        *workspace.Workspace
	container *editor.Container
	watcher   *watch.Watcher

	layout components.LayoutModel

	windowWidth  int
	windowHeight int

	// startPath, when set, is opened as soon as the window has dimensions.
	startPath string
	started   bool

	err error
}

// NewMainModel creates the root model. startPath may be empty; when set,
// that workspace opens immediately instead of showing the welcome screen.
func NewMainModel(cfg *config.Config, sess *session.Session, logger *logging.AppLogger, startPath string) *MainModel {
	styles.SetTheme(cfg.Theme)

	layout := components.NewLayout(components.LayoutConfig{
		MarginX:  2,
		MarginY:  1,
		MaxWidth: 160,
	})

	return &MainModel{
		config:    cfg,
		session:   sess,
		logger:    logger,
		state:     StateWelcome,
		prevState: StateWelcome,
		layout:    layout,
		startPath: startPath,
	}
}

func (m *MainModel) Init() tea.Cmd {
	m.logger.Info("MainModel initialized")
	return nil
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	m.layout, _ = m.layout.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		if msg.Width <= 0 || msg.Height <= 0 {
			m.logger.Warn("Invalid window dimensions received", "width", msg.Width, "height", msg.Height)
			return m, nil
		}

		if m.activeModel == nil {
			m.activeModel = m.newModelFor(StateWelcome)
			cmds = append(cmds, m.activeModel.Init())
		}
		updated, cmd := m.activeModel.Update(msg)
		m.activeModel = updated
		cmds = append(cmds, cmd)

		// Open the workspace given on the command line once sizing is known.
		if m.startPath != "" && !m.started {
			m.started = true
			path := m.startPath
			cmds = append(cmds, func() tea.Msg { return helpers.OpenWorkspaceMsg{Path: path} })
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case helpers.OpenWorkspaceMsg:
		return m.openWorkspace(msg.Path)

	case helpers.NavigateToWelcomeMsg:
		return m.returnToWelcome()

	case helpers.NavigateToSettingsMsg:
		m.logger.LogStateTransition("MainModel", "StateWelcome", "StateSettings")
		m.prevState = m.state
		m.state = StateSettings
		m.activeModel = m.newModelFor(StateSettings)
		return m, m.activeModel.Init()

	case helpers.ConfigSavedMsg:
		m.config = msg.Config
		styles.SetTheme(m.config.Theme)
		m.logger.Info("Configuration reloaded", "theme", m.config.Theme)
		return m, nil

	case ErrorMsg:
		m.logger.Error("Application error occurred", "error", msg.Err)
		m.err = msg.Err
		m.prevState = m.state
		m.state = StateError
		m.layout = m.layout.SetError(msg.Err)
		return m, nil

	default:
		if m.activeModel != nil {
			updated, cmd := m.activeModel.Update(msg)
			m.activeModel = updated
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.requestQuit()
	}

	switch m.state {
	case StateConfirmQuit:
		return m.handleConfirmQuitKeys(msg)

	case StateError:
		if msg.String() == "esc" {
			m.state = m.prevState
			m.err = nil
			m.layout = m.layout.ClearError()
			return m, nil
		}
		return m, nil

	case StateWelcome:
		if msg.String() == "q" {
			// The welcome list handles "q" itself while filtering.
			if wm, ok := m.activeModel.(welcomemenu.Model); ok && !wm.Filtering() {
				return m.requestQuit()
			}
		}
	}

	if m.activeModel != nil {
		updated, cmd := m.activeModel.Update(msg)
		m.activeModel = updated
		return m, cmd
	}
	return m, nil
}

// requestQuit quits immediately unless open buffers have unsaved changes.
func (m *MainModel) requestQuit() (tea.Model, tea.Cmd) {
	if m.container != nil && len(m.container.DirtyPaths()) > 0 {
		m.logger.LogUserAction("quit_requested", "unsaved changes present")
		m.prevState = m.state
		m.state = StateConfirmQuit
		return m, nil
	}
	return m.shutdown()
}

func (m *MainModel) handleConfirmQuitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.logger.LogUserAction("quit_confirmed", "saving all buffers")
		if err := m.container.SaveAll(); err != nil {
			m.logger.Error("Failed to save buffers on quit", "error", err)
			return m, func() tea.Msg { return ErrorMsg{Err: err} }
		}
		return m.shutdown()
	case "n", "N":
		m.logger.LogUserAction("quit_confirmed", "discarding unsaved changes")
		return m.shutdown()
	case "esc":
		m.state = m.prevState
		return m, nil
	}
	return m, nil
}

// shutdown persists the session, releases workspace resources, and quits.
func (m *MainModel) shutdown() (tea.Model, tea.Cmd) {
	m.persistSession()
	m.closeWorkspace()
	m.state = StateQuitting
	return m, tea.Quit
}

// openWorkspace opens the directory at path and enters the editing state,
// restoring open files from the previous session when they match.
func (m *MainModel) openWorkspace(path string) (tea.Model, tea.Cmd) {
	m.logger.Info("Opening workspace", "path", path)

	ws, err := workspace.Open(path)
	if err != nil {
		return m, func() tea.Msg { return ErrorMsg{Err: err} }
	}

	// Replace any previously open workspace.
	m.closeWorkspace()

	m.ws = ws
	m.container = editor.NewContainer(ws)
	m.container.Restore(m.session)
	if m.config.EditorLayout != "" {
		if err := m.container.SetLayout(m.config.EditorLayout); err != nil {
			m.logger.Warn("Ignoring invalid editor layout", "layout", m.config.EditorLayout)
		}
	}

	watcher, err := watch.New(ws.Path())
	if err != nil {
		m.logger.Warn("File watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		m.logger.Warn("File watcher failed to start", "error", err)
	} else {
		m.watcher = watcher
	}

	m.session.TouchWorkspace(ws.Path())
	m.session.WelcomeTabClosed = true
	if err := m.session.Save(); err != nil {
		m.logger.Warn("Failed to persist session", "error", err)
	}

	m.logger.LogStateTransition("MainModel", "StateWelcome", "StateWorkspace")
	m.prevState = m.state
	m.state = StateWorkspace
	m.activeModel = workspaceview.New(m.uiContext(), m.container, m.watcher)

	cmds := []tea.Cmd{m.activeModel.Init()}
	if m.windowWidth > 0 && m.windowHeight > 0 {
		updated, cmd := m.activeModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		m.activeModel = updated
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// returnToWelcome persists the session, closes the workspace, and shows
// the welcome screen again.
func (m *MainModel) returnToWelcome() (tea.Model, tea.Cmd) {
	if m.container != nil {
		if dirty := m.container.DirtyPaths(); len(dirty) > 0 {
			m.logger.Warn("Closing workspace with unsaved changes", "files", strings.Join(dirty, ", "))
		}
	}
	// The user chose the welcome screen; the next launch starts there.
	m.session.WelcomeTabClosed = false
	m.persistSession()
	m.closeWorkspace()

	m.logger.LogStateTransition("MainModel", "FeatureState", "StateWelcome")
	m.prevState = m.state
	m.state = StateWelcome
	m.activeModel = m.newModelFor(StateWelcome)

	cmds := []tea.Cmd{m.activeModel.Init()}
	if m.windowWidth > 0 && m.windowHeight > 0 {
		updated, cmd := m.activeModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		m.activeModel = updated
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// persistSession records open files and the workspace MRU list.
func (m *MainModel) persistSession() {
	if m.container != nil {
		m.container.SyncSession(m.session)
	}
	if err := m.session.Save(); err != nil {
		m.logger.Warn("Failed to persist session", "error", err)
	}
}

// closeWorkspace releases the watcher and workspace handle.
func (m *MainModel) closeWorkspace() {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	if m.ws != nil {
		if err := m.ws.Close(); err != nil {
			m.logger.Warn("Failed to close workspace", "error", err)
		}
		m.ws = nil
	}
	m.container = nil
}

func (m *MainModel) uiContext() helpers.UIContext {
	return helpers.NewUIContext(m.windowWidth, m.windowHeight, m.config, m.session, m.logger)
}

func (m *MainModel) newModelFor(state AppState) tea.Model {
	ctx := m.uiContext()
	switch state {
	case StateWelcome:
		return welcomemenu.New(ctx)
	case StateSettings:
		return settingsmenu.NewSettingsModel(ctx)
	default:
		m.logger.Warn("Unknown state requested for model initialization", "state", state)
		return welcomemenu.New(ctx)
	}
}

func (m *MainModel) View() string {
	switch m.state {
	case StateQuitting:
		m.layout = m.layout.SetConfig(components.LayoutConfig{
			Title: "👋 Goodbye!",
		})
		return m.layout.Render("Thank you for using quill!")

	case StateConfirmQuit:
		return m.viewConfirmQuit()

	case StateError:
		return m.viewError()

	case StateWelcome:
		m.layout = m.layout.SetConfig(components.LayoutConfig{
			Title:    "🪶 quill",
			Subtitle: "A workspace editor for your terminal",
			HelpText: "↑/↓ to navigate • Enter to open • / to filter • q to quit",
		})
		if m.activeModel == nil {
			return m.layout.Render("Loading...")
		}
		return m.layout.Render(m.activeModel.View())

	case StateWorkspace:
		// The workspace view manages its own chrome.
		if m.activeModel != nil {
			return m.activeModel.View()
		}
		return ""

	default:
		if m.activeModel != nil {
			return m.activeModel.View()
		}
		return ""
	}
}

func (m *MainModel) viewConfirmQuit() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "⚠️  Unsaved Changes",
		Subtitle: "Some open files have not been saved",
		HelpText: "y to save all and quit • n to quit without saving • Esc to cancel",
	})

	var content strings.Builder
	content.WriteString("The following files have unsaved changes:\n\n")
	for _, path := range m.container.DirtyPaths() {
		content.WriteString(fmt.Sprintf("  • %s\n", path))
	}
	content.WriteString("\nSave all before quitting? (y/n)")

	return m.layout.Render(content.String())
}

func (m *MainModel) viewError() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "❌ Error",
		Subtitle: "Something went wrong",
		HelpText: "Press Esc to return • Ctrl+C to quit",
	})

	errorContent := ""
	if m.err != nil {
		errorContent = m.err.Error()
	}
	return m.layout.Render(errorContent)
}

// Run starts the TUI event loop. startPath may be empty.
func Run(cfg *config.Config, sess *session.Session, logger *logging.AppLogger, startPath string) error {
	model := NewMainModel(cfg, sess, logger, startPath)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run application: %w", err)
	}
	return nil
}
