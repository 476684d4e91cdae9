// Package welcomemenu implements quill's start screen: recent workspaces
// for quick reopening, and a path prompt for opening anything else.
package welcomemenu

import (
	"fmt"
	"os"
	"path/filepath"

	"quill/internal/tui/helpers"
	"quill/internal/tui/styles"
	"quill/pkg/fileops"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeInput
)

type recentItem struct {
	path string
}

func (i recentItem) Title() string       { return filepath.Base(i.path) }
func (i recentItem) Description() string { return i.path }
func (i recentItem) FilterValue() string { return i.path }

// Model is the welcome screen.
type Model struct {
	ctx   helpers.UIContext
	list  list.Model
	input textinput.Model
	mode  mode
	err   error
}

// New builds the welcome screen from the session's recent workspaces.
func New(ctx helpers.UIContext) Model {
	items := make([]list.Item, 0, len(ctx.Session.RecentWorkspaces))
	for _, w := range ctx.Session.RecentWorkspaces {
		items = append(items, recentItem{path: w})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	if ctx.HasValidDimensions() {
		l.SetSize(ctx.Width-4, ctx.Height-10)
	}

	input := textinput.New()
	input.Placeholder = "~/projects/my-workspace"
	input.CharLimit = 512
	input.Width = 60

	return Model{ctx: ctx, list: l, input: input}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Filtering reports whether the recent-workspace list is capturing keys
// for its filter, or the path prompt is open.
func (m Model) Filtering() bool {
	return m.mode == modeInput || m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ctx.Width = msg.Width
		m.ctx.Height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o":
		if m.list.FilterState() != list.Filtering {
			m.mode = modeInput
			m.err = nil
			m.input.Focus()
			return m, textinput.Blink
		}
	case "s":
		if m.list.FilterState() != list.Filtering {
			return m, func() tea.Msg { return helpers.NavigateToSettingsMsg{} }
		}
	case "x":
		if m.list.FilterState() != list.Filtering {
			if sel, ok := m.list.SelectedItem().(recentItem); ok {
				m.ctx.Session.RemoveRecent(sel.path)
				m.list.RemoveItem(m.list.Index())
			}
			return m, nil
		}
	case "enter":
		if m.list.FilterState() != list.Filtering {
			if sel, ok := m.list.SelectedItem().(recentItem); ok {
				return m, openWorkspace(sel.path)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.err = nil
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		path := fileops.ExpandPath(m.input.Value())
		if err := validateWorkspacePath(path); err != nil {
			m.err = err
			return m, nil
		}
		return m, openWorkspace(path)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.mode == modeInput {
		view := "Open workspace\n\n" + styles.InputStyle.Render(m.input.View())
		if m.err != nil {
			view += "\n\n" + styles.ErrorStyle.Render(m.err.Error())
		}
		view += "\n\n" + styles.HelpStyle.Render("Enter to open • Esc to cancel")
		return view
	}

	if len(m.list.Items()) == 0 {
		return styles.NormalTextStyle.Render("No recent workspaces.") + "\n\n" +
			styles.HelpStyle.Render("o to open a workspace by path • s for settings")
	}
	return m.list.View() + "\n" +
		styles.HelpStyle.Render("Enter to open • o for a new path • x to remove • s for settings")
}

func openWorkspace(path string) tea.Cmd {
	return func() tea.Msg {
		return helpers.OpenWorkspaceMsg{Path: path}
	}
}

func validateWorkspacePath(path string) error {
	if path == "" {
		return fmt.Errorf("enter a workspace path")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("cannot access %s: %v", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}
