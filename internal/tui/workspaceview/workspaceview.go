// Package workspaceview implements the main editing screen: a file
// explorer pane, tabbed editor buffers, markdown preview, find and
// replace, and live refresh when files change on disk.
package workspaceview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quill/internal/editor"
	"quill/internal/tui/helpers"
	"quill/internal/tui/styles"
	"quill/internal/watch"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

type focusArea int

const (
	focusExplorer focusArea = iota
	focusEditor
	focusFind
	focusPrompt
)

// promptKind selects what the explorer prompt line is asking for.
type promptKind int

const (
	promptNone promptKind = iota
	promptNewFile
	promptNewDir
	promptRename
	promptDelete
)

// Messages internal to the workspace view.
type (
	// fileEventMsg is a debounced change from the workspace watcher.
	fileEventMsg struct {
		event watch.Event
	}

	// watcherStoppedMsg means the watch channel closed.
	watcherStoppedMsg struct{}

	// refreshedMsg carries a fresh explorer listing.
	refreshedMsg struct {
		items []list.Item
		err   error
	}

	// previewRenderedMsg carries glamour output for the preview pane.
	previewRenderedMsg struct {
		path    string
		content string
	}

	// statusMsg shows a transient message in the status bar.
	statusMsg struct {
		text string
	}

	// autoSaveTickMsg fires on the configured auto-save interval.
	autoSaveTickMsg struct{}
)

type fileItem struct {
	path string
	size int64
}

func (i fileItem) Title() string       { return i.path }
func (i fileItem) Description() string { return fmt.Sprintf("%d bytes", i.size) }
func (i fileItem) FilterValue() string { return i.path }

// Model is the workspace editing screen.
type Model struct {
	ctx       helpers.UIContext
	container *editor.Container
	watcher   *watch.Watcher

	explorer list.Model
	text     textarea.Model
	preview  viewport.Model
	find     textinput.Model
	prompt   textinput.Model

	focus        focusArea
	promptAction promptKind
	promptTarget string // explorer path a rename or delete applies to

	previewing  bool   // explorer preview pane shows glamour output
	previewPath string // path currently rendered in the preview
	findQuery   string
	status      string
	err         error

	width        int
	height       int
	editorWidth  int // per-pane editor width after split
	editorHeight int // per-pane editor height after split
}

// New creates the workspace screen for an opened container. The watcher
// may be nil; live refresh is then disabled.
func New(ctx helpers.UIContext, container *editor.Container, watcher *watch.Watcher) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ta := textarea.New()
	ta.ShowLineNumbers = ctx.Config.ShowLineNumbers
	ta.CharLimit = 0

	find := textinput.New()
	find.Placeholder = "find…"
	find.CharLimit = 256

	prompt := textinput.New()
	prompt.CharLimit = 256

	m := Model{
		ctx:       ctx,
		container: container,
		watcher:   watcher,
		explorer:  l,
		text:      ta,
		preview:   viewport.New(0, 0),
		find:      find,
		prompt:    prompt,
		focus:     focusExplorer,
		width:     ctx.Width,
		height:    ctx.Height,
	}
	m.resize()

	// Restored sessions may already have an active buffer.
	if b := container.Active(); b != nil {
		m.loadBuffer(b)
		m.focus = focusEditor
		m.text.Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshExplorer()}
	if m.watcher != nil {
		cmds = append(cmds, waitForWatchEvent(m.watcher))
	}
	if m.ctx.Config.AutoSave {
		cmds = append(cmds, autoSaveTick(m.ctx.Config.AutoSaveDuration()))
	}
	return tea.Batch(cmds...)
}

func autoSaveTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return autoSaveTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.explorer.SetItems(msg.items)
		return m, nil

	case fileEventMsg:
		return m.handleFileEvent(msg.event)

	case watcherStoppedMsg:
		return m, nil

	case previewRenderedMsg:
		if m.previewing && msg.path == m.previewPath {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case autoSaveTickMsg:
		return m.autoSave()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings that work in every focus area.
	switch msg.String() {
	case "ctrl+s":
		return m.saveActive()
	case "ctrl+f":
		if m.container.Active() != nil {
			m.focus = focusFind
			m.find.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	switch m.focus {
	case focusExplorer:
		return m.handleExplorerKey(msg)
	case focusEditor:
		return m.handleEditorKey(msg)
	case focusFind:
		return m.handleFindKey(msg)
	case focusPrompt:
		return m.handlePromptKey(msg)
	}
	return m, nil
}

func (m Model) handleExplorerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.explorer.FilterState() == list.Filtering

	switch msg.String() {
	case "q", "esc":
		if !filtering {
			return m, func() tea.Msg { return helpers.NavigateToWelcomeMsg{} }
		}
	case "enter":
		if !filtering {
			if sel, ok := m.explorer.SelectedItem().(fileItem); ok {
				return m.openFile(sel.path)
			}
			return m, nil
		}
	case "tab":
		if !filtering && m.container.Active() != nil {
			m.focus = focusEditor
			m.text.Focus()
			return m, nil
		}
	case "r":
		if !filtering {
			return m, m.refreshExplorer()
		}
	case "p":
		if !filtering {
			return m.togglePreview()
		}
	case "n":
		if !filtering {
			return m.openPrompt(promptNewFile, "", "new file path")
		}
	case "N":
		if !filtering {
			return m.openPrompt(promptNewDir, "", "new folder path")
		}
	case "R":
		if !filtering {
			if sel, ok := m.explorer.SelectedItem().(fileItem); ok {
				if m.bufferOpen(sel.path) {
					m.status = fmt.Sprintf("%s is open in the editor - close it before renaming", sel.path)
					return m, nil
				}
				return m.openPrompt(promptRename, sel.path, "rename to")
			}
			return m, nil
		}
	case "D":
		if !filtering {
			if sel, ok := m.explorer.SelectedItem().(fileItem); ok {
				if m.bufferOpen(sel.path) {
					m.status = fmt.Sprintf("%s is open in the editor - close it before deleting", sel.path)
					return m, nil
				}
				return m.openPrompt(promptDelete, sel.path, "")
			}
			return m, nil
		}
	}

	if m.previewing {
		var vcmd tea.Cmd
		m.preview, vcmd = m.preview.Update(msg)
		var lcmd tea.Cmd
		m.explorer, lcmd = m.explorer.Update(msg)
		return m, tea.Batch(vcmd, lcmd, m.renderSelectedPreview())
	}

	var cmd tea.Cmd
	m.explorer, cmd = m.explorer.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.container.Active()
	if b == nil {
		m.focus = focusExplorer
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.syncBuffer(b)
		m.focus = focusExplorer
		m.text.Blur()
		return m, nil
	case "ctrl+w":
		m.syncBuffer(b)
		if b.Dirty() {
			m.status = fmt.Sprintf("%s has unsaved changes - ctrl+s to save first", b.Path())
			return m, nil
		}
		m.container.Close(b.Path())
		m.resize()
		if next := m.container.Active(); next != nil {
			m.loadBuffer(next)
		} else {
			m.focus = focusExplorer
			m.text.Blur()
		}
		return m, nil
	case "ctrl+o":
		m.syncBuffer(b)
		m.activateNeighbor(1)
		return m, nil
	case "ctrl+p":
		m.syncBuffer(b)
		m.activateNeighbor(-1)
		return m, nil
	case "f3":
		if m.findQuery != "" {
			m.syncBuffer(b)
			return m.findNext(b)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	m.syncBuffer(b)
	return m, cmd
}

func (m Model) handleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusEditor
		m.find.Blur()
		return m, nil
	case "enter":
		m.findQuery = m.find.Value()
		m.focus = focusEditor
		m.find.Blur()
		if b := m.container.Active(); b != nil && m.findQuery != "" {
			return m.findNext(b)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	return m, cmd
}

// openPrompt starts an explorer file operation. Rename prompts are
// prefilled with the current path; deletes only need a confirmation.
func (m Model) openPrompt(kind promptKind, target, placeholder string) (tea.Model, tea.Cmd) {
	m.promptAction = kind
	m.promptTarget = target
	m.focus = focusPrompt

	if kind == promptDelete {
		return m, nil
	}

	m.prompt.Placeholder = placeholder
	if kind == promptRename {
		m.prompt.SetValue(target)
	} else {
		m.prompt.SetValue("")
	}
	m.prompt.CursorEnd()
	m.prompt.Focus()
	return m, textinput.Blink
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptAction == promptDelete {
		switch msg.String() {
		case "y", "Y":
			cmd := m.deletePath(m.promptTarget)
			return m.closePrompt(cmd)
		default:
			return m.closePrompt(nil)
		}
	}

	switch msg.String() {
	case "esc":
		return m.closePrompt(nil)
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		if value == "" {
			return m.closePrompt(nil)
		}
		ws := m.container.Workspace()
		switch m.promptAction {
		case promptNewFile:
			if err := ws.CreateFile(value); err != nil {
				m.status = err.Error()
				return m.closePrompt(nil)
			}
			m.status = fmt.Sprintf("Created %s", value)
		case promptNewDir:
			if err := ws.CreateDir(value); err != nil {
				m.status = err.Error()
				return m.closePrompt(nil)
			}
			m.status = fmt.Sprintf("Created folder %s", value)
		case promptRename:
			if err := ws.Rename(m.promptTarget, value); err != nil {
				m.status = err.Error()
				return m.closePrompt(nil)
			}
			m.status = fmt.Sprintf("Renamed %s to %s", m.promptTarget, value)
		}
		return m.closePrompt(m.refreshExplorer())
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) closePrompt(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.promptAction = promptNone
	m.promptTarget = ""
	m.prompt.Blur()
	m.focus = focusExplorer
	return m, cmd
}

func (m *Model) deletePath(rel string) tea.Cmd {
	if err := m.container.Workspace().Delete(rel); err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = fmt.Sprintf("Deleted %s", rel)
	return m.refreshExplorer()
}

func (m Model) bufferOpen(rel string) bool {
	for _, b := range m.container.Buffers() {
		if b.Path() == rel {
			return true
		}
	}
	return false
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusExplorer:
		m.explorer, cmd = m.explorer.Update(msg)
	case focusEditor:
		m.text, cmd = m.text.Update(msg)
	case focusFind:
		m.find, cmd = m.find.Update(msg)
	case focusPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// openFile loads a workspace file into the container and the textarea.
func (m Model) openFile(rel string) (tea.Model, tea.Cmd) {
	b, err := m.container.Open(rel)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.loadBuffer(b)
	m.focus = focusEditor
	m.text.Focus()
	m.resize() // the split state depends on the open buffer count

	if b.LostEdits() {
		m.status = fmt.Sprintf("%s had unsaved changes from a previous session that could not be restored", rel)
	} else {
		m.status = ""
	}
	return m, nil
}

// loadBuffer mirrors a buffer into the textarea, restoring the cursor.
func (m *Model) loadBuffer(b *editor.Buffer) {
	m.text.SetValue(b.Content())
	line, col := b.Cursor()
	m.text.CursorStart()
	for i := 0; i < line; i++ {
		m.text.CursorDown()
	}
	m.text.SetCursor(col)
}

// syncBuffer mirrors the textarea back into the buffer.
func (m *Model) syncBuffer(b *editor.Buffer) {
	b.SetContent(m.text.Value())
	b.SetCursor(m.text.Line(), m.text.LineInfo().ColumnOffset)
}

func (m *Model) activateNeighbor(delta int) {
	buffers := m.container.Buffers()
	if len(buffers) < 2 {
		return
	}
	active := m.container.Active()
	for i, b := range buffers {
		if b == active {
			next := buffers[(i+delta+len(buffers))%len(buffers)]
			m.container.SetActive(next.Path())
			m.loadBuffer(next)
			return
		}
	}
}

func (m Model) saveActive() (tea.Model, tea.Cmd) {
	b := m.container.Active()
	if b == nil {
		return m, nil
	}
	m.syncBuffer(b)

	if err := m.container.Save(b.Path()); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("Saved %s", b.Path())
	return m, nil
}

// autoSave writes every dirty buffer and re-arms the timer.
func (m Model) autoSave() (tea.Model, tea.Cmd) {
	tick := autoSaveTick(m.ctx.Config.AutoSaveDuration())

	if b := m.container.Active(); b != nil && m.focus == focusEditor {
		m.syncBuffer(b)
	}
	dirty := m.container.DirtyPaths()
	if len(dirty) == 0 {
		return m, tick
	}

	if err := m.container.SaveAll(); err != nil {
		m.status = err.Error()
		return m, tick
	}
	m.status = fmt.Sprintf("Auto-saved %d file(s)", len(dirty))
	return m, tick
}

func (m Model) findNext(b *editor.Buffer) (tea.Model, tea.Cmd) {
	// Step past the current position so repeated searches advance.
	line, col := b.Cursor()
	b.SetCursor(line, col+1)

	match, wrapped, err := editor.FindNext(b, m.findQuery, editor.FindOptions{WrapAround: true})
	if err != nil {
		b.SetCursor(line, col)
		m.status = err.Error()
		return m, nil
	}
	if match == nil {
		b.SetCursor(line, col)
		m.status = fmt.Sprintf("No matches for %q", m.findQuery)
		return m, nil
	}

	m.loadBuffer(b)
	if wrapped {
		m.status = fmt.Sprintf("Search wrapped to top for %q", m.findQuery)
	} else {
		m.status = fmt.Sprintf("Match at %d:%d", match.Line+1, match.Col+1)
	}
	return m, nil
}

func (m Model) togglePreview() (tea.Model, tea.Cmd) {
	m.previewing = !m.previewing
	if !m.previewing {
		m.previewPath = ""
		m.resize()
		return m, nil
	}
	m.resize()
	return m, m.renderSelectedPreview()
}

// renderSelectedPreview renders the selected markdown file with glamour.
func (m *Model) renderSelectedPreview() tea.Cmd {
	sel, ok := m.explorer.SelectedItem().(fileItem)
	if !ok {
		return nil
	}
	if m.previewPath == sel.path {
		return nil
	}
	m.previewPath = sel.path

	ws := m.container.Workspace()
	theme := m.ctx.Config.Theme
	width := m.preview.Width
	path := sel.path

	return func() tea.Msg {
		data, err := ws.ReadFile(path)
		if err != nil {
			return previewRenderedMsg{path: path, content: err.Error()}
		}

		if filepath.Ext(path) != ".md" {
			return previewRenderedMsg{path: path, content: string(data)}
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(previewStyle(theme, 100*time.Millisecond)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return previewRenderedMsg{path: path, content: string(data)}
		}
		rendered, err := renderer.Render(string(data))
		if err != nil {
			return previewRenderedMsg{path: path, content: string(data)}
		}
		return previewRenderedMsg{path: path, content: rendered}
	}
}

// previewStyle picks the glamour style for the preview pane. An explicit
// GLAMOUR_STYLE wins, then the configured theme, then terminal background
// detection. A timeout ensures we never hang on terminals that don't
// respond to the background query.
func previewStyle(theme string, timeout time.Duration) string {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" && style != "auto" {
		return style
	}
	switch theme {
	case "dark", "light":
		return theme
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case style := <-ch:
		return style
	case <-time.After(timeout):
		return "dark"
	}
}

// handleFileEvent reacts to a debounced on-disk change.
func (m Model) handleFileEvent(ev watch.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.refreshExplorer(), waitForWatchEvent(m.watcher)}

	for _, b := range m.container.Buffers() {
		if b.Path() != ev.Path {
			continue
		}
		if changed, err := m.container.ModifiedOnDisk(ev.Path); err == nil && !changed {
			// Our own save triggered the event.
			break
		}
		if b.Dirty() {
			m.status = fmt.Sprintf("%s changed on disk; buffer has unsaved edits", ev.Path)
			break
		}
		ws := m.container.Workspace()
		data, err := ws.ReadFile(ev.Path)
		if err != nil {
			m.status = fmt.Sprintf("%s removed on disk", ev.Path)
			break
		}
		line, col := b.Cursor()
		b.SetContent(string(data))
		b.MarkSaved()
		b.SetCursor(line, col)
		if st, err := ws.Stat(ev.Path); err == nil {
			b.SetModTime(st.ModTime)
		}
		if m.container.Active() == b {
			m.loadBuffer(b)
		}
		m.status = fmt.Sprintf("Reloaded %s after external change", ev.Path)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) refreshExplorer() tea.Cmd {
	ws := m.container.Workspace()
	return func() tea.Msg {
		files, err := ws.ListFiles("")
		if err != nil {
			return refreshedMsg{err: err}
		}
		items := make([]list.Item, 0, len(files))
		for _, f := range files {
			items = append(items, fileItem{path: filepath.ToSlash(f.Path), size: f.Size})
		}
		return refreshedMsg{items: items}
	}
}

func waitForWatchEvent(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return watcherStoppedMsg{}
		}
		return fileEventMsg{event: ev}
	}
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	listWidth := m.width / 3
	if listWidth < 30 {
		listWidth = 30
	}
	paneHeight := m.height - 6

	editorWidth := m.width - listWidth - 6
	editorHeight := paneHeight
	if m.splitActive() {
		switch m.container.Layout() {
		case editor.LayoutSplitVertical:
			editorWidth = (editorWidth - 2) / 2
		case editor.LayoutSplitHorizontal:
			editorHeight = (editorHeight - 1) / 2
		}
	}
	m.editorWidth = editorWidth
	m.editorHeight = editorHeight

	m.explorer.SetSize(listWidth-4, paneHeight)
	m.text.SetWidth(editorWidth)
	m.text.SetHeight(editorHeight)
	m.preview.Width = m.width - listWidth - 6
	m.preview.Height = paneHeight
	m.find.Width = m.width - listWidth - 10
	m.prompt.Width = m.width - listWidth - 10
}

// splitActive reports whether a split layout should render: the layout is
// not single and there is a second buffer to show.
func (m Model) splitActive() bool {
	return m.container.Layout() != editor.LayoutSingle && len(m.container.Buffers()) > 1
}

func (m Model) View() string {
	left := m.explorer.View()
	leftStyle := styles.PaneStyle
	rightStyle := styles.PaneStyle
	if m.focus == focusExplorer {
		leftStyle = styles.PaneFocusedStyle
	} else {
		rightStyle = styles.PaneFocusedStyle
	}

	var right string
	switch {
	case m.previewing && m.focus == focusExplorer:
		right = m.preview.View()
	case m.container.Active() != nil:
		right = m.tabBar() + "\n" + m.editorArea()
	default:
		right = styles.HelpStyle.Render("Enter to open • p preview • n new file • N new folder • R rename • D delete")
	}

	if m.focus == focusFind {
		right += "\n" + styles.InputStyle.Render(m.find.View())
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(left),
		rightStyle.Render(right),
	)

	out := panes
	if m.focus == focusPrompt {
		out += "\n" + styles.InputStyle.Render(m.promptLine())
	}
	return out + "\n" + m.statusBar()
}

func (m Model) promptLine() string {
	switch m.promptAction {
	case promptNewFile:
		return "New file: " + m.prompt.View()
	case promptNewDir:
		return "New folder: " + m.prompt.View()
	case promptRename:
		return "Rename: " + m.prompt.View()
	case promptDelete:
		return fmt.Sprintf("Delete %s? (y/n)", m.promptTarget)
	}
	return ""
}

// editorArea renders the editable pane, joined with a read-only view of
// the next buffer when a split layout is active.
func (m Model) editorArea() string {
	primary := m.text.View()
	second := m.secondaryPane()
	if second == "" {
		return primary
	}
	if m.container.Layout() == editor.LayoutSplitVertical {
		return lipgloss.JoinHorizontal(lipgloss.Top, primary, "  ", second)
	}
	return primary + "\n" + second
}

// secondaryPane shows the buffer after the active one, clipped to the
// pane size.
func (m Model) secondaryPane() string {
	if !m.splitActive() {
		return ""
	}
	b := m.secondaryBuffer()
	if b == nil {
		return ""
	}

	width := uint(m.editorWidth)
	lines := b.Lines()
	if m.editorHeight > 1 && len(lines) > m.editorHeight-1 {
		lines = lines[:m.editorHeight-1]
	}
	for i, l := range lines {
		lines[i] = truncate.StringWithTail(l, width, "…")
	}

	title := styles.HelpStyle.Render(truncate.StringWithTail(b.Path(), width, "…"))
	return title + "\n" + strings.Join(lines, "\n")
}

func (m Model) secondaryBuffer() *editor.Buffer {
	buffers := m.container.Buffers()
	active := m.container.Active()
	for i, b := range buffers {
		if b == active {
			return buffers[(i+1)%len(buffers)]
		}
	}
	return nil
}

// tabBar renders open buffers, marking the active and dirty ones.
func (m Model) tabBar() string {
	var tabs []string
	active := m.container.Active()
	for _, b := range m.container.Buffers() {
		name := filepath.Base(b.Path())
		if b.Dirty() {
			name += styles.DirtyMarkStyle.Render("*")
		}
		if b == active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(name))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) statusBar() string {
	parts := []string{m.container.Workspace().Name()}

	if b := m.container.Active(); b != nil {
		line, col := b.Cursor()
		pos := fmt.Sprintf("%s %d:%d", b.Path(), line+1, col+1)
		if b.Dirty() {
			pos += " [+]"
		}
		parts = append(parts, pos)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.err != nil {
		parts = append(parts, styles.ErrorStyle.Render(m.err.Error()))
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	return styles.StatusBarStyle.Width(width).Render(strings.Join(parts, "  •  "))
}
