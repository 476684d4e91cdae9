// Package settingsmenu implements the settings modification flow.
//
// The flow consists of a handful of states:
//   - Menu: all options with their current values; toggles flip in place
//   - EditValue: text input for numeric options (tab size, auto-save, port)
//   - Token: manage the MCP server token stored in the system keyring
//   - Confirmation: review pending changes before writing the config file
//   - Complete / Error: terminal states
//
// Changes accumulate in a working copy of the config and are only written
// to disk after the user confirms.
package settingsmenu

import (
	"fmt"
	"strconv"
	"strings"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/secrets"
	"quill/internal/tui/components"
	"quill/internal/tui/helpers"
	"quill/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SettingsState represents the current state of the settings flow.
type SettingsState int

const (
	SettingsStateMenu SettingsState = iota
	SettingsStateEditValue
	SettingsStateToken
	SettingsStateConfirmation
	SettingsStateComplete
	SettingsStateError
)

// String returns a human-readable name for the state.
func (s SettingsState) String() string {
	switch s {
	case SettingsStateMenu:
		return "Menu"
	case SettingsStateEditValue:
		return "EditValue"
	case SettingsStateToken:
		return "Token"
	case SettingsStateConfirmation:
		return "Confirmation"
	case SettingsStateComplete:
		return "Complete"
	case SettingsStateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// settingOption identifies a single editable setting.
type settingOption int

const (
	optionTheme settingOption = iota
	optionLayout
	optionFontSize
	optionLineNumbers
	optionWordWrap
	optionUseSpaces
	optionTabSize
	optionAutoSave
	optionAutoSaveInterval
	optionMCPEnabled
	optionMCPPort
	optionMCPResources
	optionMCPTools
	optionServerToken
	optionSaveChanges
	optionBack
)

type optionInfo struct {
	option  settingOption
	display string
	desc    string
}

// Custom messages for internal state transitions.

type settingsErrorMsg struct{ err error }

type settingsSavedMsg struct{ cfg *config.Config }

// tokenResultMsg reports the outcome of a keyring operation.
type tokenResultMsg struct {
	status string
	err    error
}

// SettingsModel handles the settings modification flow.
type SettingsModel struct {
	state         SettingsState
	previousState SettingsState

	// Working copy; only written to disk after confirmation.
	pending config.Config
	saved   config.Config

	editing settingOption

	textInput textinput.Model
	layout    components.LayoutModel

	selectedOption int
	tokenStatus    string

	logger      *logging.AppLogger
	credManager *secrets.CredentialManager
	ctx         helpers.UIContext
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(ctx helpers.UIContext) *SettingsModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 16

	layout := components.NewLayout(components.LayoutConfig{
		MarginX:  2,
		MarginY:  1,
		MaxWidth: 100,
	})

	if ctx.HasValidDimensions() {
		windowMsg := tea.WindowSizeMsg{Width: ctx.Width, Height: ctx.Height}
		layout, _ = layout.Update(windowMsg)
	}

	return &SettingsModel{
		state:       SettingsStateMenu,
		pending:     *ctx.Config,
		saved:       *ctx.Config,
		textInput:   ti,
		layout:      layout,
		logger:      ctx.Logger,
		credManager: secrets.NewCredentialManager(),
		ctx:         ctx,
	}
}

func (m *SettingsModel) Init() tea.Cmd {
	m.logger.Info("Settings model initialized")
	return textinput.Blink
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.layout, _ = m.layout.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case settingsErrorMsg:
		m.state = SettingsStateError
		m.layout = m.layout.SetError(msg.err)
		return m, nil

	case settingsSavedMsg:
		m.state = SettingsStateComplete
		m.saved = *msg.cfg
		m.layout = m.layout.ClearError()
		return m, func() tea.Msg { return helpers.ConfigSavedMsg{Config: msg.cfg} }

	case tokenResultMsg:
		if msg.err != nil {
			m.logger.Error("Token operation failed", "error", msg.err)
			return m, func() tea.Msg { return settingsErrorMsg{msg.err} }
		}
		m.tokenStatus = msg.status
		return m, nil
	}

	return m, nil
}

func (m *SettingsModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case SettingsStateMenu:
		return m.handleMenuKeys(msg)
	case SettingsStateEditValue:
		return m.handleEditValueKeys(msg)
	case SettingsStateToken:
		return m.handleTokenKeys(msg)
	case SettingsStateConfirmation:
		return m.handleConfirmationKeys(msg)
	case SettingsStateComplete, SettingsStateError:
		return m.handleCompleteKeys(msg)
	default:
		return m, nil
	}
}

func (m *SettingsModel) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.menuOptions()

	switch msg.String() {
	case "up", "k":
		if m.selectedOption > 0 {
			m.selectedOption--
		}
	case "down", "j":
		if m.selectedOption < len(options)-1 {
			m.selectedOption++
		}
	case "enter", " ":
		return m.activateOption(options[m.selectedOption].option)
	case "esc":
		if m.hasChanges() {
			m.pending = m.saved
			m.logger.LogUserAction("settings_discard", "unsaved changes discarded")
		}
		return m, func() tea.Msg { return helpers.NavigateToWelcomeMsg{} }
	}
	return m, nil
}

// activateOption flips toggles in place and opens inputs for the rest.
func (m *SettingsModel) activateOption(opt settingOption) (tea.Model, tea.Cmd) {
	switch opt {
	case optionTheme:
		if m.pending.Theme == "dark" {
			m.pending.Theme = "light"
		} else {
			m.pending.Theme = "dark"
		}
	case optionLayout:
		m.pending.EditorLayout = nextLayout(m.pending.EditorLayout)
	case optionLineNumbers:
		m.pending.ShowLineNumbers = !m.pending.ShowLineNumbers
	case optionWordWrap:
		m.pending.WordWrap = !m.pending.WordWrap
	case optionUseSpaces:
		m.pending.UseSpaces = !m.pending.UseSpaces
	case optionAutoSave:
		m.pending.AutoSave = !m.pending.AutoSave
	case optionMCPEnabled:
		m.pending.MCP.Enabled = !m.pending.MCP.Enabled
	case optionMCPResources:
		m.pending.MCP.ExposeResources = !m.pending.MCP.ExposeResources
	case optionMCPTools:
		m.pending.MCP.ToolsEnabled = !m.pending.MCP.ToolsEnabled

	case optionFontSize:
		return m.transitionToEdit(opt, strconv.Itoa(m.pending.FontSize))
	case optionTabSize:
		return m.transitionToEdit(opt, strconv.Itoa(m.pending.TabSize))
	case optionAutoSaveInterval:
		return m.transitionToEdit(opt, strconv.Itoa(m.pending.AutoSaveInterval))
	case optionMCPPort:
		return m.transitionToEdit(opt, strconv.Itoa(m.pending.MCP.Port))

	case optionServerToken:
		m.tokenStatus = ""
		return m.transitionTo(SettingsStateToken), m.checkToken()

	case optionSaveChanges:
		if !m.hasChanges() {
			m.logger.LogUserAction("settings_save", "no changes to save")
			return m, nil
		}
		return m.transitionTo(SettingsStateConfirmation), nil

	case optionBack:
		if m.hasChanges() {
			m.pending = m.saved
		}
		return m, func() tea.Msg { return helpers.NavigateToWelcomeMsg{} }
	}
	return m, nil
}

func (m *SettingsModel) handleEditValueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.textInput.Value())
		m.logger.LogUserAction("settings_value_submit", input)
		if err := m.applyNumericValue(input); err != nil {
			m.logger.Warn("Value validation failed", "error", err)
			return m, func() tea.Msg { return settingsErrorMsg{err} }
		}
		return m.transitionTo(SettingsStateMenu), nil
	case "esc":
		return m.transitionTo(SettingsStateMenu), nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		if m.layout.GetError() != nil {
			m.layout = m.layout.ClearError()
		}
		return m, cmd
	}
}

func (m *SettingsModel) applyNumericValue(input string) error {
	n, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("%q is not a number", input)
	}

	switch m.editing {
	case optionFontSize:
		if n < 6 || n > 72 {
			return fmt.Errorf("font size %d out of range (6-72)", n)
		}
		m.pending.FontSize = n
	case optionTabSize:
		if n < 1 || n > 16 {
			return fmt.Errorf("tab size %d out of range (1-16)", n)
		}
		m.pending.TabSize = n
	case optionAutoSaveInterval:
		if n < 1 {
			return fmt.Errorf("auto-save interval must be at least 1 second")
		}
		m.pending.AutoSaveInterval = n
	case optionMCPPort:
		if n < 1 || n > 65535 {
			return fmt.Errorf("port %d out of range", n)
		}
		m.pending.MCP.Port = n
	}
	return nil
}

func (m *SettingsModel) handleTokenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g":
		m.logger.LogUserAction("settings_token_generate", "generating new server token")
		return m, m.generateToken()
	case "d":
		m.logger.LogUserAction("settings_token_delete", "removing server token")
		return m, m.deleteToken()
	case "esc", "enter":
		return m.transitionTo(SettingsStateMenu), nil
	}
	return m, nil
}

func (m *SettingsModel) handleConfirmationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.logger.LogUserAction("settings_confirmation_accept", "saving changes")
		return m, m.saveChanges()
	case "n", "N":
		m.logger.LogUserAction("settings_confirmation_reject", "discarding changes")
		m.pending = m.saved
		return m.transitionTo(SettingsStateMenu), nil
	case "esc":
		return m.transitionTo(SettingsStateMenu), nil
	}
	return m, nil
}

func (m *SettingsModel) handleCompleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ", "esc":
		if m.state == SettingsStateError {
			return m.transitionTo(SettingsStateMenu), nil
		}
		return m, func() tea.Msg { return helpers.NavigateToWelcomeMsg{} }
	}
	return m, nil
}

// State transition helpers.

func (m *SettingsModel) transitionTo(newState SettingsState) *SettingsModel {
	m.logger.LogStateTransition("SettingsModel", m.state.String(), newState.String())
	m.previousState = m.state
	m.state = newState
	m.layout = m.layout.ClearError()
	return m
}

func (m *SettingsModel) transitionToEdit(opt settingOption, current string) (tea.Model, tea.Cmd) {
	m.editing = opt
	m.textInput.SetValue(current)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	return m.transitionTo(SettingsStateEditValue), textinput.Blink
}

func (m *SettingsModel) hasChanges() bool {
	return m.pending != m.saved
}

// Keyring operations run as commands so the UI never blocks.

func (m *SettingsModel) checkToken() tea.Cmd {
	return func() tea.Msg {
		if m.credManager.HasServerToken() {
			return tokenResultMsg{status: "A server token is stored in the system keyring."}
		}
		return tokenResultMsg{status: "No server token stored."}
	}
}

func (m *SettingsModel) generateToken() tea.Cmd {
	return func() tea.Msg {
		token, err := m.credManager.GenerateServerToken()
		if err != nil {
			return tokenResultMsg{err: fmt.Errorf("failed to generate server token: %w", err)}
		}
		return tokenResultMsg{status: fmt.Sprintf("New token stored: %s", token)}
	}
}

func (m *SettingsModel) deleteToken() tea.Cmd {
	return func() tea.Msg {
		if err := m.credManager.DeleteServerToken(); err != nil {
			return tokenResultMsg{err: fmt.Errorf("failed to remove server token: %w", err)}
		}
		return tokenResultMsg{status: "Server token removed."}
	}
}

func (m *SettingsModel) saveChanges() tea.Cmd {
	cfg := m.pending
	return func() tea.Msg {
		m.logger.Info("Saving settings changes")
		if err := cfg.Save(); err != nil {
			m.logger.Error("Settings update failed", "error", err)
			return settingsErrorMsg{err}
		}
		m.logger.Info("Settings updated successfully")
		return settingsSavedMsg{cfg: &cfg}
	}
}

// View renders the current state.
func (m *SettingsModel) View() string {
	switch m.state {
	case SettingsStateMenu:
		return m.viewMenu()
	case SettingsStateEditValue:
		return m.viewEditValue()
	case SettingsStateToken:
		return m.viewToken()
	case SettingsStateConfirmation:
		return m.viewConfirmation()
	case SettingsStateComplete:
		return m.viewComplete()
	case SettingsStateError:
		return m.viewError()
	}
	return ""
}

func (m *SettingsModel) viewMenu() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "⚙️  Settings",
		Subtitle: "Enter toggles or edits a setting",
		HelpText: "↑/↓ to navigate • Enter to change • Esc to go back",
	})

	options := m.menuOptions()
	var content strings.Builder

	for i, opt := range options {
		prefix := "  "
		if i == m.selectedOption {
			prefix = "▶ "
		}
		content.WriteString(fmt.Sprintf("%s%s\n", prefix, opt.display))
		if opt.desc != "" {
			content.WriteString(fmt.Sprintf("  %s\n", lipgloss.NewStyle().Faint(true).Render(opt.desc)))
		}
	}

	if m.hasChanges() {
		content.WriteString("\n" + styles.SuccessStyle.Render("Unsaved changes"))
	}

	return m.layout.Render(content.String())
}

func (m *SettingsModel) viewEditValue() string {
	var title, subtitle string
	switch m.editing {
	case optionFontSize:
		title, subtitle = "Font Size", "Point size used by the terminal profile (6-72)"
	case optionTabSize:
		title, subtitle = "Tab Size", "Spaces per indentation level (1-16)"
	case optionAutoSaveInterval:
		title, subtitle = "Auto-Save Interval", "Seconds between automatic saves"
	case optionMCPPort:
		title, subtitle = "MCP Server Port", "TCP port for the HTTP transport"
	}

	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    title,
		Subtitle: subtitle,
		HelpText: "Enter to apply • Esc to cancel",
	})

	return m.layout.Render(styles.InputStyle.Render(m.textInput.View()))
}

func (m *SettingsModel) viewToken() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "🔑 MCP Server Token",
		Subtitle: "Bearer token required by the HTTP transport",
		HelpText: "g to generate a new token • d to remove • Esc to go back",
	})

	var content strings.Builder
	if m.tokenStatus != "" {
		content.WriteString(m.tokenStatus + "\n\n")
	}
	content.WriteString(lipgloss.NewStyle().Faint(true).Render(
		"The token is stored in your system keyring and never written to the config file."))

	return m.layout.Render(content.String())
}

func (m *SettingsModel) viewConfirmation() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "💾 Confirm Changes",
		Subtitle: "Review your changes",
		HelpText: "y to save • n to discard • Esc to go back",
	})

	content := m.formatChangesSummary()
	content += "\n\nSave these changes? (Y/n)"

	return m.layout.Render(content)
}

func (m *SettingsModel) viewComplete() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "✅ Settings Updated",
		Subtitle: "Your changes have been saved",
		HelpText: "Press any key to continue",
	})

	return m.layout.Render("Your settings have been updated successfully!\n\nThe changes take effect immediately.")
}

func (m *SettingsModel) viewError() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "❌ Error",
		Subtitle: "Failed to update settings",
		HelpText: "Press any key to continue",
	})

	return m.layout.Render("An error occurred while updating your settings.\nPlease check the error message above and try again.")
}

// Helper functions for views.

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func nextLayout(layout string) string {
	for i, l := range config.ValidLayouts {
		if l == layout {
			return config.ValidLayouts[(i+1)%len(config.ValidLayouts)]
		}
	}
	return config.ValidLayouts[0]
}

func (m *SettingsModel) menuOptions() []optionInfo {
	highlight := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fd7ff"))
	p := m.pending

	return []optionInfo{
		{optionTheme, fmt.Sprintf("🎨 Theme: %s", highlight.Render(p.Theme)), "Switch between dark and light"},
		{optionLayout, fmt.Sprintf("🪟 Editor Layout: %s", highlight.Render(p.EditorLayout)), "Cycle single / split layouts"},
		{optionFontSize, fmt.Sprintf("🔠 Font Size: %s", highlight.Render(strconv.Itoa(p.FontSize))), ""},
		{optionLineNumbers, fmt.Sprintf("🔢 Line Numbers: %s", highlight.Render(onOff(p.ShowLineNumbers))), ""},
		{optionWordWrap, fmt.Sprintf("↩️  Word Wrap: %s", highlight.Render(onOff(p.WordWrap))), ""},
		{optionUseSpaces, fmt.Sprintf("␣ Indent With Spaces: %s", highlight.Render(onOff(p.UseSpaces))), ""},
		{optionTabSize, fmt.Sprintf("⇥ Tab Size: %s", highlight.Render(strconv.Itoa(p.TabSize))), ""},
		{optionAutoSave, fmt.Sprintf("💾 Auto-Save: %s", highlight.Render(onOff(p.AutoSave))), ""},
		{optionAutoSaveInterval, fmt.Sprintf("⏱  Auto-Save Interval: %s", highlight.Render(fmt.Sprintf("%ds", p.AutoSaveInterval))), ""},
		{optionMCPEnabled, fmt.Sprintf("🔌 MCP Server: %s", highlight.Render(onOff(p.MCP.Enabled))), "Expose the workspace to MCP clients"},
		{optionMCPPort, fmt.Sprintf("🔌 MCP Port: %s", highlight.Render(strconv.Itoa(p.MCP.Port))), ""},
		{optionMCPResources, fmt.Sprintf("📄 MCP Resources: %s", highlight.Render(onOff(p.MCP.ExposeResources))), "Expose workspace files as resources"},
		{optionMCPTools, fmt.Sprintf("🔧 MCP Write Tools: %s", highlight.Render(onOff(p.MCP.ToolsEnabled))), "Allow clients to modify workspace files"},
		{optionServerToken, "🔑 MCP Server Token", "Manage the HTTP transport bearer token"},
		{optionSaveChanges, "💾 Save Changes", ""},
		{optionBack, "← Back", ""},
	}
}

func (m *SettingsModel) formatChangesSummary() string {
	highlight := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fd7ff"))
	var content strings.Builder
	content.WriteString("Changes to be saved:\n\n")

	add := func(name, old, new string) {
		if old != new {
			content.WriteString(fmt.Sprintf("• %s: %s → %s\n", name, old, highlight.Render(new)))
		}
	}

	add("Theme", m.saved.Theme, m.pending.Theme)
	add("Editor Layout", m.saved.EditorLayout, m.pending.EditorLayout)
	add("Font Size", strconv.Itoa(m.saved.FontSize), strconv.Itoa(m.pending.FontSize))
	add("Line Numbers", onOff(m.saved.ShowLineNumbers), onOff(m.pending.ShowLineNumbers))
	add("Word Wrap", onOff(m.saved.WordWrap), onOff(m.pending.WordWrap))
	add("Indent With Spaces", onOff(m.saved.UseSpaces), onOff(m.pending.UseSpaces))
	add("Tab Size", strconv.Itoa(m.saved.TabSize), strconv.Itoa(m.pending.TabSize))
	add("Auto-Save", onOff(m.saved.AutoSave), onOff(m.pending.AutoSave))
	add("Auto-Save Interval", strconv.Itoa(m.saved.AutoSaveInterval), strconv.Itoa(m.pending.AutoSaveInterval))
	add("MCP Server", onOff(m.saved.MCP.Enabled), onOff(m.pending.MCP.Enabled))
	add("MCP Port", strconv.Itoa(m.saved.MCP.Port), strconv.Itoa(m.pending.MCP.Port))
	add("MCP Resources", onOff(m.saved.MCP.ExposeResources), onOff(m.pending.MCP.ExposeResources))
	add("MCP Write Tools", onOff(m.saved.MCP.ToolsEnabled), onOff(m.pending.MCP.ToolsEnabled))

	return content.String()
}
