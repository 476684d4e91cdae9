package components

import (
	"strings"

	"quill/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

// LayoutConfig describes the chrome around a screen's content.
type LayoutConfig struct {
	Title    string
	Subtitle string
	HelpText string
	// StatusLine is rendered full-width beneath the content, before help.
	StatusLine string
	MarginX    int
	MarginY    int
	MaxWidth   int
}

// LayoutModel renders screens with consistent title, status, error, and
// help sections.
type LayoutModel struct {
	config LayoutConfig
	width  int
	height int
	err    error
}

func NewLayout(config LayoutConfig) LayoutModel {
	if config.MarginX == 0 {
		config.MarginX = 2
	}
	if config.MarginY == 0 {
		config.MarginY = 1
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = 120
	}
	return LayoutModel{config: config}
}

func (m LayoutModel) Update(msg tea.Msg) (LayoutModel, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
	}
	return m, nil
}

func (m LayoutModel) SetConfig(config LayoutConfig) LayoutModel {
	if config.MarginX == 0 {
		config.MarginX = m.config.MarginX
	}
	if config.MarginY == 0 {
		config.MarginY = m.config.MarginY
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = m.config.MaxWidth
	}
	m.config = config
	return m
}

func (m LayoutModel) SetStatusLine(status string) LayoutModel {
	m.config.StatusLine = status
	return m
}

func (m LayoutModel) SetError(err error) LayoutModel {
	if err != nil {
		m.err = err
	}
	return m
}

func (m LayoutModel) ClearError() LayoutModel {
	m.err = nil
	return m
}

func (m LayoutModel) GetError() error {
	return m.err
}

// Render assembles the full screen around the given content.
func (m LayoutModel) Render(content string) string {
	contentWidth := m.ContentWidth()
	var sections []string

	if m.config.Title != "" {
		sections = append(sections, styles.TitleStyle.Render(m.wrapText(m.config.Title, contentWidth)))
	}
	if m.config.Subtitle != "" {
		sections = append(sections, styles.SubtitleStyle.Render(m.wrapText(m.config.Subtitle, contentWidth)))
	}
	if content != "" {
		sections = append(sections, styles.NormalTextStyle.Render(content))
	}
	if m.err != nil {
		sections = append(sections, styles.ErrorStyle.Render(m.wrapText("Error: "+m.err.Error(), contentWidth)))
	}
	if m.config.StatusLine != "" {
		sections = append(sections, styles.StatusBarStyle.Width(contentWidth).Render(m.config.StatusLine))
	}
	if m.config.HelpText != "" {
		sections = append(sections, styles.HelpStyle.Render(m.wrapText(m.config.HelpText, contentWidth)))
	}

	return m.addMargins(strings.Join(sections, "\n\n"))
}

func (m LayoutModel) wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " ")
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wordwrap.String(line, width))
	}
	return strings.Join(out, "\n")
}

func (m LayoutModel) addMargins(content string) string {
	lines := strings.Split(content, "\n")
	marginLeft := strings.Repeat(" ", m.config.MarginX)
	for i, line := range lines {
		lines[i] = marginLeft + line
	}
	margin := strings.Repeat("\n", m.config.MarginY)
	return margin + strings.Join(lines, "\n") + margin
}

// ContentWidth is the usable width inside margins, capped for readability.
func (m LayoutModel) ContentWidth() int {
	available := m.width - (m.config.MarginX * 2)
	if available > m.config.MaxWidth {
		return m.config.MaxWidth
	}
	if available < 40 {
		return 40
	}
	return available
}

// ContentHeight reserves space for the chrome sections.
func (m LayoutModel) ContentHeight() int {
	return m.height - (m.config.MarginY * 2) - 8
}

func (m LayoutModel) HasSufficientSpace() bool {
	return m.ContentWidth() >= 40 && m.ContentHeight() >= 10
}
