// Package styles centralizes Lip Gloss styling for the quill TUI.
// Styles are rebuilt when the theme changes; the dark palette is the
// default and a light palette follows the editor's theme setting.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is one theme's color set, all hex codes.
type Palette struct {
	Title    string
	Subtitle string
	Text     string
	Muted    string
	Accent   string
	Error    string
	Success  string
	Border   string
	Focus    string
	DirtyTab string
	StatusBg string
	StatusFg string
}

var darkPalette = Palette{
	Title:    "#ff5fd2",
	Subtitle: "#626262",
	Text:     "#ffffff",
	Muted:    "#a8a8a8",
	Accent:   "#5fd7ff",
	Error:    "#ff005f",
	Success:  "#00ff5f",
	Border:   "#5f5fff",
	Focus:    "#ff5faf",
	DirtyTab: "#ffaf00",
	StatusBg: "#303030",
	StatusFg: "#d0d0d0",
}

var lightPalette = Palette{
	Title:    "#af0087",
	Subtitle: "#6c6c6c",
	Text:     "#1c1c1c",
	Muted:    "#585858",
	Accent:   "#005faf",
	Error:    "#d70000",
	Success:  "#008700",
	Border:   "#5f5faf",
	Focus:    "#af005f",
	DirtyTab: "#af5f00",
	StatusBg: "#d0d0d0",
	StatusFg: "#303030",
}

var (
	TitleStyle       lipgloss.Style
	SubtitleStyle    lipgloss.Style
	NormalTextStyle  lipgloss.Style
	HelpStyle        lipgloss.Style
	ErrorStyle       lipgloss.Style
	SuccessStyle     lipgloss.Style
	InputStyle       lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	TabStyle         lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	DirtyMarkStyle   lipgloss.Style
	StatusBarStyle   lipgloss.Style
)

func init() {
	apply(darkPalette)
}

// SetTheme switches the active palette. Unknown names fall back to dark.
func SetTheme(name string) {
	switch name {
	case "light":
		apply(lightPalette)
	default:
		apply(darkPalette)
	}
}

func apply(p Palette) {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Title)).
		MarginBottom(1).
		PaddingLeft(1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Subtitle)).
		MarginBottom(1).
		PaddingLeft(1)

	NormalTextStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Text)).
		MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color(p.Muted)).
		MarginTop(1).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Error)).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Success)).
		Bold(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Accent)).
		Padding(0, 1)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		PaddingLeft(2).
		PaddingRight(1)

	PaneFocusedStyle = PaneStyle.
		BorderForeground(lipgloss.Color(p.Focus))

	TabStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Accent)).
		Bold(true).
		Padding(0, 1)

	DirtyMarkStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.DirtyTab)).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(p.StatusBg)).
		Foreground(lipgloss.Color(p.StatusFg)).
		Padding(0, 1)
}
