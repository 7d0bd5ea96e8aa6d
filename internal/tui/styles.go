package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todolist/backend"
)

// palette is the set of colors for one theme
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	border  lipgloss.Color
	danger  lipgloss.Color
	barBg   lipgloss.Color
	barText lipgloss.Color
}

var palettes = map[backend.Theme]palette{
	backend.ThemeDark: {
		text: "252", muted: "241", accent: "212", border: "240",
		danger: "203", barBg: "236", barText: "252",
	},
	backend.ThemeLight: {
		text: "235", muted: "245", accent: "57", border: "250",
		danger: "160", barBg: "254", barText: "236",
	},
}

// styles are the lipgloss styles derived from a palette
type styles struct {
	title      lipgloss.Style
	date       lipgloss.Style
	input      lipgloss.Style
	inputShake lipgloss.Style
	row        lipgloss.Style
	selected   lipgloss.Style
	completed  lipgloss.Style
	removing   lipgloss.Style
	empty      lipgloss.Style
	filterOn   lipgloss.Style
	filterOff  lipgloss.Style
	statusBar  lipgloss.Style
	help       lipgloss.Style
}

func newStyles(theme backend.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[backend.DefaultTheme]
	}

	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		date:  lipgloss.NewStyle().Foreground(p.muted),
		input: input,
		// The shake cue nudges the box sideways and turns the border red.
		inputShake: input.BorderForeground(p.danger).MarginLeft(2),
		row:        lipgloss.NewStyle().Foreground(p.text),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		completed:  lipgloss.NewStyle().Strikethrough(true).Foreground(p.muted),
		removing:   lipgloss.NewStyle().Faint(true).Foreground(p.danger),
		empty:      lipgloss.NewStyle().Italic(true).Foreground(p.muted),
		filterOn:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent),
		filterOff:  lipgloss.NewStyle().Foreground(p.muted),
		statusBar: lipgloss.NewStyle().
			Background(p.barBg).
			Foreground(p.barText).
			Padding(0, 1),
		help: lipgloss.NewStyle().Foreground(p.muted),
	}
}

// themeIcon is shown next to the title; it names the theme a toggle switches to.
func themeIcon(theme backend.Theme) string {
	if theme == backend.ThemeLight {
		return "☾"
	}
	return "☀"
}
