package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	field    lipgloss.Style
	invalid  lipgloss.Style
	slash    lipgloss.Style
	preview  lipgloss.Style
	notice   lipgloss.Style
	errorBox lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
}

func newStyles(p config.Palette) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.LabelForeground)),
		field:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.FieldForeground)),
		invalid: lipgloss.NewStyle().Foreground(lipgloss.Color(p.ErrorForeground)),
		slash:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1),
		preview: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("green")).
			MarginTop(1),
		notice: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		errorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.ErrorForeground)).
			Foreground(lipgloss.Color(p.ErrorForeground)).
			Padding(0, 1).
			MarginTop(1),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
		selected: lipgloss.NewStyle().Background(lipgloss.Color("236")),
	}
}

// forStatus picks the text style of an input from its validation state.
func (s styles) forStatus(st models.Status) lipgloss.Style {
	if st == models.StatusInvalid {
		return s.invalid
	}
	return s.field
}

// DarkMode resolves the theme mode: the configured value when set, otherwise
// the terminal background.
func DarkMode(t config.Theme) bool {
	if t.DarkMode != nil {
		return *t.DarkMode
	}
	return lipgloss.HasDarkBackground()
}
