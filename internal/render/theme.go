package render

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // purple
	Secondary = lipgloss.Color("#14B8A6") // teal
	Success   = lipgloss.Color("#22C55E") // green
	TextDim   = lipgloss.Color("#94A3B8") // slate
	Border    = lipgloss.Color("#334155")
)

// theme holds the styles a Renderer uses.
type theme struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	question lipgloss.Style
	option   lipgloss.Style
	correct  lipgloss.Style
	hint     lipgloss.Style
	card     lipgloss.Style
	header   lipgloss.Style
}

func colorTheme() theme {
	return theme{
		title:    lipgloss.NewStyle().Bold(true).Foreground(Primary),
		subtitle: lipgloss.NewStyle().Foreground(TextDim),
		question: lipgloss.NewStyle().Bold(true),
		option:   lipgloss.NewStyle().PaddingLeft(2),
		correct:  lipgloss.NewStyle().PaddingLeft(2).Foreground(Success).Bold(true),
		hint:     lipgloss.NewStyle().Foreground(TextDim).Italic(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		header: lipgloss.NewStyle().Bold(true).Foreground(Secondary),
	}
}

// plainTheme renders the same layout without escape sequences.
func plainTheme() theme {
	s := lipgloss.NewStyle()
	return theme{
		title:    s,
		subtitle: s,
		question: s,
		option:   s.PaddingLeft(2),
		correct:  s.PaddingLeft(2),
		hint:     s,
		card:     s,
		header:   s,
	}
}
