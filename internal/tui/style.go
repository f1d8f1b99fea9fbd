package tui

import "github.com/charmbracelet/lipgloss"

var (
	Regular        = lipgloss.NewStyle()
	Bold           = Regular.Bold(true)
	Padded         = Regular.Padding(0, 1)
	RoundedBorders = Regular.Border(lipgloss.RoundedBorder())
	Faint          = Regular.Foreground(Grey)

	TitleStyle = Bold.Foreground(TitleColor)

	Width  = lipgloss.Width
	Height = lipgloss.Height
)
