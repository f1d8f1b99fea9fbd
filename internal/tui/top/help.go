package top

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/leg100/hutch/internal/tui"
)

var (
	shortHelpKeyStyle = tui.Bold.Foreground(tui.HelpKey).Margin(0, 1, 0, 0)

	shortHelpDescStyle = lipgloss.NewStyle().Foreground(tui.HelpDesc)
)

const shortHelpRows = 2

// shortHelpView renders help for key bindings within the header.
func shortHelpView(bindings []key.Binding, maxWidth int) string {
	// Each group of bindings is rendered as a pair of columns, keys on the
	// left and descriptions on the right.
	var (
		pairs []string
		width int
	)
	for i := 0; i < len(bindings); i += shortHelpRows {
		var (
			keys  []string
			descs []string
		)
		for j := i; j < min(i+shortHelpRows, len(bindings)); j++ {
			keys = append(keys, bindings[j].Help().Key)
			descs = append(descs, bindings[j].Help().Desc)
		}
		// Render pair of columns; beyond the first pair, render a three space
		// left margin, in order to visually separate the pairs.
		var cols []string
		if len(pairs) > 0 {
			cols = []string{"   "}
		}
		cols = append(cols,
			shortHelpKeyStyle.Render(strings.Join(keys, "\n")),
			shortHelpDescStyle.Render(strings.Join(descs, "\n")),
		)

		pair := lipgloss.JoinHorizontal(lipgloss.Left, cols...)
		// check whether it exceeds the maximum width avail
		width += lipgloss.Width(pair)
		if width > maxWidth {
			break
		}
		pairs = append(pairs, pair)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pairs...)
}

var (
	longHelpHeadingStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#909090",
		Dark:  "#626262",
	}).Bold(true).Margin(0, 3, 0, 0)

	longHelpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#909090",
		Dark:  "#626262",
	}).Bold(true).Margin(0, 1, 0, 0)

	longHelpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#B2B2B2",
		Dark:  "#4A4A4A",
	}).Margin(0, 3, 0, 0)
)

// fullHelpView renders a column of key bindings for each of the active view,
// the global keys, and the navigation keys. Sections without bindings are
// omitted.
func fullHelpView(active, global, navigation []key.Binding) string {
	sections := []struct {
		heading  string
		bindings []key.Binding
	}{
		{"VIEW", active},
		{"GLOBAL", global},
		{"NAVIGATION", navigation},
	}
	var columns []string
	for _, section := range sections {
		if len(section.bindings) == 0 {
			continue
		}
		keys := make([]string, len(section.bindings))
		descs := make([]string, len(section.bindings))
		for i, kb := range section.bindings {
			keys[i] = longHelpKeyStyle.Render(kb.Help().Key)
			descs[i] = longHelpDescStyle.Render(kb.Help().Desc)
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Top,
			longHelpHeadingStyle.Render(section.heading),
			lipgloss.JoinHorizontal(lipgloss.Left,
				strings.Join(keys, "\n"),
				strings.Join(descs, "\n"),
			),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, columns...)
}
