package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/leg100/hutch/internal/tui/keys"
)

// Viewport is a wrapper of the upstream viewport bubble, wrapping its content
// and rendering a scrollbar alongside it.
type Viewport struct {
	viewport viewport.Model

	content     string
	placeholder string
}

type ViewportOptions struct {
	Width  int
	Height int
	// Placeholder is rendered in lieu of empty content.
	Placeholder string
}

func NewViewport(opts ViewportOptions) Viewport {
	m := Viewport{
		viewport:    viewport.New(0, 0),
		placeholder: opts.Placeholder,
	}
	m.SetDimensions(opts.Width, opts.Height)
	return m
}

func (m Viewport) Update(msg tea.Msg) (Viewport, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Navigation.GotoTop):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Navigation.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	// Handle keyboard and mouse events in the viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Viewport) View() string {
	if m.content == "" {
		return Regular.
			Height(m.viewport.Height).
			Width(m.viewport.Width).
			Render(m.placeholder)
	}
	scrollbar := Scrollbar(
		m.viewport.Height,
		m.viewport.TotalLineCount(),
		m.viewport.VisibleLineCount(),
		m.viewport.YOffset,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), scrollbar)
}

func (m *Viewport) SetDimensions(width, height int) {
	width = max(0, width-ScrollbarWidth)
	// If width has changed, re-wrap existing content.
	rewrap := m.viewport.Width != width
	m.viewport.Width = width
	m.viewport.Height = max(0, height)
	if rewrap {
		m.setContent()
	}
}

// SetContent replaces the content, retaining the scroll position where
// possible.
func (m *Viewport) SetContent(content string) {
	m.content = content
	m.setContent()
}

// SetPlaceholder sets the text rendered in lieu of empty content.
func (m *Viewport) SetPlaceholder(placeholder string) {
	m.placeholder = placeholder
}

func (m *Viewport) setContent() {
	// Wrap content to the width of the viewport, whilst respecting ANSI escape
	// codes (i.e. don't split codes across lines).
	wrapped := ansi.Wrap(ansi.Wordwrap(m.content, m.viewport.Width, ""), m.viewport.Width, "")
	m.viewport.SetContent(wrapped)
}
