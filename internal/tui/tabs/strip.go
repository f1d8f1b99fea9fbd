package tabs

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/keys"
	"github.com/leg100/hutch/internal/view"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
)

const (
	tabHeaderHeight = 2
	// maxTitleWidth is the maximum width of a title in a tab header.
	maxTitleWidth = 40
)

// SelectionChangedMsg is sent whenever a different pane becomes the active
// pane. Pane is nil if the strip has become empty.
type SelectionChangedMsg struct {
	Pane *Pane
}

// Strip is a set of zero or more panes, one of which is active, i.e. its
// contents are rendered.
type Strip struct {
	panes []*Pane

	// Width and height of the strip, including tab headers.
	width  int
	height int

	// The index of the currently active pane
	active int
	// The pane last announced via SelectionChangedMsg
	announced *Pane
}

func NewStrip(width, height int) *Strip {
	return &Strip{
		width:  width,
		height: height,
	}
}

// AddChild adds a pane to the end of the strip. It does not make it the
// active pane.
func (s *Strip) AddChild(p *Pane) {
	p.strip = s
	p.content.SetSize(s.contentWidth(), s.contentHeight())
	s.panes = append(s.panes, p)
}

// RemoveChild removes a pane from the strip. If the pane is not in the strip
// then no action is taken.
func (s *Strip) RemoveChild(p *Pane) {
	i := slices.Index(s.panes, p)
	if i < 0 {
		return
	}
	s.panes = slices.Delete(s.panes, i, i+1)
	p.strip = nil
	// Keep the active pane active, or if the active pane was removed then
	// make its left neighbour active.
	if i < s.active || (i == s.active && s.active > 0) {
		s.active--
	}
}

// SelectChild makes a pane the active pane. If the pane is not in the strip
// then no action is taken.
func (s *Strip) SelectChild(p *Pane) {
	if i := slices.Index(s.panes, p); i >= 0 {
		s.active = i
	}
}

// Active returns the active pane. If there are no panes then false is
// returned.
func (s *Strip) Active() (*Pane, bool) {
	if len(s.panes) == 0 {
		return nil, false
	}
	return s.panes[s.active], true
}

// Panes returns the panes in the order they appear in the strip.
func (s *Strip) Panes() []*Pane {
	return slices.Clone(s.panes)
}

func (s *Strip) Len() int {
	return len(s.panes)
}

// Observe returns a command sending a SelectionChangedMsg if the active pane
// has changed since the last time it was observed, otherwise nil.
func (s *Strip) Observe() tea.Cmd {
	current, _ := s.Active()
	if current == s.announced {
		return nil
	}
	s.announced = current
	return tui.CmdHandler(SelectionChangedMsg{Pane: current})
}

// cycle makes the pane at the given index active, wrapping around at either
// end.
func (s *Strip) cycle(i int) {
	if len(s.panes) == 0 {
		return
	}
	if i < 0 {
		i = len(s.panes) - 1
	} else if i > len(s.panes)-1 {
		i = 0
	}
	s.active = i
}

func (s *Strip) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Navigation.TabNext):
			// Cycle panes, going back to the first pane after the last pane
			s.cycle(s.active + 1)
			return nil
		case key.Matches(msg, keys.Navigation.TabLast):
			// Cycle back thru panes, going to the last pane after the first
			// pane.
			s.cycle(s.active - 1)
			return nil
		case key.Matches(msg, keys.Navigation.ClosePane):
			if active, ok := s.Active(); ok {
				active.Close()
			}
			return nil
		case key.Matches(msg, keys.Navigation.Persist):
			active, ok := s.Active()
			if !ok || active.toggle == nil {
				return nil
			}
			if err := active.toggle.Flip(); err != nil {
				return tui.ReportError(err, "toggling tab persistence")
			}
			return nil
		}
		// Send other keys to active pane
		return s.updateActive(msg)
	case view.PaneMsg:
		// Deliver only to the addressed pane. If the pane has since been
		// closed then the message is dropped.
		for _, p := range s.panes {
			if p.id == msg.PaneID {
				return p.content.Update(msg.Msg)
			}
		}
		return nil
	case view.RefreshMsg:
		return s.updateActive(msg)
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		for _, p := range s.panes {
			p.content.SetSize(s.contentWidth(), s.contentHeight())
		}
		return nil
	}
	// Relay all other messages to every pane.
	cmds := make([]tea.Cmd, len(s.panes))
	for i, p := range s.panes {
		cmds[i] = p.content.Update(msg)
	}
	return tea.Batch(cmds...)
}

func (s *Strip) updateActive(msg tea.Msg) tea.Cmd {
	if active, ok := s.Active(); ok {
		return active.content.Update(msg)
	}
	return nil
}

var (
	activeTabStyle   = tui.Bold.Foreground(tui.ActiveTabColor)
	inactiveTabStyle = tui.Regular.Foreground(tui.InactiveTabColor)
)

func (s *Strip) View() string {
	var (
		tabHeaders       []string
		tabsHeadersWidth int
	)
	for i, p := range s.panes {
		var (
			headingStyle  lipgloss.Style
			underlineChar string
		)
		if i == s.active {
			headingStyle = activeTabStyle
			underlineChar = "━"
		} else {
			headingStyle = inactiveTabStyle
			underlineChar = "─"
		}
		title := runewidth.Truncate(p.title, maxTitleWidth, "…")
		if p.toggle != nil {
			title = p.toggle.render() + " " + title
		}
		heading := headingStyle.Padding(0, 1).Render(title)
		underline := headingStyle.Render(strings.Repeat(underlineChar, tui.Width(heading)))
		rendered := lipgloss.JoinVertical(lipgloss.Top, heading, underline)
		tabHeaders = append(tabHeaders, rendered)
		tabsHeadersWidth += ansi.PrintableRuneWidth(heading)
	}

	// Populate remaining space to the right of the tab headers with a faint
	// grey underline.
	remainingWidth := max(0, s.width-tabsHeadersWidth)
	tabHeadersFiller := lipgloss.JoinVertical(lipgloss.Top,
		"",
		inactiveTabStyle.Render(strings.Repeat("─", remainingWidth)),
	)
	tabHeaders = append(tabHeaders, tabHeadersFiller)

	// Join tab headers and filler together
	tabHeadersContainer := lipgloss.JoinHorizontal(lipgloss.Bottom, tabHeaders...)

	var content string
	if active, ok := s.Active(); ok {
		content = active.content.View()
	}
	return lipgloss.JoinVertical(lipgloss.Top, tabHeadersContainer, content)
}

// Width of the pane content area
func (s *Strip) contentWidth() int {
	return s.width
}

// Height of the pane content area
func (s *Strip) contentHeight() int {
	return max(0, s.height-tabHeaderHeight)
}
