package tabs

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/tui"
)

// Content is the content hosted by a pane.
type Content interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

var lastPaneID atomic.Int64

// Pane hosts content in the tab strip. A pane has a title, may be closed by
// the user, and optionally carries a toggle rendered alongside its title.
type Pane struct {
	id      int
	title   string
	content Content
	toggle  *Toggle
	onClose []func()
	strip   *Strip
	started bool
	closed  bool
}

// NewPane constructs a pane. The title is sanitized for rendering.
func NewPane(title string, content Content) *Pane {
	return &Pane{
		id:      int(lastPaneID.Add(1)),
		title:   tui.SanitizeTitle(title),
		content: content,
	}
}

func (p *Pane) ID() int { return p.id }

func (p *Pane) Title() string { return p.title }

// SetTitle sets the pane's title, sanitizing it for rendering.
func (p *Pane) SetTitle(title string) {
	p.title = tui.SanitizeTitle(title)
}

func (p *Pane) Content() Content { return p.content }

// OnClose registers a function to be called when the pane is closed.
func (p *Pane) OnClose(fn func()) {
	p.onClose = append(p.onClose, fn)
}

// SetToggle attaches a toggle to the pane.
func (p *Pane) SetToggle(t *Toggle) {
	p.toggle = t
}

// Toggle returns the pane's toggle, or nil if it has none.
func (p *Pane) Toggle() *Toggle {
	return p.toggle
}

// Startup marks the pane as started, once it has been attached to the strip.
func (p *Pane) Startup() {
	p.started = true
}

func (p *Pane) Started() bool { return p.started }

// Close runs the pane's close callbacks and removes the pane from its strip.
// Closing a closed pane is a no-op.
func (p *Pane) Close() {
	if p.closed {
		return
	}
	p.closed = true
	for _, fn := range p.onClose {
		fn()
	}
	if p.strip != nil {
		p.strip.RemoveChild(p)
	}
}

func (p *Pane) Closed() bool { return p.closed }

// Toggle is a checkbox rendered alongside a pane's title.
type Toggle struct {
	// Checked is the current state of the toggle.
	Checked bool
	// Help describes what the toggle does.
	Help string
	// OnChange is called with the new state whenever the user flips the
	// toggle. If it returns an error the toggle reverts to its previous state.
	OnChange func(checked bool) error
}

// Flip inverts the state of the toggle.
func (t *Toggle) Flip() error {
	t.Checked = !t.Checked
	if t.OnChange == nil {
		return nil
	}
	if err := t.OnChange(t.Checked); err != nil {
		t.Checked = !t.Checked
		return err
	}
	return nil
}

func (t *Toggle) render() string {
	if t.Checked {
		return "[x]"
	}
	return "[ ]"
}
