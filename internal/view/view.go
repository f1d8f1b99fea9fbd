// Package view defines the contract between the views that render management
// entities and the controller that manages their lifecycle, along with the
// identity keys and registry used to keep at most one view per entity.
package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/resource"
)

// View renders an entity, or some other content such as a query, inside a
// hosted pane.
//
// A view is constructed, opened, and eventually destroyed. Once destroyed it
// must not be used again; showing the same entity again creates a new view.
type View interface {
	// Identity returns the identity the controller attached to the view.
	Identity() *Tab
	// Title returns a human-readable title. It is prefixed with DirtyMarker
	// if dirty is true or if the view's entity has not been persisted.
	Title(dirty bool) string
	// Open renders the view's initial content into the host and returns any
	// asynchronous setup as a command.
	Open(host Host) tea.Cmd
	// Close releases the view's resources. Closing a closed view is a no-op.
	Close()
	// Destroy closes the view and then closes its host pane, which removes
	// the pane from the tab strip.
	Destroy()

	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

// Starter is implemented by views requiring a second initialisation phase once
// their pane has been attached to the tab strip.
type Starter interface {
	Startup() tea.Cmd
}

// Capturer is implemented by views that can capture all key presses, e.g.
// while the user is typing into an input.
type Capturer interface {
	CapturingInput() bool
}

// Host is the pane hosting a view.
type Host interface {
	// ID uniquely identifies the pane for the lifetime of the program.
	ID() int
	SetTitle(title string)
	// Close runs the pane's close callbacks and detaches it from the tab
	// strip. Closing a closed pane is a no-op.
	Close()
	Closed() bool
}

// Tab is the identity the controller attaches to a view. Views embed it.
type Tab struct {
	// ID is the view's key in the registry.
	ID Key
	// Name is the resolved name the key was built from.
	Name string
	// Parent is the parent of the view's entity, possibly nil.
	Parent *resource.Entity
	// Data describes the view's entity.
	Data *Descriptor

	host Host
}

// Identity returns the tab itself, satisfying View for views embedding Tab.
func (t *Tab) Identity() *Tab { return t }

// Host returns the pane hosting the view, or nil if the view has not yet been
// attached to a pane.
func (t *Tab) Host() Host { return t.host }

// Attach attaches the view to its host pane.
func (t *Tab) Attach(host Host) { t.host = host }

// Persisted is true if the view's entity has an ID assigned by the broker.
func (t *Tab) Persisted() bool {
	return t.Data != nil && t.Data.ObjectID != ""
}

// Teardown invokes the view's close function and then closes the host pane.
// Views implement Destroy with it.
func (t *Tab) Teardown(closeView func()) {
	closeView()
	if t.host != nil {
		t.host.Close()
	}
}

// Deliver returns a command that sends msg to the view once its pane has
// been attached, and only for as long as the pane remains in the tab strip.
// Views wrap the results of their asynchronous work with it.
func (t *Tab) Deliver(fn func() tea.Msg) tea.Cmd {
	host := t.host
	if host == nil {
		return nil
	}
	id := host.ID()
	return func() tea.Msg {
		return PaneMsg{PaneID: id, Msg: fn()}
	}
}

// SetTitle sets the title of the host pane, if any.
func (t *Tab) SetTitle(title string) {
	if t.host != nil {
		t.host.SetTitle(title)
	}
}
