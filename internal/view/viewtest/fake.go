// Package viewtest provides a view implementation for use in tests.
package viewtest

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/view"
)

var (
	_ view.View    = (*View)(nil)
	_ view.View    = StartingView{}
	_ view.Starter = StartingView{}
)

// View is a view that records the calls made to it.
type View struct {
	view.Tab

	Target view.Target
	Parent *resource.Entity

	Opened   int
	Closes   int
	Startups int
	Received []tea.Msg
	OpenCmd  tea.Cmd
	closed   bool
}

// New returns a constructor of fake views. Each constructed view is appended
// to made, if non-nil.
func New(made *[]*View) view.Constructor {
	return func(target view.Target, parent *resource.Entity) view.View {
		v := &View{Target: target, Parent: parent}
		if made != nil {
			*made = append(*made, v)
		}
		return v
	}
}

func (v *View) Title(dirty bool) string {
	return view.Marker(dirty, v.Persisted()) + v.Data.ObjectType.Title() + ": " + v.Name + view.PathSuffix(v.Parent)
}

func (v *View) Open(host view.Host) tea.Cmd {
	v.Opened++
	return v.OpenCmd
}

// Close counts only the closes that release resources.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.Closes++
}

func (v *View) Closed() bool { return v.closed }

func (v *View) Destroy() { v.Teardown(v.Close) }

func (v *View) Update(msg tea.Msg) tea.Cmd {
	v.Received = append(v.Received, msg)
	return nil
}

func (v *View) View() string { return "content of " + string(v.ID) }

func (v *View) SetSize(width, height int) {}

// fake names the embedded view of StartingView. Embedding *View directly
// would add a field named View, hiding the View method.
type fake = View

// StartingView is a fake view that implements view.Starter.
type StartingView struct {
	*fake
}

func (v StartingView) Startup() tea.Cmd {
	v.Startups++
	return nil
}

// NewStarting returns a constructor of fake views implementing view.Starter.
func NewStarting(made *[]*View) view.Constructor {
	ctor := New(made)
	return func(target view.Target, parent *resource.Entity) view.View {
		return StartingView{fake: ctor(target, parent).(*View)}
	}
}
