package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/resource"
)

// PaneMsg is delivered only to the view hosted by the pane with the given ID.
// If the pane has since been closed the message is dropped.
type PaneMsg struct {
	PaneID int
	Msg    tea.Msg
}

// RefreshMsg instructs the active view to reload its content.
type RefreshMsg struct{}

// ShowMsg asks the controller to show a view.
type ShowMsg struct {
	Kind     resource.Kind
	Target   Target
	Parent   *resource.Entity
	ObjectID string
}

// SavedMsg informs the controller that a view's entity has been persisted.
type SavedMsg struct {
	View   View
	Object Object
}

// ChangedMsg informs the controller that a view's entity has unsaved changes.
type ChangedMsg struct {
	View View
}

// DeletedMsg asks the controller to destroy a view.
type DeletedMsg struct {
	View View
}

// ClonedMsg asks the controller to show a new view seeded from a copy of the
// view's entity.
type ClonedMsg struct {
	View   View
	Object Object
	Parent *resource.Entity
}

func cmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// Show returns a command asking the controller to show a view.
func Show(kind resource.Kind, target Target, parent *resource.Entity, objectID string) tea.Cmd {
	return cmdHandler(ShowMsg{Kind: kind, Target: target, Parent: parent, ObjectID: objectID})
}

func Saved(v View, obj Object) tea.Cmd {
	return cmdHandler(SavedMsg{View: v, Object: obj})
}

func Changed(v View) tea.Cmd {
	return cmdHandler(ChangedMsg{View: v})
}

func Deleted(v View) tea.Cmd {
	return cmdHandler(DeletedMsg{View: v})
}

func Cloned(v View, obj Object, parent *resource.Entity) tea.Cmd {
	return cmdHandler(ClonedMsg{View: v, Object: obj, Parent: parent})
}
