// Package controller manages the lifecycle of the views shown in the tab
// strip, keeping at most one view per identity key.
package controller

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/tabs"
	"github.com/leg100/hutch/internal/view"
)

var (
	// ErrNotRegistered is returned when renaming a view that is no longer
	// registered, e.g. because its pane has been closed.
	ErrNotRegistered = errors.New("view is not registered")
	// ErrKeyInUse is returned when renaming a view to a key already held by
	// another view.
	ErrKeyInUse = errors.New("another view is registered with the same key")
)

// Strip is the tab strip hosting panes.
type Strip interface {
	AddChild(*tabs.Pane)
	RemoveChild(*tabs.Pane)
	SelectChild(*tabs.Pane)
}

// Preferences stores the set of tabs to be restored in the user's next
// session.
type Preferences interface {
	IsTabStored(view.Descriptor) bool
	AppendTab(view.Descriptor) error
	RemoveTab(view.Descriptor) error
}

type Options struct {
	Factory     *view.Factory
	Registry    *view.Registry
	Strip       Strip
	Preferences Preferences
	Logger      logging.Interface
}

// Controller shows views in the tab strip, creating them on demand and
// keeping at most one view per key.
type Controller struct {
	factory  *view.Factory
	registry *view.Registry
	strip    Strip
	prefs    Preferences
	logger   logging.Interface

	// panes hosting each view
	panes map[*view.Tab]*tabs.Pane
}

func New(opts Options) *Controller {
	registry := opts.Registry
	if registry == nil {
		registry = view.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard
	}
	return &Controller{
		factory:  opts.Factory,
		registry: registry,
		strip:    opts.Strip,
		prefs:    opts.Preferences,
		logger:   logger,
		panes:    make(map[*view.Tab]*tabs.Pane),
	}
}

// Registry returns the registry of views.
func (c *Controller) Registry() *view.Registry {
	return c.registry
}

// Show shows a view of the target. If a view with the same key already exists
// then its pane is selected. Otherwise a view is constructed and opened in a
// new pane, and the returned command carries out the view's asynchronous
// setup. If no view can be constructed for the kind then nothing happens.
func (c *Controller) Show(kind resource.Kind, target view.Target, parent *resource.Entity, objectID string) tea.Cmd {
	key, name := view.BuildKeyName(kind, target, parent)

	if existing, ok := c.registry.Get(key); ok {
		if pane, ok := c.panes[existing.Identity()]; ok {
			c.strip.SelectChild(pane)
		}
		return nil
	}

	ctor, ok := c.factory.Lookup(kind)
	if !ok {
		c.logger.Debug("no view for kind", "kind", kind)
		return nil
	}

	v := ctor(target, parent)
	tab := v.Identity()
	tab.ID = key
	tab.Name = name
	tab.Parent = parent
	tab.Data = &view.Descriptor{ObjectID: objectID, ObjectType: kind}
	// Register before anything asynchronous happens so that a second show
	// for the same key finds this view.
	c.registry.Put(key, v)

	pane := tabs.NewPane(v.Title(false), v)
	pane.OnClose(func() {
		v.Close()
		c.registry.Remove(tab.ID)
		delete(c.panes, tab)
		c.logger.Debug("closed view", "key", tab.ID)
	})
	tab.Attach(pane)
	c.panes[tab] = pane
	c.strip.AddChild(pane)

	if kind != resource.Broker && target.IsName() && c.prefs != nil {
		pane.SetToggle(&tabs.Toggle{
			Checked: c.prefs.IsTabStored(*tab.Data),
			Help:    "If checked the tab is restored in the next session",
			OnChange: func(checked bool) error {
				if checked {
					return c.prefs.AppendTab(*tab.Data)
				}
				return c.prefs.RemoveTab(*tab.Data)
			},
		})
	}

	cmds := []tea.Cmd{v.Open(pane)}
	pane.Startup()
	if starter, ok := v.(view.Starter); ok {
		cmds = append(cmds, starter.Startup())
	}
	c.strip.SelectChild(pane)

	c.logger.Debug("opened view", "key", key, "object_id", objectID)

	return tea.Batch(cmds...)
}

// Update re-identifies a view following the rename of its entity: the view is
// re-registered under a key built from the new name, and the object ID in its
// descriptor is updated. The view and its pane are retained.
func (c *Controller) Update(v view.View, newName string, parent *resource.Entity, newObjectID string) error {
	tab := v.Identity()
	if registered, ok := c.registry.Get(tab.ID); !ok || registered.Identity() != tab {
		return fmt.Errorf("renaming %s: %w", tab.ID, ErrNotRegistered)
	}
	newKey, name := view.BuildKeyName(tab.Data.ObjectType, view.Named(newName), parent)
	if other, ok := c.registry.Get(newKey); ok && other.Identity() != tab {
		return fmt.Errorf("renaming %s to %s: %w", tab.ID, newKey, ErrKeyInUse)
	}
	c.registry.Rekey(tab.ID, newKey)
	tab.Data.ObjectID = newObjectID
	tab.ID = newKey
	tab.Name = name
	tab.Parent = parent
	return nil
}

// Restore shows a view for each descriptor, resolving the descriptor's
// object ID against the entity hierarchy. Descriptors for views that are not
// backed by an entity are shown by their kind.
func (c *Controller) Restore(root *resource.Entity, descriptors []view.Descriptor) tea.Cmd {
	var cmds []tea.Cmd
	for _, d := range descriptors {
		if d.ObjectID == "" {
			cmds = append(cmds, c.Show(d.ObjectType, view.Named(string(d.ObjectType)), nil, ""))
			continue
		}
		var entity *resource.Entity
		if root != nil {
			entity = root.FindByID(d.ObjectID)
		}
		if entity == nil {
			c.logger.Warn("unable to restore tab", "object_type", d.ObjectType, "object_id", d.ObjectID)
			continue
		}
		cmds = append(cmds, c.Show(d.ObjectType, view.Named(entity.Name), entity.Parent, entity.ID))
	}
	return tea.Batch(cmds...)
}

// Handle handles messages sent from views to the controller. False is returned
// if the message is not one the controller handles.
func (c *Controller) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case view.ShowMsg:
		return c.Show(msg.Kind, msg.Target, msg.Parent, msg.ObjectID), true
	case view.SavedMsg:
		return c.saved(msg.View, msg.Object), true
	case view.ChangedMsg:
		if c.live(msg.View) {
			msg.View.Identity().SetTitle(msg.View.Title(true))
		}
		return nil, true
	case view.DeletedMsg:
		if c.live(msg.View) {
			msg.View.Destroy()
		}
		return nil, true
	case view.ClonedMsg:
		kind := msg.View.Identity().Data.ObjectType
		return c.Show(kind, view.Of(msg.Object), msg.Parent, ""), true
	}
	return nil, false
}

func (c *Controller) saved(v view.View, obj view.Object) tea.Cmd {
	if !c.live(v) {
		return nil
	}
	tab := v.Identity()
	if obj.GetName() != tab.Name {
		err := c.Update(v, obj.GetName(), tab.Parent, obj.GetID())
		if errors.Is(err, ErrKeyInUse) {
			return c.supersede(v, obj)
		} else if err != nil {
			return tui.ReportError(err, "updating view")
		}
	} else {
		tab.Data.ObjectID = obj.GetID()
	}
	tab.SetTitle(v.Title(false))
	return nil
}

// supersede destroys a view whose entity was saved under the key of another
// open view, leaving the other view as the only view of the saved entity.
func (c *Controller) supersede(v view.View, obj view.Object) tea.Cmd {
	tab := v.Identity()
	key := view.BuildKey(tab.Data.ObjectType, view.Named(obj.GetName()), tab.Parent)
	existing, _ := c.registry.Get(key)
	other := existing.Identity()
	if other.Data.ObjectID == "" {
		other.Data.ObjectID = obj.GetID()
		other.SetTitle(existing.Title(false))
	}
	v.Destroy()
	if pane, ok := c.panes[other]; ok {
		c.strip.SelectChild(pane)
	}
	c.logger.Debug("saved view superseded by existing view", "key", key)
	return tui.ReportInfo("%s is already open", other.Name)
}

// live is true if the view is still registered, i.e. it has not been
// destroyed.
func (c *Controller) live(v view.View) bool {
	registered, ok := c.registry.Get(v.Identity().ID)
	return ok && registered.Identity() == v.Identity()
}
