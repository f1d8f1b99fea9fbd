// Package entity provides the view of a management entity: its attributes
// and its children.
package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/keys"
	"github.com/leg100/hutch/internal/tui/table"
	"github.com/leg100/hutch/internal/view"
)

// Client retrieves entities from the broker.
type Client interface {
	Get(ctx context.Context, kind resource.Kind, name string, parent *resource.Entity) (*resource.Entity, error)
}

// Maker makes entity views.
type Maker struct {
	Client  Client
	Logger  logging.Interface
	Spinner *spinner.Model
}

// Make constructs an entity view of the given kind.
func (mm *Maker) Make(kind resource.Kind, target view.Target, parent *resource.Entity) view.View {
	logger := mm.Logger
	if logger == nil {
		logger = logging.Discard
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &model{
		kind:    kind,
		client:  mm.Client,
		logger:  logger,
		spinner: mm.Spinner,
		ctx:     ctx,
		cancel:  cancel,
		format:  jsonFormat,
		attributes: tui.NewViewport(tui.ViewportOptions{
			Placeholder: "No attributes",
		}),
		children: table.New(
			[]table.Column{kindColumn, nameColumn},
			func(e *resource.Entity) string { return string(e.Kind) + ":" + e.ID + ":" + e.Name },
			renderChild,
			0, 0,
			table.WithSortFunc[string](byKindAndName),
		),
	}
	if obj, ok := target.Object().(*resource.Entity); ok {
		m.entity = obj
	}
	return m
}

// For returns a constructor of entity views of the given kind.
func (mm *Maker) For(kind resource.Kind) view.Constructor {
	return func(target view.Target, parent *resource.Entity) view.View {
		return mm.Make(kind, target, parent)
	}
}

var (
	kindColumn = table.Column{
		Key:   "kind",
		Title: "KIND",
		Width: len("accesscontrolprovider"),
	}
	nameColumn = table.Column{
		Key:        "name",
		Title:      "NAME",
		FlexFactor: 1,
	}
)

func renderChild(e *resource.Entity) table.RenderedRow {
	return table.RenderedRow{
		kindColumn.Key: string(e.Kind),
		nameColumn.Key: e.Name,
	}
}

func byKindAndName(i, j *resource.Entity) int {
	if c := strings.Compare(string(i.Kind), string(j.Kind)); c != 0 {
		return c
	}
	return strings.Compare(i.Name, j.Name)
}

var _ view.View = (*model)(nil)

type model struct {
	view.Tab

	kind    resource.Kind
	client  Client
	logger  logging.Interface
	spinner *spinner.Model

	// ctx is canceled when the view is closed, aborting in-flight requests.
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	entity  *resource.Entity
	loading bool
	err     error
	format  format

	attributes tui.Viewport
	children   table.Model[string, *resource.Entity]

	width  int
	height int
}

type loadedMsg struct {
	entity *resource.Entity
	err    error
}

func (m *model) Title(dirty bool) string {
	return view.Marker(dirty, m.Persisted()) + m.kind.Title() + ": " + m.Name + view.PathSuffix(m.Parent)
}

func (m *model) Open(host view.Host) tea.Cmd {
	return m.load()
}

func (m *model) load() tea.Cmd {
	if m.loading || m.closed {
		return nil
	}
	m.loading = true
	ctx, kind, name, parent := m.ctx, m.kind, m.Name, m.Parent
	return m.Deliver(func() tea.Msg {
		entity, err := m.client.Get(ctx, kind, name, parent)
		return loadedMsg{entity: entity, err: err}
	})
}

func (m *model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
}

func (m *model) Destroy() {
	m.Teardown(m.Close)
}

func (m *model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("loading entity", "kind", m.kind, "name", m.Name, "error", msg.err)
			return nil
		}
		m.err = nil
		m.entity = msg.entity
		if m.Data != nil && m.Data.ObjectID == "" {
			m.Data.ObjectID = msg.entity.ID
			m.SetTitle(m.Title(false))
		}
		m.children.SetItems(m.entity.Children...)
		m.render()
		return nil
	case view.RefreshMsg:
		return m.load()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Common.Reload):
			return m.load()
		case key.Matches(msg, keys.Common.ToggleFormat):
			m.format = m.format.toggle()
			m.render()
			return nil
		case key.Matches(msg, keys.Common.Enter):
			row, ok := m.children.CurrentRow()
			if !ok {
				return nil
			}
			child := row.Value
			return view.Show(child.Kind, view.Named(child.Name), m.entity, child.ID)
		case key.Matches(msg, keys.Common.New):
			if m.kind != resource.VirtualHost || m.entity == nil {
				return nil
			}
			// Open a new query scoped to the virtual host.
			return view.Show(resource.Query, view.Unnamed(), m.entity, "")
		case key.Matches(msg, keys.Navigation.PageUp, keys.Navigation.PageDown):
			var cmd tea.Cmd
			m.attributes, cmd = m.attributes.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		m.children, cmd = m.children.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) render() {
	if m.entity == nil {
		return
	}
	content, err := m.format.render(m.entity.Attributes)
	if err != nil {
		m.logger.Warn("rendering attributes", "kind", m.kind, "name", m.Name, "error", err)
	}
	m.attributes.SetContent(content)
}

func (m *model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// The first line is taken by the status line. The remainder is split
	// between attributes and children.
	remaining := max(0, height-1)
	childrenHeight := max(table.MinHeight, remaining/3)
	m.attributes.SetDimensions(width, max(0, remaining-childrenHeight))
	m.children.SetSize(width, childrenHeight)
}

func (m *model) View() string {
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			tui.Bold.Foreground(tui.ErrorLogLevel).Render("Error"),
			tui.Regular.Width(m.width).Render(m.err.Error()),
		)
	}
	if m.entity == nil {
		msg := "Loading"
		if m.spinner != nil {
			msg += " " + m.spinner.View()
		}
		return tui.Regular.Width(m.width).Height(m.height).Render(msg)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.status(),
		m.attributes.View(),
		m.children.View(),
	)
}

func (m *model) status() string {
	parts := []string{
		tui.Bold.Render(m.kind.Title()),
		m.entity.Name,
		tui.Faint.Render(fmt.Sprintf("[%s]", m.format)),
	}
	if path := m.entity.PathString(); path != "" {
		parts = append(parts, tui.Faint.Render(path))
	}
	if m.loading {
		parts = append(parts, tui.Faint.Render("refreshing"))
	}
	return strings.Join(parts, " ")
}

func (m *model) HelpBindings() []key.Binding {
	bindings := []key.Binding{
		keys.Common.Enter,
		keys.Common.Reload,
		keys.Common.ToggleFormat,
	}
	if m.kind == resource.VirtualHost {
		bindings = append(bindings, keys.Common.New)
	}
	return bindings
}
