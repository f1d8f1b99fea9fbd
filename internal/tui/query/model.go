// Package query provides views for editing and running queries, and for
// browsing stored queries.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/management"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/keys"
	"github.com/leg100/hutch/internal/tui/table"
	"github.com/leg100/hutch/internal/view"
)

// DefaultCategory is the category of a new query.
const DefaultCategory = "queue"

// Client stores and runs queries.
type Client interface {
	Queries(ctx context.Context, parent *resource.Entity) ([]*management.Query, error)
	SaveQuery(ctx context.Context, parent *resource.Entity, q *management.Query) (*management.Query, error)
	DeleteQuery(ctx context.Context, parent *resource.Entity, q *management.Query) error
	RunQuery(ctx context.Context, parent *resource.Entity, q *management.Query) (*management.QueryResult, error)
}

// ChangedMsg is broadcast whenever a stored query is saved or deleted.
type ChangedMsg struct{}

// Maker makes query views.
type Maker struct {
	Client Client
	Logger logging.Interface
}

// Make constructs a query view. The target is either a query, or a name in
// which case a new query is constructed.
func (mm *Maker) Make(target view.Target, parent *resource.Entity) view.View {
	logger := mm.Logger
	if logger == nil {
		logger = logging.Discard
	}
	q, ok := target.Object().(*management.Query)
	if !ok || q == nil {
		q = &management.Query{Value: management.QueryValue{Category: DefaultCategory}}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &model{
		client: mm.Client,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		query:  q,
		editor: -1,
	}
	for i, field := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.placeholder
		input.SetValue(field.get(q))
		m.inputs[i] = input
	}
	return m
}

type field struct {
	title       string
	placeholder string
	binding     key.Binding
	get         func(*management.Query) string
	set         func(*management.Query, string)
}

const (
	nameField = iota
	categoryField
	selectField
	whereField
	numFields
)

var fields = [numFields]field{
	nameField: {
		title:       "Name",
		placeholder: "name of query",
		binding:     keys.Common.EditName,
		get:         func(q *management.Query) string { return q.Name },
		set:         func(q *management.Query, v string) { q.Name = v },
	},
	categoryField: {
		title:       "Category",
		placeholder: DefaultCategory,
		binding:     keys.Common.EditCategory,
		get:         func(q *management.Query) string { return q.Value.Category },
		set:         func(q *management.Query, v string) { q.Value.Category = v },
	},
	selectField: {
		title:       "Select",
		placeholder: "id,name",
		binding:     keys.Common.EditSelect,
		get:         func(q *management.Query) string { return q.Value.Select },
		set:         func(q *management.Query, v string) { q.Value.Select = v },
	},
	whereField: {
		title:       "Where",
		placeholder: "no condition",
		binding:     keys.Common.EditWhere,
		get:         func(q *management.Query) string { return q.Value.Where },
		set:         func(q *management.Query, v string) { q.Value.Where = v },
	},
}

var _ view.View = (*model)(nil)

type model struct {
	view.Tab

	client Client
	logger logging.Interface

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	// query is the query as last saved, or as constructed if never saved.
	query *management.Query
	dirty bool

	inputs [numFields]textinput.Model
	// editor is the index of the input being edited, or -1.
	editor int

	result  table.Model[int, resultRow]
	hasRun  bool
	running bool
	err     error

	width  int
	height int
}

type resultRow struct {
	n      int
	values []any
}

type (
	savedMsg struct {
		query *management.Query
		err   error
	}
	deletedMsg struct {
		err error
	}
	resultMsg struct {
		result *management.QueryResult
		err    error
	}
)

// Title renders the query title, e.g. "Queue query:q1 (Virtualhost:default/test)".
// A query that has not been saved is named "New".
func (m *model) Title(dirty bool) string {
	name := "New"
	if m.query.ID != "" {
		name = m.query.Name
	}
	category := resource.Kind(m.query.Value.Category).Title()
	return view.Marker(dirty, m.query.ID != "") + category + " query:" + name + view.PathSuffix(m.Parent)
}

func (m *model) Open(host view.Host) tea.Cmd {
	if m.Data != nil && m.Data.ObjectID == "" {
		m.Data.ObjectID = m.query.ID
	}
	return nil
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

// CapturingInput is true while a field is being edited.
func (m *model) CapturingInput() bool {
	return m.editor >= 0
}

// edited returns the query as currently edited.
func (m *model) edited() *management.Query {
	q := *m.query
	for i, f := range fields {
		f.set(&q, strings.TrimSpace(m.inputs[i].Value()))
	}
	return &q
}

func (m *model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editor >= 0 {
			return m.updateEditor(msg)
		}
		m.err = nil
		switch {
		case key.Matches(msg, keys.Common.Run):
			return m.run()
		case key.Matches(msg, keys.Common.Save):
			return m.save()
		case key.Matches(msg, keys.Common.Delete):
			return m.delete()
		case key.Matches(msg, keys.Common.Clone):
			return view.Cloned(m, m.edited().Clone(), m.Parent)
		}
		for i, f := range fields {
			if key.Matches(msg, f.binding) {
				m.editor = i
				return m.inputs[i].Focus()
			}
		}
		if m.hasRun {
			var cmd tea.Cmd
			m.result, cmd = m.result.Update(msg)
			return cmd
		}
		return nil
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("saving query", "name", m.edited().Name, "error", msg.err)
			return nil
		}
		m.query = msg.query
		m.dirty = false
		if m.Data != nil {
			m.Data.ObjectID = msg.query.ID
		}
		m.logger.Info("saved query", "name", msg.query.Name, "id", msg.query.ID)
		return tea.Batch(view.Saved(m, msg.query), tui.CmdHandler(ChangedMsg{}))
	case deletedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("deleting query", "name", m.query.Name, "error", msg.err)
			return nil
		}
		m.logger.Info("deleted query", "name", m.query.Name, "id", m.query.ID)
		return tea.Batch(view.Deleted(m), tui.CmdHandler(ChangedMsg{}))
	case resultMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("running query", "name", m.query.Name, "error", msg.err)
			return nil
		}
		m.setResult(msg.result)
		return nil
	case view.RefreshMsg:
		if m.hasRun {
			return m.run()
		}
	}
	return nil
}

func (m *model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Common.Done) {
		m.inputs[m.editor].Blur()
		m.editor = -1
		if *m.edited() != *m.query && !m.dirty {
			m.dirty = true
			return view.Changed(m)
		}
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.editor], cmd = m.inputs[m.editor].Update(msg)
	return cmd
}

func (m *model) run() tea.Cmd {
	if m.running || m.closed {
		return nil
	}
	m.running = true
	m.hasRun = true
	ctx, parent, q := m.ctx, m.Parent, m.edited()
	return m.Deliver(func() tea.Msg {
		result, err := m.client.RunQuery(ctx, parent, q)
		return resultMsg{result: result, err: err}
	})
}

func (m *model) save() tea.Cmd {
	q := m.edited()
	if q.Name == "" {
		m.editor = nameField
		return tea.Batch(
			m.inputs[nameField].Focus(),
			tui.ReportInfo("enter a name for the query before saving"),
		)
	}
	ctx, parent := m.ctx, m.Parent
	return m.Deliver(func() tea.Msg {
		saved, err := m.client.SaveQuery(ctx, parent, q)
		return savedMsg{query: saved, err: err}
	})
}

func (m *model) delete() tea.Cmd {
	if m.query.ID == "" {
		// Nothing stored, discard the view.
		return view.Deleted(m)
	}
	ctx, parent, q := m.ctx, m.Parent, m.query
	return m.Deliver(func() tea.Msg {
		return deletedMsg{err: m.client.DeleteQuery(ctx, parent, q)}
	})
}

func (m *model) setResult(result *management.QueryResult) {
	cols := make([]table.Column, len(result.Headers))
	for i, h := range result.Headers {
		cols[i] = table.Column{
			Key:        table.ColumnKey(h),
			Title:      strings.ToUpper(h),
			FlexFactor: 1,
		}
	}
	headers := result.Headers
	renderer := func(row resultRow) table.RenderedRow {
		rendered := make(table.RenderedRow, len(headers))
		for i, h := range headers {
			if i < len(row.values) {
				rendered[table.ColumnKey(h)] = fmt.Sprint(row.values[i])
			}
		}
		return rendered
	}
	m.result = table.New(cols, func(r resultRow) int { return r.n }, renderer, m.width, m.resultHeight())
	rows := make([]resultRow, len(result.Results))
	for i, values := range result.Results {
		rows[i] = resultRow{n: i, values: values}
	}
	m.result.SetItems(rows...)
}

func (m *model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(0, width-labelWidth-1)
	}
	if m.hasRun {
		m.result.SetSize(width, m.resultHeight())
	}
}

// resultHeight is the height available for results, beneath the fields and
// status line.
func (m *model) resultHeight() int {
	return max(0, m.height-int(numFields)-1)
}

var labelWidth = len("Category") + 2

func (m *model) View() string {
	lines := make([]string, 0, numFields+2)
	for i, f := range fields {
		label := tui.Bold.Width(labelWidth).Render(f.title + ":")
		lines = append(lines, label+" "+m.inputs[i].View())
	}
	lines = append(lines, m.status())
	if m.hasRun && m.err == nil {
		lines = append(lines, m.result.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *model) status() string {
	switch {
	case m.err != nil:
		return tui.Regular.Foreground(tui.ErrorLogLevel).Width(m.width).Render("Error: " + m.err.Error())
	case m.running:
		return tui.Faint.Render("running query...")
	case m.editor >= 0:
		return tui.Faint.Render("editing " + strings.ToLower(fields[m.editor].title))
	case m.dirty:
		return tui.Faint.Render("unsaved changes")
	case !m.hasRun:
		return tui.Faint.Render("press x to run query")
	}
	return tui.Faint.Render(fmt.Sprintf("%d results", m.result.Len()))
}

func (m *model) HelpBindings() []key.Binding {
	if m.editor >= 0 {
		return []key.Binding{keys.Common.Done}
	}
	bindings := []key.Binding{
		keys.Common.Run,
		keys.Common.Save,
		keys.Common.Delete,
		keys.Common.Clone,
	}
	for _, f := range fields {
		bindings = append(bindings, f.binding)
	}
	return bindings
}
