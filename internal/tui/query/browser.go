package query

import (
	"cmp"
	"context"

	"github.com/charmbracelet/bubbles/key"
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

var (
	nameColumn = table.Column{
		Key:        "name",
		Title:      "NAME",
		FlexFactor: 1,
	}
	categoryColumn = table.Column{
		Key:   "category",
		Title: "CATEGORY",
		Width: len("virtualhostnode"),
	}
	descriptionColumn = table.Column{
		Key:        "description",
		Title:      "DESCRIPTION",
		FlexFactor: 2,
	}
)

// BrowserMaker makes views listing the stored queries.
type BrowserMaker struct {
	Client Client
	Logger logging.Interface
}

func (mm *BrowserMaker) Make(target view.Target, parent *resource.Entity) view.View {
	logger := mm.Logger
	if logger == nil {
		logger = logging.Discard
	}
	renderer := func(q *management.Query) table.RenderedRow {
		return table.RenderedRow{
			nameColumn.Key:        q.Name,
			categoryColumn.Key:    q.Value.Category,
			descriptionColumn.Key: q.Description,
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &browser{
		client: mm.Client,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		table: table.New(
			[]table.Column{nameColumn, categoryColumn, descriptionColumn},
			func(q *management.Query) string { return q.ID },
			renderer,
			0, 0,
			table.WithSortFunc[string](func(i, j *management.Query) int {
				return cmp.Compare(i.Name, j.Name)
			}),
		),
	}
}

var _ view.View = (*browser)(nil)

type browser struct {
	view.Tab

	client Client
	logger logging.Interface

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	table   table.Model[string, *management.Query]
	loading bool
	err     error
	width   int
}

type queriesMsg struct {
	queries []*management.Query
	err     error
}

func (m *browser) Title(bool) string {
	return "Queries"
}

func (m *browser) Open(view.Host) tea.Cmd {
	return m.load()
}

func (m *browser) load() tea.Cmd {
	if m.loading || m.closed {
		return nil
	}
	m.loading = true
	ctx := m.ctx
	return m.Deliver(func() tea.Msg {
		queries, err := m.client.Queries(ctx, nil)
		return queriesMsg{queries: queries, err: err}
	})
}

func (m *browser) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
}

func (m *browser) Destroy() {
	m.Teardown(m.Close)
}

func (m *browser) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case queriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("listing queries", "error", msg.err)
			return nil
		}
		m.err = nil
		m.table.SetItems(msg.queries...)
	case ChangedMsg, view.RefreshMsg:
		return m.load()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Common.Enter):
			row, ok := m.table.CurrentRow()
			if !ok {
				return nil
			}
			q := row.Value
			return view.Show(resource.Query, view.Of(q), nil, q.ID)
		case key.Matches(msg, keys.Common.New):
			return view.Show(resource.Query, view.Unnamed(), nil, "")
		case key.Matches(msg, keys.Common.Reload):
			return m.load()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *browser) SetSize(width, height int) {
	m.width = width
	m.table.SetSize(width, max(0, height-1))
}

func (m *browser) View() string {
	status := tui.Faint.Render("stored queries")
	if m.err != nil {
		status = tui.Regular.Foreground(tui.ErrorLogLevel).Width(m.width).Render("Error: " + m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.table.View())
}

func (m *browser) HelpBindings() []key.Binding {
	return []key.Binding{
		keys.Common.Enter,
		keys.Common.New,
		keys.Common.Reload,
	}
}
