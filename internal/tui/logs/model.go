// Package logs provides a view of the messages logged by hutch.
package logs

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/table"
	"github.com/leg100/hutch/internal/view"
)

const timeFormat = "2006-01-02T15:04:05.000"

var (
	timeColumn = table.Column{
		Key:   "time",
		Title: "TIME",
		Width: len(timeFormat),
	}
	levelColumn = table.Column{
		Key:   "level",
		Title: "LEVEL",
		Width: len("ERROR"),
	}
	msgColumn = table.Column{
		Key:        "message",
		Title:      "MESSAGE",
		FlexFactor: 1,
	}
)

// Source provides the messages logged thus far.
type Source interface {
	Messages() []logging.Message
}

type Maker struct {
	Logger Source
}

func (mm *Maker) Make(view.Target, *resource.Entity) view.View {
	columns := []table.Column{
		timeColumn,
		levelColumn,
		msgColumn,
	}
	return &model{
		logger: mm.Logger,
		table: table.New(
			columns,
			func(msg logging.Message) uint { return msg.Serial },
			renderMessage,
			0, 0,
			table.WithSortFunc[uint](logging.BySerialDesc),
		),
	}
}

func renderMessage(msg logging.Message) table.RenderedRow {
	// combine message and attributes, separated by spaces, with each
	// attribute key/value joined with a '='
	var b strings.Builder
	b.WriteString(msg.Message)
	for _, attr := range msg.Attributes {
		b.WriteRune(' ')
		b.WriteString(tui.Regular.Foreground(tui.LogRecordAttributeKey).Render(attr.Key + "="))
		b.WriteString(attr.Value)
	}
	return table.RenderedRow{
		timeColumn.Key:  msg.Time.Format(timeFormat),
		levelColumn.Key: coloredLogLevel(msg.Level),
		msgColumn.Key:   b.String(),
	}
}

var _ view.View = (*model)(nil)

type model struct {
	view.Tab

	logger   Source
	table    table.Model[uint, logging.Message]
	messages []logging.Message
	// next is the serial expected of the next new message. Messages with a
	// lower serial are already listed.
	next uint
}

func (m *model) Title(bool) string {
	return "Logs"
}

func (m *model) Open(view.Host) tea.Cmd {
	m.messages = m.logger.Messages()
	if len(m.messages) > 0 {
		// newest first
		m.next = m.messages[0].Serial + 1
	}
	m.table.SetItems(m.messages...)
	return nil
}

func (m *model) Close() {}

func (m *model) Destroy() {
	m.Teardown(m.Close)
}

func (m *model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resource.Event[logging.Message]:
		if msg.Type == resource.CreatedEvent && msg.Payload.Serial >= m.next {
			m.next = msg.Payload.Serial + 1
			m.messages = append(m.messages, msg.Payload)
			m.table.SetItems(m.messages...)
		}
		return nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) SetSize(width, height int) {
	m.table.SetSize(width, height)
}

func (m *model) View() string {
	return m.table.View()
}
