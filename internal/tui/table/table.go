package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/keys"
	"github.com/mattn/go-runewidth"
)

const (
	// Height of the table header
	headerHeight = 1
	// MinHeight is the minimum recommended height for the table widget,
	// ensuring the header and borders are visible.
	MinHeight = 4
)

// Model defines a state for the table widget.
type Model[K comparable, V any] struct {
	cols        []Column
	rows        []Row[K, V]
	rowRenderer RowRenderer[V]
	keyFunc     func(V) K

	border      lipgloss.Border
	borderColor lipgloss.TerminalColor

	cursorRow int
	cursorKey K

	items    map[K]V
	sortFunc SortFunc[V]

	viewport viewport.Model

	// index of first visible row
	start int
	// cursor offset from first visible row
	offset int

	width  int
	height int
}

// Column defines the table structure.
type Column struct {
	Key            ColumnKey
	Title          string
	Width          int
	FlexFactor     int
	TruncationFunc func(s string, w int, tail string) string
}

type ColumnKey string

type Row[K comparable, V any] struct {
	Key   K
	Value V
}

type RowRenderer[V any] func(V) RenderedRow

// RenderedRow provides the rendered string for each column in a row.
type RenderedRow map[ColumnKey]string

type SortFunc[V any] func(V, V) int

// New creates a new model for the table widget. The key func identifies each
// item, allowing the cursor to track an item when items are replaced.
func New[K comparable, V any](columns []Column, keyFunc func(V) K, fn RowRenderer[V], width, height int, opts ...Option[K, V]) Model[K, V] {
	m := Model[K, V]{
		viewport:    viewport.New(0, 0),
		rowRenderer: fn,
		keyFunc:     keyFunc,
		items:       make(map[K]V),
		border:      lipgloss.NormalBorder(),
		borderColor: tui.InactiveTabColor,
	}
	for _, fn := range opts {
		fn(&m)
	}
	// Copy columns because they're modified by each table and the caller may
	// use them in several tables.
	m.cols = make([]Column, len(columns))
	copy(m.cols, columns)
	for i := range m.cols {
		if m.cols[i].TruncationFunc == nil {
			m.cols[i].TruncationFunc = defaultTruncationFunc
		}
	}

	m.SetSize(width, height)

	return m
}

type Option[K comparable, V any] func(m *Model[K, V])

// WithSortFunc configures the table to sort rows using the given func.
func WithSortFunc[K comparable, V any](sortFunc func(V, V) int) Option[K, V] {
	return func(m *Model[K, V]) {
		m.sortFunc = sortFunc
	}
}

// SetSize sets the dimensions of the table, including its borders.
func (m *Model[K, V]) SetSize(width, height int) {
	m.height = height
	m.width = width

	// Accommodate height of table header and borders
	m.viewport.Height = max(0, height-headerHeight-2)
	// Set available width for table to expand into, accomodating border.
	m.viewport.Width = max(0, width-2)
	m.recalculateWidth()

	m.updateViewport()
}

// Update is the Bubble Tea update loop.
func (m Model[K, V]) Update(msg tea.Msg) (Model[K, V], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Navigation.LineUp):
			m.MoveUp(1)
		case key.Matches(msg, keys.Navigation.LineDown):
			m.MoveDown(1)
		case key.Matches(msg, keys.Navigation.PageUp):
			m.MoveUp(m.viewport.Height)
		case key.Matches(msg, keys.Navigation.PageDown):
			m.MoveDown(m.viewport.Height)
		case key.Matches(msg, keys.Navigation.GotoTop):
			m.GotoTop()
		case key.Matches(msg, keys.Navigation.GotoBottom):
			m.GotoBottom()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// View renders the component.
func (m Model[K, V]) View() string {
	content := lipgloss.JoinVertical(lipgloss.Top, m.headersView(), m.viewport.View())

	metadata := m.RowInfo()

	// total length of top border runes, not including corners
	topBorderLength := max(0, m.width-lipgloss.Width(metadata)-2)
	topBorderLeftLength := topBorderLength / 2
	topBorderRightLength := topBorderLength - topBorderLeftLength

	topBorder := lipgloss.NewStyle().Foreground(m.borderColor).Render(fmt.Sprintf("%s%s%s%s%s", m.border.TopLeft, strings.Repeat(m.border.Top, topBorderLeftLength), metadata, strings.Repeat(m.border.Top, topBorderRightLength), m.border.TopRight))

	return lipgloss.JoinVertical(lipgloss.Top,
		topBorder,
		lipgloss.NewStyle().Border(m.border, false, true, true, true).BorderForeground(m.borderColor).Render(content),
	)
}

// updateViewport populates the viewport with table rows.
func (m *Model[K, V]) updateViewport() {
	// In case the height has been shrunk, ensure the cursor offset is no
	// greater than the viewport height.
	m.offset = max(0, min(m.offset, m.viewport.Height-1))
	// In case the height has been increased, ensure the start index is no
	// greater than the number of rows minus the viewport height.
	m.start = clamp(m.cursorRow-m.offset, 0, max(0, len(m.rows)-m.viewport.Height))
	// The number of visible rows cannot exceed the viewport height.
	visible := max(0, min(m.viewport.Height, len(m.rows)-m.start))

	renderedRows := make([]string, visible)
	for i := range visible {
		renderedRows[i] = m.renderRow(m.start + i)
	}

	m.viewport.SetContent(
		lipgloss.JoinVertical(lipgloss.Left, renderedRows...),
	)
}

// CurrentRow returns the row on which the cursor currently sits. If the cursor
// is out of bounds then false is returned along with an empty row.
func (m Model[K, V]) CurrentRow() (Row[K, V], bool) {
	if m.cursorRow < 0 || m.cursorRow >= len(m.rows) {
		return Row[K, V]{}, false
	}
	return m.rows[m.cursorRow], true
}

// Len is the number of rows in the table.
func (m Model[K, V]) Len() int {
	return len(m.rows)
}

// RowInfo returns human-readable row information.
func (m Model[K, V]) RowInfo() string {
	if len(m.rows) == 0 {
		return "0 of 0"
	}
	// Calculate the top and bottom visible row ordinal numbers
	top := m.start + 1
	bottom := m.start + m.viewport.VisibleLineCount()

	return fmt.Sprintf("%d-%d of ", top, bottom) + strconv.Itoa(len(m.rows))
}

// SetItems sets new items on the table, overwriting existing items. The
// cursor remains on the same item if it still exists.
func (m *Model[K, V]) SetItems(items ...V) {
	m.items = make(map[K]V, len(items))
	m.rows = make([]Row[K, V], 0, len(items))
	for _, it := range items {
		k := m.keyFunc(it)
		if _, ok := m.items[k]; ok {
			// Skip duplicates.
			continue
		}
		m.items[k] = it
		m.rows = append(m.rows, Row[K, V]{Key: k, Value: it})
	}

	if m.sortFunc != nil {
		slices.SortStableFunc(m.rows, func(i, j Row[K, V]) int {
			return m.sortFunc(i.Value, j.Value)
		})
	}

	// Track item corresponding to the current cursor.
	previous := m.cursorRow
	m.cursorRow = -1
	for i, item := range m.rows {
		if item.Key == m.cursorKey {
			// Found item corresponding to cursor, update its offset and
			// position.
			m.offset = clamp(m.offset+i-previous, 0, m.viewport.Height-1)
			m.cursorRow = i
			break
		}
	}
	// Check if item corresponding to cursor doesn't exist, which occurs when
	// items are removed, or the very first time the table is populated. If so,
	// set cursor to the first row, and reset the offset.
	if m.cursorRow == -1 {
		m.cursorRow = 0
		m.offset = 0
		if len(m.rows) > 0 {
			m.cursorKey = m.rows[0].Key
		}
	}

	m.updateViewport()
}

// Items returns the table's items in row order.
func (m Model[K, V]) Items() []V {
	items := make([]V, len(m.rows))
	for i, row := range m.rows {
		items[i] = row.Value
	}
	return items
}

// MoveUp moves the current row up by any number of rows.
// It can not go above the first row.
func (m *Model[K, V]) MoveUp(n int) {
	m.moveCursor(-n)

	// offset cannot go below zero
	m.offset = max(0, m.offset-n)

	m.updateViewport()
}

// MoveDown moves the current row down by any number of rows.
// It can not go below the last row.
func (m *Model[K, V]) MoveDown(n int) {
	m.moveCursor(n)

	// offset cannot increase beyond viewport height
	m.offset = min(m.viewport.Height-1, m.offset+n)

	m.updateViewport()
}

func (m *Model[K, V]) moveCursor(n int) {
	if len(m.rows) > 0 {
		m.cursorRow = clamp(m.cursorRow+n, 0, len(m.rows)-1)
		m.cursorKey = m.rows[m.cursorRow].Key
	}
}

// GotoTop makes the top row the current row.
func (m *Model[K, V]) GotoTop() {
	m.MoveUp(m.cursorRow)
}

// GotoBottom makes the bottom row the current row.
func (m *Model[K, V]) GotoBottom() {
	m.MoveDown(len(m.rows))
}

func (m Model[K, V]) headersView() string {
	var s = make([]string, 0, len(m.cols))
	for _, col := range m.cols {
		style := lipgloss.NewStyle().Width(col.Width).MaxWidth(col.Width).Inline(true)
		renderedCell := style.Render(runewidth.Truncate(col.Title, col.Width, "…"))
		s = append(s, tui.Padded.Render(renderedCell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, s...)
}

func (m *Model[K, V]) renderRow(rowIdx int) string {
	row := m.rows[rowIdx]
	current := rowIdx == m.cursorRow

	var renderedCells = make([]string, len(m.cols))
	cells := m.rowRenderer(row.Value)
	for i, col := range m.cols {
		content := cells[col.Key]
		// Truncate content if it is wider than column
		truncated := col.TruncationFunc(content, col.Width, "…")
		// Ensure content is all on one line.
		inlined := lipgloss.NewStyle().
			Width(col.Width).
			MaxWidth(col.Width).
			Inline(true).
			Render(truncated)
		renderedCells[i] = tui.Padded.Render(inlined)
	}

	// Join cells together to form a row
	renderedRow := lipgloss.JoinHorizontal(lipgloss.Left, renderedCells...)

	// If current row, strip colors and apply background color
	if current {
		renderedRow = lipgloss.NewStyle().
			Foreground(tui.CurrentForeground).
			Background(tui.CurrentBackground).
			Render(ansi.Strip(renderedRow))
	}
	return renderedRow
}

func clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}
