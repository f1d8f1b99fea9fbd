package tabs

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leg100/hutch/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	received      []tea.Msg
	width, height int
}

func (f *fakeContent) Update(msg tea.Msg) tea.Cmd {
	f.received = append(f.received, msg)
	return nil
}

func (f *fakeContent) View() string { return "" }

func (f *fakeContent) SetSize(width, height int) {
	f.width, f.height = width, height
}

func newTestPane(title string) (*Pane, *fakeContent) {
	content := &fakeContent{}
	return NewPane(title, content), content
}

func TestStrip(t *testing.T) {
	s := NewStrip(100, 40)
	a, contentA := newTestPane("a")
	b, _ := newTestPane("b")
	c, _ := newTestPane("c")
	s.AddChild(a)
	s.AddChild(b)
	s.AddChild(c)

	// content is sized to fit beneath the tab headers
	assert.Equal(t, 100, contentA.width)
	assert.Equal(t, 38, contentA.height)

	t.Run("first pane is active by default", func(t *testing.T) {
		active, ok := s.Active()
		require.True(t, ok)
		assert.Same(t, a, active)
	})

	t.Run("select child", func(t *testing.T) {
		s.SelectChild(c)
		active, _ := s.Active()
		assert.Same(t, c, active)
	})

	t.Run("cycle wraps around", func(t *testing.T) {
		s.Update(tea.KeyMsg{Type: tea.KeyTab})
		active, _ := s.Active()
		assert.Same(t, a, active)

		s.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		active, _ = s.Active()
		assert.Same(t, c, active)
	})

	t.Run("removing active pane activates left neighbour", func(t *testing.T) {
		s.RemoveChild(c)
		active, _ := s.Active()
		assert.Same(t, b, active)
		assert.Equal(t, []*Pane{a, b}, s.Panes())
	})

	t.Run("removing pane left of active keeps active", func(t *testing.T) {
		s.RemoveChild(a)
		active, _ := s.Active()
		assert.Same(t, b, active)
	})

	t.Run("removing unknown pane is a no-op", func(t *testing.T) {
		s.RemoveChild(a)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStrip_PaneMsg(t *testing.T) {
	s := NewStrip(100, 40)
	a, contentA := newTestPane("a")
	b, contentB := newTestPane("b")
	s.AddChild(a)
	s.AddChild(b)

	s.Update(view.PaneMsg{PaneID: b.ID(), Msg: "loaded"})
	assert.Empty(t, contentA.received)
	assert.Equal(t, []tea.Msg{"loaded"}, contentB.received)

	// messages for a closed pane are dropped
	b.Close()
	s.Update(view.PaneMsg{PaneID: b.ID(), Msg: "late"})
	assert.Equal(t, []tea.Msg{"loaded"}, contentB.received)
}

func TestStrip_ClosePane(t *testing.T) {
	s := NewStrip(100, 40)
	a, _ := newTestPane("a")
	var closed int
	a.OnClose(func() { closed++ })
	s.AddChild(a)

	s.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, 0, s.Len())
	assert.True(t, a.Closed())
	assert.Equal(t, 1, closed)

	// closing again is a no-op
	a.Close()
	assert.Equal(t, 1, closed)
}

func TestStrip_Toggle(t *testing.T) {
	s := NewStrip(100, 40)
	a, _ := newTestPane("a")
	var states []bool
	a.SetToggle(&Toggle{
		OnChange: func(checked bool) error {
			states = append(states, checked)
			return nil
		},
	})
	s.AddChild(a)

	s.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, []bool{true, false}, states)
	assert.False(t, a.Toggle().Checked)
	assert.Contains(t, s.View(), "[ ] a")
}

func TestToggle_RevertsOnError(t *testing.T) {
	toggle := &Toggle{
		OnChange: func(bool) error { return errors.New("disk full") },
	}
	err := toggle.Flip()
	assert.Error(t, err)
	assert.False(t, toggle.Checked)
}

func TestStrip_Observe(t *testing.T) {
	s := NewStrip(100, 40)
	assert.Nil(t, s.Observe())

	a, _ := newTestPane("a")
	s.AddChild(a)

	cmd := s.Observe()
	require.NotNil(t, cmd)
	assert.Equal(t, SelectionChangedMsg{Pane: a}, cmd())

	// no change since last observed
	assert.Nil(t, s.Observe())

	a.Close()
	cmd = s.Observe()
	require.NotNil(t, cmd)
	assert.Equal(t, SelectionChangedMsg{Pane: nil}, cmd())
}

func TestPane_SanitizesTitle(t *testing.T) {
	p, _ := newTestPane("\x1b[31mQueue: orders\x1b[0m")
	assert.Equal(t, "Queue: orders", p.Title())

	p.SetTitle("*Queue:\norders")
	assert.Equal(t, "*Queue: orders", p.Title())
}
