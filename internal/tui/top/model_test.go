package top

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/management"
	"github.com/leg100/hutch/internal/pubsub"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/tabs"
	"github.com/leg100/hutch/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	root *resource.Entity
	err  error
}

func (f *fakeClient) Structure(context.Context) (*resource.Entity, error) {
	return f.root, f.err
}

func (f *fakeClient) Get(_ context.Context, kind resource.Kind, name string, parent *resource.Entity) (*resource.Entity, error) {
	return &resource.Entity{Kind: kind, Name: name, Parent: parent}, nil
}

func (f *fakeClient) Queries(context.Context, *resource.Entity) ([]*management.Query, error) {
	return nil, nil
}

func (f *fakeClient) SaveQuery(_ context.Context, _ *resource.Entity, q *management.Query) (*management.Query, error) {
	return q, nil
}

func (f *fakeClient) DeleteQuery(context.Context, *resource.Entity, *management.Query) error {
	return nil
}

func (f *fakeClient) RunQuery(context.Context, *resource.Entity, *management.Query) (*management.QueryResult, error) {
	return &management.QueryResult{}, nil
}

type fakePreferences struct {
	stored []view.Descriptor

	*pubsub.Broker[view.Descriptor]
}

func newFakePreferences(stored ...view.Descriptor) *fakePreferences {
	return &fakePreferences{
		stored: stored,
		Broker: pubsub.NewBroker[view.Descriptor](logging.Discard),
	}
}

func (f *fakePreferences) IsTabStored(d view.Descriptor) bool {
	for _, s := range f.stored {
		if s == d {
			return true
		}
	}
	return false
}

func (f *fakePreferences) AppendTab(d view.Descriptor) error {
	f.stored = append(f.stored, d)
	return nil
}

func (f *fakePreferences) RemoveTab(view.Descriptor) error { return nil }

func (f *fakePreferences) Tabs() ([]view.Descriptor, error) { return f.stored, nil }

// stubContent records the messages it receives.
type stubContent struct {
	capturing bool
	msgs      []tea.Msg
	width     int
	height    int
}

func (s *stubContent) Update(msg tea.Msg) tea.Cmd {
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *stubContent) View() string { return "stub" }

func (s *stubContent) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *stubContent) CapturingInput() bool { return s.capturing }

func (s *stubContent) refreshes() (n int) {
	for _, msg := range s.msgs {
		if _, ok := msg.(view.RefreshMsg); ok {
			n++
		}
	}
	return
}

func hierarchy() *resource.Entity {
	broker := &resource.Entity{Kind: resource.Broker, ID: "b1", Name: "Broker"}
	node := &resource.Entity{Kind: resource.VirtualHostNode, ID: "n1", Name: "default", Parent: broker}
	vhost := &resource.Entity{Kind: resource.VirtualHost, ID: "v1", Name: "test", Parent: node}
	queue := &resource.Entity{Kind: resource.Queue, ID: "q1", Name: "orders", Parent: vhost}
	broker.Children = []*resource.Entity{node}
	node.Children = []*resource.Entity{vhost}
	vhost.Children = []*resource.Entity{queue}
	return broker
}

func setupModel(t *testing.T, client *fakeClient, prefs *fakePreferences) model {
	t.Helper()

	m, err := newModel(Options{
		Client:      client,
		Preferences: prefs,
		Logger:      logging.NewLogger(logging.Options{}),
	})
	require.NoError(t, err)
	return m
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(msg)
	return updated.(model), cmd
}

func typeKey(t *testing.T, m model, k string) model {
	t.Helper()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return m
}

// addStub adds a pane hosting stub content and makes it the active pane.
func addStub(m model, content *stubContent) {
	pane := tabs.NewPane("stub", content)
	m.strip.AddChild(pane)
	m.strip.SelectChild(pane)
}

func titles(m model) (titles []string) {
	for _, p := range m.strip.Panes() {
		titles = append(titles, p.Title())
	}
	return
}

func TestQuit(t *testing.T) {
	tm := StartTest(t, Options{
		Client:      &fakeClient{root: hierarchy()},
		Preferences: newFakePreferences(),
		Logger:      logging.NewLogger(logging.Options{}),
	}, 300, 100)

	tm.Send(tea.KeyMsg{
		Type: tea.KeyCtrlC,
	})

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("Quit hutch? (y/N): "))
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)

	tm.Send(tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune{'y'},
	})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

func TestModel_StructureLoaded(t *testing.T) {
	prefs := newFakePreferences(
		view.Descriptor{ObjectType: resource.Queue, ObjectID: "q1"},
		view.Descriptor{ObjectType: resource.Logs},
		view.Descriptor{ObjectType: resource.Exchange, ObjectID: "missing"},
	)
	m := setupModel(t, &fakeClient{}, prefs)

	m, _ = update(t, m, structureMsg{root: hierarchy()})

	assert.Equal(t, []string{
		"Broker: Broker",
		"Queue: orders (Virtualhost:default/test)",
		"Logs",
	}, titles(m))
}

func TestModel_StructureError(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())

	m, cmd := update(t, m, structureMsg{err: errors.New("connection refused")})
	require.NotNil(t, cmd)

	// The logs are shown in lieu of the broker.
	assert.Equal(t, []string{"Logs"}, titles(m))

	// The broker key retries loading the structure.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("B")})
	require.NotNil(t, cmd)
	assert.Len(t, m.strip.Panes(), 1)
}

func TestModel_GlobalKeys(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())

	m = typeKey(t, m, "l")
	m = typeKey(t, m, "Q")
	// Showing the logs again selects the existing tab.
	m = typeKey(t, m, "l")
	assert.Equal(t, []string{"Logs", "Queries"}, titles(m))
	active, _ := m.strip.Active()
	assert.Equal(t, "Logs", active.Title())

	// Each new query gets its own tab.
	m = typeKey(t, m, "N")
	m = typeKey(t, m, "N")
	assert.Len(t, m.strip.Panes(), 4)
}

func TestModel_Help(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())

	m = typeKey(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "NAVIGATION")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestModel_CapturingInput(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())
	stub := &stubContent{capturing: true}
	addStub(m, stub)

	m = typeKey(t, m, "l")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	// Neither the global key nor the navigation key took effect.
	assert.Equal(t, []string{"stub"}, titles(m))
	require.Len(t, stub.msgs, 2)
	assert.Equal(t, "l", stub.msgs[0].(tea.KeyMsg).String())

	// But ctrl-c still prompts the user to quit.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.showQuitPrompt)
}

func TestModel_Refresh(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())
	m.refreshInterval = time.Minute
	stub := &stubContent{}
	addStub(m, stub)

	m, cmd := update(t, m, tabs.SelectionChangedMsg{})
	assert.NotNil(t, cmd)
	stale := m.refreshGen
	m, _ = update(t, m, tabs.SelectionChangedMsg{})

	// A tick scheduled before the selection changed is ignored.
	m, _ = update(t, m, refreshTickMsg{gen: stale})
	assert.Equal(t, 0, stub.refreshes())

	m, _ = update(t, m, refreshTickMsg{gen: m.refreshGen})
	assert.Equal(t, 1, stub.refreshes())
}

func TestModel_RefreshDisabled(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())

	_, cmd := update(t, m, tabs.SelectionChangedMsg{})
	assert.Nil(t, cmd)
}

func TestModel_WindowSize(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())
	stub := &stubContent{}
	addStub(m, stub)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, stub.width)
	// less header, footer, and tab headers
	assert.Equal(t, 40-tui.HeaderHeight-tui.FooterHeight-2, stub.height)
}

func TestModel_Footer(t *testing.T) {
	m := setupModel(t, &fakeClient{}, newFakePreferences())

	m, _ = update(t, m, resource.NewEvent(resource.CreatedEvent, view.Descriptor{ObjectType: resource.Logs}))
	assert.Equal(t, "Logs will be restored in the next session", m.info)

	m, _ = update(t, m, tui.NewErrorMsg(errors.New("boom"), "saving %s", "query"))
	assert.EqualError(t, m.err, "saving query: boom")

	// Any key clears the footer.
	m = typeKey(t, m, "?")
	assert.Empty(t, m.info)
	assert.NoError(t, m.err)
}
