package top

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui"
	"github.com/leg100/hutch/internal/tui/controller"
	"github.com/leg100/hutch/internal/tui/entity"
	"github.com/leg100/hutch/internal/tui/keys"
	"github.com/leg100/hutch/internal/tui/query"
	"github.com/leg100/hutch/internal/tui/tabs"
	"github.com/leg100/hutch/internal/version"
	"github.com/leg100/hutch/internal/view"
)

// Client is the broker management client.
type Client interface {
	entity.Client
	query.Client

	Structure(ctx context.Context) (*resource.Entity, error)
}

// Preferences stores the tabs restored at startup.
type Preferences interface {
	controller.Preferences

	Tabs() ([]view.Descriptor, error)
	Subscribe(ctx context.Context) <-chan resource.Event[view.Descriptor]
}

type Options struct {
	Client      Client
	Preferences Preferences
	Logger      *logging.Logger
	// URL of the management API, rendered in the header.
	URL string
	// RefreshInterval is the interval between refreshes of the active view.
	// Zero disables refreshing.
	RefreshInterval time.Duration
	Debug           bool
}

type model struct {
	client      Client
	preferences Preferences
	logger      *logging.Logger

	controller *controller.Controller
	strip      *tabs.Strip

	// root of the broker's entity hierarchy, nil until loaded.
	root *resource.Entity

	width  int
	height int

	showHelp bool

	showQuitPrompt bool
	quitPrompt     textinput.Model

	// Either an error or an informational message is rendered in the footer.
	err  error
	info string

	spinner *spinner.Model

	refreshInterval time.Duration
	// refreshGen is incremented every time the refresh timer is restarted;
	// ticks from earlier generations are ignored.
	refreshGen int

	url  string
	dump *os.File
}

type (
	structureMsg struct {
		root *resource.Entity
		err  error
	}

	refreshTickMsg struct {
		gen int
	}
)

func newModel(opts Options) (model, error) {
	var dump *os.File
	if opts.Debug {
		var err error
		dump, err = os.OpenFile("messages.log", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
		if err != nil {
			return model{}, err
		}
	}

	spinner := spinner.New(spinner.WithSpinner(spinner.Dot))

	factory, err := makeFactory(opts, &spinner)
	if err != nil {
		return model{}, err
	}
	strip := tabs.NewStrip(tui.MinContentWidth, tui.MinContentHeight)
	ctrl := controller.New(controller.Options{
		Factory:     factory,
		Strip:       strip,
		Preferences: opts.Preferences,
		Logger:      opts.Logger,
	})

	m := model{
		client:          opts.Client,
		preferences:     opts.Preferences,
		logger:          opts.Logger,
		controller:      ctrl,
		strip:           strip,
		spinner:         &spinner,
		refreshInterval: opts.RefreshInterval,
		url:             opts.URL,
		dump:            dump,
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadStructure,
	)
}

func (m model) loadStructure() tea.Msg {
	root, err := m.client.Structure(context.Background())
	return structureMsg{root: root, err: err}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.dump != nil {
		spew.Fdump(m.dump, msg)
	}

	if m.showQuitPrompt {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.Global.Quit):
				// pressing ctrl-c again quits the app
				return m, tea.Quit
			case key.Matches(msg, localKeys.Yes):
				// 'y' quits the app
				return m, tea.Quit
			default:
				// any other key closes the prompt and returns to the app
				m.showQuitPrompt = false
				m.info = "canceled quitting hutch"
			}
			return m, nil
		}
	}

	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height

		// amend msg to account for header and footer before forwarding it to
		// the strip.
		msg = tea.WindowSizeMsg{
			Width:  m.viewWidth(),
			Height: m.viewHeight(),
		}
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		// The shared spinner keeps spinning for the lifetime of the program.
		var cmd tea.Cmd
		*m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// Pressing any key makes any info/error message in the footer disappear
		m.info = ""
		m.err = nil

		switch {
		case key.Matches(msg, keys.Global.Quit):
			// ctrl-c quits the app, but not before prompting the user for
			// comfirmation.
			m.quitPrompt = textinput.New()
			m.quitPrompt.Prompt = ""
			m.quitPrompt.Focus()
			m.showQuitPrompt = true
			return m, textinput.Blink
		case m.capturing():
			// Send all other keys to the view capturing input, bypassing
			// both global and navigation keys.
			pane, _ := m.strip.Active()
			cmds = append(cmds, pane.Content().Update(msg))
		case key.Matches(msg, keys.Global.Escape):
			m.showHelp = false
		case key.Matches(msg, keys.Global.Help):
			// '?' toggles help
			m.showHelp = !m.showHelp
		case key.Matches(msg, keys.Global.Broker):
			if m.root == nil {
				cmds = append(cmds, m.loadStructure)
				break
			}
			cmds = append(cmds, m.showBroker())
		case key.Matches(msg, keys.Global.Queries):
			cmds = append(cmds, m.controller.Show(resource.QueryBrowser, view.Named(string(resource.QueryBrowser)), nil, ""))
		case key.Matches(msg, keys.Global.NewQuery):
			cmds = append(cmds, m.controller.Show(resource.Query, view.Unnamed(), nil, ""))
		case key.Matches(msg, keys.Global.Logs):
			cmds = append(cmds, m.controller.Show(resource.Logs, view.Named(string(resource.Logs)), nil, ""))
		default:
			cmds = append(cmds, m.strip.Update(msg))
		}
	case structureMsg:
		if msg.err != nil {
			cmds = append(cmds,
				tui.ReportError(msg.err, "loading broker structure from %s", m.url),
				m.controller.Show(resource.Logs, view.Named(string(resource.Logs)), nil, ""),
			)
			break
		}
		m.root = msg.root
		cmds = append(cmds, m.showBroker(), m.restore())
	case tabs.SelectionChangedMsg:
		cmds = append(cmds, m.restartRefresh())
	case refreshTickMsg:
		if msg.gen != m.refreshGen {
			// Superseded by a later selection.
			break
		}
		cmds = append(cmds, m.strip.Update(view.RefreshMsg{}), m.scheduleRefresh())
	case resource.Event[view.Descriptor]:
		switch msg.Type {
		case resource.CreatedEvent:
			m.info = fmt.Sprintf("%s will be restored in the next session", msg.Payload.ObjectType.Title())
		case resource.DeletedEvent:
			m.info = fmt.Sprintf("%s will no longer be restored", msg.Payload.ObjectType.Title())
		}
	case tui.ErrorMsg:
		if msg.Error != nil {
			err := msg.Error
			msg := fmt.Sprintf(msg.Message, msg.Args...)

			// Both print error in footer as well as log it.
			m.err = fmt.Errorf("%s: %w", msg, err)
			m.logger.Error(msg, "error", err)
		}
	case tui.InfoMsg:
		m.info = string(msg)
	default:
		if cmd, ok := m.controller.Handle(msg); ok {
			cmds = append(cmds, cmd)
			break
		}
		// Send remaining msg types to the strip
		cmds = append(cmds, m.strip.Update(msg))
	}
	// Any of the above may have changed the active pane.
	cmds = append(cmds, m.strip.Observe())
	return m, tea.Batch(cmds...)
}

func (m model) showBroker() tea.Cmd {
	return m.controller.Show(resource.Broker, view.Named(m.root.Name), nil, m.root.ID)
}

// restore shows the tabs stored in the previous session.
func (m model) restore() tea.Cmd {
	if m.preferences == nil {
		return nil
	}
	descriptors, err := m.preferences.Tabs()
	if err != nil {
		return tui.ReportError(err, "retrieving stored tabs")
	}
	return m.controller.Restore(m.root, descriptors)
}

// restartRefresh discards any scheduled refresh and schedules a new one.
func (m *model) restartRefresh() tea.Cmd {
	m.refreshGen++
	return m.scheduleRefresh()
}

func (m model) scheduleRefresh() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	gen := m.refreshGen
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// capturing is true if the active view is capturing all key presses.
func (m model) capturing() bool {
	pane, ok := m.strip.Active()
	if !ok {
		return false
	}
	capturer, ok := pane.Content().(view.Capturer)
	return ok && capturer.CapturingInput()
}

type helpBindings interface {
	HelpBindings() []key.Binding
}

func (m model) activeHelpBindings() []key.Binding {
	pane, ok := m.strip.Active()
	if !ok {
		return nil
	}
	if bindings, ok := pane.Content().(helpBindings); ok {
		return bindings.HelpBindings()
	}
	return nil
}

var (
	brandStyle = tui.Bold.
			Margin(0, 1).
			Foreground(tui.Violet)
	urlStyle     = tui.Regular.Margin(0, 1)
	versionStyle = tui.Faint.Margin(0, 1)
)

func (m model) View() string {
	var (
		content           string
		shortHelpBindings []key.Binding
	)

	if m.showHelp {
		content = lipgloss.NewStyle().
			Margin(1).
			Render(
				fullHelpView(
					m.activeHelpBindings(),
					keys.KeyMapToSlice(keys.Global),
					keys.KeyMapToSlice(keys.Navigation),
				),
			)
		shortHelpBindings = []key.Binding{
			key.NewBinding(
				key.WithKeys("?"),
				key.WithHelp("?", "close help"),
			),
		}
	} else if m.showQuitPrompt {
		content = lipgloss.NewStyle().
			Margin(0, 1).
			Render(fmt.Sprintf("Quit hutch? (y/N): %s", m.quitPrompt.View()))
	} else {
		content = m.strip.View()
		shortHelpBindings = append(
			m.activeHelpBindings(),
			keys.KeyMapToSlice(keys.Global)...,
		)
	}

	// Render global static info in top left corner
	globalStatic := lipgloss.JoinVertical(lipgloss.Top,
		lipgloss.JoinHorizontal(lipgloss.Left, brandStyle.Render("hutch"), versionStyle.Render(version.Version)),
		urlStyle.Render(m.url),
	)
	shortHelpWidth := max(0, m.width-tui.Width(globalStatic)-4)
	shortHelp := lipgloss.NewStyle().
		Margin(0, 0, 0, 4).
		Render(shortHelpView(shortHelpBindings, shortHelpWidth))

	// Global-level info goes in the bottom right corner in the footer.
	metadata := tui.Padded.Render(fmt.Sprintf("%d tabs", m.strip.Len()))

	// Render any info/error message to be shown in the bottom left corner in
	// the footer, using whatever space is remaining to the left of the
	// metadata.
	var footerMsg string
	if m.err != nil {
		footerMsg = tui.Padded.
			Foreground(tui.Red).
			Render("Error: " + m.err.Error())
	} else if m.info != "" {
		footerMsg = tui.Padded.Render(m.info)
	}
	footerMsg = lipgloss.NewStyle().
		Inline(true).
		MaxWidth(max(0, m.width-tui.Width(metadata))).
		Width(max(0, m.width-tui.Width(metadata))).
		Render(footerMsg)

	return lipgloss.JoinVertical(
		lipgloss.Top,
		// header
		lipgloss.NewStyle().
			Height(tui.HeaderHeight).
			MaxHeight(tui.HeaderHeight).
			Render(lipgloss.JoinHorizontal(lipgloss.Top, globalStatic, shortHelp)),
		// content
		lipgloss.NewStyle().
			Height(m.viewHeight()).
			MaxHeight(m.viewHeight()).
			Render(content),
		// footer
		lipgloss.JoinHorizontal(lipgloss.Bottom, footerMsg, metadata),
	)
}

// viewHeight returns the height available to the strip.
func (m model) viewHeight() int {
	return max(tui.MinContentHeight, m.height-tui.HeaderHeight-tui.FooterHeight)
}

// viewWidth returns the width available to the strip.
func (m model) viewWidth() int {
	return max(tui.MinContentWidth, m.width)
}
