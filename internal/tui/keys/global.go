package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type global struct {
	Broker   key.Binding
	Queries  key.Binding
	NewQuery key.Binding
	Logs     key.Binding
	Escape   key.Binding
	Quit     key.Binding
	Help     key.Binding
}

var Global = global{
	Broker: key.NewBinding(
		key.WithKeys("B"),
		key.WithHelp("B", "broker"),
	),
	Queries: key.NewBinding(
		key.WithKeys("Q"),
		key.WithHelp("Q", "stored queries"),
	),
	NewQuery: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new query"),
	),
	Logs: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "logs"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("^c", "exit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}
