package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type navigation struct {
	LineUp     key.Binding
	LineDown   key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding
	TabNext    key.Binding
	TabLast    key.Binding
	ClosePane  key.Binding
	Persist    key.Binding
}

// Navigation returns key bindings for navigation.
var Navigation = navigation{
	LineUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	LineDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	GotoTop: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g/home", "go to start"),
	),
	GotoBottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G/end", "go to end"),
	),
	TabNext: key.NewBinding(
		key.WithKeys("tab", "ctrl+pgdown"),
		key.WithHelp("tab", "next tab"),
	),
	TabLast: key.NewBinding(
		key.WithKeys("shift+tab", "ctrl+pgup"),
		key.WithHelp("shift+tab", "last tab"),
	),
	ClosePane: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("^w", "close tab"),
	),
	Persist: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("^p", "restore tab next session"),
	),
}
