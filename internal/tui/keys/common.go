package keys

import "github.com/charmbracelet/bubbles/key"

type common struct {
	Enter        key.Binding
	Reload       key.Binding
	ToggleFormat key.Binding
	New          key.Binding
	Run          key.Binding
	Save         key.Binding
	Delete       key.Binding
	Clone        key.Binding
	EditName     key.Binding
	EditCategory key.Binding
	EditSelect   key.Binding
	EditWhere    key.Binding
	Done         key.Binding
}

// Keys shared by several views.
var Common = common{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	ToggleFormat: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "toggle json/yaml"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Run: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "run query"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Delete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	Clone: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clone"),
	),
	EditName: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit name"),
	),
	EditCategory: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "edit category"),
	),
	EditSelect: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "edit select"),
	),
	EditWhere: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "edit where"),
	),
	Done: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter/esc", "finish editing"),
	),
}
