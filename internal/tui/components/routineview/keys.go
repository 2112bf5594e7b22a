package routineview

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	PrevTime key.Binding
	NextTime key.Binding
	Up       key.Binding
	Down     key.Binding
	Zone     key.Binding
	Add      key.Binding
	Remove   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Suggest  key.Binding
	Save     key.Binding
	Edit     key.Binding
	Delete   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevTime: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "morning/night"),
		),
		NextTime: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "morning/night"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Zone: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "draft/saved"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add product"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "suggest"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}
