package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Pin     key.Binding
	Unpin   key.Binding
	Reheat  key.Binding
	Variant key.Binding
	Glyphs  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev node"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next node"),
	),
	Pin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin node"),
	),
	Unpin: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unpin node"),
	),
	Reheat: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reheat"),
	),
	Variant: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "cycle variant"),
	),
	Glyphs: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "braille/ascii"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Pin, k.Reheat, k.Variant, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Pin, k.Unpin, k.Reheat, k.Variant, k.Glyphs},
		{k.Help, k.Quit},
	}
}
