package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"stationhub/internal/ui/input/types"
)

type keyMap struct {
	types.Bindings
	Tab     key.Binding
	Open    key.Binding
	Install key.Binding
	Reload  key.Binding
	Rescan  key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Bindings: types.DefaultBindings(),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open commit")),
		Install:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload commits")),
		Rescan:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "rescan builds")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Open, k.Install, k.Reload, k.Rescan, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Back},
		{k.Tab, k.Open, k.Install, k.Reload, k.Rescan, k.Quit},
	}
}
