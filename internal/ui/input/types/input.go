package types

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Input is an abstract directional input
type Input int

const (
	InputOther Input = iota
	InputUp
	InputDown
	InputBack
	InputTop
	InputBottom
)

func (i Input) String() string {
	switch i {
	case InputUp:
		return "up"
	case InputDown:
		return "down"
	case InputBack:
		return "back"
	case InputTop:
		return "top"
	case InputBottom:
		return "bottom"
	default:
		return "other"
	}
}

// Bindings are the keys behind each directional input
type Bindings struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Back   key.Binding
}

// DefaultBindings returns the directional key bindings
func DefaultBindings() Bindings {
	return Bindings{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unselect")),
	}
}

var defaultBindings = DefaultBindings()

// FromKey translates a key press into a directional input using the
// default bindings
func FromKey(msg tea.KeyMsg) Input {
	return defaultBindings.FromKey(msg)
}

// FromKey translates a key press into a directional input.
// Keys without a directional meaning map to InputOther.
func (b Bindings) FromKey(msg tea.KeyMsg) Input {
	switch {
	case key.Matches(msg, b.Up):
		return InputUp
	case key.Matches(msg, b.Down):
		return InputDown
	case key.Matches(msg, b.Top):
		return InputTop
	case key.Matches(msg, b.Bottom):
		return InputBottom
	case key.Matches(msg, b.Back):
		return InputBack
	}
	return InputOther
}
