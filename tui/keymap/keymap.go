// Package keymap holds the key bindings of the widgets terminal preview.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Preview contains the bindings of the preview screen.
type Preview struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// NewPreview returns the default vim-style preview bindings.
func NewPreview() Preview {
	return Preview{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rebind"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k Preview) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Preview) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refresh, k.Help, k.Quit},
	}
}
