package terminal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the terminal host.
type KeyMap struct {
	TogglePause key.Binding
	Restart     key.Binding
	NextPattern key.Binding
	Style       key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TogglePause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause/resume"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		NextPattern: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pattern"),
		),
		Style: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "progress style"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.TogglePause, keys.Restart, keys.NextPattern, keys.Style, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp()}
}
