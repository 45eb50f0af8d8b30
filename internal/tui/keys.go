package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Browsing
	Open   key.Binding
	Like   key.Binding
	Search key.Binding
	Filter key.Binding
	Retry  key.Binding

	// Preview
	Share    key.Binding
	Download key.Binding
	External key.Binding
	Close    key.Binding

	// Global
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		Like: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "like/unlike"),
		),
		Search: key.NewBinding(
			key.WithKeys("f", "tab"),
			key.WithHelp("f/tab", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter results"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		External: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in viewer"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "backspace"),
			key.WithHelp("esc", "close preview"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
