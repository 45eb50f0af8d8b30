package components

import "github.com/charmbracelet/bubbles/key"

// ListKeyMap defines key bindings for image list navigation
type ListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Escape   key.Binding
	Enter    key.Binding
	Filter   key.Binding
}

// DefaultListKeyMap returns the default image list key bindings
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept filter"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
	}
}

// SearchBarKeyMap defines key bindings for the search bar
type SearchBarKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
}

// DefaultSearchBarKeyMap returns the default search bar key bindings
func DefaultSearchBarKeyMap() SearchBarKeyMap {
	return SearchBarKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next suggestion"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous suggestion"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "use suggestion"),
		),
	}
}

// ShareSheetKeyMap defines key bindings for the share sheet
type ShareSheetKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Dismiss key.Binding
}

// DefaultShareSheetKeyMap returns the default share sheet key bindings
func DefaultShareSheetKeyMap() ShareSheetKeyMap {
	return ShareSheetKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "share"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// ConfirmKeyMap defines key bindings for yes/no dialogs
type ConfirmKeyMap struct {
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultConfirmKeyMap returns the default confirmation key bindings
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "allow"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "deny"),
		),
	}
}

// Package-level key map instances
var (
	ListKeys       = DefaultListKeyMap()
	SearchBarKeys  = DefaultSearchBarKeyMap()
	ShareSheetKeys = DefaultShareSheetKeyMap()
	ConfirmKeys    = DefaultConfirmKeyMap()
)
