package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the search view understands. Which of them
// are live depends on the session state; see SearchModel.bindings.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Retry  key.Binding
	Reset  key.Binding
	Clear  key.Binding
	Scroll key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "try again"),
		),
		Reset: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "new search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown", "k", "j"),
			key.WithHelp("↑/↓", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
