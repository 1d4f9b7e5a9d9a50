package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Left        key.Binding
	Right       key.Binding
	View        key.Binding
	Metric      key.Binding
	Toggle      key.Binding
	Search      key.Binding
	Clear       key.Binding
	Sort        key.Binding
	Perspective key.Binding
	Narrative   key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	NextChapter key.Binding
	PrevChapter key.Binding
	Copy        key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next chart"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev chart"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	View: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "focus/compare"),
	),
	Metric: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "metric/model"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle party"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Perspective: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "heckler/heckled"),
	),
	Narrative: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "story"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down", "pgdown"),
		key.WithHelp("j/k", "scroll story"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up", "pgup"),
	),
	NextChapter: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("[/]", "chapter"),
	),
	PrevChapter: key.NewBinding(
		key.WithKeys("["),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r", "ctrl+r", "f5"),
		key.WithHelp("r", "reload"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Metric, k.Search, k.Narrative, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right},
		{k.View, k.Metric, k.Toggle},
		{k.Search, k.Clear, k.Sort, k.Perspective},
		{k.Narrative, k.ScrollDown, k.NextChapter},
		{k.Copy, k.Reload, k.Help, k.Quit},
	}
}
