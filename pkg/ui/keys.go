package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Force       key.Binding
	Circular    key.Binding
	Grid        key.Binding
	Labels      key.Binding
	Connections key.Binding
	Legend      key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Reset       key.Binding
	Focus       key.Binding
	Filter      key.Binding
	Open        key.Binding
	Link        key.Binding
	Unlink      key.Binding
	Up          key.Binding
	Down        key.Binding
	Copy        key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Force:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "force")),
		Circular:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "circular")),
		Grid:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid")),
		Labels:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
		Connections: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edges")),
		Legend:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "legend")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Focus:       key.NewBinding(key.WithKeys("."), key.WithHelp(".", "center selected")),
		Filter:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Link:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "link to…")),
		Unlink:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "unlink")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev link")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next link")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Grid, k.Open, k.Link, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Force, k.Circular, k.Grid, k.Filter},
		{k.Labels, k.Connections, k.Legend},
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Focus},
		{k.Open, k.Link, k.Unlink, k.Up, k.Down, k.Copy},
		{k.Cancel, k.Help, k.Quit},
	}
}
