package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the inbox.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Notification actions
	MarkRead     key.Binding
	MarkAllRead  key.Binding
	Delete       key.Binding
	ToggleUnread key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "Refresh"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/right", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/left", "Previous page"),
		),

		MarkRead: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "Mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Mark all read"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Delete"),
		),
		ToggleUnread: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Unread only"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MarkRead, k.Delete, k.NextPage, k.PrevPage, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.MarkRead, k.MarkAllRead, k.Delete, k.ToggleUnread},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
