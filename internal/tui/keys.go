// ABOUTME: Key bindings for the storefront screens
// ABOUTME: Bindings feed both input matching and the footer/help rendering

package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Proceed key.Binding
	Court   key.Binding
	Type    key.Binding
	Refresh key.Binding
	Cancel  key.Binding
	Tab     key.Binding
	Confirm key.Binding
	Deny    key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "Navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "Down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←→", "Date"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "Next"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("Space", "Select"),
		),
		Proceed: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Book"),
		),
		Court: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Court"),
		),
		Type: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Duration"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cancel booking"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "Filter"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "Close"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b", "Back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Left, k.Toggle, k.Proceed},
		{k.Court, k.Type, k.Refresh},
		{k.Tab, k.Cancel},
		{k.Confirm, k.Deny, k.Back, k.Quit},
	}
}
