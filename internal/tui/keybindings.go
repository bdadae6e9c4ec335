package tui

import "github.com/charmbracelet/bubbles/key"

// KeyBindings defines all keyboard shortcuts for the TUI.
type KeyBindings struct {
	// Global keys
	Quit      key.Binding
	Interrupt key.Binding

	// Execution keys
	Run      key.Binding
	Continue key.Binding
	Next     key.Binding
	Step     key.Binding
	Finish   key.Binding

	// Navigation keys
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Input keys
	Submit      key.Binding
	Clear       key.Binding
	HistoryUp   key.Binding
	HistoryDown key.Binding
}

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+d"),
			key.WithHelp("esc", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "interrupt"),
		),

		Run: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("f4", "run"),
		),
		Continue: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("f5", "continue"),
		),
		Next: key.NewBinding(
			key.WithKeys("f10"),
			key.WithHelp("f10", "next"),
		),
		Step: key.NewBinding(
			key.WithKeys("f11"),
			key.WithHelp("f11", "step"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f12"),
			key.WithHelp("f12", "finish"),
		),

		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("ctrl+home"),
			key.WithHelp("ctrl+home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("ctrl+end"),
			key.WithHelp("ctrl+end", "bottom"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "history"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "history"),
		),
	}
}
