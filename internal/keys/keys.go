package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Inbox
	Refresh key.Binding
	History key.Binding
	Persona key.Binding

	// Message actions
	Summarize           key.Binding
	SummarizeThread     key.Binding
	SummarizeAttachment key.Binding
	NextAttachment      key.Binding
	Reply               key.Binding
	Event               key.Binding

	// Draft editor
	Send       key.Binding
	Regenerate key.Binding

	// Notifications
	Dismiss key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open message"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh inbox"),
		),
		History: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notification history"),
		),
		Persona: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "writing persona"),
		),
		Summarize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summarize message"),
		),
		SummarizeThread: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "summarize thread"),
		),
		SummarizeAttachment: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "summarize attachment"),
		),
		NextAttachment: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next attachment"),
		),
		Reply: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "draft reply"),
		),
		Event: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "create calendar event"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "send reply"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "regenerate draft"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss notification"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Command,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Command, k.Help, k.Refresh, k.History, k.Persona},
		{k.Summarize, k.SummarizeThread, k.SummarizeAttachment, k.NextAttachment, k.Reply, k.Event},
		{k.Send, k.Regenerate, k.Dismiss},
	}
}
