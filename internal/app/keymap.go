package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application keybindings.
type KeyMap struct {
	// Always active, even while typing
	Quit        key.Binding
	SendRequest key.Binding
	SaveRequest key.Binding

	// Normal mode only
	DeleteRequest key.Binding
	NewRequest    key.Binding
	CopyAsCurl    key.Binding
	OpenEditor    key.Binding
	CycleFocus    key.Binding
	CycleFocusRev key.Binding
	ToggleSidebar key.Binding
	QuitNormal    key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		SendRequest: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "send"),
		),
		SaveRequest: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		DeleteRequest: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete"),
		),
		NewRequest: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new"),
		),
		CopyAsCurl: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy as cURL"),
		),
		OpenEditor: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit body in $EDITOR"),
		),
		CycleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		CycleFocusRev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle sidebar"),
		),
		QuitNormal: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Hints returns the bindings shown in the header line.
func (k KeyMap) Hints() []key.Binding {
	return []key.Binding{k.SendRequest, k.SaveRequest, k.NewRequest, k.DeleteRequest, k.CopyAsCurl, k.CycleFocus}
}
