package theme

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style

	Title    lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	URL      lipgloss.Style
	Key      lipgloss.Style
	Hint     lipgloss.Style
	Modified lipgloss.Style

	MethodGET    lipgloss.Style
	MethodPOST   lipgloss.Style
	MethodPUT    lipgloss.Style
	MethodDELETE lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Header      lipgloss.Style
	StatusBar   lipgloss.Style
	StatusMode  lipgloss.Style
	TreeItem    lipgloss.Style
	TreeFolder  lipgloss.Style
	Local       lipgloss.Style
	Cursor      lipgloss.Style
	Selected    lipgloss.Style

	KVKey       lipgloss.Style
	KVValue     lipgloss.Style
	KVSeparator lipgloss.Style
}

// NewStyles builds the style set for t.
func NewStyles(t Theme) Styles {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	return Styles{
		FocusedBorder:   border.BorderForeground(t.BorderFocused),
		UnfocusedBorder: border.BorderForeground(t.BorderUnfocused),

		Title:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Normal:   lipgloss.NewStyle().Foreground(t.Text),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Bold:     lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(t.Red),
		Success:  lipgloss.NewStyle().Foreground(t.Green),
		Warning:  lipgloss.NewStyle().Foreground(t.Yellow),
		URL:      lipgloss.NewStyle().Foreground(t.Blue).Underline(true),
		Key:      lipgloss.NewStyle().Foreground(t.Mauve),
		Hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Modified: lipgloss.NewStyle().Foreground(t.Peach).Bold(true),

		MethodGET:    lipgloss.NewStyle().Foreground(t.Green).Bold(true),
		MethodPOST:   lipgloss.NewStyle().Foreground(t.Yellow).Bold(true),
		MethodPUT:    lipgloss.NewStyle().Foreground(t.Blue).Bold(true),
		MethodDELETE: lipgloss.NewStyle().Foreground(t.Red).Bold(true),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Padding(0, 2),
		Header: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Background(t.Surface).
			Foreground(t.Text).
			Padding(0, 1),
		StatusMode: lipgloss.NewStyle().
			Background(t.Mauve).
			Foreground(t.Base).
			Bold(true).
			Padding(0, 1),
		TreeItem: lipgloss.NewStyle().
			Foreground(t.Text).
			PaddingLeft(2),
		TreeFolder: lipgloss.NewStyle().
			Foreground(t.Mauve).
			Bold(true),
		Local: lipgloss.NewStyle().
			Foreground(t.Teal).
			Italic(true),
		Cursor: lipgloss.NewStyle().
			Background(t.Overlay).
			Foreground(t.Text),
		Selected: lipgloss.NewStyle().
			Background(t.Surface).
			Foreground(t.Text),

		KVKey:       lipgloss.NewStyle().Foreground(t.Mauve),
		KVValue:     lipgloss.NewStyle().Foreground(t.Text),
		KVSeparator: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// MethodStyle returns the style for an HTTP method.
func (s Styles) MethodStyle(method string) lipgloss.Style {
	switch method {
	case "GET":
		return s.MethodGET
	case "POST":
		return s.MethodPOST
	case "PUT":
		return s.MethodPUT
	case "DELETE":
		return s.MethodDELETE
	default:
		return s.Normal
	}
}
