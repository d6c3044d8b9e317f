package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/gopost/internal/ui/theme"
)

const defaultToastDuration = 3 * time.Second

// toastDismissMsg hides the toast identified by seq.
type toastDismissMsg struct{ seq int }

// Toast is an auto-dismissing notification.
type Toast struct {
	Visible bool
	text    string
	isError bool
	seq     int
	theme   theme.Theme
}

// NewToast creates a hidden toast.
func NewToast(t theme.Theme) Toast {
	return Toast{theme: t}
}

// Show displays text and returns the Cmd that dismisses it. A newer toast is
// not hidden by the timer of an older one.
func (m *Toast) Show(text string, isError bool, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = defaultToastDuration
	}
	m.Visible = true
	m.text = text
	m.isError = isError
	m.seq++
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastDismissMsg{seq: seq}
	})
}

// Text returns the message being shown.
func (m Toast) Text() string {
	return m.text
}

// IsError reports whether the toast shows an error.
func (m Toast) IsError() bool {
	return m.isError
}

// Init implements tea.Model.
func (m Toast) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	if msg, ok := msg.(toastDismissMsg); ok && msg.seq == m.seq {
		m.Visible = false
		m.text = ""
	}
	return m, nil
}

// View renders the toast.
func (m Toast) View() string {
	if !m.Visible || m.text == "" {
		return ""
	}
	fg := m.theme.Green
	if m.isError {
		fg = m.theme.Red
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(m.theme.Surface).
		Bold(true).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg).
		Render(m.text)
}
