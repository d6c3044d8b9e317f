package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/theme"
)

// StatusBar is the full-width bottom bar.
type StatusBar struct {
	statusCode int
	elapsed    time.Duration
	size       int
	kind       response.Kind
	mode       msgs.AppMode
	message    string
	sendMode   string
	width      int
	theme      theme.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(t theme.Theme) StatusBar {
	return StatusBar{theme: t, mode: msgs.ModeNormal}
}

// SetSnapshot shows the summary of a classified response.
func (m *StatusBar) SetSnapshot(s response.Snapshot) {
	m.statusCode = s.StatusCode
	m.elapsed = s.Elapsed
	m.size = s.Size
	m.kind = s.Kind
}

// SetMode sets the input mode indicator.
func (m *StatusBar) SetMode(mode msgs.AppMode) {
	m.mode = mode
}

// SetWidth sets the available width.
func (m *StatusBar) SetWidth(w int) {
	m.width = w
}

// SetMessage replaces the message shown on the left.
func (m *StatusBar) SetMessage(text string) {
	m.message = text
}

// SetSendMode shows how requests are sent (proxy or direct).
func (m *StatusBar) SetSendMode(mode string) {
	m.sendMode = mode
}

// Init implements tea.Model.
func (m StatusBar) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	if msg, ok := msg.(msgs.StatusMsg); ok {
		m.message = msg.Text
	}
	return m, nil
}

// View renders the bar.
func (m StatusBar) View() string {
	bg := m.theme.Surface
	piece := func(fg lipgloss.Color, bold bool, s string) string {
		return lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(bold).Render(s)
	}

	var left []string
	if m.statusCode > 0 {
		left = append(left, piece(m.theme.StatusColor(m.statusCode), true, fmt.Sprintf("%d", m.statusCode)))
		left = append(left, piece(m.theme.Subtext, false, FormatDuration(m.elapsed)))
		left = append(left, piece(m.theme.Subtext, false, humanize.IBytes(uint64(m.size))))
		left = append(left, piece(m.theme.Muted, false, string(m.kind)))
	}
	if m.message != "" {
		left = append(left, piece(m.theme.Text, false, m.message))
	}
	leftStr := strings.Join(left, piece(m.theme.Muted, false, " │ "))

	right := piece(m.theme.Mauve, true, "["+m.mode.String()+"]")
	if m.sendMode != "" {
		right = piece(m.theme.Teal, false, m.sendMode) + piece(m.theme.Muted, false, " ") + right
	}

	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := " " + leftStr + strings.Repeat(" ", gap) + right + " "
	return lipgloss.NewStyle().Background(bg).Foreground(m.theme.Text).Width(m.width).MaxWidth(m.width).Render(line)
}

// FormatDuration renders d with a unit suited to its magnitude.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
