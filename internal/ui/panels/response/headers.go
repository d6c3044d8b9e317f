package response

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gopost/internal/ui/theme"
)

// HeadersModel lists the response headers in a scrollable table with the
// names right-aligned.
type HeadersModel struct {
	viewport viewport.Model
	styles   theme.Styles
	count    int
}

func NewHeadersModel(s theme.Styles) HeadersModel {
	return HeadersModel{viewport: viewport.New(0, 0), styles: s}
}

// SetHeaders replaces the listing. Names are sorted and a header with
// several values gets one line per value.
func (m *HeadersModel) SetHeaders(headers http.Header) {
	m.count = 0
	names := slices.Sorted(maps.Keys(headers))
	width := 0
	for _, name := range names {
		width = max(width, lipgloss.Width(name))
	}

	keyStyle := m.styles.Key.Width(width).Align(lipgloss.Right)
	var lines []string
	for _, name := range names {
		for _, v := range headers[name] {
			lines = append(lines, keyStyle.Render(name)+m.styles.Muted.Render("  ")+m.styles.Normal.Render(v))
			m.count++
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoTop()
}

// SetSize leaves one row for the count line.
func (m *HeadersModel) SetSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = max(h-1, 0)
}

func (m HeadersModel) Update(msg tea.Msg) (HeadersModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m HeadersModel) View() string {
	if m.count == 0 {
		return m.styles.Muted.Render("No headers")
	}
	label := strconv.Itoa(m.count) + " values"
	if m.count == 1 {
		label = "1 value"
	}
	return m.styles.Muted.Render(label) + "\n" + m.viewport.View()
}
