package response

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gopost/internal/ui/theme"
)

// SearchBar is the find-in-body input shown under the body viewport.
type SearchBar struct {
	input   textinput.Model
	active  bool
	query   string
	matches []int // line numbers
	current int
	styles  theme.Styles
	width   int
}

// NewSearchBar creates a closed search bar.
func NewSearchBar(s theme.Styles) SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256
	ti.Prompt = "/ "
	return SearchBar{input: ti, styles: s}
}

// Active reports whether the bar is open.
func (m SearchBar) Active() bool { return m.active }

// Query returns the text being searched for.
func (m SearchBar) Query() string { return m.query }

// Matches returns the number of matching lines.
func (m SearchBar) Matches() int { return len(m.matches) }

// Open shows the bar with an empty, focused input.
func (m *SearchBar) Open() {
	m.reset()
	m.active = true
	m.input.Focus()
}

// Close hides the bar and forgets the query.
func (m *SearchBar) Close() {
	m.reset()
	m.active = false
	m.input.Blur()
}

func (m *SearchBar) reset() {
	m.input.SetValue("")
	m.query = ""
	m.matches = nil
	m.current = 0
}

// SetWidth sets the bar width.
func (m *SearchBar) SetWidth(w int) {
	m.width = w
	m.input.Width = max(w-20, 10)
}

// Update edits the query. Enter keeps the query and releases the keyboard;
// esc closes the bar.
func (m SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Close()
			return m, nil
		case "enter":
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.query = m.input.Value()
	return m, cmd
}

// SetMatches records the matching line numbers.
func (m *SearchBar) SetMatches(lines []int) {
	m.matches = lines
	if m.current >= len(lines) {
		m.current = 0
	}
}

// NextMatch moves to the following match, wrapping around.
func (m *SearchBar) NextMatch() {
	if n := len(m.matches); n > 0 {
		m.current = (m.current + 1) % n
	}
}

// PrevMatch moves to the preceding match, wrapping around.
func (m *SearchBar) PrevMatch() {
	if n := len(m.matches); n > 0 {
		m.current = (m.current - 1 + n) % n
	}
}

// CurrentMatchLine returns the line of the current match or -1.
func (m SearchBar) CurrentMatchLine() int {
	if m.current < len(m.matches) {
		return m.matches[m.current]
	}
	return -1
}

// View renders the bar with a match counter.
func (m SearchBar) View() string {
	if !m.active {
		return ""
	}
	var info string
	switch {
	case m.query == "":
	case len(m.matches) == 0:
		info = m.styles.Error.Render(" No matches")
	default:
		info = m.styles.Muted.Render(fmt.Sprintf(" %d/%d", m.current+1, len(m.matches)))
	}
	return lipgloss.NewStyle().Width(m.width).Render(m.input.View() + info)
}

// HighlightMatches marks every case-insensitive occurrence of query in
// content with mark and returns the numbers of the lines that matched.
func HighlightMatches(content, query string, mark lipgloss.Style) (string, []int) {
	if query == "" {
		return content, nil
	}
	needle := strings.ToLower(query)
	lines := strings.Split(content, "\n")
	var hits []int
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, needle) {
			continue
		}
		hits = append(hits, i)
		// ToLower can change byte lengths outside ASCII; fall back to the
		// unmarked line rather than slicing at a bad offset.
		if len(lower) != len(line) {
			continue
		}
		var b strings.Builder
		for {
			idx := strings.Index(lower, needle)
			if idx < 0 {
				b.WriteString(line)
				break
			}
			b.WriteString(line[:idx])
			b.WriteString(mark.Render(line[idx : idx+len(needle)]))
			line = line[idx+len(needle):]
			lower = lower[idx+len(needle):]
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n"), hits
}
