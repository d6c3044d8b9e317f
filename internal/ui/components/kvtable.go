package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/ui/theme"
)

// Column identifies which column is focused.
type Column int

const (
	ColKey Column = iota
	ColValue
)

// HeaderTable edits an ordered list of request headers. The last row is
// always available for a new entry; blank keys are dropped by Headers.
type HeaderTable struct {
	rows    []request.Header
	cursor  int
	column  Column
	editing bool
	input   textinput.Model
	width   int
	styles  theme.Styles
}

// NewHeaderTable creates an empty table.
func NewHeaderTable(styles theme.Styles) HeaderTable {
	ti := textinput.New()
	ti.CharLimit = 1024

	return HeaderTable{
		rows:   []request.Header{{}},
		styles: styles,
		input:  ti,
		width:  60,
	}
}

// SetHeaders replaces all rows.
func (m *HeaderTable) SetHeaders(hs []request.Header) {
	m.rows = append([]request.Header(nil), hs...)
	if len(m.rows) == 0 {
		m.rows = []request.Header{{}}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.editing = false
	m.input.Blur()
}

// Headers returns the non-blank rows.
func (m HeaderTable) Headers() []request.Header {
	out := make([]request.Header, 0, len(m.rows))
	for _, h := range m.rows {
		if strings.TrimSpace(h.Key) == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Rows returns a copy of every row, blanks included.
func (m HeaderTable) Rows() []request.Header {
	return append([]request.Header(nil), m.rows...)
}

// Cursor returns the selected row.
func (m HeaderTable) Cursor() int {
	return m.cursor
}

// SetSize sets the table width.
func (m *HeaderTable) SetSize(w int) {
	m.width = w
}

// Editing reports whether a cell is being edited.
func (m HeaderTable) Editing() bool {
	return m.editing
}

// Init implements tea.Model.
func (m HeaderTable) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HeaderTable) Update(msg tea.Msg) (HeaderTable, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}
	return m.updateNormal(msg)
}

func (m HeaderTable) updateNormal(msg tea.Msg) (HeaderTable, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "h", "left":
		m.column = ColKey
	case "l", "right":
		m.column = ColValue
	case "enter", "i":
		m.startEditing()
		return m, textinput.Blink
	case "a":
		m.rows = append(m.rows, request.Header{})
		m.cursor = len(m.rows) - 1
		m.column = ColKey
		m.startEditing()
		return m, textinput.Blink
	case "x":
		if len(m.rows) > 1 {
			m.rows = append(m.rows[:m.cursor], m.rows[m.cursor+1:]...)
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
		} else {
			m.rows[0] = request.Header{}
		}
	}
	return m, nil
}

func (m HeaderTable) updateEditing(msg tea.Msg) (HeaderTable, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter":
			m.commitEdit()
			m.editing = false
			return m, nil
		case "tab":
			m.commitEdit()
			if m.column == ColKey {
				m.column = ColValue
			} else {
				m.column = ColKey
			}
			m.startEditing()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *HeaderTable) startEditing() {
	m.editing = true
	if m.column == ColKey {
		m.input.SetValue(m.rows[m.cursor].Key)
	} else {
		m.input.SetValue(m.rows[m.cursor].Value)
	}
	m.input.Focus()
	m.input.CursorEnd()
}

func (m *HeaderTable) commitEdit() {
	if m.cursor >= len(m.rows) {
		return
	}
	if m.column == ColKey {
		m.rows[m.cursor].Key = m.input.Value()
	} else {
		m.rows[m.cursor].Value = m.input.Value()
	}
	m.input.Blur()
}

// View implements tea.Model.
func (m HeaderTable) View() string {
	// "> " prefix plus " : " separator
	available := m.width - 5
	if available < 10 {
		available = 10
	}
	keyW := available * 2 / 5
	valW := available - keyW

	m.input.Width = keyW - 1
	if m.column == ColValue {
		m.input.Width = valW - 1
	}

	sep := m.styles.KVSeparator.Render(" : ")
	rows := make([]string, 0, len(m.rows))
	for i, h := range m.rows {
		current := i == m.cursor
		prefix := "  "
		if current {
			prefix = "> "
		}
		keyCell := m.cell(h.Key, "Header", keyW, current, ColKey, m.styles.KVKey)
		valCell := m.cell(h.Value, "value", valW, current, ColValue, m.styles.KVValue)
		rows = append(rows, prefix+keyCell+sep+valCell)
	}
	return strings.Join(rows, "\n")
}

func (m HeaderTable) cell(text, placeholder string, width int, current bool, col Column, style lipgloss.Style) string {
	if current && m.editing && m.column == col {
		return padRight(m.input.View(), width)
	}
	shown := truncate(text, width)
	switch {
	case shown == "":
		style = m.styles.Muted
		shown = placeholder
	case current && m.column == col:
		style = m.styles.Cursor
	}
	return style.Render(padRight(shown, width))
}

func truncate(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxW {
		return s
	}
	r := []rune(s)
	if maxW > 3 && len(r) > maxW-3 {
		return string(r[:maxW-3]) + "..."
	}
	if len(r) > maxW {
		return string(r[:maxW])
	}
	return s
}

func padRight(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
