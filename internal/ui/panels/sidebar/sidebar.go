package sidebar

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/theme"
	"github.com/sahilm/fuzzy"
)

// Model is the sidebar panel showing the collection tree.
type Model struct {
	rows     []collection.Row
	local    map[ident.ID]bool
	filtered []int // indices into rows
	cursor   int   // index into filtered
	loading  map[ident.ID]bool

	width   int
	height  int
	focused bool

	filtering   bool
	filterInput textinput.Model

	theme  theme.Theme
	styles theme.Styles
}

// New creates a sidebar.
func New(t theme.Theme, s theme.Styles) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.CharLimit = 128

	return Model{
		theme:       t,
		styles:      s,
		filterInput: ti,
		local:       map[ident.ID]bool{},
		loading:     map[ident.ID]bool{},
	}
}

// SetRows replaces the tree rows, keeping the cursor on the same entry
// when it is still present.
func (m *Model) SetRows(rows []collection.Row) {
	key, hadSelection := m.selectedKey()
	m.rows = rows
	m.applyFilter()
	if hadSelection {
		for vi, idx := range m.filtered {
			if rowKey(m.rows[idx]) == key {
				m.cursor = vi
				return
			}
		}
	}
	m.clampCursor()
}

// MarkLocal flags collections that live in local workspace files.
func (m *Model) MarkLocal(id ident.ID, local bool) {
	if local {
		m.local[id] = true
	} else {
		delete(m.local, id)
	}
}

// SetLoading shows or clears the fetch indicator of a collection.
func (m *Model) SetLoading(id ident.ID, loading bool) {
	if loading {
		m.loading[id] = true
	} else {
		delete(m.loading, id)
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets whether this panel has focus.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.filtering
}

// Selected returns the row under the cursor.
func (m Model) Selected() (collection.Row, bool) {
	if len(m.filtered) == 0 {
		return collection.Row{}, false
	}
	return m.rows[m.filtered[m.cursor]], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, tea.Batch(textinput.Blink, setMode(msgs.ModeFilter))
	case "r":
		return m, func() tea.Msg { return msgs.RefreshMsg{} }
	case "n":
		var colID ident.ID
		if row, ok := m.Selected(); ok {
			colID = row.Collection.ID
		}
		return m, func() tea.Msg { return msgs.NewRequestMsg{CollectionID: colID} }
	}

	if len(m.filtered) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.filtered) - 1
	case "enter", "l", " ":
		row := m.rows[m.filtered[m.cursor]]
		if row.IsCollection() {
			id := row.Collection.ID
			return m, func() tea.Msg { return msgs.ExpandCollectionMsg{ID: id} }
		}
		d := row.Request.Clone()
		return m, func() tea.Msg { return msgs.RequestSelectedMsg{Draft: d} }
	case "h":
		row := m.rows[m.filtered[m.cursor]]
		if row.IsCollection() && row.Expanded {
			id := row.Collection.ID
			return m, func() tea.Msg { return msgs.ExpandCollectionMsg{ID: id} }
		}
		if !row.IsCollection() {
			m.jumpToParent()
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc":
			m.filtering = false
			m.filterInput.Blur()
			if key.String() == "esc" {
				m.filterInput.SetValue("")
				m.applyFilter()
				m.clampCursor()
			}
			return m, setMode(msgs.ModeNormal)
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	m.cursor = 0
	return m, cmd
}

func setMode(mode msgs.AppMode) tea.Cmd {
	return func() tea.Msg { return msgs.SetModeMsg{Mode: mode} }
}

func (m *Model) jumpToParent() {
	row := m.rows[m.filtered[m.cursor]]
	for vi := m.cursor - 1; vi >= 0; vi-- {
		r := m.rows[m.filtered[vi]]
		if r.IsCollection() && r.Collection.ID == row.Collection.ID {
			m.cursor = vi
			return
		}
	}
}

// rowSource feeds the rows to the fuzzy matcher.
type rowSource []collection.Row

func (s rowSource) String(i int) string {
	r := s[i]
	if r.IsCollection() {
		return r.Collection.Name
	}
	return r.Request.Method + " " + r.Request.Name
}

func (s rowSource) Len() int { return len(s) }

// applyFilter keeps every row when the query is empty. Otherwise it keeps
// the rows matching the query in best-match order.
func (m *Model) applyFilter() {
	m.filtered = m.filtered[:0]
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		for i := range m.rows {
			m.filtered = append(m.filtered, i)
		}
		return
	}
	for _, match := range fuzzy.FindFrom(query, rowSource(m.rows)) {
		m.filtered = append(m.filtered, match.Index)
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m Model) selectedKey() (string, bool) {
	row, ok := m.Selected()
	if !ok {
		return "", false
	}
	return rowKey(row), true
}

func rowKey(r collection.Row) string {
	if r.IsCollection() {
		return "c:" + r.Collection.ID.String()
	}
	return "r:" + r.Collection.ID.String() + "/" + r.Request.ID.String()
}

// View implements tea.Model.
func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}
	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	lines := []string{m.styles.Title.Render("Collections"), ""}
	if len(m.filtered) == 0 {
		if m.filterInput.Value() != "" {
			lines = append(lines, m.styles.Muted.Render("  No matches"))
		} else {
			lines = append(lines, m.styles.Muted.Render("  No collections"), m.styles.Hint.Render("  r to refresh"))
		}
	} else {
		for vi, idx := range m.filtered {
			lines = append(lines, m.renderRow(m.rows[idx], vi == m.cursor, innerW))
		}
	}

	availH := innerH
	if m.filtering || m.filterInput.Value() != "" {
		availH--
	}
	content := fitHeight(lines, availH, m.cursor+2)
	if m.filtering || m.filterInput.Value() != "" {
		content += "\n" + m.filterInput.View()
	}
	return border.Width(innerW).Height(innerH).Render(content)
}

func (m Model) renderRow(row collection.Row, isCursor bool, maxWidth int) string {
	var line string
	if row.IsCollection() {
		icon := "▶ "
		if row.Expanded {
			icon = "▼ "
		}
		line = m.styles.TreeFolder.Render(icon + row.Collection.Name)
		switch {
		case m.loading[row.Collection.ID]:
			line += m.styles.Muted.Render(" …")
		case m.local[row.Collection.ID]:
			line += m.styles.Local.Render(" local")
		}
	} else {
		indent := strings.Repeat("  ", row.Depth)
		badge := m.styles.MethodStyle(row.Request.Method).Render(padMethod(row.Request.Method))
		line = indent + badge + " " + m.styles.Normal.Render(row.Request.Name)
	}

	if isCursor {
		return m.styles.Cursor.Width(maxWidth).Render(stripForWidth(line, maxWidth))
	}
	return stripForWidth(line, maxWidth)
}

// padMethod pads an HTTP method to 6 columns.
func padMethod(method string) string {
	if len(method) >= 6 {
		return method[:6]
	}
	return method + strings.Repeat(" ", 6-len(method))
}

// fitHeight returns exactly h lines, scrolled so that line focus is visible.
func fitHeight(lines []string, h, focus int) string {
	if h < 1 {
		h = 1
	}
	if len(lines) > h {
		start := 0
		if focus >= h {
			start = focus - h + 1
		}
		lines = lines[start : start+h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func stripForWidth(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > w {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
