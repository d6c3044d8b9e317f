package response

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coreresponse "github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/render"
	"github.com/sadopc/gopost/internal/ui/theme"
)

// BodyModel displays the response body with syntax highlighting.
type BodyModel struct {
	viewport  viewport.Model
	search    SearchBar
	mark      lipgloss.Style
	styles    theme.Styles
	chroma    string
	width     int
	height    int
	wrap      bool
	hasBody   bool
	searching bool
	plain     string
	lexer     string
	binary    bool
}

// NewBodyModel creates a body viewer coloured by t.
func NewBodyModel(t theme.Theme, s theme.Styles) BodyModel {
	chroma := t.Chroma
	if chroma == "" {
		chroma = render.DefaultStyle
	}
	return BodyModel{
		viewport: viewport.New(0, 0),
		search:   NewSearchBar(s),
		mark:     lipgloss.NewStyle().Background(t.Yellow).Foreground(t.Base).Bold(true),
		styles:   s,
		chroma:   chroma,
	}
}

// SetSnapshot renders the body of s.
func (m *BodyModel) SetSnapshot(s coreresponse.Snapshot) {
	m.plain, m.lexer = render.Body(s)
	m.binary = s.Kind.Binary()
	m.hasBody = !s.Empty()
	m.viewport.GotoTop()
	m.renderContent()
}

// Plain returns the unhighlighted body text.
func (m BodyModel) Plain() string {
	return m.plain
}

// SetSize updates the viewport dimensions.
func (m *BodyModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.search.SetWidth(w)
	m.viewport.Width = w
	m.viewport.Height = h
	if m.searching {
		m.viewport.Height = max(h-1, 0)
	}
	if m.hasBody {
		m.renderContent()
	}
}

// Searching reports whether the search input has focus.
func (m BodyModel) Searching() bool {
	return m.searching && m.search.input.Focused()
}

func (m *BodyModel) renderContent() {
	if !m.hasBody {
		return
	}
	var content string
	switch {
	case m.binary:
		content = m.styles.URL.Render(m.plain) + "\n\n" + m.styles.Hint.Render("y copy URL  o open")
	case m.searching && m.search.Query() != "":
		text := m.plain
		if m.wrap && m.width > 0 {
			text = wrapText(text, m.width)
		}
		var lines []int
		content, lines = HighlightMatches(text, m.search.Query(), m.mark)
		m.search.SetMatches(lines)
		if len(lines) > 0 {
			m.viewport.SetYOffset(lines[0])
		}
	default:
		content = render.Highlight(m.plain, m.lexer, m.chroma)
		if m.wrap && m.width > 0 {
			content = wrapText(content, m.width)
		}
	}
	m.viewport.SetContent(content)
}

// Init implements tea.Model.
func (m BodyModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BodyModel) Update(msg tea.Msg) (BodyModel, tea.Cmd) {
	if m.Searching() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if !m.search.Active() {
			m.closeSearch()
		} else {
			m.renderContent()
		}
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "/", "ctrl+f":
			if !m.hasBody || m.binary {
				return m, nil
			}
			m.searching = true
			m.search.Open()
			m.viewport.Height = max(m.height-1, 0)
			return m, nil
		case "w":
			m.wrap = !m.wrap
			m.renderContent()
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "n", "N":
			if m.searching && m.search.Query() != "" {
				if key.String() == "n" {
					m.search.NextMatch()
				} else {
					m.search.PrevMatch()
				}
				if line := m.search.CurrentMatchLine(); line >= 0 {
					m.viewport.SetYOffset(line)
				}
				return m, nil
			}
		case "esc":
			if m.searching {
				m.closeSearch()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *BodyModel) closeSearch() {
	m.searching = false
	m.search.Close()
	m.viewport.Height = m.height
	m.renderContent()
}

// View implements tea.Model.
func (m BodyModel) View() string {
	if !m.hasBody {
		return m.styles.Muted.Render("No response yet")
	}
	if m.searching {
		return m.viewport.View() + "\n" + m.search.View()
	}
	return m.viewport.View()
}

func wrapText(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
