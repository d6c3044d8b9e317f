package response

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	coreresponse "github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/ui/components"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/theme"
)

type subTab int

const (
	tabBody subTab = iota
	tabHeaders
)

var subTabLabels = []string{"Body", "Headers"}

// Model is the response panel.
type Model struct {
	body    BodyModel
	headers HeadersModel
	spinner spinner.Model

	snap    coreresponse.Snapshot
	styles  theme.Styles
	th      theme.Theme
	active  subTab
	focused bool
	loading bool
	width   int
	height  int
}

// New creates a response panel.
func New(t theme.Theme, s theme.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Mauve)

	return Model{
		body:    NewBodyModel(t, s),
		headers: NewHeadersModel(s),
		spinner: sp,
		styles:  s,
		th:      t,
	}
}

// SetSnapshot shows a classified response.
func (m *Model) SetSnapshot(s coreresponse.Snapshot) {
	m.loading = false
	m.snap = s
	m.body.SetSnapshot(s)
	m.headers.SetHeaders(s.Header)
}

// Snapshot returns the response on display.
func (m Model) Snapshot() coreresponse.Snapshot {
	return m.snap
}

// SetLoading toggles the sending indicator and returns the spinner tick
// when loading starts.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	m.loading = loading
	if loading {
		return m.spinner.Tick
	}
	return nil
}

// Loading reports whether a send is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Searching reports whether the body search input has the keyboard.
func (m Model) Searching() bool {
	return m.active == tabBody && m.body.Searching()
}

// SetFocused sets whether this panel has focus.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	// border, tab bar and status line
	innerW := max(w-2, 0)
	innerH := max(h-4, 0)
	m.body.SetSize(innerW, innerH)
	m.headers.SetSize(innerW, innerH)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.Searching() {
			break
		}
		switch msg.String() {
		case "1":
			m.active = tabBody
			return m, nil
		case "2":
			m.active = tabHeaders
			return m, nil
		case "[", "]":
			m.active = (m.active + 1) % subTab(len(subTabLabels))
			return m, nil
		case "y":
			return m, m.copyCmd()
		case "o":
			return m, m.openCmd()
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case tabBody:
		m.body, cmd = m.body.Update(msg)
	case tabHeaders:
		m.headers, cmd = m.headers.Update(msg)
	}
	return m, cmd
}

// copyCmd puts the body text, or the resource URL of binary kinds, on the
// clipboard.
func (m Model) copyCmd() tea.Cmd {
	if m.snap.Empty() {
		return nil
	}
	if m.snap.Kind.Binary() {
		url := string(m.snap.Body.Resource)
		return func() tea.Msg { return msgs.CopyMsg{Text: url, Label: "URL"} }
	}
	text := m.body.Plain()
	return func() tea.Msg { return msgs.CopyMsg{Text: text, Label: "body"} }
}

func (m Model) openCmd() tea.Cmd {
	if !m.snap.Kind.Binary() || !m.snap.Body.Resource.Served() {
		return func() tea.Msg {
			return msgs.ToastMsg{Text: "Nothing to open", IsError: true}
		}
	}
	url := string(m.snap.Body.Resource)
	return func() tea.Msg { return msgs.OpenURLMsg{URL: url} }
}

// View implements tea.Model.
func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}
	innerW := max(m.width-2, 0)
	innerH := max(m.height-2, 0)

	var content string
	switch {
	case m.loading:
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Sending request...")
	case m.snap.Empty():
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, m.styles.Muted.Render("Send a request to see the response"))
	default:
		content = m.renderResponse(innerW, innerH)
	}
	return border.Width(innerW).Height(innerH).Render(content)
}

func (m Model) renderResponse(w, h int) string {
	tabs := make([]string, 0, len(subTabLabels))
	for i, label := range subTabLabels {
		if subTab(i) == m.active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	tabRow := lipgloss.NewStyle().Width(w).Render(strings.Join(tabs, " "))

	status := lipgloss.NewStyle().Foreground(m.th.StatusColor(m.snap.StatusCode)).Bold(true).Render(m.snap.Status)
	meta := m.styles.Muted.Render("  " + components.FormatDuration(m.snap.Elapsed) + "  " + humanize.IBytes(uint64(m.snap.Size)) + "  " + m.snap.ContentType)
	statusRow := lipgloss.NewStyle().Width(w).MaxWidth(w).Render(status + meta)

	var body string
	if m.active == tabBody {
		body = m.body.View()
	} else {
		body = m.headers.View()
	}
	body = lipgloss.NewStyle().Width(w).Height(max(h-2, 0)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, tabRow, statusRow, body)
}
