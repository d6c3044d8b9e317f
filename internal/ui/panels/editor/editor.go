package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/ui/components"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/theme"
)

// Field is the focused part of the form.
type Field int

const (
	FieldMethod Field = iota
	FieldName
	FieldURL
	FieldContent
	fieldCount
)

// SubTab identifies the section shown under the URL bar.
type SubTab int

const (
	TabHeaders SubTab = iota
	TabBody
)

var subTabNames = []string{"Headers", "Body"}

// Model is the request editor panel.
type Model struct {
	method      string
	methodIndex int
	name        textinput.Model
	url         textinput.Model

	activeTab SubTab
	headers   components.HeaderTable
	body      textarea.Model

	focus    Field
	changed  bool
	modified bool
	saved    bool

	focused bool
	width   int
	height  int
	styles  theme.Styles
}

// New creates an editor holding an empty GET request.
func New(styles theme.Styles) Model {
	name := textinput.New()
	name.Placeholder = request.DefaultName
	name.CharLimit = 256
	name.Prompt = ""

	url := textinput.New()
	url.Placeholder = "https://api.example.com/resource"
	url.CharLimit = 4096
	url.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Request body (JSON is sent compacted)"
	body.ShowLineNumbers = false
	body.CharLimit = 0

	m := Model{
		method:  request.Methods[0],
		name:    name,
		url:     url,
		headers: components.NewHeaderTable(styles),
		body:    body,
		focus:   FieldURL,
		styles:  styles,
	}
	m.SetSize(60, 20)
	return m
}

// SetFocused sets whether the editor panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
	if !focused {
		m.blurAll()
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	innerW := max(w-4, 10)
	m.name.Width = max(innerW-7, 5)
	m.url.Width = max(innerW-9, 5)
	m.headers.SetSize(innerW)
	m.body.SetWidth(innerW)
	// border, name, url, blank, tabs, blank
	m.body.SetHeight(max(h-8, 3))
}

// SetModified marks the title with the unsaved indicator.
func (m *Model) SetModified(modified, saved bool) {
	m.modified = modified
	m.saved = saved
}

// Method returns the selected method.
func (m Model) Method() string {
	return m.method
}

// ActiveTab returns the visible section.
func (m Model) ActiveTab() SubTab {
	return m.activeTab
}

// Focus returns the focused field.
func (m Model) Focus() Field {
	return m.focus
}

// Editing reports whether a text input has the keyboard.
func (m Model) Editing() bool {
	switch m.focus {
	case FieldName:
		return m.name.Focused()
	case FieldURL:
		return m.url.Focused()
	case FieldContent:
		if m.activeTab == TabHeaders {
			return m.headers.Editing()
		}
		return m.body.Focused()
	}
	return false
}

// Changed reports whether the user altered the form since the last load.
func (m Model) Changed() bool {
	return m.changed
}

// ClearChanged resets the change flag after the caller has taken the edit.
func (m *Model) ClearChanged() {
	m.changed = false
}

// LoadDraft fills the form from d.
func (m *Model) LoadDraft(d request.Draft) {
	m.setMethod(d.Method)
	m.name.SetValue(d.Name)
	m.url.SetValue(d.URI)
	m.headers.SetHeaders(d.Headers)
	m.body.SetValue(d.Body)
	m.blurAll()
	m.changed = false
}

// Draft returns the form contents. Identity fields are left to the caller.
func (m Model) Draft() request.Draft {
	return request.Draft{
		Name:    strings.TrimSpace(m.name.Value()),
		Method:  m.method,
		URI:     strings.TrimSpace(m.url.Value()),
		Headers: m.headers.Headers(),
		Body:    m.body.Value(),
	}
}

// Body returns the raw body text.
func (m Model) Body() string {
	return m.body.Value()
}

// SetBody replaces the body, as after editing it in an external editor.
func (m *Model) SetBody(text string) {
	if text == m.body.Value() {
		return
	}
	m.body.SetValue(text)
	m.activeTab = TabBody
	m.changed = true
}

// FocusURL starts editing the URL.
func (m *Model) FocusURL() tea.Cmd {
	m.blurAll()
	m.focus = FieldURL
	m.url.CursorEnd()
	return m.url.Focus()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}
	before := m.Draft()
	var cmd tea.Cmd
	if m.Editing() {
		m, cmd = m.updateEditing(key)
	} else {
		m, cmd = m.updateNormal(key)
	}
	if !sameContent(before, m.Draft()) {
		m.changed = true
	}
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.focus == FieldContent {
			break
		}
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case "k", "up":
		if m.focus == FieldContent && m.activeTab == TabHeaders && m.headers.Cursor() > 0 {
			break
		}
		if m.focus > FieldMethod {
			m.focus--
		}
		return m, nil
	case "m":
		m.cycleMethod()
		return m, nil
	case "1":
		m.activeTab = TabHeaders
		return m, nil
	case "2":
		m.activeTab = TabBody
		return m, nil
	case "enter", "i":
		return m.enter()
	case " ":
		if m.focus == FieldMethod {
			m.cycleMethod()
			return m, nil
		}
	}

	if m.focus == FieldContent {
		switch msg.String() {
		case "[":
			m.activeTab = TabHeaders
			return m, nil
		case "]":
			m.activeTab = TabBody
			return m, nil
		}
		if m.activeTab == TabHeaders {
			var cmd tea.Cmd
			m.headers, cmd = m.headers.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) enter() (Model, tea.Cmd) {
	switch m.focus {
	case FieldMethod:
		m.cycleMethod()
		return m, nil
	case FieldName:
		cmd := m.name.Focus()
		return m, cmd
	case FieldURL:
		cmd := m.url.Focus()
		return m, cmd
	}
	if m.activeTab == TabBody {
		cmd := m.body.Focus()
		return m, cmd
	}
	var cmd tea.Cmd
	m.headers, cmd = m.headers.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldName:
		if isLeave(msg) {
			m.name.Blur()
			return m, nil
		}
		m.name, cmd = m.name.Update(msg)
	case FieldURL:
		if isLeave(msg) {
			m.url.Blur()
			if msg.String() == "enter" {
				return m, func() tea.Msg { return msgs.SendRequestMsg{} }
			}
			return m, nil
		}
		m.url, cmd = m.url.Update(msg)
	case FieldContent:
		if m.activeTab == TabBody {
			if msg.String() == "esc" {
				m.body.Blur()
				return m, nil
			}
			m.body, cmd = m.body.Update(msg)
			return m, cmd
		}
		m.headers, cmd = m.headers.Update(msg)
	}
	return m, cmd
}

func isLeave(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc", "enter":
		return true
	}
	return false
}

// forward passes non-key messages (cursor blink) to the active input.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldName:
		m.name, cmd = m.name.Update(msg)
	case FieldURL:
		m.url, cmd = m.url.Update(msg)
	case FieldContent:
		if m.activeTab == TabBody {
			m.body, cmd = m.body.Update(msg)
		} else {
			m.headers, cmd = m.headers.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) blurAll() {
	m.name.Blur()
	m.url.Blur()
	m.body.Blur()
	if m.headers.Editing() {
		m.headers, _ = m.headers.Update(tea.KeyMsg{Type: tea.KeyEsc})
	}
}

func (m *Model) cycleMethod() {
	m.methodIndex = (m.methodIndex + 1) % len(request.Methods)
	m.method = request.Methods[m.methodIndex]
}

func (m *Model) setMethod(method string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	for i, candidate := range request.Methods {
		if candidate == method {
			m.methodIndex = i
			m.method = candidate
			return
		}
	}
	m.methodIndex = 0
	m.method = request.Methods[0]
}

func sameContent(a, b request.Draft) bool {
	if a.Name != b.Name || a.Method != b.Method || a.URI != b.URI || a.Body != b.Body {
		return false
	}
	if len(a.Headers) != len(b.Headers) {
		return false
	}
	for i := range a.Headers {
		if a.Headers[i] != b.Headers[i] {
			return false
		}
	}
	return true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Request"))
	if m.modified {
		b.WriteString(m.styles.Modified.Render(" ●"))
	}
	if !m.saved {
		b.WriteString(m.styles.Hint.Render("  unsaved"))
	}
	b.WriteString("\n")

	b.WriteString(m.label(FieldName, "Name ") + " " + m.name.View() + "\n")

	method := m.styles.MethodStyle(m.method).Render(m.method)
	if m.focus == FieldMethod {
		method = m.styles.Cursor.Render(" " + m.method + " ")
	}
	b.WriteString(method + " " + m.label(FieldURL, "URL") + " " + m.url.View() + "\n\n")

	tabs := make([]string, 0, len(subTabNames))
	for i, name := range subTabNames {
		if SubTab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	if m.activeTab == TabBody && !request.HasBody(m.method) {
		b.WriteString(m.styles.Hint.Render("  not sent with " + m.method))
	}
	b.WriteString("\n\n")

	if m.activeTab == TabHeaders {
		b.WriteString(m.headers.View())
	} else {
		b.WriteString(m.body.View())
	}

	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}
	return border.Width(max(m.width-2, 1)).Height(max(m.height-2, 1)).Render(b.String())
}

func (m Model) label(f Field, text string) string {
	if m.focus == f {
		return m.styles.Key.Bold(true).Render(text)
	}
	return m.styles.Muted.Render(text)
}
