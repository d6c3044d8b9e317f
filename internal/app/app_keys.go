package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/gopost/internal/ui/layout"
	"github.com/sadopc/gopost/internal/ui/msgs"
)

// capturing reports whether a text input owns the keyboard, in which case
// only ctrl+c, ctrl+r and ctrl+s act globally.
func (a App) capturing() bool {
	switch a.focus {
	case msgs.FocusSidebar:
		return a.sidebar.Filtering()
	case msgs.FocusEditor:
		return a.editor.Editing()
	case msgs.FocusResponse:
		return a.response.Searching()
	}
	return false
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.SendRequest):
		a.syncEdit()
		return a.sendRequest()
	case key.Matches(msg, a.keys.SaveRequest):
		a.syncEdit()
		return a.saveRequest()
	}

	if a.capturing() {
		return a.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, a.keys.QuitNormal):
		return a, tea.Quit
	case key.Matches(msg, a.keys.DeleteRequest):
		return a.deleteRequest()
	case key.Matches(msg, a.keys.NewRequest):
		return a.newRequest("")
	case key.Matches(msg, a.keys.CopyAsCurl):
		return a.copyAsCurl()
	case key.Matches(msg, a.keys.CycleFocus):
		a.cycleFocus(false)
		return a, nil
	case key.Matches(msg, a.keys.CycleFocusRev):
		a.cycleFocus(true)
		return a, nil
	case key.Matches(msg, a.keys.ToggleSidebar):
		a.sidebarVisible = !a.sidebarVisible
		a.layout = layout.Calculate(a.width, a.height, a.sidebarVisible)
		a.resizePanels()
		if !a.layout.SidebarReachable() && a.focus == msgs.FocusSidebar {
			a.focus = msgs.FocusEditor
			a.updateFocus()
		}
		return a, nil
	case key.Matches(msg, a.keys.OpenEditor) && a.focus == msgs.FocusEditor:
		return a.openExternalEditor()
	}
	return a.updateFocused(msg)
}

// updateFocused hands a key to the focused panel and applies what it changed.
func (a App) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focus {
	case msgs.FocusSidebar:
		a.sidebar, cmd = a.sidebar.Update(msg)
	case msgs.FocusEditor:
		a.editor, cmd = a.editor.Update(msg)
		a.syncEdit()
		if a.editor.Editing() {
			a.setMode(msgs.ModeInsert)
		} else {
			a.setMode(msgs.ModeNormal)
		}
	case msgs.FocusResponse:
		a.response, cmd = a.response.Update(msg)
	}
	return a, cmd
}

func (a *App) cycleFocus(reverse bool) {
	panels := []msgs.PanelFocus{msgs.FocusSidebar, msgs.FocusEditor, msgs.FocusResponse}
	if !a.layout.SidebarReachable() {
		panels = panels[1:]
	}

	idx := 0
	for i, p := range panels {
		if p == a.focus {
			idx = i
			break
		}
	}
	if reverse {
		idx = (idx - 1 + len(panels)) % len(panels)
	} else {
		idx = (idx + 1) % len(panels)
	}

	a.focus = panels[idx]
	a.updateFocus()
}

func (a *App) updateFocus() {
	a.sidebar.SetFocused(a.focus == msgs.FocusSidebar)
	a.editor.SetFocused(a.focus == msgs.FocusEditor)
	a.response.SetFocused(a.focus == msgs.FocusResponse)
	if a.mode == msgs.ModeInsert && a.focus != msgs.FocusEditor {
		a.setMode(msgs.ModeNormal)
	}
}
