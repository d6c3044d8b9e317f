// Package app is the root Bubble Tea model tying the panels to the
// workspace, the backend and the sender.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gopost/internal/config"
	"github.com/sadopc/gopost/internal/core/history"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/state"
	"github.com/sadopc/gopost/internal/transport"
	"github.com/sadopc/gopost/internal/ui/components"
	"github.com/sadopc/gopost/internal/ui/layout"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/panels/editor"
	"github.com/sadopc/gopost/internal/ui/panels/response"
	"github.com/sadopc/gopost/internal/ui/panels/sidebar"
	"github.com/sadopc/gopost/internal/ui/theme"
)

const (
	toastShort = 2 * time.Second
	toastError = 4 * time.Second
)

// Backend stores requests. *api.Client implements it.
type Backend interface {
	CreateRequest(ctx context.Context, collectionID ident.ID, d request.Draft) (request.Draft, error)
	UpdateRequest(ctx context.Context, d request.Draft) (request.Draft, error)
	DeleteRequest(ctx context.Context, id ident.ID) error
}

// Options wires the model to its collaborators. Workspace, Backend and
// Sender are required.
type Options struct {
	Config    config.Config
	Workspace *state.Workspace
	Backend   Backend
	Sender    transport.Sender
	History   *history.Store
	Logger    *slog.Logger

	// LocalFiles maps local collections to the workspace files they were
	// loaded from; saves to those collections rewrite the file.
	LocalFiles map[ident.ID]string
}

// App is the root Bubble Tea model.
type App struct {
	sidebar  sidebar.Model
	editor   editor.Model
	response response.Model

	statusBar components.StatusBar
	toast     components.Toast

	ws         *state.Workspace
	backend    Backend
	sender     transport.Sender
	history    *history.Store
	cfg        config.Config
	logger     *slog.Logger
	localFiles map[ident.ID]string

	copyText func(string) error
	openURL  func(string) error

	mode           msgs.AppMode
	focus          msgs.PanelFocus
	sidebarVisible bool
	layout         layout.PanelLayout
	keys           KeyMap

	theme  theme.Theme
	styles theme.Styles

	width  int
	height int
	ready  bool
}

// New creates the root model.
func New(opts Options) App {
	t := theme.Resolve(opts.Config.Theme)
	s := theme.NewStyles(t)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := App{
		sidebar:  sidebar.New(t, s),
		editor:   editor.New(s),
		response: response.New(t, s),

		statusBar: components.NewStatusBar(t),
		toast:     components.NewToast(t),

		ws:         opts.Workspace,
		backend:    opts.Backend,
		sender:     opts.Sender,
		history:    opts.History,
		cfg:        opts.Config,
		logger:     logger,
		localFiles: opts.LocalFiles,

		copyText: clipboard.WriteAll,
		openURL:  openInBrowser,

		mode:           msgs.ModeNormal,
		focus:          msgs.FocusSidebar,
		sidebarVisible: true,
		keys:           DefaultKeyMap(),

		theme:  t,
		styles: s,
	}
	if a.localFiles == nil {
		a.localFiles = map[ident.ID]string{}
	}

	a.statusBar.SetSendMode(opts.Config.SendMode)
	a.loadDraft()
	a.syncRows()
	a.updateFocus()
	return a
}

// Init loads the collection list.
func (a App) Init() tea.Cmd {
	return a.loadCollections()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = layout.Calculate(msg.Width, msg.Height, a.sidebarVisible)
		if a.focus == msgs.FocusSidebar && !a.layout.SidebarReachable() {
			a.focus = msgs.FocusEditor
		}
		a.resizePanels()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case msgs.CollectionsLoadedMsg:
		return a.handleCollectionsLoaded(msg)

	case msgs.ExpandCollectionMsg:
		return a.expandCollection(msg.ID)

	case msgs.CollectionExpandedMsg:
		a.sidebar.SetLoading(msg.ID, false)
		a.syncRows()
		if msg.Err != nil {
			return a, a.fail("Loading requests", msg.Err)
		}
		return a, nil

	case msgs.RefreshMsg:
		a.ws.Tree.InvalidateAll()
		a.statusBar.SetMessage("Refreshing...")
		return a, a.loadCollections()

	case msgs.RequestSelectedMsg:
		a.ws.Select(msg.Draft)
		a.loadDraft()
		a.focus = msgs.FocusEditor
		a.updateFocus()
		return a, nil

	case msgs.NewRequestMsg:
		return a.newRequest(msg.CollectionID)

	case msgs.SendRequestMsg:
		return a.sendRequest()

	case msgs.ResponseMsg:
		return a.handleResponse(msg)

	case msgs.SaveRequestMsg:
		return a.saveRequest()

	case msgs.RequestSavedMsg:
		return a.handleSaved(msg)

	case msgs.DeleteRequestMsg:
		return a.deleteRequest()

	case msgs.RequestDeletedMsg:
		return a.handleDeleted(msg)

	case msgs.CopyAsCurlMsg:
		return a.copyAsCurl()

	case msgs.CopyMsg:
		return a, a.copyCmd(msg.Text, msg.Label)

	case msgs.OpenURLMsg:
		return a, a.openCmd(msg.URL)

	case msgs.OpenEditorMsg:
		return a.openExternalEditor()

	case msgs.EditorDoneMsg:
		if msg.Err != nil {
			return a, a.fail("External editor", msg.Err)
		}
		a.editor.SetBody(msg.Content)
		a.syncEdit()
		return a, a.toast.Show("Body updated from editor", false, toastShort)

	case msgs.SetModeMsg:
		a.setMode(msg.Mode)
		return a, nil

	case msgs.FocusPanelMsg:
		a.focus = msg.Panel
		a.updateFocus()
		return a, nil

	case msgs.ToastMsg:
		d := msg.Duration
		if d == 0 {
			d = toastShort
		}
		return a, a.toast.Show(msg.Text, msg.IsError, d)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.toast, cmd = a.toast.Update(msg)
	cmds = append(cmds, cmd)
	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)
	a.response, cmd = a.response.Update(msg)
	cmds = append(cmds, cmd)
	switch {
	case a.focus == msgs.FocusEditor:
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
	case a.sidebar.Filtering():
		a.sidebar, cmd = a.sidebar.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// fail records err on the workspace and reports it in the status bar and a
// toast.
func (a *App) fail(action string, err error) tea.Cmd {
	a.ws.Fail(action, err)
	a.logger.Warn(strings.ToLower(action)+" failed", "error", err)
	a.statusBar.SetMessage(a.ws.Status)
	return a.toast.Show(a.ws.Status, true, toastError)
}

func (a *App) notify(text string) tea.Cmd {
	a.statusBar.SetMessage(text)
	return a.toast.Show(text, false, toastShort)
}

// loadDraft shows the workspace draft in the editor.
func (a *App) loadDraft() {
	a.editor.LoadDraft(a.ws.Draft)
	a.editor.SetModified(a.ws.Modified, a.persisted())
	if a.mode == msgs.ModeInsert {
		a.setMode(msgs.ModeNormal)
	}
}

// persisted reports whether the draft exists on the backend or in its local
// collection.
func (a App) persisted() bool {
	d := a.ws.Draft
	if d.Saved() {
		return true
	}
	if !a.ws.Tree.IsLocal(d.CollectionID) {
		return false
	}
	reqs, _ := a.ws.Tree.Requests(d.CollectionID)
	for _, r := range reqs {
		if r.ID == d.ID {
			return true
		}
	}
	return false
}

// syncEdit moves editor changes into the workspace.
func (a *App) syncEdit() {
	if !a.editor.Changed() {
		return
	}
	a.ws.Edit(a.editor.Draft())
	a.editor.ClearChanged()
	a.editor.SetModified(true, a.persisted())
}

func (a *App) syncRows() {
	a.sidebar.SetRows(a.ws.Tree.Rows())
	for _, c := range a.ws.Tree.Collections() {
		a.sidebar.MarkLocal(c.ID, a.ws.Tree.IsLocal(c.ID))
	}
}

func (a *App) setMode(mode msgs.AppMode) {
	a.mode = mode
	a.statusBar.SetMode(mode)
}

func (a *App) resizePanels() {
	l := a.layout
	a.sidebar.SetSize(l.SidebarWidth, l.ContentHeight)
	a.editor.SetSize(l.EditorWidth, l.ContentHeight)
	a.response.SetSize(l.ResponseWidth, l.ContentHeight)
	a.statusBar.SetWidth(a.width)
	a.updateFocus()
}

func (a App) timeout() time.Duration {
	if a.cfg.DefaultTimeout > 0 {
		return a.cfg.DefaultTimeout
	}
	return transport.DefaultTimeout
}

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var panels string
	if a.layout.Mode == layout.Single {
		switch a.focus {
		case msgs.FocusSidebar:
			panels = a.sidebar.View()
		case msgs.FocusEditor:
			panels = a.editor.View()
		case msgs.FocusResponse:
			panels = a.response.View()
		}
	} else {
		var views []string
		if a.layout.ShowsSidebar() {
			views = append(views, a.sidebar.View())
		}
		views = append(views, a.editor.View(), a.response.View())
		panels = lipgloss.JoinHorizontal(lipgloss.Top, views...)
	}

	main := lipgloss.JoinVertical(lipgloss.Left, a.header(), panels, a.statusBar.View())
	if a.toast.Visible {
		main = overlayTopRight(main, a.toast.View(), a.width)
	}
	return main
}

func (a App) header() string {
	title := a.styles.Title.Render("gopost")
	target := a.styles.Muted.Render(" " + a.cfg.BaseURL)
	hints := make([]string, 0, len(a.keys.Hints()))
	for _, b := range a.keys.Hints() {
		h := b.Help()
		hints = append(hints, a.styles.Key.Render(h.Key)+" "+a.styles.Hint.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(target) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(a.width).Render(title + target)
	}
	return title + target + strings.Repeat(" ", gap) + right
}

// overlayTopRight replaces the first line of bg with overlay aligned right.
func overlayTopRight(bg, overlay string, width int) string {
	lines := strings.Split(bg, "\n")
	if len(lines) == 0 {
		return overlay
	}
	gap := max(width-lipgloss.Width(overlay)-1, 0)
	lines[0] = strings.Repeat(" ", gap) + overlay
	return strings.Join(lines, "\n")
}
