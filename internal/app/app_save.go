package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/ui/msgs"
)

var errNoCollection = errors.New("no collection selected")

func (a App) loadCollections() tea.Cmd {
	tree, timeout := a.ws.Tree, a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cols, err := tree.ListCollections(ctx)
		return msgs.CollectionsLoadedMsg{Collections: cols, Err: err}
	}
}

func (a App) handleCollectionsLoaded(msg msgs.CollectionsLoadedMsg) (tea.Model, tea.Cmd) {
	a.syncRows()
	if msg.Err != nil {
		return a, a.fail("Loading collections", msg.Err)
	}
	a.statusBar.SetMessage(fmt.Sprintf("%d collections", len(msg.Collections)))

	// Collections left expanded across a refresh are fetched again.
	var cmds []tea.Cmd
	for _, c := range msg.Collections {
		if a.ws.Tree.Expanded(c.ID) && !a.ws.Tree.Loaded(c.ID) {
			a.sidebar.SetLoading(c.ID, true)
			cmds = append(cmds, a.reloadCollection(c.ID))
		}
	}
	return a, tea.Batch(cmds...)
}

func (a App) expandCollection(id ident.ID) (tea.Model, tea.Cmd) {
	if !a.ws.Tree.Loaded(id) {
		a.sidebar.SetLoading(id, true)
	}
	tree, timeout := a.ws.Tree, a.timeout()
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fetched, err := tree.Expand(ctx, id)
		return msgs.CollectionExpandedMsg{ID: id, Fetched: fetched, Err: err}
	}
}

// reloadCollection refetches id without toggling it.
func (a App) reloadCollection(id ident.ID) tea.Cmd {
	tree, timeout := a.ws.Tree, a.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := tree.Reload(ctx, id)
		return msgs.CollectionExpandedMsg{ID: id, Fetched: err == nil, Err: err}
	}
}

// newRequest starts an unsaved draft in collectionID, defaulting to the
// collection of the sidebar selection and then of the current draft.
func (a App) newRequest(collectionID ident.ID) (tea.Model, tea.Cmd) {
	if collectionID.IsZero() {
		if row, ok := a.sidebar.Selected(); ok {
			collectionID = row.Collection.ID
		} else {
			collectionID = a.ws.Draft.CollectionID
		}
	}
	a.ws.NewDraft(collectionID)
	a.loadDraft()
	a.focus = msgs.FocusEditor
	a.updateFocus()
	a.setMode(msgs.ModeInsert)
	cmd := a.editor.FocusURL()
	return a, cmd
}

// saveRequest creates the draft when it has no server id and updates it
// otherwise. Drafts in local collections are written to their workspace file.
func (a App) saveRequest() (tea.Model, tea.Cmd) {
	d := a.ws.Draft.Clone()
	if d.CollectionID.IsZero() {
		return a, a.fail("Save", errNoCollection)
	}
	a.statusBar.SetMessage("Saving " + displayName(d) + "...")

	if a.ws.Tree.IsLocal(d.CollectionID) {
		return a, a.saveLocal(d)
	}

	backend, timeout := a.backend, a.timeout()
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if d.Saved() {
			saved, err := backend.UpdateRequest(ctx, d)
			return msgs.RequestSavedMsg{SentID: d.ID, Draft: saved, Err: err}
		}
		saved, err := backend.CreateRequest(ctx, d.CollectionID, d)
		return msgs.RequestSavedMsg{SentID: d.ID, Draft: saved, Created: true, Err: err}
	}
}

func (a App) saveLocal(d request.Draft) tea.Cmd {
	tree := a.ws.Tree
	path := a.localFiles[d.CollectionID]
	return func() tea.Msg {
		tree.PutRequest(d)
		if err := writeLocal(tree, d.CollectionID, path); err != nil {
			return msgs.RequestSavedMsg{SentID: d.ID, Draft: d, Err: err}
		}
		return msgs.RequestSavedMsg{SentID: d.ID, Draft: d}
	}
}

func (a App) handleSaved(msg msgs.RequestSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return a, a.fail("Save", msg.Err)
	}
	// The user may have moved on while the save was in flight.
	if a.ws.ApplySaved(msg.SentID, msg.Draft) {
		a.loadDraft()
	}
	a.syncRows()

	cmds := []tea.Cmd{a.notify(a.ws.Status)}
	id := msg.Draft.CollectionID
	if id.IsZero() {
		id = a.ws.Draft.CollectionID
	}
	if !a.ws.Tree.IsLocal(id) && a.ws.Tree.Expanded(id) {
		a.sidebar.SetLoading(id, true)
		cmds = append(cmds, a.reloadCollection(id))
	}
	return a, tea.Batch(cmds...)
}

// deleteRequest removes the current draft. An unsaved remote draft is just
// discarded.
func (a App) deleteRequest() (tea.Model, tea.Cmd) {
	d := a.ws.Draft.Clone()

	if a.ws.Tree.IsLocal(d.CollectionID) {
		tree := a.ws.Tree
		path := a.localFiles[d.CollectionID]
		return a, func() tea.Msg {
			tree.RemoveRequest(d.CollectionID, d.ID)
			return msgs.RequestDeletedMsg{Draft: d, Err: writeLocal(tree, d.CollectionID, path)}
		}
	}
	if !d.Saved() {
		return a, func() tea.Msg { return msgs.RequestDeletedMsg{Draft: d} }
	}

	backend, timeout := a.backend, a.timeout()
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return msgs.RequestDeletedMsg{Draft: d, Err: backend.DeleteRequest(ctx, d.ID)}
	}
}

func (a App) handleDeleted(msg msgs.RequestDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return a, a.fail("Delete", msg.Err)
	}
	a.ws.ApplyDeleted(msg.Draft)
	a.loadDraft()
	a.syncRows()

	cmds := []tea.Cmd{a.notify(a.ws.Status)}
	id := msg.Draft.CollectionID
	if !id.IsZero() && msg.Draft.Saved() && !a.ws.Tree.IsLocal(id) && a.ws.Tree.Expanded(id) {
		a.sidebar.SetLoading(id, true)
		cmds = append(cmds, a.reloadCollection(id))
	}
	return a, tea.Batch(cmds...)
}

// writeLocal rewrites the workspace file of a local collection. Collections
// with no file stay in memory.
func writeLocal(tree *collection.Tree, id ident.ID, path string) error {
	if path == "" {
		return nil
	}
	col, ok := tree.Collection(id)
	if !ok {
		return fmt.Errorf("%w: %s", collection.ErrUnknownCollection, id)
	}
	if err := collection.SaveToFile(&col, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func displayName(d request.Draft) string {
	if d.Name != "" {
		return d.Name
	}
	return request.DefaultName
}
