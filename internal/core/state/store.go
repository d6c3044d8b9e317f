package state

import (
	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// Workspace holds the state of one editing session.
type Workspace struct {
	Tree       *collection.Tree
	Classifier *response.Classifier

	Draft    request.Draft
	Modified bool
	Snapshot response.Snapshot
	Status   string
}

// NewWorkspace creates a workspace with an empty draft selected.
func NewWorkspace(tree *collection.Tree, classifier *response.Classifier) *Workspace {
	w := &Workspace{Tree: tree, Classifier: classifier}
	w.NewDraft("")
	return w
}

// Select makes a copy of d the draft being edited.
func (w *Workspace) Select(d request.Draft) {
	w.Draft = d.Clone()
	w.Modified = false
}

// NewDraft starts an unsaved draft in collectionID (which may be empty).
func (w *Workspace) NewDraft(collectionID ident.ID) {
	d := request.New(request.DefaultName, "GET", "")
	d.ID = ident.NewLocal()
	d.CollectionID = collectionID
	w.Draft = d
	w.Modified = false
}

// Edit replaces the draft with the editor's current values.
func (w *Workspace) Edit(d request.Draft) {
	d.ID = w.Draft.ID
	if d.CollectionID.IsZero() {
		d.CollectionID = w.Draft.CollectionID
	}
	w.Draft = d
	w.Modified = true
}

// ApplySaved records the outcome of saving the draft that had id sentID and
// invalidates the owning collection so it is fetched again. The server's copy
// replaces the draft only when that draft is still selected; it reports
// whether it did.
func (w *Workspace) ApplySaved(sentID ident.ID, saved request.Draft) bool {
	if saved.ID.IsZero() {
		saved.ID = sentID
	}
	current := w.Draft.ID == sentID
	if saved.CollectionID.IsZero() && current {
		saved.CollectionID = w.Draft.CollectionID
	}
	if w.Tree != nil && !saved.CollectionID.IsZero() {
		w.Tree.Invalidate(saved.CollectionID)
	}
	w.Status = "Saved " + displayName(saved)
	if !current {
		return false
	}
	w.Draft = saved.Clone()
	w.Modified = false
	return true
}

// ApplyDeleted forgets a deleted request. When it was the selected draft a
// fresh draft in the same collection replaces it.
func (w *Workspace) ApplyDeleted(d request.Draft) {
	if w.Tree != nil && !d.CollectionID.IsZero() {
		w.Tree.Invalidate(d.CollectionID)
	}
	if w.Draft.ID == d.ID {
		w.NewDraft(d.CollectionID)
	}
	w.Status = "Deleted " + displayName(d)
}

// Fail records an error without touching the draft.
func (w *Workspace) Fail(action string, err error) {
	w.Status = action + " failed: " + err.Error()
}

// Receive classifies raw and stores the snapshot.
func (w *Workspace) Receive(raw *response.Raw) response.Snapshot {
	w.SetSnapshot(w.Classifier.Classify(raw))
	return w.Snapshot
}

// SetSnapshot replaces the current response.
func (w *Workspace) SetSnapshot(s response.Snapshot) {
	w.Snapshot = s
	w.Status = s.Status
}

// Close releases resources held by the current response.
func (w *Workspace) Close() {
	if w.Classifier != nil {
		w.Classifier.Release()
	}
}

func displayName(d request.Draft) string {
	if d.Name != "" {
		return d.Name
	}
	return request.DefaultName
}
