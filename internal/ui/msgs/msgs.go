// Package msgs holds the tea.Msg types exchanged between the root model and
// its panels.
package msgs

import (
	"time"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// PanelFocus identifies a panel.
type PanelFocus int

const (
	FocusSidebar PanelFocus = iota
	FocusEditor
	FocusResponse
)

// AppMode is the current input mode.
type AppMode int

const (
	ModeNormal AppMode = iota
	ModeInsert
	ModeFilter
)

func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeFilter:
		return "FILTER"
	default:
		return "UNKNOWN"
	}
}

// FocusPanelMsg moves focus to Panel.
type FocusPanelMsg struct {
	Panel PanelFocus
}

// SetModeMsg changes the input mode.
type SetModeMsg struct {
	Mode AppMode
}

// CollectionsLoadedMsg reports the outcome of listing collections.
type CollectionsLoadedMsg struct {
	Collections []collection.Collection
	Err         error
}

// ExpandCollectionMsg asks the root model to expand or collapse a collection.
type ExpandCollectionMsg struct {
	ID ident.ID
}

// CollectionExpandedMsg is emitted after a collection was toggled, with
// Fetched set when its requests came from the backend.
type CollectionExpandedMsg struct {
	ID      ident.ID
	Fetched bool
	Err     error
}

// RefreshMsg reloads the collection list and drops cached requests.
type RefreshMsg struct{}

// RequestSelectedMsg loads a request into the editor.
type RequestSelectedMsg struct {
	Draft request.Draft
}

// NewRequestMsg starts an unsaved request in CollectionID.
type NewRequestMsg struct {
	CollectionID ident.ID
}

// SendRequestMsg sends the request being edited.
type SendRequestMsg struct{}

// ResponseMsg carries the outcome of sending Draft.
type ResponseMsg struct {
	Draft request.Draft
	Raw   *response.Raw
	Err   error
}

// SaveRequestMsg saves the request being edited.
type SaveRequestMsg struct{}

// RequestSavedMsg carries the outcome of a create or update.
// SentID is the id the draft had when the save started.
type RequestSavedMsg struct {
	SentID  ident.ID
	Draft   request.Draft
	Created bool
	Err     error
}

// DeleteRequestMsg deletes the request being edited.
type DeleteRequestMsg struct{}

// RequestDeletedMsg carries the outcome of a delete.
type RequestDeletedMsg struct {
	Draft request.Draft
	Err   error
}

// CopyAsCurlMsg copies the current request as a curl command.
type CopyAsCurlMsg struct{}

// CopyMsg puts Text on the clipboard.
type CopyMsg struct {
	Text  string
	Label string
}

// OpenURLMsg opens a served resource in the system browser.
type OpenURLMsg struct {
	URL string
}

// OpenEditorMsg opens the request body in the configured external editor.
type OpenEditorMsg struct{}

// EditorDoneMsg returns the body text after the external editor exits.
type EditorDoneMsg struct {
	Content string
	Err     error
}

// StatusMsg sets the status bar message.
type StatusMsg struct {
	Text string
}

// ToastMsg shows a toast notification.
type ToastMsg struct {
	Text     string
	Duration time.Duration
	IsError  bool
}
