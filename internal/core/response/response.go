// Package response classifies raw HTTP responses into displayable snapshots.
package response

import (
	"net/http"
	"time"

	"github.com/sadopc/gopost/internal/core/blob"
)

// Kind is the display category of a response body.
type Kind string

const (
	KindJSON  Kind = "json"
	KindHTML  Kind = "html"
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// Binary reports whether bodies of this kind are held behind a blob URL.
func (k Kind) Binary() bool {
	return k == KindPDF || k == KindImage
}

// Raw is what a sender hands back before classification.
type Raw struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
	Started    time.Time
	Finished   time.Time
}

// Body holds exactly one of its fields, chosen by the snapshot Kind.
type Body struct {
	JSON     any
	Text     string
	Resource blob.URL
}

// Snapshot is a classified response.
type Snapshot struct {
	Status        string
	StatusCode    int
	Elapsed       time.Duration
	ElapsedMs     int64
	SizeKB        float64
	Size          int
	ContentType   string
	Kind          Kind
	Body          Body
	Header        http.Header
	NeedsSanitize bool
}

// Empty reports whether no response has been classified into s.
func (s Snapshot) Empty() bool {
	return s.Kind == "" && s.Status == ""
}
