package history

import (
	"encoding/json"
	"time"

	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// Entry is one sent request and the summary of its response.
type Entry struct {
	ID          int64
	Name        string
	Method      string
	URL         string
	StatusCode  int
	Status      string
	Duration    time.Duration
	Size        int64
	ContentType string
	RequestBody string
	Headers     string // JSON-encoded request headers
	Timestamp   time.Time
}

// NewEntry summarizes a completed exchange.
func NewEntry(d request.Draft, snap response.Snapshot, at time.Time) Entry {
	headers := "[]"
	if len(d.Headers) > 0 {
		if data, err := json.Marshal(d.Headers); err == nil {
			headers = string(data)
		}
	}
	body := ""
	if request.HasBody(d.Method) {
		body = d.Body
	}
	return Entry{
		Name:        d.Name,
		Method:      d.Method,
		URL:         d.URI,
		StatusCode:  snap.StatusCode,
		Status:      snap.Status,
		Duration:    snap.Elapsed,
		Size:        int64(snap.Size),
		ContentType: snap.ContentType,
		RequestBody: body,
		Headers:     headers,
		Timestamp:   at,
	}
}

// Draft rebuilds the request that produced the entry.
func (e Entry) Draft() request.Draft {
	d := request.New(e.Name, e.Method, e.URL)
	d.Body = e.RequestBody
	if e.Headers != "" {
		_ = json.Unmarshal([]byte(e.Headers), &d.Headers)
	}
	return d
}
