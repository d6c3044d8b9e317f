package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"

	"github.com/sadopc/gopost/internal/core/blob"
)

const defaultContentType = "text/plain"

// Classifier turns Raw responses into Snapshots. It owns at most one live
// blob URL: each classification revokes the URL minted for the previous one.
type Classifier struct {
	mu      sync.Mutex
	store   *blob.Store
	current blob.URL
	logger  *slog.Logger
}

// NewClassifier returns a classifier minting URLs in store.
func NewClassifier(store *blob.Store, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{store: store, logger: logger}
}

// Current returns the live URL, if any.
func (c *Classifier) Current() blob.URL {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Release revokes the live URL.
func (c *Classifier) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

func (c *Classifier) releaseLocked() {
	if c.current == "" {
		return
	}
	c.store.Revoke(c.current)
	c.current = ""
}

// Classify builds a snapshot of raw according to its Content-Type.
func (c *Classifier) Classify(raw *Raw) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()

	contentType := ""
	if raw.Header != nil {
		contentType = raw.Header.Get("Content-Type")
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	snap := Snapshot{
		Status:      statusLine(raw.StatusCode, raw.StatusText),
		StatusCode:  raw.StatusCode,
		Size:        len(raw.Body),
		SizeKB:      float64(len(raw.Body)) / 1024,
		ContentType: contentType,
		Header:      raw.Header,
	}
	if !raw.Started.IsZero() && !raw.Finished.IsZero() {
		snap.Elapsed = raw.Finished.Sub(raw.Started)
		snap.ElapsedMs = snap.Elapsed.Milliseconds()
	}

	lower := strings.ToLower(contentType)
	switch {
	case strings.Contains(lower, "application/json"):
		text := decodeText(raw.Body, contentType)
		v, err := parseJSON(text)
		if err != nil {
			c.logger.Debug("json body did not parse, showing as text", "error", err)
			snap.Kind = KindText
			snap.Body.Text = text
			break
		}
		snap.Kind = KindJSON
		snap.Body.JSON = v
	case strings.Contains(lower, "text/html"):
		snap.Kind = KindHTML
		snap.Body.Text = decodeText(raw.Body, contentType)
	case strings.Contains(lower, "application/pdf"):
		snap.Kind = KindPDF
		snap.NeedsSanitize = true
		c.current = c.store.Mint(raw.Body, "application/pdf", true)
		snap.Body.Resource = c.current
	case strings.Contains(lower, "image"):
		snap.Kind = KindImage
		c.current = c.store.Mint(raw.Body, imageType(contentType), false)
		snap.Body.Resource = c.current
	default:
		snap.Kind = KindText
		snap.Body.Text = decodeText(raw.Body, contentType)
	}
	return snap
}

// Classify is a one-shot helper for callers that do not keep a Classifier.
func Classify(store *blob.Store, raw *Raw) Snapshot {
	return NewClassifier(store, nil).Classify(raw)
}

// parseJSON decodes a single JSON document keeping numbers as json.Number.
func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func statusLine(code int, text string) string {
	if text == "" {
		text = http.StatusText(code)
	}
	// Go's http.Response.Status already carries the code.
	if prefix := fmt.Sprintf("%d ", code); strings.HasPrefix(text, prefix) {
		text = strings.TrimPrefix(text, prefix)
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", code, text))
}

// imageType keeps the declared image subtype, defaulting to octet-stream
// when the header cannot be parsed.
func imageType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mt, "image/") {
		return "application/octet-stream"
	}
	return mt
}

// decodeText converts body to UTF-8 using the declared charset. Without a
// charset, or with an unknown one, the bytes are used as they are.
func decodeText(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	label := params["charset"]
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return string(body)
	}
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return string(body)
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}
