package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/gopost/internal/core/ident"
)

// DefaultName is the placeholder used for drafts saved without a name.
const DefaultName = "New Request"

// Methods lists the supported HTTP methods in editor cycling order.
var Methods = []string{"GET", "POST", "PUT", "DELETE"}

var (
	ErrNoURI             = errors.New("request URI is required")
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)

// Header is one editable header row.
type Header struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Draft is the in-editor representation of a request.
type Draft struct {
	ID           ident.ID `yaml:"id,omitempty"`
	Name         string   `yaml:"name"`
	URI          string   `yaml:"uri"`
	Method       string   `yaml:"method"`
	Headers      []Header `yaml:"headers,omitempty"`
	Body         string   `yaml:"body,omitempty"`
	CollectionID ident.ID `yaml:"collection_id,omitempty"`
}

// New returns an unsaved draft with the default method.
func New(name, method, uri string) Draft {
	if method == "" {
		method = "GET"
	}
	return Draft{
		Name:   name,
		Method: strings.ToUpper(method),
		URI:    uri,
	}
}

// Saved reports whether the draft carries a server-assigned id.
func (d Draft) Saved() bool {
	return !d.ID.IsZero() && !ident.IsLocal(d.ID)
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	if d.Headers != nil {
		out.Headers = make([]Header, len(d.Headers))
		copy(out.Headers, d.Headers)
	}
	return out
}

// Validate checks the fields the sender needs before any I/O happens.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.URI) == "" {
		return ErrNoURI
	}
	if !SupportedMethod(d.Method) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, d.Method)
	}
	return nil
}

// SupportedMethod reports whether m (in any case) is one of Methods.
// An empty method is treated as GET.
func SupportedMethod(m string) bool {
	if m == "" {
		return true
	}
	m = strings.ToUpper(m)
	for _, s := range Methods {
		if s == m {
			return true
		}
	}
	return false
}

// HasBody reports whether the method carries a request body on send.
func HasBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT":
		return true
	}
	return false
}

// EncodeBody returns the payload to transmit and whether it is JSON.
// A body that parses as JSON is sent compacted; anything else is sent as the
// raw string.
func (d Draft) EncodeBody() ([]byte, bool) {
	if d.Body == "" {
		return nil, false
	}
	if !json.Valid([]byte(d.Body)) {
		return []byte(d.Body), false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(d.Body)); err != nil {
		return []byte(d.Body), false
	}
	return buf.Bytes(), true
}

// Header returns the value for key using a case-insensitive match.
func (d Draft) Header(key string) (string, bool) {
	for _, h := range d.Headers {
		if strings.EqualFold(strings.TrimSpace(h.Key), key) {
			return h.Value, true
		}
	}
	return "", false
}

// ParseHeaderLine splits a "Key: Value" line as typed on the command line.
func ParseHeaderLine(line string) (Header, error) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return Header{}, fmt.Errorf("invalid header %q: expected \"Key: Value\"", line)
	}
	k = strings.TrimSpace(k)
	if k == "" {
		return Header{}, fmt.Errorf("invalid header %q: empty key", line)
	}
	return Header{Key: k, Value: strings.TrimSpace(v)}, nil
}
