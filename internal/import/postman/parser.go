// Package postman reads Postman Collection v2.1 documents.
package postman

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/request"
)

// ErrFormat is returned when the document lacks an info object or an item array.
var ErrFormat = errors.New("invalid Postman collection format")

// FallbackName names collections imported without info.name.
const FallbackName = "Imported Collection"

type postmanCollection struct {
	Info json.RawMessage `json:"info"`
	Item json.RawMessage `json:"item"`
}

type postmanInfo struct {
	Name string `json:"name"`
}

type postmanItem struct {
	Name    string        `json:"name"`
	Item    []postmanItem `json:"item,omitempty"` // folder
	Request *postmanReq   `json:"request,omitempty"`
}

type postmanReq struct {
	Method string          `json:"method"`
	Header json.RawMessage `json:"header,omitempty"`
	Body   *postmanBody    `json:"body,omitempty"`
	URL    json.RawMessage `json:"url"`
}

type postmanBody struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw"`
}

type postmanKV struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type postmanURLObj struct {
	Raw string `json:"raw"`
}

// Parse converts a Postman collection into a single local collection.
// Requests inside folders are flattened depth-first and named after their
// folder path. Every request gets a fresh local id.
func Parse(data []byte) (*collection.Collection, error) {
	var pc postmanCollection
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !isKind(pc.Info, '{') {
		return nil, fmt.Errorf("%w: missing info object", ErrFormat)
	}
	if !isKind(pc.Item, '[') {
		return nil, fmt.Errorf("%w: missing item array", ErrFormat)
	}

	var info postmanInfo
	if err := json.Unmarshal(pc.Info, &info); err != nil {
		return nil, fmt.Errorf("%w: info: %v", ErrFormat, err)
	}
	var items []postmanItem
	if err := json.Unmarshal(pc.Item, &items); err != nil {
		return nil, fmt.Errorf("%w: item: %v", ErrFormat, err)
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = FallbackName
	}
	col := collection.New(name)
	col.Requests = []request.Draft{}
	flatten(col, items, "")
	return col, nil
}

func isKind(raw json.RawMessage, open byte) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s[0] == open
}

func flatten(col *collection.Collection, items []postmanItem, prefix string) {
	for _, pi := range items {
		name := pi.Name
		if prefix != "" {
			name = prefix + "/" + pi.Name
		}
		if pi.Request != nil {
			col.Add(convertRequest(name, pi.Request))
		}
		if len(pi.Item) > 0 {
			flatten(col, pi.Item, name)
		}
	}
}

func convertRequest(name string, pr *postmanReq) request.Draft {
	d := request.Draft{
		Name:   name,
		Method: strings.ToUpper(strings.TrimSpace(pr.Method)),
		URI:    extractURL(pr.URL),
	}
	if d.Method == "" {
		d.Method = "GET"
	}
	for _, h := range extractHeaders(pr.Header) {
		if h.Disabled || strings.TrimSpace(h.Key) == "" {
			continue
		}
		d.Headers = append(d.Headers, request.Header{Key: h.Key, Value: h.Value})
	}
	if pr.Body != nil {
		d.Body = pr.Body.Raw
	}
	return d
}

func extractURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj postmanURLObj
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Raw
	}
	return ""
}

// decodeHeader reads one header entry. A value that is not a string is kept
// as its JSON text.
func decodeHeader(raw json.RawMessage) (postmanKV, bool) {
	var e struct {
		Key      string          `json:"key"`
		Value    json.RawMessage `json:"value"`
		Disabled bool            `json:"disabled"`
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return postmanKV{}, false
	}
	kv := postmanKV{Key: e.Key, Disabled: e.Disabled}
	if len(e.Value) > 0 && string(e.Value) != "null" {
		if err := json.Unmarshal(e.Value, &kv.Value); err != nil {
			kv.Value = string(e.Value)
		}
	}
	return kv, true
}

// extractHeaders accepts the array form and the legacy "K: V\n" string form.
func extractHeaders(raw json.RawMessage) []postmanKV {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if json.Unmarshal(raw, &entries) == nil {
		var list []postmanKV
		for _, e := range entries {
			if kv, ok := decodeHeader(e); ok {
				list = append(list, kv)
			}
		}
		return list
	}
	var list []postmanKV
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return nil
	}
	for _, line := range strings.Split(s, "\n") {
		h, err := request.ParseHeaderLine(line)
		if err != nil {
			continue
		}
		list = append(list, postmanKV{Key: h.Key, Value: h.Value})
	}
	return list
}
