package request

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/sadopc/gopost/internal/core/ident"
)

// Wire is the request shape exchanged with the collection API. Header values
// are always arrays of strings on the wire.
type Wire struct {
	ID           ident.ID            `json:"id,omitempty"`
	Name         string              `json:"name"`
	URI          string              `json:"uri"`
	Method       string              `json:"method"`
	Headers      map[string][]string `json:"headers"`
	Body         string              `json:"body"`
	CollectionID ident.ID            `json:"collectionId,omitempty"`
}

// wireJSON mirrors Wire with loosely typed fields for decoding.
type wireJSON struct {
	ID           ident.ID        `json:"id"`
	Name         string          `json:"name"`
	URI          string          `json:"uri"`
	Method       string          `json:"method"`
	Headers      json.RawMessage `json:"headers"`
	Body         json.RawMessage `json:"body"`
	CollectionID ident.ID        `json:"collectionId"`
}

// UnmarshalJSON decodes API payloads leniently: headers may be an object of
// arrays or of scalars and fall back to empty when malformed; a non-string
// body is kept as its compact JSON text.
func (w *Wire) UnmarshalJSON(data []byte) error {
	var raw wireJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Wire{
		ID:           raw.ID,
		Name:         raw.Name,
		URI:          raw.URI,
		Method:       raw.Method,
		Headers:      decodeHeaders(raw.Headers),
		Body:         decodeBody(raw.Body),
		CollectionID: raw.CollectionID,
	}
	return nil
}

func decodeHeaders(raw json.RawMessage) map[string][]string {
	out := map[string][]string{}
	if len(raw) == 0 {
		return out
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return out
	}
	for k, v := range obj {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = list
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = []string{s}
			continue
		}
		var anyList []any
		if err := json.Unmarshal(v, &anyList); err == nil {
			vals := make([]string, 0, len(anyList))
			for _, item := range anyList {
				vals = append(vals, scalarText(item))
			}
			out[k] = vals
			continue
		}
		var scalar any
		if err := json.Unmarshal(v, &scalar); err == nil && scalar != nil {
			out[k] = []string{scalarText(scalar)}
		}
	}
	return out
}

func decodeBody(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// ToWire converts a draft into the API shape. Header keys are trimmed, blank
// keys dropped and duplicates collapsed with the last value winning. An empty
// name is replaced by placeholder and an empty method by GET.
func ToWire(d Draft, placeholder string) Wire {
	w := Wire{
		ID:           d.ID,
		Name:         d.Name,
		URI:          d.URI,
		Method:       strings.ToUpper(strings.TrimSpace(d.Method)),
		Headers:      make(map[string][]string, len(d.Headers)),
		Body:         d.Body,
		CollectionID: d.CollectionID,
	}
	if ident.IsLocal(w.ID) {
		w.ID = ""
	}
	if strings.TrimSpace(w.Name) == "" {
		w.Name = placeholder
	}
	if w.Method == "" {
		w.Method = "GET"
	}
	for _, h := range d.Headers {
		key := strings.TrimSpace(h.Key)
		if key == "" {
			continue
		}
		w.Headers[key] = []string{h.Value}
	}
	return w
}

// ToDraft converts an API payload into the editing shape. Each header keeps
// its first value; rows are sorted by key so the editor order is stable.
func ToDraft(w Wire) Draft {
	d := Draft{
		ID:           w.ID,
		Name:         w.Name,
		URI:          w.URI,
		Method:       strings.ToUpper(strings.TrimSpace(w.Method)),
		Body:         w.Body,
		CollectionID: w.CollectionID,
	}
	if d.Method == "" {
		d.Method = "GET"
	}
	keys := make([]string, 0, len(w.Headers))
	for k := range w.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vals := w.Headers[k]
		value := ""
		if len(vals) > 0 {
			value = vals[0]
		}
		d.Headers = append(d.Headers, Header{Key: k, Value: value})
	}
	return d
}
