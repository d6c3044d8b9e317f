// Package postman writes Postman Collection v2.1 documents.
package postman

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/request"
)

// SchemaURL identifies the Postman v2.1.0 collection format.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

type postmanCollection struct {
	Info postmanInfo   `json:"info"`
	Item []postmanItem `json:"item"`
}

type postmanInfo struct {
	PostmanID string `json:"_postman_id"`
	Name      string `json:"name"`
	Schema    string `json:"schema"`
}

type postmanItem struct {
	Name    string     `json:"name"`
	Request postmanReq `json:"request"`
}

type postmanReq struct {
	Method string       `json:"method"`
	Header []postmanKV  `json:"header"`
	Body   *postmanBody `json:"body,omitempty"`
	URL    postmanURL   `json:"url"`
}

type postmanBody struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw"`
}

type postmanKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanURL struct {
	Raw string `json:"raw"`
}

// Export converts a collection to Postman Collection v2.1 JSON.
func Export(col *collection.Collection) ([]byte, error) {
	if col == nil {
		return nil, fmt.Errorf("collection is nil")
	}

	pc := postmanCollection{
		Info: postmanInfo{
			PostmanID: uuid.New().String(),
			Name:      col.Name,
			Schema:    SchemaURL,
		},
		Item: make([]postmanItem, 0, len(col.Requests)),
	}
	for _, d := range col.Requests {
		pc.Item = append(pc.Item, postmanItem{
			Name:    d.Name,
			Request: exportRequest(d),
		})
	}

	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding postman collection: %w", err)
	}
	return data, nil
}

func exportRequest(d request.Draft) postmanReq {
	method := d.Method
	if method == "" {
		method = "GET"
	}
	pr := postmanReq{
		Method: method,
		Header: make([]postmanKV, 0, len(d.Headers)),
		URL:    postmanURL{Raw: d.URI},
	}
	for _, h := range d.Headers {
		if h.Key == "" {
			continue
		}
		pr.Header = append(pr.Header, postmanKV{Key: h.Key, Value: h.Value})
	}
	if d.Body != "" {
		pr.Body = &postmanBody{Mode: "raw", Raw: d.Body}
	}
	return pr
}
