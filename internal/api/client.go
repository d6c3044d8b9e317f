// Package api is the client for the collection storage backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

const defaultTimeout = 30 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api: %d %s", e.Code, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// Client talks to the collection API. Every call carries the apiKey query
// parameter.
type Client struct {
	baseURL     string
	apiKey      string
	placeholder string
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ collection.Source = (*Client)(nil)

// New returns a client for baseURL.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		placeholder: request.DefaultName,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      slog.Default(),
	}
}

// SetTimeout sets the HTTP timeout; zero keeps the default.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetLogger replaces the logger; nil keeps the current one.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetPlaceholderName sets the name used for requests saved without one.
func (c *Client) SetPlaceholderName(name string) {
	if name != "" {
		c.placeholder = name
	}
}

// SetHTTPClient swaps the underlying client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// ListCollections returns all collections without their requests.
func (c *Client) ListCollections(ctx context.Context) ([]collection.Collection, error) {
	var cols []collection.Collection
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &cols); err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return cols, nil
}

// ListRequests returns the requests of a collection.
func (c *Client) ListRequests(ctx context.Context, collectionID ident.ID) ([]request.Draft, error) {
	var wires []request.Wire
	path := "/collections/" + url.PathEscape(collectionID.String()) + "/requests"
	if err := c.do(ctx, http.MethodGet, path, nil, &wires); err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	drafts := make([]request.Draft, 0, len(wires))
	for _, w := range wires {
		d := request.ToDraft(w)
		if d.CollectionID.IsZero() {
			d.CollectionID = collectionID
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// CreateRequest stores d in a collection and returns the saved draft with
// its server id.
func (c *Client) CreateRequest(ctx context.Context, collectionID ident.ID, d request.Draft) (request.Draft, error) {
	d.CollectionID = collectionID
	w := request.ToWire(d, c.placeholder)
	w.ID = ""

	var saved request.Wire
	path := "/collections/" + url.PathEscape(collectionID.String()) + "/requests"
	if err := c.do(ctx, http.MethodPost, path, w, &saved); err != nil {
		return request.Draft{}, fmt.Errorf("creating request: %w", err)
	}
	return c.merge(d, saved, collectionID), nil
}

// UpdateRequest replaces a saved request.
func (c *Client) UpdateRequest(ctx context.Context, d request.Draft) (request.Draft, error) {
	if !d.Saved() {
		return request.Draft{}, fmt.Errorf("updating request: draft has no server id")
	}
	w := request.ToWire(d, c.placeholder)

	var saved request.Wire
	path := "/requests/" + url.PathEscape(d.ID.String())
	if err := c.do(ctx, http.MethodPut, path, w, &saved); err != nil {
		return request.Draft{}, fmt.Errorf("updating request: %w", err)
	}
	return c.merge(d, saved, d.CollectionID), nil
}

// DeleteRequest removes a saved request.
func (c *Client) DeleteRequest(ctx context.Context, id ident.ID) error {
	if id.IsZero() || ident.IsLocal(id) {
		return fmt.Errorf("deleting request: %q is not a server id", id)
	}
	if err := c.do(ctx, http.MethodDelete, "/requests/"+url.PathEscape(id.String()), nil, nil); err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	return nil
}

// merge prefers the server's echo of the request and falls back to what was
// sent when the response body is empty.
func (c *Client) merge(sent request.Draft, saved request.Wire, collectionID ident.ID) request.Draft {
	if saved.ID.IsZero() && saved.URI == "" && saved.Name == "" {
		return sent
	}
	d := request.ToDraft(saved)
	if d.ID.IsZero() {
		d.ID = sent.ID
	}
	if d.CollectionID.IsZero() {
		d.CollectionID = collectionID
	}
	return d
}

func (c *Client) endpoint(path string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("base_url is not configured")
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:   resp.StatusCode,
			Status: http.StatusText(resp.StatusCode),
			Body:   string(data),
		}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
