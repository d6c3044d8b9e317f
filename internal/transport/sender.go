// Package transport sends request drafts and returns raw responses.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// DefaultTimeout applies when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Sender performs a draft and returns the unclassified response.
type Sender interface {
	Send(ctx context.Context, d request.Draft) (*response.Raw, error)
}

// Mode selects the Sender built by New.
type Mode string

const (
	ModeProxy  Mode = "proxy"
	ModeDirect Mode = "direct"
)

// Options configures New.
type Options struct {
	Mode     Mode
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	ProxyURL string
	NoProxy  string
	Logger   *slog.Logger
}

// New builds the sender for opts.Mode; the empty mode means proxy.
func New(opts Options) (Sender, error) {
	switch opts.Mode {
	case ModeProxy, "":
		s := NewProxySender(opts.BaseURL, opts.APIKey)
		s.SetTimeout(opts.Timeout)
		s.SetLogger(opts.Logger)
		return s, nil
	case ModeDirect:
		s := NewDirectSender()
		s.SetTimeout(opts.Timeout)
		s.SetProxy(opts.ProxyURL, opts.NoProxy)
		s.SetLogger(opts.Logger)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported send mode %q", opts.Mode)
	}
}

// newHTTPRequest builds the outbound request for d addressed to target.
// GET and DELETE never carry a body. A JSON body without a declared
// Content-Type is sent as application/json.
func newHTTPRequest(ctx context.Context, d request.Draft, target string, logger *slog.Logger) (*http.Request, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	method := strings.ToUpper(d.Method)
	if method == "" {
		method = http.MethodGet
	}

	var (
		body   io.Reader
		isJSON bool
	)
	if request.HasBody(method) {
		payload, ok := d.EncodeBody()
		isJSON = ok
		if len(payload) > 0 {
			body = bytes.NewReader(payload)
			if !ok {
				logger.Warn("request body is not valid JSON, sending raw text", "uri", d.URI)
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for _, h := range d.Headers {
		key := strings.TrimSpace(h.Key)
		if key == "" {
			continue
		}
		req.Header.Set(key, h.Value)
	}
	if isJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes req on client and reads the full body.
func do(client *http.Client, req *http.Request) (*response.Raw, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response.Raw{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
		Started:    start,
		Finished:   time.Now(),
	}, nil
}

// statusText strips the numeric code from resp.Status.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("too many redirects")
	}
	return nil
}
