package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// ProxySender relays drafts through the backend's /proxy endpoint, which
// performs the outbound call and returns its status, headers and body.
type ProxySender struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProxySender returns a sender for the BFF at baseURL.
func NewProxySender(baseURL, apiKey string) *ProxySender {
	return &ProxySender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:       DefaultTimeout,
			CheckRedirect: checkRedirect,
		},
		logger: slog.Default(),
	}
}

// SetTimeout sets the client timeout; zero keeps the default.
func (s *ProxySender) SetTimeout(d time.Duration) {
	if d > 0 {
		s.httpClient.Timeout = d
	}
}

// SetLogger replaces the logger; nil keeps the current one.
func (s *ProxySender) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Endpoint returns the proxy URL used to reach target.
func (s *ProxySender) Endpoint(target string) string {
	q := url.Values{}
	q.Set("url", target)
	q.Set("apiKey", s.apiKey)
	return s.baseURL + "/proxy?" + q.Encode()
}

func (s *ProxySender) Send(ctx context.Context, d request.Draft) (*response.Raw, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("proxy send: base_url is not configured")
	}
	req, err := newHTTPRequest(ctx, d, s.Endpoint(d.URI), s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("sending via proxy", "method", req.Method, "uri", d.URI)
	raw, err := do(s.httpClient, req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("proxy response", "status", raw.StatusCode, "bytes", len(raw.Body))
	return raw, nil
}
