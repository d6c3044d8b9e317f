package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/core/response"
)

// ProxyConfig holds outbound proxy settings.
type ProxyConfig struct {
	URL     string // http://, https://, or socks5:// proxy URL
	NoProxy string // comma-separated list of hosts to bypass proxy
}

// DirectSender calls the target URL itself.
type DirectSender struct {
	timeout   time.Duration
	proxyConf *ProxyConfig
	logger    *slog.Logger
}

// NewDirectSender creates a sender with the default timeout and no proxy.
func NewDirectSender() *DirectSender {
	return &DirectSender{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
}

// SetTimeout sets the request timeout; zero keeps the default.
func (s *DirectSender) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetProxy configures proxy settings for the client.
func (s *DirectSender) SetProxy(proxyURL, noProxy string) {
	if proxyURL == "" {
		s.proxyConf = nil
		return
	}
	s.proxyConf = &ProxyConfig{URL: proxyURL, NoProxy: noProxy}
}

// SetLogger replaces the logger; nil keeps the current one.
func (s *DirectSender) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *DirectSender) Send(ctx context.Context, d request.Draft) (*response.Raw, error) {
	if _, err := url.Parse(d.URI); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req, err := newHTTPRequest(ctx, d, d.URI, s.logger)
	if err != nil {
		return nil, err
	}

	transport, err := s.buildTransport()
	if err != nil {
		return nil, fmt.Errorf("configuring transport: %w", err)
	}
	client := &http.Client{
		Timeout:       s.timeout,
		CheckRedirect: checkRedirect,
		Transport:     transport,
	}

	s.logger.Debug("sending direct", "method", req.Method, "uri", d.URI)
	return do(client, req)
}

// buildTransport creates an http.Transport configured with proxy settings.
func (s *DirectSender) buildTransport() (http.RoundTripper, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if s.proxyConf == nil {
		transport.Proxy = http.ProxyFromEnvironment
		return transport, nil
	}

	parsed, err := url.Parse(s.proxyConf.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}
	noProxyHosts := parseNoProxy(s.proxyConf.NoProxy)

	switch parsed.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: password,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
		}
		var direct net.Dialer
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, _ := net.SplitHostPort(addr)
			if shouldBypassProxy(host, noProxyHosts) {
				return direct.DialContext(ctx, network, addr)
			}
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	case "http", "https":
		transport.Proxy = func(r *http.Request) (*url.URL, error) {
			if shouldBypassProxy(r.URL.Hostname(), noProxyHosts) {
				return nil, nil
			}
			return parsed, nil
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}
	return transport, nil
}

// parseNoProxy splits a comma-separated no-proxy string into trimmed host entries.
func parseNoProxy(noProxy string) []string {
	parts := strings.Split(noProxy, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			hosts = append(hosts, strings.ToLower(p))
		}
	}
	return hosts
}

// shouldBypassProxy checks whether a host should bypass the proxy.
func shouldBypassProxy(host string, noProxyHosts []string) bool {
	host = strings.ToLower(host)
	for _, h := range noProxyHosts {
		if h == host {
			return true
		}
		// .example.com matches any subdomain
		if strings.HasPrefix(h, ".") && strings.HasSuffix(host, h) {
			return true
		}
	}
	return false
}
