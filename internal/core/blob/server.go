package blob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Server exposes a Store over HTTP at GET /blobs/:id.
type Server struct {
	store  *Store
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger
}

// NewServer builds the HTTP handler for store. Call Start to listen.
func NewServer(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{store: store, echo: e, logger: logger}
	e.GET("/blobs/:id", s.serveBlob)
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr (":0" picks a free port), binds the store to the
// served base URL and serves in the background.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.ln = ln
	s.echo.Listener = ln

	base := "http://" + ln.Addr().String() + "/blobs/"
	s.store.Bind(base)

	go func() {
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("blob server stopped", "error", err)
		}
	}()
	s.logger.Debug("blob server listening", "addr", ln.Addr().String())
	return base, nil
}

// Shutdown stops the server and unbinds the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.store.Bind("")
	if s.ln == nil {
		return nil
	}
	return s.echo.Shutdown(ctx)
}

func (s *Server) serveBlob(c echo.Context) error {
	res, ok := s.store.Get(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	h := c.Response().Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	if res.Sanitize {
		h.Set("Content-Security-Policy", "sandbox")
		h.Set("Content-Disposition", "inline")
	}
	mime := res.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, mime, res.Data)
}
