// Package blob holds binary response payloads behind short-lived URLs.
//
// A URL stays valid until it is revoked. When the store is bound to a
// listening Server the URLs point at it and can be opened in a browser.
package blob

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// URL identifies a stored resource.
type URL string

const opaquePrefix = "blob:gopost/"

// Resource is a stored payload.
type Resource struct {
	ID       string
	Data     []byte
	MimeType string
	Sanitize bool
}

// Store is a concurrency-safe registry of minted resources.
type Store struct {
	mu   sync.RWMutex
	base string
	res  map[string]Resource
}

// NewStore returns an empty store that mints opaque URLs.
func NewStore() *Store {
	return &Store{res: make(map[string]Resource)}
}

// Bind makes future URLs point at base (e.g. "http://127.0.0.1:4321/blobs/").
// Already minted URLs keep resolving.
func (s *Store) Bind(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	s.base = base
}

// Mint stores data and returns its URL.
func (s *Store) Mint(data []byte, mimeType string, sanitize bool) URL {
	id := uuid.NewString()
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.res[id] = Resource{ID: id, Data: buf, MimeType: mimeType, Sanitize: sanitize}
	if s.base != "" {
		return URL(s.base + id)
	}
	return URL(opaquePrefix + id)
}

// Revoke removes the resource behind u. It reports whether anything was removed.
func (s *Store) Revoke(u URL) bool {
	id := idOf(u)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.res[id]; !ok {
		return false
	}
	delete(s.res, id)
	return true
}

// Lookup resolves u to its resource.
func (s *Store) Lookup(u URL) (Resource, bool) {
	return s.Get(idOf(u))
}

// Get resolves a bare resource id.
func (s *Store) Get(id string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.res[id]
	return r, ok
}

// Len returns the number of live resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.res)
}

// Served reports whether u points at an HTTP server rather than the opaque scheme.
func (u URL) Served() bool {
	return strings.HasPrefix(string(u), "http://") || strings.HasPrefix(string(u), "https://")
}

func idOf(u URL) string {
	s := string(u)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}
