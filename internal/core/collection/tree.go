package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

// Source loads collections and their requests, usually from the backend API.
type Source interface {
	ListCollections(ctx context.Context) ([]Collection, error)
	ListRequests(ctx context.Context, collectionID ident.ID) ([]request.Draft, error)
}

// Tree caches the collection list and the requests of expanded collections.
// Request lists are fetched on the first expand and reused until the
// collection is invalidated or the optional TTL lapses.
type Tree struct {
	src    Source
	logger *slog.Logger

	mu       sync.Mutex
	order    []Collection
	expanded map[ident.ID]bool
	local    map[ident.ID]bool
	failed   map[ident.ID]bool
	requests *cache.Cache
}

// NewTree returns a tree backed by src. A ttl of zero or less keeps fetched
// request lists until they are invalidated.
func NewTree(src Source, ttl time.Duration, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	exp, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		exp, cleanup = ttl, 2*ttl
	}
	return &Tree{
		src:      src,
		logger:   logger,
		expanded: make(map[ident.ID]bool),
		local:    make(map[ident.ID]bool),
		failed:   make(map[ident.ID]bool),
		requests: cache.New(exp, cleanup),
	}
}

// ListCollections reloads the collection list from the source. Local
// collections are kept after the remote ones.
func (t *Tree) ListCollections(ctx context.Context) ([]Collection, error) {
	if t.src == nil {
		return t.Collections(), nil
	}
	cols, err := t.src.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	next := make([]Collection, 0, len(cols)+len(t.local))
	for _, c := range cols {
		next = append(next, Collection{ID: c.ID, Name: c.Name})
	}
	for _, c := range t.order {
		if t.local[c.ID] {
			next = append(next, c)
		}
	}
	t.order = next
	t.logger.Debug("collections listed", "count", len(cols))
	return t.collectionsLocked(), nil
}

// AddLocal registers a collection loaded from a workspace file. Its requests
// are served from memory and never fetched.
func (t *Tree) AddLocal(col *Collection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.local[col.ID] = true
	header := Collection{ID: col.ID, Name: col.Name}
	replaced := false
	for i := range t.order {
		if t.order[i].ID == col.ID {
			t.order[i] = header
			replaced = true
		}
	}
	if !replaced {
		t.order = append(t.order, header)
	}
	reqs := make([]request.Draft, len(col.Requests))
	copy(reqs, col.Requests)
	t.requests.Set(string(col.ID), reqs, cache.NoExpiration)
}

// IsLocal reports whether id was registered with AddLocal.
func (t *Tree) IsLocal(id ident.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.local[id]
}

// Collections returns the listed collections without requests.
func (t *Tree) Collections() []Collection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.collectionsLocked()
}

func (t *Tree) collectionsLocked() []Collection {
	out := make([]Collection, len(t.order))
	copy(out, t.order)
	return out
}

// Collection returns the listed collection with id, including any cached
// requests.
func (t *Tree) Collection(id ident.ID) (Collection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.order {
		if c.ID == id {
			c.Requests, _ = t.cachedLocked(id)
			return c, true
		}
	}
	return Collection{}, false
}

// Expand toggles the expanded state of a collection. When its requests are
// not cached they are fetched first and the node is left expanded. A fetch
// failure still expands the node; expanding it again collapses it without a
// fetch and the Expand after that retries.
func (t *Tree) Expand(ctx context.Context, id ident.ID) (fetched bool, err error) {
	t.mu.Lock()
	if !t.knownLocked(id) {
		t.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownCollection, id)
	}
	if _, ok := t.cachedLocked(id); ok {
		t.expanded[id] = !t.expanded[id]
		t.mu.Unlock()
		return false, nil
	}
	if t.failed[id] && t.expanded[id] {
		t.expanded[id] = false
		delete(t.failed, id)
		t.mu.Unlock()
		return false, nil
	}
	t.mu.Unlock()

	reqs, err := t.fetch(ctx, id)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[id] = true
	if err != nil {
		t.failed[id] = true
		t.logger.Warn("fetching requests failed", "collection", id, "error", err)
		return true, err
	}
	delete(t.failed, id)
	t.requests.SetDefault(string(id), reqs)
	return true, nil
}

// Reload fetches the requests of a remote collection again without changing
// its expanded state. Local collections are left alone.
func (t *Tree) Reload(ctx context.Context, id ident.ID) error {
	t.mu.Lock()
	if !t.knownLocked(id) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCollection, id)
	}
	if t.local[id] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	reqs, err := t.fetch(ctx, id)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failed, id)
	t.requests.SetDefault(string(id), reqs)
	return nil
}

func (t *Tree) fetch(ctx context.Context, id ident.ID) ([]request.Draft, error) {
	if t.src == nil {
		return nil, fmt.Errorf("fetching requests for %s: no source configured", id)
	}
	reqs, err := t.src.ListRequests(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching requests for %s: %w", id, err)
	}
	for i := range reqs {
		if reqs[i].CollectionID.IsZero() {
			reqs[i].CollectionID = id
		}
	}
	if reqs == nil {
		reqs = []request.Draft{}
	}
	t.logger.Debug("requests fetched", "collection", id, "count", len(reqs))
	return reqs, nil
}

// Invalidate drops the cached requests of a remote collection so the next
// Expand fetches again. The expanded flag is kept.
func (t *Tree) Invalidate(id ident.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.local[id] {
		return
	}
	t.requests.Delete(string(id))
}

// InvalidateAll drops every cached remote request list.
func (t *Tree) InvalidateAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.order {
		if !t.local[c.ID] {
			t.requests.Delete(string(c.ID))
		}
	}
}

// Requests returns the cached requests of a collection.
func (t *Tree) Requests(id ident.ID) ([]request.Draft, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cachedLocked(id)
}

// Loaded reports whether requests for id are cached.
func (t *Tree) Loaded(id ident.ID) bool {
	_, ok := t.Requests(id)
	return ok
}

// Expanded reports whether a collection is expanded.
func (t *Tree) Expanded(id ident.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded[id]
}

// PutRequest replaces or appends a request in the cached list of its
// collection. It is a no-op when that list is not cached.
func (t *Tree) PutRequest(d request.Draft) {
	t.mu.Lock()
	defer t.mu.Unlock()
	reqs, ok := t.cachedLocked(d.CollectionID)
	if !ok {
		return
	}
	next := make([]request.Draft, 0, len(reqs)+1)
	replaced := false
	for _, r := range reqs {
		if r.ID == d.ID {
			next = append(next, d)
			replaced = true
			continue
		}
		next = append(next, r)
	}
	if !replaced {
		next = append(next, d)
	}
	t.storeLocked(d.CollectionID, next)
}

// RemoveRequest drops a request from the cached list of collectionID.
func (t *Tree) RemoveRequest(collectionID, id ident.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	reqs, ok := t.cachedLocked(collectionID)
	if !ok {
		return
	}
	next := make([]request.Draft, 0, len(reqs))
	for _, r := range reqs {
		if r.ID != id {
			next = append(next, r)
		}
	}
	t.storeLocked(collectionID, next)
}

// Rows flattens the tree for display: each collection followed by its
// requests when expanded and loaded.
func (t *Tree) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	var rows []Row
	for _, c := range t.order {
		reqs, loaded := t.cachedLocked(c.ID)
		expanded := t.expanded[c.ID]
		rows = append(rows, Row{
			Collection: c,
			Expanded:   expanded,
			Loaded:     loaded,
			Path:       c.Name,
		})
		if !expanded || !loaded {
			continue
		}
		for i := range reqs {
			r := reqs[i]
			rows = append(rows, Row{
				Collection: c,
				Request:    &r,
				Depth:      1,
				Loaded:     true,
				Path:       c.Name + "/" + r.Name,
			})
		}
	}
	return rows
}

func (t *Tree) knownLocked(id ident.ID) bool {
	for _, c := range t.order {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (t *Tree) cachedLocked(id ident.ID) ([]request.Draft, bool) {
	v, ok := t.requests.Get(string(id))
	if !ok {
		return nil, false
	}
	reqs, ok := v.([]request.Draft)
	if !ok {
		return nil, false
	}
	out := make([]request.Draft, len(reqs))
	copy(out, reqs)
	return out, true
}

func (t *Tree) storeLocked(id ident.ID, reqs []request.Draft) {
	if t.local[id] {
		t.requests.Set(string(id), reqs, cache.NoExpiration)
		return
	}
	t.requests.SetDefault(string(id), reqs)
}
