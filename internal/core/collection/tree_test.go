package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

type countingSource struct {
	mu      sync.Mutex
	cols    []Collection
	reqs    map[ident.ID][]request.Draft
	fetches map[ident.ID]int
	fail    error
}

func newCountingSource() *countingSource {
	return &countingSource{
		cols: []Collection{{ID: "1", Name: "Users"}, {ID: "2", Name: "Orders"}},
		reqs: map[ident.ID][]request.Draft{
			"1": {
				{ID: "10", Name: "List", Method: "GET", URI: "http://a/users"},
				{ID: "11", Name: "Create", Method: "POST", URI: "http://a/users"},
			},
			"2": {},
		},
		fetches: map[ident.ID]int{},
	}
}

func (s *countingSource) ListCollections(context.Context) ([]Collection, error) {
	return s.cols, nil
}

func (s *countingSource) ListRequests(_ context.Context, id ident.ID) ([]request.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[id]++
	if s.fail != nil {
		return nil, s.fail
	}
	return s.reqs[id], nil
}

func (s *countingSource) count(id ident.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[id]
}

func listedTree(t *testing.T, src Source, ttl time.Duration) *Tree {
	t.Helper()
	tree := NewTree(src, ttl, nil)
	if _, err := tree.ListCollections(context.Background()); err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	return tree
}

func TestExpandFetchesOnce(t *testing.T) {
	src := newCountingSource()
	tree := listedTree(t, src, 0)
	ctx := context.Background()

	fetched, err := tree.Expand(ctx, "1")
	if err != nil || !fetched {
		t.Fatalf("first Expand = %v, %v", fetched, err)
	}
	if !tree.Expanded("1") {
		t.Error("collection not expanded after first Expand")
	}

	fetched, err = tree.Expand(ctx, "1")
	if err != nil || fetched {
		t.Fatalf("second Expand = %v, %v", fetched, err)
	}
	if tree.Expanded("1") {
		t.Error("second Expand should collapse")
	}
	if n := src.count("1"); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}

	tree.Invalidate("1")
	if _, err := tree.Expand(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if n := src.count("1"); n != 2 {
		t.Errorf("fetches after invalidate = %d, want 2", n)
	}
	if !tree.Expanded("1") {
		t.Error("refetch should leave the collection expanded")
	}
}

func TestExpandUnknown(t *testing.T) {
	tree := listedTree(t, newCountingSource(), 0)
	if _, err := tree.Expand(context.Background(), "nope"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("err = %v, want ErrUnknownCollection", err)
	}
}

func TestExpandFailureMarksExpandedAndRetries(t *testing.T) {
	src := newCountingSource()
	src.fail = errors.New("boom")
	tree := listedTree(t, src, 0)
	ctx := context.Background()

	if _, err := tree.Expand(ctx, "1"); err == nil {
		t.Fatal("expected fetch error")
	}
	if !tree.Expanded("1") {
		t.Error("failed fetch should still mark expanded")
	}
	if tree.Loaded("1") {
		t.Error("failed fetch must not cache anything")
	}

	fetched, err := tree.Expand(ctx, "1")
	if err != nil || fetched {
		t.Fatalf("second expand: fetched=%v err=%v, want a collapse", fetched, err)
	}
	if tree.Expanded("1") || src.count("1") != 1 {
		t.Errorf("expanded=%v fetches=%d, want collapsed after one fetch", tree.Expanded("1"), src.count("1"))
	}

	src.fail = nil
	if _, err := tree.Expand(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if n := src.count("1"); n != 2 || !tree.Expanded("1") {
		t.Errorf("fetches = %d expanded=%v, want 2 and expanded", n, tree.Expanded("1"))
	}
}

func TestRows(t *testing.T) {
	tree := listedTree(t, newCountingSource(), 0)
	if _, err := tree.Expand(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	rows := tree.Rows()
	// Users, List, Create, Orders
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if !rows[0].IsCollection() || !rows[0].Expanded || rows[0].Collection.Name != "Users" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].IsCollection() || rows[1].Request.Name != "List" || rows[1].Depth != 1 {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[1].Request.CollectionID != "1" {
		t.Errorf("request collection id = %q, want 1", rows[1].Request.CollectionID)
	}
	if rows[2].Path != "Users/Create" {
		t.Errorf("row 2 path = %q", rows[2].Path)
	}
	if !rows[3].IsCollection() || rows[3].Expanded || rows[3].Loaded {
		t.Errorf("row 3 = %+v", rows[3])
	}
}

func TestPutAndRemoveRequest(t *testing.T) {
	tree := listedTree(t, newCountingSource(), 0)
	tree.Expand(context.Background(), "1")

	tree.PutRequest(request.Draft{ID: "10", Name: "Renamed", CollectionID: "1"})
	tree.PutRequest(request.Draft{ID: "12", Name: "Added", CollectionID: "1"})
	reqs, _ := tree.Requests("1")
	if len(reqs) != 3 || reqs[0].Name != "Renamed" || reqs[2].Name != "Added" {
		t.Fatalf("requests = %+v", reqs)
	}

	tree.RemoveRequest("1", "11")
	reqs, _ = tree.Requests("1")
	if len(reqs) != 2 {
		t.Fatalf("after remove got %d requests", len(reqs))
	}

	// Uncached collection stays uncached.
	tree.PutRequest(request.Draft{ID: "20", CollectionID: "2"})
	if tree.Loaded("2") {
		t.Error("PutRequest populated an unfetched collection")
	}
}

func TestLocalCollections(t *testing.T) {
	src := newCountingSource()
	tree := listedTree(t, src, 0)

	local := New("Imported")
	local.Add(request.New("R1", "GET", "http://a"))
	tree.AddLocal(local)

	if _, err := tree.Expand(context.Background(), local.ID); err != nil {
		t.Fatal(err)
	}
	if !tree.Expanded(local.ID) {
		t.Error("local collection not expanded")
	}
	tree.Invalidate(local.ID)
	if !tree.Loaded(local.ID) {
		t.Error("Invalidate dropped a local collection")
	}

	// A relist keeps local collections.
	if _, err := tree.ListCollections(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := tree.Collection(local.ID); !ok {
		t.Error("local collection lost on relist")
	}
	if n := src.count(local.ID); n != 0 {
		t.Errorf("local collection fetched %d times", n)
	}
}

func TestReloadKeepsExpandedState(t *testing.T) {
	src := newCountingSource()
	tree := listedTree(t, src, 0)
	ctx := context.Background()

	if err := tree.Reload(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if tree.Expanded("1") {
		t.Error("Reload expanded a collapsed collection")
	}
	tree.Expand(ctx, "1")
	if n := src.count("1"); n != 1 {
		t.Errorf("fetches after Reload+Expand = %d, want 1", n)
	}
	tree.Invalidate("1")
	if err := tree.Reload(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if !tree.Expanded("1") || !tree.Loaded("1") {
		t.Error("Reload should keep the node expanded and cached")
	}
	if err := tree.Reload(ctx, "nope"); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}

	local := New("Local")
	tree.AddLocal(local)
	if err := tree.Reload(ctx, local.ID); err != nil || src.count(local.ID) != 0 {
		t.Errorf("local reload err=%v fetches=%d", err, src.count(local.ID))
	}
}

func TestTTLExpires(t *testing.T) {
	src := newCountingSource()
	tree := listedTree(t, src, 20*time.Millisecond)
	ctx := context.Background()

	tree.Expand(ctx, "1")
	time.Sleep(40 * time.Millisecond)
	if tree.Loaded("1") {
		t.Fatal("entry should have expired")
	}
	tree.Expand(ctx, "1")
	if n := src.count("1"); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestConcurrentExpand(t *testing.T) {
	tree := listedTree(t, newCountingSource(), 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree.Expand(context.Background(), "1")
			tree.Rows()
		}()
	}
	wg.Wait()
	if !tree.Loaded("1") {
		t.Error("requests not cached after concurrent expands")
	}
}
