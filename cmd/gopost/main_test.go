package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sadopc/gopost/internal/core/collection"
)

type backend struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	key := r.Method + " " + r.URL.Path
	b.calls = append(b.calls, key)
	b.bodies[key] = string(data)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch key {
	case "GET /collections":
		w.Write([]byte(`[{"id":3,"name":"Users"}]`))
	case "GET /collections/3/requests":
		w.Write([]byte(`[{"id":10,"name":"List","uri":"http://api/users","method":"GET","headers":{"Accept":["application/json"]}}]`))
	case "POST /collections/3/requests":
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":99,"name":"Created","uri":"http://api/x","method":"POST"}`))
	case "PUT /requests/42":
		w.Write(data)
	case "DELETE /requests/42":
		w.WriteHeader(http.StatusNoContent)
	case "GET /proxy", "POST /proxy", "PUT /proxy":
		w.Write([]byte(`{"target":"` + r.URL.Query().Get("url") + `"}`))
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) called(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == key {
			return true
		}
	}
	return false
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI against a fake backend with an isolated home and
// history database.
func run(t *testing.T, b *backend, stdin string, args ...string) result {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")

	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "history_path: " + filepath.Join(dir, "history.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&cli{})
	root.SetArgs(append([]string{"--config", cfgPath, "--base-url", srv.URL}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return result{stdout.String(), stderr.String(), err}
}

func newBackend() *backend {
	return &backend{bodies: map[string]string{}}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(&cli{})
	root.SetArgs([]string{"version", "--config", "/does/not/exist.yaml"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "gopost dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("send_mode: carrier-pigeon\n"), 0644)

	root := newRootCmd(&cli{})
	root.SetArgs([]string{"--config", path, "collections"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "send_mode") {
		t.Fatalf("err = %v, want send_mode validation error", err)
	}
}

func TestCollectionsAndRequests(t *testing.T) {
	b := newBackend()
	res := run(t, b, "", "collections")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "Users") || !strings.Contains(res.stdout, "3") {
		t.Errorf("collections output = %q", res.stdout)
	}

	res = run(t, b, "", "requests", "3")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"10", "GET", "List", "http://api/users"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("requests output missing %q: %q", want, res.stdout)
		}
	}
}

func TestSendPrintsBodyAndSummary(t *testing.T) {
	b := newBackend()
	res := run(t, b, "", "send", "http://example.com/users")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !b.called("GET /proxy") {
		t.Errorf("calls = %v, want proxy call", b.calls)
	}
	if !strings.Contains(res.stdout, `"target": "http://example.com/users"`) {
		t.Errorf("stdout = %q", res.stdout)
	}
	if !strings.HasPrefix(res.stderr, "200 OK") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestSendDataDefaultsToPost(t *testing.T) {
	b := newBackend()
	res := run(t, b, `{"a": 1}`, "send", "http://example.com", "-d", "@-", "-H", "X-Trace: 1")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !b.called("POST /proxy") {
		t.Fatalf("calls = %v", b.calls)
	}
	if got := b.bodies["POST /proxy"]; got != `{"a":1}` {
		t.Errorf("body = %q, want compacted JSON", got)
	}
}

func TestSendCurlDoesNotSend(t *testing.T) {
	b := newBackend()
	res := run(t, b, "", "send", "http://example.com", "-X", "DELETE", "--curl")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if len(b.calls) != 0 {
		t.Errorf("--curl reached the backend: %v", b.calls)
	}
	if !strings.Contains(res.stdout, "curl") || !strings.Contains(res.stdout, "DELETE") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestSendValidation(t *testing.T) {
	res := run(t, newBackend(), "", "send")
	if res.err == nil {
		t.Fatal("expected error without a URL")
	}
	res = run(t, newBackend(), "", "send", "http://x", "-X", "BREW")
	if res.err == nil {
		t.Fatal("expected error for unsupported method")
	}
	res = run(t, newBackend(), "", "send", "http://x", "-H", "no-colon")
	if res.err == nil {
		t.Fatal("expected error for malformed header")
	}
}

func TestSaveUpdateDelete(t *testing.T) {
	b := newBackend()
	res := run(t, b, "", "save", "3", "http://api/x", "-X", "POST", "--name", "Created")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, `Created "Created" (id 99) in collection 3`) {
		t.Errorf("save output = %q", res.stdout)
	}

	wire := `{"name":"Renamed","uri":"http://api/y","method":"put","headers":{"A":["1"]}}`
	res = run(t, b, wire, "update", "42", "--from", "-")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(b.bodies["PUT /requests/42"]), &sent); err != nil {
		t.Fatal(err)
	}
	if sent["name"] != "Renamed" || sent["method"] != "PUT" {
		t.Errorf("update body = %v", sent)
	}

	res = run(t, b, "", "delete", "42")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !b.called("DELETE /requests/42") {
		t.Errorf("calls = %v", b.calls)
	}
}

func TestDeleteLocalIDFails(t *testing.T) {
	b := newBackend()
	if res := run(t, b, "", "delete", "local-1"); res.err == nil {
		t.Fatal("expected error for a local id")
	}
}

const postmanDoc = `{
  "info": {"name": "Shop"},
  "item": [
    {"name": "Health", "request": {"method": "GET", "url": "http://shop/health"}},
    {"name": "Orders", "item": [
      {"name": "Create", "request": {"method": "POST", "url": {"raw": "http://shop/orders"}, "body": {"mode": "raw", "raw": "{}"}}}
    ]}
  ]
}`

func TestImportWritesWorkspaceFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shop.gopost.yaml")
	res := run(t, newBackend(), postmanDoc, "import", "-", "--output", out)
	if res.err != nil {
		t.Fatal(res.err)
	}
	col, err := collection.LoadFromFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if col.Name != "Shop" || len(col.Requests) != 2 {
		t.Fatalf("imported = %+v", col)
	}
	if col.Requests[1].Name != "Orders/Create" {
		t.Errorf("nested name = %q", col.Requests[1].Name)
	}
}

func TestImportPush(t *testing.T) {
	b := newBackend()
	res := run(t, b, postmanDoc, "import", "-", "--push", "3")
	if res.err != nil {
		t.Fatal(res.err)
	}
	n := 0
	for _, c := range b.calls {
		if c == "POST /collections/3/requests" {
			n++
		}
	}
	if n != 2 {
		t.Errorf("created %d requests, want 2", n)
	}
}

func TestExportRemote(t *testing.T) {
	res := run(t, newBackend(), "", "export", "--remote", "3")
	if res.err != nil {
		t.Fatal(res.err)
	}
	type named struct {
		Name string `json:"name"`
	}
	var doc struct {
		Info named   `json:"info"`
		Item []named `json:"item"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("export output is not JSON: %v\n%s", err, res.stdout)
	}
	if doc.Info.Name != "Users" || len(doc.Item) != 1 || doc.Item[0].Name != "List" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestExportNeedsSource(t *testing.T) {
	if res := run(t, newBackend(), "", "export"); res.err == nil {
		t.Fatal("expected error without a source")
	}
}

func TestHistoryRecordsSends(t *testing.T) {
	b := newBackend()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	srv := httptest.NewServer(b)
	defer srv.Close()
	cfgPath := filepath.Join(dir, "config.yaml")
	os.WriteFile(cfgPath, []byte("history_path: "+filepath.Join(dir, "h.db")+"\n"), 0644)

	exec := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := newRootCmd(&cli{})
		root.SetArgs(append([]string{"--config", cfgPath, "--base-url", srv.URL}, args...))
		root.SetOut(&out)
		root.SetErr(io.Discard)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	exec("send", "http://example.com/one")
	exec("send", "http://example.com/two")

	if out := exec("history"); !strings.Contains(out, "/one") || !strings.Contains(out, "/two") {
		t.Errorf("history = %q", out)
	}
	if out := exec("history", "--search", "two"); strings.Contains(out, "/one") {
		t.Errorf("search output = %q", out)
	}
	if out := exec("history", "--clear"); !strings.Contains(out, "Cleared 2 entries") {
		t.Errorf("clear output = %q", out)
	}
}

func TestLoadWorkspaceFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a"+collection.FileSuffix)
	col := collection.New("A")
	if err := collection.SaveToFile(col, path); err != nil {
		t.Fatal(err)
	}

	files, err := loadWorkspaceFiles([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != path || files[0].Collection.Name != "A" {
		t.Errorf("files = %+v", files)
	}

	if _, err := loadWorkspaceFiles([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for a missing explicit file")
	}
}

func TestSendFromCurl(t *testing.T) {
	b := newBackend()
	res := run(t, b, "", "send", "--from-curl", `curl -X PUT -H 'A: 1' -d 'hello' http://example.com/c`)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !b.called("PUT /proxy") || b.bodies["PUT /proxy"] != "hello" {
		t.Errorf("calls = %v bodies = %v", b.calls, b.bodies)
	}
}
