package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

const sampleYAML = `
id: "7"
name: Test API
version: "1"
requests:
  - id: "req-1"
    name: List Users
    method: GET
    uri: "https://api.example.com/users"
    headers:
      - { key: Accept, value: application/json }
  - name: Create User
    method: post
    uri: "https://api.example.com/users"
    body: '{"name":"test"}'
  - name: No Method
    uri: "https://api.example.com/ping"
`

func TestLoadFromBytes(t *testing.T) {
	col, err := LoadFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if col.Name != "Test API" || len(col.Requests) != 3 {
		t.Fatalf("collection = %+v", col)
	}
	if !ident.IsLocal(col.ID) {
		t.Errorf("backend-looking id %q was kept", col.ID)
	}

	list := col.Requests[0]
	if list.Name != "List Users" || list.Method != "GET" {
		t.Errorf("unexpected first request %+v", list)
	}
	if v, ok := list.Header("accept"); !ok || v != "application/json" {
		t.Errorf("Accept header = %q, %v", v, ok)
	}
	if col.Requests[1].Method != "POST" {
		t.Errorf("method = %q, want upper case", col.Requests[1].Method)
	}
	if col.Requests[2].Method != "GET" {
		t.Errorf("missing method should default to GET, got %q", col.Requests[2].Method)
	}
	seen := map[ident.ID]bool{}
	for _, r := range col.Requests {
		if !ident.IsLocal(r.ID) || seen[r.ID] {
			t.Errorf("request %q has id %q", r.Name, r.ID)
		}
		seen[r.ID] = true
		if r.CollectionID != col.ID {
			t.Errorf("request %q has collection id %q", r.Name, r.CollectionID)
		}
	}
}

func TestLoadFromBytesKeepsLocalIDs(t *testing.T) {
	col, err := LoadFromBytes([]byte("id: local-5\nname: x\nrequests:\n  - id: local-6\n    uri: http://a\n"))
	if err != nil {
		t.Fatal(err)
	}
	if col.ID != "local-5" || col.Requests[0].ID != "local-6" {
		t.Errorf("local ids changed: %+v", col)
	}
}

func TestLoadFromBytesInvalid(t *testing.T) {
	if _, err := LoadFromBytes([]byte("name: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	col := New("Roundtrip Test")
	col.Add(request.New("Test Request", "GET", "https://example.com"))

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName(col.Name))

	if err := SaveToFile(col, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Name != "Roundtrip Test" {
		t.Errorf("expected name 'Roundtrip Test', got %q", loaded.Name)
	}
	if loaded.ID != col.ID {
		t.Errorf("id changed across save: %q -> %q", col.ID, loaded.ID)
	}
	if len(loaded.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(loaded.Requests))
	}
	if loaded.Requests[0].Name != "Test Request" || loaded.Requests[0].URI != "https://example.com" {
		t.Errorf("unexpected request %+v", loaded.Requests[0])
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"api", "auth"} {
		if err := SaveToFile(New(name), filepath.Join(dir, FileName(name))); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644)

	files, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(files))
	}
	if files[0].Collection.Name != "api" || files[0].Path != filepath.Join(dir, "api.gopost.yaml") {
		t.Errorf("first file = %s %q", files[0].Path, files[0].Collection.Name)
	}

	os.WriteFile(filepath.Join(dir, "broken"+FileSuffix), []byte("name: ["), 0644)
	if _, err := LoadFromDir(dir); err == nil {
		t.Error("expected error for a broken workspace file")
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"My API":        "my-api.gopost.yaml",
		"  Users / v2 ": "users-v2.gopost.yaml",
		"":              "collection.gopost.yaml",
		"***":           "collection.gopost.yaml",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddAndFind(t *testing.T) {
	col := New("c")
	d := col.Add(request.Draft{Name: "a"})
	if !ident.IsLocal(d.ID) || d.CollectionID != col.ID {
		t.Errorf("Add did not assign ids: %+v", d)
	}
	got, ok := col.Find(d.ID)
	if !ok || got.Name != "a" {
		t.Errorf("Find = %+v, %v", got, ok)
	}
	if _, ok := col.Find("missing"); ok {
		t.Error("Find returned a missing id")
	}
}
