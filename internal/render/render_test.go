package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sadopc/gopost/internal/core/blob"
	"github.com/sadopc/gopost/internal/core/response"
)

func TestJSONPretty(t *testing.T) {
	out, err := JSON(map[string]any{"b": json.Number("9007199254740993"), "a": []any{"<x>"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\"<x>\"],\n  \"b\": 9007199254740993\n}\n"
	if string(out) != want {
		t.Errorf("JSON() =\n%s\nwant\n%s", out, want)
	}
}

func TestPretty(t *testing.T) {
	if got := Pretty(`{"a":1}`); got != "{\n  \"a\": 1\n}\n" {
		t.Errorf("Pretty = %q", got)
	}
	if got := Pretty("not json"); got != "not json" {
		t.Errorf("non-JSON changed: %q", got)
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		name      string
		snap      response.Snapshot
		wantText  string
		wantLexer string
	}{
		{
			name:      "json",
			snap:      response.Snapshot{Kind: response.KindJSON, Body: response.Body{JSON: map[string]any{"ok": true}}},
			wantText:  "{\n  \"ok\": true\n}",
			wantLexer: "json",
		},
		{
			name:      "html",
			snap:      response.Snapshot{Kind: response.KindHTML, Body: response.Body{Text: "<p>hi</p>"}},
			wantText:  "<p>hi</p>",
			wantLexer: "html",
		},
		{
			name:      "pdf",
			snap:      response.Snapshot{Kind: response.KindPDF, Size: 2048, NeedsSanitize: true, Body: response.Body{Resource: blob.URL("blob:gopost/x")}},
			wantText:  "pdf resource (2.0 KiB): blob:gopost/x [sandboxed]",
			wantLexer: "text",
		},
		{
			name:      "xml text",
			snap:      response.Snapshot{Kind: response.KindText, ContentType: "application/xml", Body: response.Body{Text: "<a/>"}},
			wantText:  "<a/>",
			wantLexer: "xml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, lexer := Body(tt.snap)
			if text != tt.wantText || lexer != tt.wantLexer {
				t.Errorf("Body() = %q, %q; want %q, %q", text, lexer, tt.wantText, tt.wantLexer)
			}
		})
	}
}

func TestLexer(t *testing.T) {
	cases := map[string]string{
		"application/json":        "json",
		"application/hal+json":    "json",
		"text/html; charset=utf8": "html",
		"text/xml":                "xml",
		"text/css":                "css",
		"application/javascript":  "javascript",
		"application/x-yaml":      "yaml",
		"text/plain":              "text",
	}
	for ct, want := range cases {
		if got := Lexer(ct); got != want {
			t.Errorf("Lexer(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestHighlight(t *testing.T) {
	src := `{"a": 1}`
	if got := Highlight(src, "text", DefaultStyle); got != src {
		t.Error("text lexer should not colour")
	}
	if got := Highlight(src, "no-such-lexer", DefaultStyle); got != src {
		t.Error("unknown lexer should return the source")
	}
	got := Highlight(src, "json", DefaultStyle)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", got)
	}
}

func TestSummary(t *testing.T) {
	s := response.Snapshot{Status: "201 Created", ElapsedMs: 42, Size: 1536, Kind: response.KindJSON}
	if got := Summary(s); got != "201 Created  42ms  1.5 KiB  json" {
		t.Errorf("Summary = %q", got)
	}
}
