// Package render turns response snapshots into terminal text for the TUI
// and the send command.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/pretty"

	"github.com/sadopc/gopost/internal/core/response"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "catppuccin-mocha"

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  "}

// JSON pretty-prints a parsed JSON value. Object keys come out sorted.
func JSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

// Pretty reformats JSON text, leaving anything else untouched.
func Pretty(text string) string {
	if !json.Valid([]byte(text)) {
		return text
	}
	return string(pretty.PrettyOptions([]byte(text), prettyOptions))
}

// Body returns the display text of s and the chroma lexer suited to it.
// Binary kinds render as a line naming their resource URL.
func Body(s response.Snapshot) (text, lexer string) {
	switch s.Kind {
	case response.KindJSON:
		out, err := JSON(s.Body.JSON)
		if err != nil {
			return fmt.Sprint(s.Body.JSON), "text"
		}
		return strings.TrimRight(string(out), "\n"), "json"
	case response.KindHTML:
		return s.Body.Text, "html"
	case response.KindPDF, response.KindImage:
		line := fmt.Sprintf("%s resource (%s): %s", s.Kind, humanize.IBytes(uint64(s.Size)), s.Body.Resource)
		if s.NeedsSanitize {
			line += " [sandboxed]"
		}
		return line, "text"
	default:
		return s.Body.Text, Lexer(s.ContentType)
	}
}

// Lexer maps a Content-Type to a chroma lexer name.
func Lexer(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return "json"
	case strings.Contains(ct, "html"):
		return "html"
	case strings.Contains(ct, "xml"):
		return "xml"
	case strings.Contains(ct, "css"):
		return "css"
	case strings.Contains(ct, "javascript"):
		return "javascript"
	case strings.Contains(ct, "yaml"):
		return "yaml"
	default:
		return "text"
	}
}

// Highlight colours source with chroma. On any failure the source is
// returned unchanged.
func Highlight(source, lexerName, styleName string) string {
	if lexerName == "" || lexerName == "text" {
		return source
	}
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(styleName)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}

// Summary is the one-line status of s: "200 OK  150ms  2.0 KiB  json".
func Summary(s response.Snapshot) string {
	parts := []string{s.Status, fmt.Sprintf("%dms", s.ElapsedMs), humanize.IBytes(uint64(s.Size))}
	if s.Kind != "" {
		parts = append(parts, string(s.Kind))
	}
	return strings.Join(parts, "  ")
}
