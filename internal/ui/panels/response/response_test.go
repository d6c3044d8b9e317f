package response

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gopost/internal/core/blob"
	coreresponse "github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/ui/msgs"
	"github.com/sadopc/gopost/internal/ui/theme"
)

func newPanel() Model {
	th := theme.Default()
	m := New(th, theme.NewStyles(th))
	m.SetSize(100, 24)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func jsonSnapshot() coreresponse.Snapshot {
	return coreresponse.Snapshot{
		Status:      "200 OK",
		StatusCode:  200,
		Elapsed:     42 * time.Millisecond,
		Size:        11,
		ContentType: "application/json",
		Kind:        coreresponse.KindJSON,
		Body:        coreresponse.Body{JSON: map[string]any{"ok": true}},
		Header:      http.Header{"Content-Type": {"application/json"}, "X-Trace": {"a", "b"}},
	}
}

func imageSnapshot(url string) coreresponse.Snapshot {
	return coreresponse.Snapshot{
		Status:      "200 OK",
		StatusCode:  200,
		Size:        2048,
		ContentType: "image/png",
		Kind:        coreresponse.KindImage,
		Body:        coreresponse.Body{Resource: blob.URL(url)},
	}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestEmptyAndLoadingViews(t *testing.T) {
	m := newPanel()
	if !strings.Contains(m.View(), "Send a request") {
		t.Fatalf("empty view = %q", m.View())
	}
	if cmd := m.SetLoading(true); cmd == nil {
		t.Fatal("loading should start the spinner")
	}
	if !strings.Contains(m.View(), "Sending request") {
		t.Fatalf("loading view = %q", m.View())
	}
	m.SetSnapshot(jsonSnapshot())
	if m.Loading() {
		t.Fatal("snapshot should end loading")
	}
}

func TestSetSnapshotRendersBodyAndMeta(t *testing.T) {
	m := newPanel()
	m.SetSnapshot(jsonSnapshot())

	view := m.View()
	for _, want := range []string{"200 OK", "42ms", "Body", "Headers"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := m.body.Plain(); !strings.Contains(got, `"ok": true`) {
		t.Errorf("plain body = %q", got)
	}
}

func TestTabSwitching(t *testing.T) {
	m := newPanel()
	m.SetSnapshot(jsonSnapshot())

	m, _ = m.Update(key("2"))
	if m.active != tabHeaders {
		t.Fatalf("active = %d, want headers", m.active)
	}
	if !strings.Contains(m.View(), "X-Trace") {
		t.Error("headers tab should list X-Trace")
	}
	m, _ = m.Update(key("]"))
	if m.active != tabBody {
		t.Fatalf("active = %d, want body after cycling", m.active)
	}
}

func TestCopyBody(t *testing.T) {
	m := newPanel()
	if cmd := m.copyCmd(); cmd != nil {
		t.Fatal("nothing to copy before a response")
	}
	m.SetSnapshot(jsonSnapshot())
	_, cmd := m.Update(key("y"))
	msg, ok := run(t, cmd).(msgs.CopyMsg)
	if !ok || msg.Label != "body" || !strings.Contains(msg.Text, "ok") {
		t.Fatalf("copy msg = %#v", msg)
	}
}

func TestCopyAndOpenResource(t *testing.T) {
	m := newPanel()
	m.SetSnapshot(imageSnapshot("http://127.0.0.1:9/blob/abc"))

	_, cmd := m.Update(key("y"))
	if msg := run(t, cmd).(msgs.CopyMsg); msg.Label != "URL" || msg.Text != "http://127.0.0.1:9/blob/abc" {
		t.Errorf("copy msg = %#v", msg)
	}
	_, cmd = m.Update(key("o"))
	if msg, ok := run(t, cmd).(msgs.OpenURLMsg); !ok || msg.URL != "http://127.0.0.1:9/blob/abc" {
		t.Errorf("open msg = %#v", msg)
	}
}

func TestOpenUnservedResource(t *testing.T) {
	m := newPanel()
	m.SetSnapshot(imageSnapshot("blob:abc"))
	_, cmd := m.Update(key("o"))
	if msg, ok := run(t, cmd).(msgs.ToastMsg); !ok || !msg.IsError {
		t.Errorf("msg = %#v, want error toast", msg)
	}
}

func TestBodySearch(t *testing.T) {
	m := newPanel()
	m.SetSnapshot(coreresponse.Snapshot{
		Status: "200 OK", StatusCode: 200, Kind: coreresponse.KindText,
		ContentType: "text/plain",
		Body:        coreresponse.Body{Text: "alpha\nbeta\nAlphabet"},
	})

	m, _ = m.Update(key("/"))
	if !m.Searching() {
		t.Fatal("slash should open the search input")
	}
	for _, r := range "alpha" {
		m, _ = m.Update(key(string(r)))
	}
	if got := m.body.search.Matches(); got != 2 {
		t.Errorf("matches = %d, want 2", got)
	}
	m, _ = m.Update(key("enter"))
	if m.Searching() {
		t.Fatal("enter should release the keyboard")
	}
	m, _ = m.Update(key("n"))
	if line := m.body.search.CurrentMatchLine(); line != 2 {
		t.Errorf("current match line = %d, want 2", line)
	}
	m, _ = m.Update(key("esc"))
	if m.body.search.Active() {
		t.Error("esc should close the search")
	}
}

func TestHighlightMatches(t *testing.T) {
	mark := lipgloss.NewStyle().Bold(true)
	out, lines := HighlightMatches("Foo bar\nnone\nfoo", "foo", mark)
	if len(lines) != 2 || lines[0] != 0 || lines[1] != 2 {
		t.Errorf("lines = %v", lines)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("out = %q", out)
	}
	if got, hits := HighlightMatches("x", "", mark); got != "x" || hits != nil {
		t.Error("empty query should be a no-op")
	}
}

func TestHeadersOneLinePerValue(t *testing.T) {
	th := theme.Default()
	h := NewHeadersModel(theme.NewStyles(th))
	h.SetSize(80, 10)
	h.SetHeaders(http.Header{"B": {"2"}, "A": {"1", "3"}})
	view := h.View()
	if strings.Count(view, "A") < 2 || strings.Index(view, "A") > strings.Index(view, "B") {
		t.Errorf("headers view = %q", view)
	}
	h.SetHeaders(nil)
	if !strings.Contains(h.View(), "No") {
		t.Errorf("empty headers view = %q", h.View())
	}
}
