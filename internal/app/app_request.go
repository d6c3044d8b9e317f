package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/gopost/internal/core/history"
	"github.com/sadopc/gopost/internal/export"
	"github.com/sadopc/gopost/internal/ui/msgs"
)

func (a App) sendRequest() (tea.Model, tea.Cmd) {
	d := a.ws.Draft.Clone()
	if err := d.Validate(); err != nil {
		return a, a.fail("Send", err)
	}

	spin := a.response.SetLoading(true)
	a.statusBar.SetMessage(fmt.Sprintf("Sending %s %s", d.Method, d.URI))
	a.logger.Debug("sending request", "method", d.Method, "url", d.URI)

	sender := a.sender
	timeout := a.timeout()
	send := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		raw, err := sender.Send(ctx, d)
		return msgs.ResponseMsg{Draft: d, Raw: raw, Err: err}
	}
	return a, tea.Batch(send, spin)
}

func (a App) handleResponse(msg msgs.ResponseMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.response.SetLoading(false)
		return a, a.fail("Send", msg.Err)
	}

	snap := a.ws.Receive(msg.Raw)
	a.response.SetSnapshot(snap)
	a.statusBar.SetSnapshot(snap)
	a.statusBar.SetMessage("")
	a.logger.Debug("response received", "status", snap.StatusCode, "kind", snap.Kind, "elapsed", snap.Elapsed)

	if a.history == nil {
		return a, nil
	}
	store, logger := a.history, a.logger
	entry := history.NewEntry(msg.Draft, snap, time.Now())
	return a, func() tea.Msg {
		if _, err := store.Add(entry); err != nil {
			logger.Warn("recording history failed", "error", err)
		}
		return nil
	}
}

func (a App) copyAsCurl() (tea.Model, tea.Cmd) {
	a.syncEdit()
	if a.ws.Draft.URI == "" {
		return a, a.toast.Show("No URL to copy", true, toastShort)
	}
	return a, a.copyCmd(export.AsCurl(a.ws.Draft), "cURL")
}

func (a App) copyCmd(text, label string) tea.Cmd {
	write := a.copyText
	return func() tea.Msg {
		if err := write(text); err != nil {
			return msgs.ToastMsg{Text: "Clipboard error: " + err.Error(), IsError: true, Duration: toastError}
		}
		return msgs.ToastMsg{Text: "Copied " + label}
	}
}

func (a App) openCmd(url string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return msgs.ToastMsg{Text: "Opening URL failed: " + err.Error(), IsError: true, Duration: toastError}
		}
		return msgs.ToastMsg{Text: "Opened " + url}
	}
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	go cmd.Wait()
	return nil
}

func (a App) openExternalEditor() (tea.Model, tea.Cmd) {
	editorCmd := a.cfg.Editor
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmp, err := os.CreateTemp("", "gopost-body-*.json")
	if err != nil {
		return a, a.fail("External editor", fmt.Errorf("creating temp file: %w", err))
	}
	_, err = tmp.WriteString(a.editor.Body())
	tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return a, a.fail("External editor", fmt.Errorf("writing temp file: %w", err))
	}

	path := tmp.Name()
	c := exec.Command(editorCmd, path)
	return a, tea.ExecProcess(c, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return msgs.EditorDoneMsg{Err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return msgs.EditorDoneMsg{Err: fmt.Errorf("reading temp file: %w", err)}
		}
		return msgs.EditorDoneMsg{Content: string(data)}
	})
}
