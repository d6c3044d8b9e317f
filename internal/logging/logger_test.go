package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLoggerWritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	logger, closer, err := NewFileLogger(dir, false)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("sent", "status", 200)
	logger.Debug("hidden")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "sent" || rec["status"] != float64(200) {
		t.Errorf("record = %v", rec)
	}
}

func TestRotateIfNeeded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	if err := rotateIfNeeded(path); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}

	os.WriteFile(path, []byte("small"), 0644)
	if err := rotateIfNeeded(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Fatal("small file was rotated")
	}

	os.WriteFile(path+".1", []byte("older"), 0644)
	os.WriteFile(path, bytes.Repeat([]byte("x"), maxLogSize), 0644)
	if err := rotateIfNeeded(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("current log still present after rotation")
	}
	if got, _ := os.ReadFile(path + ".2"); string(got) != "older" {
		t.Errorf(".2 = %q, want shifted backup", got)
	}
	if info, err := os.Stat(path + ".1"); err != nil || info.Size() != maxLogSize {
		t.Errorf(".1 stat = %v, %v", info, err)
	}
}

func TestNewCLILoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	NewCLILogger(&buf, false).Debug("quiet")
	if buf.Len() != 0 {
		t.Errorf("debug shown without verbose: %q", buf.String())
	}
	NewCLILogger(&buf, true).Debug("loud")
	if !strings.Contains(buf.String(), "msg=loud") {
		t.Errorf("verbose output = %q", buf.String())
	}
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	if l.Enabled(t.Context(), 12) {
		t.Error("nop logger reports enabled")
	}
}
