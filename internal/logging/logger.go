// Package logging builds the slog loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// maxLogSize is the size at which the log file is rotated (5 MB).
	maxLogSize = 5 * 1024 * 1024
	// maxLogBackups is the number of rotated files kept.
	maxLogBackups = 3
)

// FileName is the log file written inside the state directory.
const FileName = "gopost.log"

// NewFileLogger opens <dir>/gopost.log for appending and returns a JSON
// logger writing to it. The file is rotated first when it has grown past
// maxLogSize. The caller owns the returned closer.
func NewFileLogger(dir string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	if err := rotateIfNeeded(path); err != nil {
		return nil, nil, fmt.Errorf("rotating log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     level(debug),
		AddSource: debug,
	})
	return slog.New(handler), f, nil
}

// NewCLILogger returns a text logger for headless commands.
func NewCLILogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)}))
}

// NewNopLogger discards everything.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// rotateIfNeeded renames gopost.log to gopost.log.1, shifting older backups
// up and dropping the oldest.
func rotateIfNeeded(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() < maxLogSize {
		return nil
	}

	for i := maxLogBackups; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", path, i)
		if i == maxLogBackups {
			os.Remove(src)
			continue
		}
		os.Rename(src, fmt.Sprintf("%s.%d", path, i+1))
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
