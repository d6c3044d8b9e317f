package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/app"
	"github.com/sadopc/gopost/internal/config"
	"github.com/sadopc/gopost/internal/core/blob"
	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/history"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/core/state"
	"github.com/sadopc/gopost/internal/logging"
)

const shutdownTimeout = 2 * time.Second

func (c *cli) runTUI(cmd *cobra.Command) error {
	dir, err := config.StateDir()
	if err != nil {
		return fmt.Errorf("resolving state directory: %w", err)
	}
	// The terminal belongs to the UI, so logs go to a file.
	logger, closer, err := logging.NewFileLogger(dir, c.verbose)
	if err != nil {
		return err
	}
	defer closer.Close()
	c.logger = logger

	files, _ := cmd.Flags().GetStringSlice("file")
	locals, err := loadWorkspaceFiles(files)
	if err != nil {
		if len(files) > 0 {
			return err
		}
		logger.Warn("ignoring workspace files in the current directory", "error", err)
	}

	tree := collection.NewTree(c.client(), c.cfg.CacheTTL, logger)
	paths := make(map[ident.ID]string, len(locals))
	for _, f := range locals {
		tree.AddLocal(f.Collection)
		paths[f.Collection.ID] = f.Path
	}

	store := blob.NewStore()
	server := blob.NewServer(store, logger)
	if c.cfg.BlobAddr != "" {
		base, err := server.Start(c.cfg.BlobAddr)
		if err != nil {
			// Binary responses stay viewable in place without the server.
			logger.Warn("blob server not started", "addr", c.cfg.BlobAddr, "error", err)
		} else {
			logger.Info("blob server listening", "base", base)
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Shutdown(ctx)
	}()

	ws := state.NewWorkspace(tree, response.NewClassifier(store, logger))
	defer ws.Close()

	hist := c.openHistory()
	if hist != nil {
		defer hist.Close()
	}

	sender, err := c.sender()
	if err != nil {
		return err
	}

	model := app.New(app.Options{
		Config:     c.cfg,
		Workspace:  ws,
		Backend:    c.client(),
		Sender:     sender,
		History:    hist,
		Logger:     logger,
		LocalFiles: paths,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

// openHistory opens the history database. History is optional, so failures
// are logged and nil is returned.
func (c *cli) openHistory() *history.Store {
	path, err := c.cfg.HistoryFile()
	if err != nil {
		c.logger.Warn("history disabled", "error", err)
		return nil
	}
	store, err := history.NewStore(path)
	if err != nil {
		c.logger.Warn("history disabled", "path", path, "error", err)
		return nil
	}
	store.SetLimit(c.cfg.HistoryLimit)
	return store
}

// loadWorkspaceFiles loads the named files, or every workspace file in the
// current directory when none are named.
func loadWorkspaceFiles(paths []string) ([]collection.File, error) {
	if len(paths) == 0 {
		return collection.LoadFromDir(".")
	}
	files := make([]collection.File, 0, len(paths))
	for _, path := range paths {
		col, err := collection.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		files = append(files, collection.File{Path: path, Collection: col})
	}
	return files, nil
}
