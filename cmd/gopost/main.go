package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/api"
	"github.com/sadopc/gopost/internal/config"
	"github.com/sadopc/gopost/internal/logging"
	"github.com/sadopc/gopost/internal/transport"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cli carries the state shared by every subcommand.
type cli struct {
	verbose    bool
	configPath string
	baseURL    string
	apiKey     string

	cfg    config.Config
	logger *slog.Logger
}

func main() {
	root := newRootCmd(&cli{})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "gopost",
		Short: "A terminal client for a collection-backed HTTP request workspace",
		Long: `gopost edits, sends and stores HTTP requests kept in collections on a
backend API. Run it without arguments for the terminal UI, or use one of the
subcommands to script the same operations.`,
		Example: `  gopost
  gopost send https://httpbin.org/get
  gopost collections
  gopost import postman.json --push 3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default ~/.config/gopost/config.yaml)")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "Backend base URL (overrides config and "+config.EnvBaseURL+")")
	root.PersistentFlags().StringVar(&c.apiKey, "api-key", "", "Backend API key (overrides config and "+config.EnvAPIKey+")")
	root.Flags().StringSliceP("file", "f", nil, "Workspace file to open as a local collection (repeatable)")

	root.AddCommand(
		newSendCmd(c),
		newCollectionsCmd(c),
		newRequestsCmd(c),
		newSaveCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newHistoryCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup configures logging and loads the configuration. Flags override the
// file and the environment.
func (c *cli) setup(stderr io.Writer) error {
	c.logger = logging.NewCLILogger(stderr, c.verbose)
	slog.SetDefault(c.logger)

	cfg := config.Load()
	if c.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(c.configPath); err != nil {
			return err
		}
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.apiKey != "" {
		cfg.APIKey = c.apiKey
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.logger.Debug("config loaded", "base_url", cfg.BaseURL, "send_mode", cfg.SendMode)
	return nil
}

func (c *cli) client() *api.Client {
	client := api.New(c.cfg.BaseURL, c.cfg.APIKey)
	client.SetTimeout(c.cfg.DefaultTimeout)
	client.SetPlaceholderName(c.cfg.UntitledName)
	client.SetLogger(c.logger)
	return client
}

func (c *cli) sender() (transport.Sender, error) {
	return transport.New(transport.Options{
		Mode:     transport.Mode(c.cfg.SendMode),
		BaseURL:  c.cfg.BaseURL,
		APIKey:   c.cfg.APIKey,
		Timeout:  c.cfg.DefaultTimeout,
		ProxyURL: c.cfg.ProxyURL,
		NoProxy:  c.cfg.NoProxy,
		Logger:   c.logger,
	})
}
