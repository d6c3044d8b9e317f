package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/blob"
	"github.com/sadopc/gopost/internal/core/history"
	"github.com/sadopc/gopost/internal/core/response"
	"github.com/sadopc/gopost/internal/export"
	"github.com/sadopc/gopost/internal/render"
	"github.com/sadopc/gopost/internal/transport"
	"github.com/sadopc/gopost/internal/ui/theme"
)

func newSendCmd(c *cli) *cobra.Command {
	var (
		df        draftFlags
		asCurl    bool
		output    string
		raw       bool
		noHistory bool
	)
	cmd := &cobra.Command{
		Use:   "send <url>",
		Short: "Send a request and print the response",
		Long: `Send a request through the configured transport. The status line goes to
stderr and the body to stdout, so the output can be piped.`,
		Example: `  gopost send https://httpbin.org/get
  gopost send https://httpbin.org/post -d '{"a":1}' -H 'X-Trace: 1'
  gopost send https://httpbin.org/image/png --output image.png
  gopost send --from request.json --curl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := ""
			if len(args) == 1 {
				uri = args[0]
			}
			d, err := df.build(cmd.InOrStdin(), uri)
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			if asCurl {
				fmt.Fprintln(cmd.OutOrStdout(), export.AsCurl(d))
				return nil
			}

			sender, err := c.sender()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout())
			defer cancel()
			c.logger.Debug("sending", "method", d.Method, "url", d.URI, "mode", c.cfg.SendMode)
			resp, err := sender.Send(ctx, d)
			if err != nil {
				return err
			}

			snap := response.Classify(blob.NewStore(), resp)
			if !noHistory {
				c.record(history.NewEntry(d, snap, time.Now()))
			}

			fmt.Fprintln(cmd.ErrOrStderr(), render.Summary(snap))
			if output != "" {
				if err := os.WriteFile(output, resp.Body, 0644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				return nil
			}
			if snap.Kind.Binary() {
				// Raw bytes are only written when asked for.
				fmt.Fprintf(cmd.ErrOrStderr(), "%s body (%d bytes) not printed; use --output\n", snap.Kind, snap.Size)
				return nil
			}
			text, lexer := render.Body(snap)
			if !raw && isTerminal(cmd.OutOrStdout()) {
				text = render.Highlight(text, lexer, theme.Resolve(c.cfg.Theme).Chroma)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	df.register(cmd)
	cmd.Flags().BoolVar(&asCurl, "curl", false, "Print the equivalent curl command instead of sending")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the raw response body to a file")
	cmd.Flags().BoolVar(&raw, "raw", false, "Never colour the body")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the request in history")
	return cmd
}

func (c *cli) timeout() time.Duration {
	if c.cfg.DefaultTimeout > 0 {
		return c.cfg.DefaultTimeout
	}
	return transport.DefaultTimeout
}

// record appends e to history. Failures only warn.
func (c *cli) record(e history.Entry) {
	store := c.openHistory()
	if store == nil {
		return
	}
	defer store.Close()
	if _, err := store.Add(e); err != nil {
		c.logger.Warn("recording history failed", "error", err)
	}
}
