package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/export/postman"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		output string
		remote string
	)
	cmd := &cobra.Command{
		Use:   "export [workspace-file]",
		Short: "Export a collection as Postman JSON",
		Example: `  gopost export api.gopost.yaml --output postman.json
  gopost export --remote 3 > postman.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var col *collection.Collection
			switch {
			case remote != "" && len(args) == 1:
				return fmt.Errorf("give either a workspace file or --remote, not both")
			case remote != "":
				var err error
				if col, err = c.fetchCollection(cmd, ident.ID(remote)); err != nil {
					return err
				}
			case len(args) == 1:
				var err error
				if col, err = collection.LoadFromFile(args[0]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("a workspace file or --remote is required")
			}

			data, err := postman.Export(col)
			if err != nil {
				return fmt.Errorf("exporting %q: %w", col.Name, err)
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %q (%d requests) to %s\n", col.Name, len(col.Requests), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	cmd.Flags().StringVar(&remote, "remote", "", "Export this backend collection")
	return cmd
}

// fetchCollection loads a backend collection with its requests through the
// tree cache.
func (c *cli) fetchCollection(cmd *cobra.Command, id ident.ID) (*collection.Collection, error) {
	tree := collection.NewTree(c.client(), c.cfg.CacheTTL, c.logger)
	if _, err := tree.ListCollections(cmd.Context()); err != nil {
		return nil, err
	}
	if err := tree.Reload(cmd.Context(), id); err != nil {
		return nil, fmt.Errorf("collection %s: %w", id, err)
	}
	col, ok := tree.Collection(id)
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, collection.ErrUnknownCollection)
	}
	return &col, nil
}
