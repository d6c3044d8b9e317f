package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/collection"
	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/import/postman"
)

func newImportCmd(c *cli) *cobra.Command {
	var (
		output string
		push   string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Postman collection",
		Long: `Import a Postman Collection v2.1 document. By default it is written as a
local workspace file; with --push every request is created in a backend
collection instead. Requests in folders are named after their folder path.`,
		Example: `  gopost import postman.json
  gopost import postman.json --output api.gopost.yaml
  cat postman.json | gopost import - --push 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			col, err := postman.Parse(data)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()

			if push != "" {
				client := c.client()
				for i, d := range col.Requests {
					if _, err := client.CreateRequest(cmd.Context(), ident.ID(push), d); err != nil {
						return fmt.Errorf("pushed %d of %d requests: %w", i, len(col.Requests), err)
					}
				}
				fmt.Fprintf(out, "Pushed %d requests from %q to collection %s\n", len(col.Requests), col.Name, push)
				return nil
			}

			path := output
			if path == "" {
				path = collection.FileName(col.Name)
			}
			if err := collection.SaveToFile(col, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %q (%d requests) to %s\n", col.Name, len(col.Requests), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Workspace file to write (default derived from the collection name)")
	cmd.Flags().StringVar(&push, "push", "", "Create the requests in this backend collection instead of writing a file")
	return cmd
}
