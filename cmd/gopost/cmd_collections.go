package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

func newCollectionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "collections",
		Aliases: []string{"cols"},
		Short:   "List the collections on the backend",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := c.client().ListCollections(cmd.Context())
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No collections")
				return nil
			}
			rows := make([][]string, 0, len(cols))
			for _, col := range cols {
				rows = append(rows, []string{col.ID.String(), col.Name})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"ID", "NAME"}, rows))
			return nil
		},
	}
}

func newRequestsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "requests <collection-id>",
		Aliases: []string{"reqs"},
		Short:   "List the requests of a collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := c.client().ListRequests(cmd.Context(), ident.ID(args[0]))
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No requests")
				return nil
			}
			rows := make([][]string, 0, len(reqs))
			for _, r := range reqs {
				rows = append(rows, []string{r.ID.String(), r.Method, r.Name, r.URI})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"ID", "METHOD", "NAME", "URL"}, rows))
			return nil
		},
	}
}

func newSaveCmd(c *cli) *cobra.Command {
	var df draftFlags
	cmd := &cobra.Command{
		Use:   "save <collection-id> [url]",
		Short: "Create a request in a collection",
		Example: `  gopost save 3 https://api.example.com/users --name "List users"
  gopost save 3 --from request.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := ""
			if len(args) == 2 {
				uri = args[1]
			}
			d, err := df.build(cmd.InOrStdin(), uri)
			if err != nil {
				return err
			}
			saved, err := c.client().CreateRequest(cmd.Context(), ident.ID(args[0]), d)
			if err != nil {
				return err
			}
			printSaved(cmd, "Created", saved)
			return nil
		},
	}
	df.register(cmd)
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	var df draftFlags
	cmd := &cobra.Command{
		Use:     "update <request-id> [url]",
		Short:   "Replace a saved request",
		Long: `Replace a saved request. The whole request is sent, so fields not given
are cleared; start from --from to change a single field.`,
		Example: `  gopost update 42 --from request.json`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := ""
			if len(args) == 2 {
				uri = args[1]
			}
			d, err := df.build(cmd.InOrStdin(), uri)
			if err != nil {
				return err
			}
			d.ID = ident.ID(args[0])
			saved, err := c.client().UpdateRequest(cmd.Context(), d)
			if err != nil {
				return err
			}
			printSaved(cmd, "Updated", saved)
			return nil
		},
	}
	df.register(cmd)
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <request-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved request",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().DeleteRequest(cmd.Context(), ident.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted request %s\n", args[0])
			return nil
		},
	}
}

func printSaved(cmd *cobra.Command, verb string, d request.Draft) {
	name := d.Name
	if name == "" {
		name = request.DefaultName
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q (id %s) in collection %s\n", verb, name, d.ID, d.CollectionID)
}
