package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/history"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var (
		search   string
		limit    int
		clearAll bool
		del      int64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear sent requests",
		Example: `  gopost history --limit 10
  gopost history --search users
  gopost history --delete 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.cfg.HistoryFile()
			if err != nil {
				return err
			}
			store, err := history.NewStore(path)
			if err != nil {
				return err
			}
			defer store.Close()
			out := cmd.OutOrStdout()

			switch {
			case clearAll:
				n, err := store.Count()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d entries\n", n)
				return nil
			case del != 0:
				if err := store.Delete(del); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted entry %d\n", del)
				return nil
			}

			var entries []history.Entry
			if search != "" {
				entries, err = store.Search(search, limit)
			} else {
				entries, err = store.List(limit, 0)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No history")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					humanize.Time(e.Timestamp),
					e.Method,
					strconv.Itoa(e.StatusCode),
					e.Duration.Round(time.Millisecond).String(),
					humanize.IBytes(uint64(e.Size)),
					e.URL,
				})
			}
			fmt.Fprint(out, renderTable(out, []string{"ID", "WHEN", "METHOD", "STATUS", "TIME", "SIZE", "URL"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only entries whose URL or method contains this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all entries")
	cmd.Flags().Int64Var(&del, "delete", 0, "Delete the entry with this id")
	cmd.MarkFlagsMutuallyExclusive("clear", "delete", "search")
	return cmd
}
