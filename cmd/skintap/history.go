package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/storage"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of searches to show")
	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		searches, err := a.Store.RecentSearches(historyLimit)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "When", "Item", "Filters", "URLs"})
		for _, s := range searches {
			t.AppendRow(table.Row{
				s.ID[:8],
				s.CreatedAt.Local().Format(time.DateTime),
				s.Form.Item,
				describeFilters(s),
				fmt.Sprintf("%d/%d", s.Opened, s.Total),
			})
		}
		t.Render()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the URLs generated for one search.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		s, err := findSearch(a, args[0])
		if err != nil {
			return err
		}
		urls, err := a.Store.SearchURLs(s.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", s.ID, s.Form.Item, describeFilters(s))
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Market", "URL"})
		for _, u := range urls {
			v := u.URL
			if v == "" {
				v = "skipped: " + u.Error
			}
			t.AppendRow(table.Row{a.Tables.Label(marketID(u.Market)), v})
		}
		t.Render()
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one search from history.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		s, err := findSearch(a, args[0])
		if err != nil {
			return err
		}
		return a.Store.DeleteSearch(s.ID)
	},
}

// findSearch accepts a full id or the 8-character prefix shown by history.
func findSearch(a *app.App, id string) (storage.Search, error) {
	if s, err := a.Store.GetSearch(id); err == nil {
		return s, nil
	}
	recent, err := a.Store.RecentSearches(0)
	if err != nil {
		return storage.Search{}, err
	}
	for _, s := range recent {
		if len(id) >= 4 && len(s.ID) >= len(id) && s.ID[:len(id)] == id {
			return s, nil
		}
	}
	return storage.Search{}, fmt.Errorf("search %s: %w", id, storage.ErrNotFound)
}
