package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/fetch"
	"github.com/rendis/skintap/internal/engine/suggest"
)

var catalogPullURL string

func init() {
	catalogPullCmd.Flags().StringVar(&catalogPullURL, "url", "", "catalog URL (default: config catalogURL)")
	catalogCmd.AddCommand(catalogPullCmd, catalogLookupCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or update the item id catalog used by Buff163 and Youpin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		cat := a.Catalog.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nentries: %d\nitems:   %d\n",
			a.Config.CatalogFile(), cat.Len(), len(cat.BaseNames()))
		if err := a.Catalog.Err(); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "error:   %v\n", err)
		}
		return nil
	},
}

var catalogPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download a catalog file and make it the active catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		url := catalogPullURL
		if url == "" {
			url = a.Config.CatalogURL
		}
		if url == "" {
			return fmt.Errorf("no catalog URL: pass --url or set catalogURL in the config")
		}

		c := fetch.NewClient(fetch.Options{ProxyURL: a.Config.ProxyURL, Logger: a.Logger})
		cat, err := c.PullCatalog(cmd.Context(), url, a.Config.CatalogFile())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d entries to %s\n", cat.Len(), a.Config.CatalogFile())
		return nil
	},
}

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup <market hash name>",
	Short: "Show catalog ids for an item, or suggestions when there is no match.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())
		name := joinArgs(args)
		cat := a.Catalog.Get()

		e, ok := cat.Lookup(name)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is not in the catalog.\n", name)
			if s := suggest.Suggest(name, cat.BaseNames(), suggest.DefaultLimit); len(s) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Did you mean:")
				for _, n := range s {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+n)
				}
			}
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Buff163", "Youpin", "Buff phases"})
		t.AppendRow(table.Row{e.Name, idOrDash(e.Buff163), idOrDash(e.Youpin), len(e.BuffPhases)})
		t.Render()
		return nil
	},
}

func idOrDash(id int64) string {
	if id <= 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}
