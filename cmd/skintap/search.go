package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/opener"
	"github.com/rendis/skintap/internal/model"
)

var searchFlags struct {
	statTrak    bool
	exterior    string
	minFloat    string
	maxFloat    string
	paintSeed   string
	noTradeHold bool
	markets     []string
	open        bool
}

func init() {
	f := searchCmd.Flags()
	f.BoolVar(&searchFlags.statTrak, "stattrak", false, "search the StatTrak™ variant")
	f.StringVarP(&searchFlags.exterior, "exterior", "e", "", "fn, mw, ft, ww, bs or a full label (default: any)")
	f.StringVar(&searchFlags.minFloat, "min-float", "", "lower float bound, 0..1")
	f.StringVar(&searchFlags.maxFloat, "max-float", "", "upper float bound, 0..1")
	f.StringVar(&searchFlags.paintSeed, "seed", "", "paint seed, 0..1000")
	f.BoolVar(&searchFlags.noTradeHold, "no-trade-hold", false, "only items without a trade hold where supported")
	f.StringSliceVarP(&searchFlags.markets, "markets", "m", nil, "comma-separated market ids (default: config defaultMarkets)")
	f.BoolVarP(&searchFlags.open, "open", "o", false, "open the URLs in the browser")

	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <item name>",
	Short: "Generate (and optionally open) marketplace search URLs for an item.",
	Example: `  skintap search "AK-47 | Redline" -e ft --max-float 0.2
  skintap search "★ Karambit | Doppler (Sapphire)" -e fn -m csfloat,buff163 --open
  skintap search "★ Karambit | Vanilla" --open`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())

		form := model.SearchForm{
			Item:        joinArgs(args),
			StatTrak:    searchFlags.statTrak,
			Exterior:    searchFlags.exterior,
			MinFloat:    searchFlags.minFloat,
			MaxFloat:    searchFlags.maxFloat,
			PaintSeed:   searchFlags.paintSeed,
			NoTradeHold: searchFlags.noTradeHold,
			Markets:     searchFlags.markets,
		}
		p, err := a.Prepare(form)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Market", "URL"})
		for _, e := range p.Results.Entries {
			u := e.URL
			if !e.OK() {
				u = "skipped"
				if e.Err != nil {
					u += ": " + e.Err.Error()
				}
			}
			t.AppendRow(table.Row{a.Tables.Label(e.Market), u})
		}
		t.Render()

		if !searchFlags.open {
			return nil
		}

		stats, err := a.Open(cmd.Context(), p.Results, func(ev opener.Event) {
			if ev.Skipped {
				return
			}
			status := "opened"
			if ev.Err != nil {
				status = "failed: " + ev.Err.Error()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s %s\n", ev.Index+1, len(p.Results.Entries), ev.Market, status)
		})
		if stats != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Opened %d, failed %d, skipped %d\n",
				stats.Opened.Load(), stats.Failed.Load(), stats.Skipped.Load())
		}
		return err
	},
}
