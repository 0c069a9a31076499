package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/mapping"
)

func init() {
	rootCmd.AddCommand(marketsCmd)
}

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List supported marketplaces and the filters each one accepts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.FromContext(cmd.Context())

		defaults := map[string]bool{}
		for _, id := range a.Config.DefaultMarkets {
			defaults[strings.ToLower(id)] = true
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Name", "Exterior", "Phase", "Float", "Seed", "Trade hold", "Default"})
		for _, id := range a.Tables.IDs() {
			m, _ := a.Tables.Market(id)
			t.AppendRow(table.Row{
				id,
				m.Label,
				yesNo(len(m.Exterior) > 0),
				phaseSupport(m),
				yesNo(m.SupportsFloat),
				yesNo(m.SupportsSeed),
				yesNo(m.TradeHold.Key != ""),
				yesNo(defaults[string(id)]),
			})
		}
		t.Render()
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func phaseSupport(m *mapping.Market) string {
	switch {
	case m.GammaPhase != nil:
		return "doppler+gamma"
	case len(m.Phase) > 0:
		return "yes"
	}
	return "-"
}
