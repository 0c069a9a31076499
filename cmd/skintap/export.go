package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/storage"
)

var exportFlags struct {
	output string
	format string
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: skintap_history_<date>.csv in the data dir, - for stdout)")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "export format: csv")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export search history with one row per generated URL.",
	Example: `  skintap export
  skintap export -o history.csv
  skintap export -o - | head`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFlags.format != "csv" {
			return fmt.Errorf("unsupported format: %s (only csv supported)", exportFlags.format)
		}

		a := app.FromContext(cmd.Context())
		rows, err := a.Store.AllHistory()
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("no searches in history")
		}

		out := exportFlags.output
		if out == "" {
			out = filepath.Join(a.Config.DataDir, "skintap_history_"+time.Now().Format("20060102_150405")+".csv")
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := writeHistoryCSV(w, rows); err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(rows), out)
		}
		return nil
	},
}

func writeHistoryCSV(w io.Writer, rows []storage.HistoryRow) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{
		"search_id", "created_at", "item", "stattrak", "exterior",
		"min_float", "max_float", "paint_seed", "no_trade_hold",
		"market", "url", "error",
	})
	for _, r := range rows {
		cw.Write([]string{
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.Form.Item,
			strconv.FormatBool(r.Form.StatTrak),
			r.Form.Exterior,
			r.Form.MinFloat,
			r.Form.MaxFloat,
			r.Form.PaintSeed,
			strconv.FormatBool(r.Form.NoTradeHold),
			r.Market,
			r.URL,
			r.Error,
		})
	}
	cw.Flush()
	return cw.Error()
}
