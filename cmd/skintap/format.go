package main

import (
	"strings"

	"github.com/rendis/skintap/internal/engine/storage"
	"github.com/rendis/skintap/internal/model"
)

func marketID(s string) model.MarketID {
	return model.NormalizeMarketID(s)
}

// describeFilters renders the non-default form fields of a search.
func describeFilters(s storage.Search) string {
	var parts []string
	f := s.Form
	if f.StatTrak {
		parts = append(parts, "StatTrak")
	}
	if f.Exterior != "" {
		parts = append(parts, f.Exterior)
	}
	if f.MinFloat != "" || f.MaxFloat != "" {
		lo, hi := f.MinFloat, f.MaxFloat
		if lo == "" {
			lo = "0"
		}
		if hi == "" {
			hi = "1"
		}
		parts = append(parts, "float "+lo+"-"+hi)
	}
	if f.PaintSeed != "" {
		parts = append(parts, "seed "+f.PaintSeed)
	}
	if f.NoTradeHold {
		parts = append(parts, "no hold")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
