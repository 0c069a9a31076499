package tui

import (
	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/tui/views"
)

const maxRecent = 50

// loadRecent builds the recent view from stored history, newest first.
func loadRecent(svc *app.App) views.RecentModel {
	entries, err := svc.Store.RecentSearches(maxRecent)
	if err != nil {
		svc.Logger.Error("loading history failed", "err", err)
	}
	return views.NewRecentModel(entries, err)
}
