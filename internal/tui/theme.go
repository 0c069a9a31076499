package tui

import (
	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/tui/styles"
)

// loadTheme applies the stored palette. A read failure keeps the dark one.
func loadTheme(svc *app.App) {
	dark, err := svc.Store.DarkMode()
	if err != nil {
		svc.Logger.Warn("reading theme failed", "err", err)
		dark = true
	}
	styles.Apply(dark)
}

func toggleTheme(svc *app.App) {
	styles.Apply(!styles.Dark())
	if err := svc.Store.SetDarkMode(styles.Dark()); err != nil {
		svc.Logger.Error("saving theme failed", "err", err)
	}
}
