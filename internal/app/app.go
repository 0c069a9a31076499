// Package app wires config, storage, catalog and the URL engine together
// for the CLI and the TUI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rendis/skintap/internal/config"
	"github.com/rendis/skintap/internal/engine/batch"
	"github.com/rendis/skintap/internal/engine/catalog"
	"github.com/rendis/skintap/internal/engine/mapping"
	"github.com/rendis/skintap/internal/engine/opener"
	"github.com/rendis/skintap/internal/engine/parser"
	"github.com/rendis/skintap/internal/engine/storage"
	"github.com/rendis/skintap/internal/engine/synth"
	"github.com/rendis/skintap/internal/model"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Tables  *mapping.Tables
	Catalog *catalog.Loader
	Store   *storage.Store
	Engine  *batch.Engine
	Opener  *opener.Opener
}

type Option func(*options)

type options struct {
	browser opener.Browser
}

// WithBrowser replaces the system browser, mainly for tests.
func WithBrowser(b opener.Browser) Option {
	return func(o *options) { o.browser = b }
}

func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.NewStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Tables:  mapping.Default(),
		Catalog: catalog.NewLoader(cfg.CatalogFile(), logger),
		Store:   store,
	}
	a.Engine = batch.New(a.Env())
	a.Opener = opener.New(o.browser, cfg.Delay(), logger)
	return a, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// Env is the generator environment built from config.
func (a *App) Env() synth.Env {
	tr := synth.Tracking{}
	if !a.Config.Tracking.Disabled {
		tr = synth.Tracking{
			Source:   a.Config.Tracking.Source,
			Medium:   a.Config.Tracking.Medium,
			Campaign: a.Config.Tracking.Campaign,
		}
	}
	return synth.Env{
		Tables:   a.Tables,
		Catalog:  a.Catalog,
		Tracking: tr,
		Logger:   a.Logger,
	}
}

// Prepared is a validated search and its generated URLs.
type Prepared struct {
	Descriptor model.SearchDescriptor
	Results    batch.Results
	Record     storage.Search
}

// Prepare validates the form, generates URLs for its markets and records
// the search. An empty market list uses the configured defaults.
// Persistence failures are logged, not returned.
func (a *App) Prepare(form model.SearchForm) (Prepared, error) {
	if len(form.Markets) == 0 {
		form.Markets = a.Config.DefaultMarkets
	}

	d, err := parser.Build(form)
	if err != nil {
		return Prepared{}, err
	}

	p := Prepared{Descriptor: d, Results: a.Engine.GenerateAll(d, form.Markets)}

	if err := a.Store.SaveForm(form); err != nil {
		a.Logger.Error("saving form failed", "err", err)
	}

	urls := make([]storage.SearchURL, 0, len(p.Results.Entries))
	for _, e := range p.Results.Entries {
		u := storage.SearchURL{Market: string(e.Market), URL: e.URL}
		if e.Err != nil {
			u.Error = e.Err.Error()
		}
		urls = append(urls, u)
	}
	rec, err := a.Store.RecordSearch(form, urls)
	if err != nil {
		a.Logger.Error("recording search failed", "err", err)
	}
	p.Record = rec

	a.Logger.Info("search prepared",
		"item", d.FullInput, "markets", len(p.Results.Entries), "urls", p.Results.Count())
	return p, nil
}

// Open opens the prepared URLs in order.
func (a *App) Open(ctx context.Context, res batch.Results, onEach func(opener.Event)) (*opener.Stats, error) {
	return a.Opener.Open(ctx, res.Entries, onEach)
}

// OpenOne opens a single result entry right away.
func (a *App) OpenOne(ctx context.Context, e batch.Entry) error {
	return a.Opener.OpenOne(ctx, e)
}

// Recorded rebuilds the results of a past search from history. Markets
// that were skipped come back with their recorded reason as the error.
func (a *App) Recorded(id string) (storage.Search, batch.Results, error) {
	s, err := a.Store.GetSearch(id)
	if err != nil {
		return storage.Search{}, batch.Results{}, err
	}
	urls, err := a.Store.SearchURLs(id)
	if err != nil {
		return storage.Search{}, batch.Results{}, err
	}
	res := batch.Results{Entries: make([]batch.Entry, 0, len(urls))}
	for _, u := range urls {
		e := batch.Entry{Market: model.MarketID(u.Market), URL: u.URL}
		if u.Error != "" {
			e.Err = errors.New(u.Error)
		}
		res.Entries = append(res.Entries, e)
	}
	return s, res, nil
}

// ImportCatalog installs the catalog file at src as the active catalog.
func (a *App) ImportCatalog(src string) (*catalog.Catalog, error) {
	c, err := catalog.ImportFile(src, a.Config.CatalogFile())
	if err != nil {
		return nil, err
	}
	a.Catalog.Set(c)
	a.Logger.Info("catalog imported", "src", src, "entries", c.Len())
	return c, nil
}

// ItemNames lists catalog base names for autocomplete.
func (a *App) ItemNames() []string {
	return a.Catalog.Get().BaseNames()
}

// LastForm returns the saved form, or one pre-filled with default markets.
func (a *App) LastForm() model.SearchForm {
	form, ok, err := a.Store.LoadForm()
	if err != nil {
		a.Logger.Warn("loading saved form failed", "err", err)
	}
	if !ok || len(form.Markets) == 0 {
		form.Markets = append([]string(nil), a.Config.DefaultMarkets...)
	}
	return form
}

type ctxKey struct{}

// WithContext stores a in ctx for cobra commands.
func WithContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored by WithContext, or nil.
func FromContext(ctx context.Context) *App {
	a, _ := ctx.Value(ctxKey{}).(*App)
	return a
}
