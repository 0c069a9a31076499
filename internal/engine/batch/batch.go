// Package batch fans one SearchDescriptor out across the selected markets.
// A failing market never affects the others; it just gets an empty entry.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rendis/skintap/internal/engine/synth"
	"github.com/rendis/skintap/internal/model"
)

// Entry is the outcome for one market. URL is empty when the market was
// skipped; Err says why.
type Entry struct {
	Market model.MarketID
	URL    string
	Err    error
}

// OK reports whether the entry has a URL to open.
func (e Entry) OK() bool {
	return e.URL != ""
}

// Results keeps entries in the order the markets were requested.
type Results struct {
	Entries []Entry
}

// URL returns the URL for id and whether it is non-empty.
func (r Results) URL(id model.MarketID) (string, bool) {
	for _, e := range r.Entries {
		if e.Market == id {
			return e.URL, e.URL != ""
		}
	}
	return "", false
}

// Map returns market id to URL. Skipped markets map to "".
func (r Results) Map() map[model.MarketID]string {
	m := make(map[model.MarketID]string, len(r.Entries))
	for _, e := range r.Entries {
		m[e.Market] = e.URL
	}
	return m
}

// Count returns the number of entries with a URL.
func (r Results) Count() int {
	n := 0
	for _, e := range r.Entries {
		if e.OK() {
			n++
		}
	}
	return n
}

// PanicError wraps a recovered generator panic.
type PanicError struct {
	Market model.MarketID
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("generator for %s panicked: %v", e.Market, e.Value)
}

type Engine struct {
	env    synth.Env
	logger *slog.Logger

	overrides map[model.MarketID]synth.Generator
}

type Option func(*Engine)

// WithGenerator replaces or adds the generator for one market.
func WithGenerator(id model.MarketID, g synth.Generator) Option {
	return func(e *Engine) {
		e.overrides[id] = g
	}
}

func New(env synth.Env, opts ...Option) *Engine {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		env:       env,
		logger:    logger.With("component", "batch"),
		overrides: map[model.MarketID]synth.Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateAll builds one entry per distinct requested market. Ids are
// normalized before lookup and duplicates keep their first position.
func (e *Engine) GenerateAll(d model.SearchDescriptor, ids []string) Results {
	seen := make(map[model.MarketID]bool, len(ids))
	res := Results{Entries: make([]Entry, 0, len(ids))}

	for _, raw := range ids {
		id := model.NormalizeMarketID(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		res.Entries = append(res.Entries, e.generate(id, d))
	}

	e.logger.Debug("batch generated", "requested", len(res.Entries), "urls", res.Count())
	return res
}

func (e *Engine) generate(id model.MarketID, d model.SearchDescriptor) (entry Entry) {
	entry.Market = id

	g, ok := e.overrides[id]
	if !ok {
		g, ok = synth.Lookup(id)
	}
	if !ok {
		entry.Err = fmt.Errorf("%w: %s", synth.ErrUnknownMarket, id)
		e.logger.Warn("unknown market id", "market", id)
		return entry
	}

	defer func() {
		if r := recover(); r != nil {
			entry.URL = ""
			entry.Err = &PanicError{Market: id, Value: r}
			e.logger.Error("generator panicked", "market", id, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	url, err := g(d, e.env)
	switch {
	case errors.Is(err, synth.ErrNotInCatalog):
		entry.Err = err
		e.logger.Info("market skipped, item not in catalog", "market", id, "item", d.MarketHashName())
	case err != nil:
		entry.Err = err
		e.logger.Error("generating url failed", "market", id, "err", err)
	default:
		entry.URL = url
	}
	return entry
}
