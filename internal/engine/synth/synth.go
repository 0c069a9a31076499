// Package synth builds marketplace search URLs from a SearchDescriptor.
//
// Every marketplace has one Generator. Generators are pure: the same
// descriptor, tables and catalog always produce the same URL. A missing
// mapping code drops that filter instead of failing the URL.
package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"

	"github.com/rendis/skintap/internal/engine/catalog"
	"github.com/rendis/skintap/internal/engine/mapping"
	"github.com/rendis/skintap/internal/model"
)

var (
	// ErrNotInCatalog is returned by generators that need a catalog entry and
	// found none. The market is skipped; no tab is opened.
	ErrNotInCatalog  = errors.New("item not found in catalog")
	ErrUnknownMarket = errors.New("unknown market")
)

// Catalog is the read side of the item catalog.
type Catalog interface {
	Lookup(name string) (catalog.Entry, bool)
	LookupBase(name string) (catalog.Entry, bool)
	HasVariants(name string) bool
}

// Env carries the read-only collaborators shared by all generators.
type Env struct {
	Tables   *mapping.Tables
	Catalog  Catalog
	Tracking Tracking
	Logger   *slog.Logger
}

func (e Env) tables() *mapping.Tables {
	if e.Tables == nil {
		return mapping.Default()
	}
	return e.Tables
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e Env) lookup(name string) (catalog.Entry, bool) {
	if e.Catalog == nil {
		return catalog.Entry{}, false
	}
	return e.Catalog.Lookup(name)
}

// lookupItem finds the catalog entry for d. A search without an exterior has
// no exact key, so any variant of the base item is accepted.
func (e Env) lookupItem(d model.SearchDescriptor) (catalog.Entry, bool) {
	if entry, ok := e.lookup(d.MarketHashName()); ok {
		return entry, true
	}
	if e.Catalog == nil || d.Exterior != model.ExteriorAny {
		return catalog.Entry{}, false
	}
	return e.Catalog.LookupBase(d.FinalSearchName)
}

// Generator produces the search URL for one marketplace.
type Generator func(d model.SearchDescriptor, env Env) (string, error)

var registry = map[model.MarketID]Generator{
	model.MarketSteam:       steamURL,
	model.MarketBuff163:     buff163URL,
	model.MarketCSFloat:     csfloatURL,
	model.MarketSkinport:    skinportURL,
	model.MarketDMarket:     dmarketURL,
	model.MarketBitSkins:    bitskinsURL,
	model.MarketCSMoney:     csmoneyURL,
	model.MarketSkinBaron:   skinbaronURL,
	model.MarketTradeit:     tradeitURL,
	model.MarketWaxpeer:     waxpeerURL,
	model.MarketShadowPay:   shadowpayURL,
	model.MarketMarketCSGO:  marketcsgoURL,
	model.MarketWhiteMarket: whitemarketURL,
	model.MarketGamerPay:    gamerpayURL,
	model.MarketLisSkins:    lisskinsURL,
	model.MarketAvanMarket:  avanmarketURL,
	model.MarketYoupin:      youpinURL,
}

// Lookup resolves the generator for a market id.
func Lookup(id model.MarketID) (Generator, bool) {
	g, ok := registry[id]
	return g, ok
}

// Markets returns the ids that have a generator, sorted.
func Markets() []model.MarketID {
	ids := make([]model.MarketID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Generate runs the generator for id.
func Generate(id model.MarketID, d model.SearchDescriptor, env Env) (string, error) {
	g, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMarket, id)
	}
	return g(d, env)
}

// formatFloat uses the shortest representation that round-trips, so a
// bound typed as 0.07 comes back out as 0.07.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// builder accumulates the common filters in the order every generator
// applies them.
type builder struct {
	env Env
	m   *mapping.Market
	d   model.SearchDescriptor
	q   url.Values
}

func newBuilder(id model.MarketID, d model.SearchDescriptor, env Env) (*builder, error) {
	m, ok := env.tables().Market(id)
	if !ok {
		return nil, fmt.Errorf("%w: no mapping table for %s", ErrUnknownMarket, id)
	}
	return &builder{env: env, m: m, d: d, q: url.Values{}}, nil
}

func (b *builder) set(key, value string) *builder {
	b.q.Set(key, value)
	return b
}

// exterior adds the exterior filter unless the search is vanilla.
func (b *builder) exterior(key string) *builder {
	if b.d.IsVanillaSearch {
		return b
	}
	if code, ok := b.m.ExteriorCode(b.d.Exterior); ok {
		b.q.Add(key, code)
	}
	return b
}

// vanilla adds the market's vanilla flag for vanilla searches.
func (b *builder) vanilla(key string) *builder {
	if b.d.IsVanillaSearch && b.m.Vanilla != "" {
		b.q.Add(key, b.m.Vanilla)
	}
	return b
}

func (b *builder) phase(key string) *builder {
	if b.d.IsVanillaSearch {
		return b
	}
	if code, ok := b.m.PhaseCode(b.d.PhaseName, b.d.DopplerType); ok {
		b.q.Set(key, code)
	}
	return b
}

func (b *builder) statTrak(key, value string) *builder {
	if b.d.IsStatTrak {
		b.q.Add(key, value)
	}
	return b
}

func (b *builder) floats(minKey, maxKey string) *builder {
	if !b.m.SupportsFloat || b.d.IsVanillaSearch {
		return b
	}
	b.q.Set(minKey, formatFloat(b.d.MinFloat))
	b.q.Set(maxKey, formatFloat(b.d.MaxFloat))
	return b
}

func (b *builder) seed(key string) *builder {
	if b.m.SupportsSeed && b.d.PaintSeed != nil {
		b.q.Set(key, strconv.Itoa(*b.d.PaintSeed))
	}
	return b
}

func (b *builder) tradeHold() *builder {
	if b.d.NoTradeHold && b.m.TradeHold.Key != "" {
		b.q.Set(b.m.TradeHold.Key, b.m.TradeHold.Value)
	}
	return b
}

func (b *builder) referral() *builder {
	if b.m.Referral.Key != "" {
		b.q.Set(b.m.Referral.Key, b.m.Referral.Value)
	}
	return b
}

// finish encodes the query onto base and appends tracking.
func (b *builder) finish(base string) string {
	u := base
	if enc := b.q.Encode(); enc != "" {
		u += "?" + enc
	}
	return b.track(u)
}

func (b *builder) track(u string) string {
	if !b.env.Tracking.Enabled() {
		return u
	}
	if b.m.CustomTracking {
		return AppendTrackingNoCampaign(u, b.env.Tracking, b.m.ID)
	}
	return AppendTracking(u, b.env.Tracking, b.m.ID)
}
