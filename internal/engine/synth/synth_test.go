package synth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendis/skintap/internal/engine/catalog"
	"github.com/rendis/skintap/internal/engine/mapping"
	"github.com/rendis/skintap/internal/engine/parser"
	"github.com/rendis/skintap/internal/model"
)

var testTracking = Tracking{Source: "skintap", Medium: "extension", Campaign: "search"}

func testEnv(t *testing.T) Env {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return Env{
		Tables:   mapping.Default(),
		Catalog:  cat,
		Tracking: testTracking,
		Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
}

func build(t *testing.T, form model.SearchForm) model.SearchDescriptor {
	t.Helper()
	d, err := parser.Build(form)
	require.NoError(t, err)
	return d
}

// decoded returns the query and fragment of raw with percent-encoding removed.
func decoded(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q, err := url.QueryUnescape(u.RawQuery)
	require.NoError(t, err)
	return q + "#" + u.Fragment
}

func TestEveryMarketHasGenerator(t *testing.T) {
	for _, id := range mapping.Default().IDs() {
		_, ok := Lookup(id)
		require.True(t, ok, id)
	}
	require.Len(t, Markets(), len(mapping.Default().IDs()))
}

// floatKeys names where each float-capable market carries the bounds.
var floatKeys = map[model.MarketID][2]string{
	model.MarketBuff163:     {"min_paintwear", "max_paintwear"},
	model.MarketCSFloat:     {"min_float", "max_float"},
	model.MarketDMarket:     {"floatValueFrom", "floatValueTo"},
	model.MarketBitSkins:    {"float_value_from", "float_value_to"},
	model.MarketCSMoney:     {"minFloat", "maxFloat"},
	model.MarketSkinBaron:   {"plb", "pub"},
	model.MarketTradeit:     {"minFloat", "maxFloat"},
	model.MarketWaxpeer:     {"min_float", "max_float"},
	model.MarketShadowPay:   {"float_from", "float_to"},
	model.MarketWhiteMarket: {"float_from", "float_to"},
	model.MarketGamerPay:    {"floatMin", "floatMax"},
	model.MarketLisSkins:    {"float_from", "float_to"},
	model.MarketAvanMarket:  {"float_min", "float_max"},
}

// floatBounds extracts the min and max values a market put in raw.
func floatBounds(t *testing.T, id model.MarketID, raw string) (string, string) {
	t.Helper()
	keys := floatKeys[id]
	u, err := url.Parse(raw)
	require.NoError(t, err)

	switch id {
	case model.MarketBuff163:
		frag, err := url.ParseQuery(u.Fragment)
		require.NoError(t, err)
		return frag.Get(keys[0]), frag.Get(keys[1])
	case model.MarketBitSkins:
		var search struct {
			Where map[string]json.RawMessage `json:"where"`
		}
		require.NoError(t, json.Unmarshal([]byte(u.Query().Get("search")), &search))
		return string(search.Where[keys[0]]), string(search.Where[keys[1]])
	}
	q := u.Query()
	return q.Get(keys[0]), q.Get(keys[1])
}

func TestFloatBoundsReproduced(t *testing.T) {
	env := testEnv(t)

	var capable []model.MarketID
	for _, id := range env.Tables.IDs() {
		if m, _ := env.Tables.Market(id); m.SupportsFloat {
			capable = append(capable, id)
		}
	}
	require.Len(t, capable, len(floatKeys))

	pairs := [][2]string{
		{"0", "1"},
		{"0.5", "0.5"},
		{"0.0001", "0.0002"},
		{"0.38", "0.45"},
		{"0.07", "0.15"},
	}
	for _, id := range capable {
		for _, p := range pairs {
			t.Run(string(id)+"/"+p[0]+"-"+p[1], func(t *testing.T) {
				d := build(t, model.SearchForm{
					Item:     "AK-47 | Redline",
					Exterior: "ft",
					MinFloat: p[0],
					MaxFloat: p[1],
				})
				u, err := Generate(id, d, env)
				require.NoError(t, err)

				lo, hi := floatBounds(t, id, u)
				require.Equal(t, p[0], lo, "min")
				require.Equal(t, p[1], hi, "max")
			})
		}
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	env := testEnv(t)
	seed := "661"
	d := build(t, model.SearchForm{
		Item:        "★ Karambit | Doppler (Phase 2)",
		StatTrak:    true,
		Exterior:    "fn",
		MinFloat:    "0",
		MaxFloat:    "0.03",
		PaintSeed:   seed,
		NoTradeHold: true,
	})

	for _, id := range Markets() {
		first, err1 := Generate(id, d, env)
		second, err2 := Generate(id, d, env)
		require.Equal(t, err1, err2, id)
		require.Equal(t, first, second, id)
	}
}

func TestVanillaSuppressesExteriorAndFloat(t *testing.T) {
	env := testEnv(t)
	d := build(t, model.SearchForm{
		Item:     "★ Karambit | Vanilla",
		Exterior: "fn",
		MinFloat: "0.1",
		MaxFloat: "0.2",
	})
	require.True(t, d.IsVanillaSearch)

	steam, err := Generate(model.MarketSteam, d, env)
	require.NoError(t, err)
	q := decoded(t, steam)
	require.Contains(t, q, "category_730_Exterior[]=tag_WearCategoryNA")
	require.NotContains(t, q, "tag_WearCategory0")
	require.Contains(t, q, "q=★ Karambit")

	csfloat, err := Generate(model.MarketCSFloat, d, env)
	require.NoError(t, err)
	q = decoded(t, csfloat)
	require.Contains(t, q, "paint_index=0")
	require.NotContains(t, q, "min_float")
	require.NotContains(t, q, "wear=")
}

func TestDopplerTypesUseSeparateCodes(t *testing.T) {
	env := testEnv(t)

	regular := build(t, model.SearchForm{Item: "★ Karambit | Doppler (Phase 2)"})
	gamma := build(t, model.SearchForm{Item: "★ Karambit | Gamma Doppler (Phase 2)"})

	u, err := Generate(model.MarketCSFloat, regular, env)
	require.NoError(t, err)
	require.Contains(t, u, "paint_index=419")

	u, err = Generate(model.MarketCSFloat, gamma, env)
	require.NoError(t, err)
	require.Contains(t, u, "paint_index=570")
}

func TestMissingCodeOmitsFilter(t *testing.T) {
	env := testEnv(t)
	env.Tables = mapping.New(&mapping.Market{ID: model.MarketSteam, Label: "Steam"})
	d := build(t, model.SearchForm{Item: "AK-47 | Redline", Exterior: "ft"})

	u, err := Generate(model.MarketSteam, d, env)
	require.NoError(t, err)
	require.NotContains(t, u, "Exterior")
	require.Contains(t, u, "q=AK-47")

	_, err = Generate(model.MarketSkinport, d, env)
	require.ErrorIs(t, err, ErrUnknownMarket)
}

func TestUnknownMarket(t *testing.T) {
	_, err := Generate("nope", model.SearchDescriptor{}, testEnv(t))
	require.ErrorIs(t, err, ErrUnknownMarket)
}

func TestBuffAbstainsWithoutCatalogEntry(t *testing.T) {
	env := testEnv(t)
	d := build(t, model.SearchForm{Item: "AK-47 | Vulcan", Exterior: "ft"})
	_, err := Generate(model.MarketBuff163, d, env)
	require.ErrorIs(t, err, ErrNotInCatalog)

	env.Catalog = nil
	d = build(t, model.SearchForm{Item: "AK-47 | Redline", Exterior: "ft"})
	_, err = Generate(model.MarketBuff163, d, env)
	require.ErrorIs(t, err, ErrNotInCatalog)
}

func TestBuffAcceptsAnyExterior(t *testing.T) {
	env := testEnv(t)
	tests := []struct {
		item   string
		prefix string
		frag   string
	}{
		{item: "AK-47 | Redline", prefix: "https://buff.163.com/goods/33910?"},
		{item: "★ Karambit | Doppler (Ruby)", prefix: "https://buff.163.com/goods/43018?", frag: "tag_ids=1204"},
	}
	for _, tt := range tests {
		d := build(t, model.SearchForm{Item: tt.item})
		u, err := Generate(model.MarketBuff163, d, env)
		require.NoError(t, err, tt.item)
		require.True(t, strings.HasPrefix(u, tt.prefix), u)
		_, frag, _ := strings.Cut(u, "#")
		require.Contains(t, frag, tt.frag)
	}

	// A named exterior the catalog lacks still abstains.
	d := build(t, model.SearchForm{Item: "AK-47 | Redline", StatTrak: true, Exterior: "bs"})
	_, err := Generate(model.MarketBuff163, d, env)
	require.ErrorIs(t, err, ErrNotInCatalog)
}

func TestBuffFiltersInFragment(t *testing.T) {
	env := testEnv(t)
	d := build(t, model.SearchForm{
		Item:      "★ Karambit | Doppler (Ruby)",
		Exterior:  "fn",
		MaxFloat:  "0.01",
		PaintSeed: "412",
	})

	u, err := Generate(model.MarketBuff163, d, env)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(u, "https://buff.163.com/goods/43018?from=market&utm_source=skintap"), u)
	base, frag, ok := strings.Cut(u, "#")
	require.True(t, ok)
	require.Contains(t, base, "utm_content=buff163")
	require.Contains(t, frag, "tag_ids=1204")
	require.Contains(t, frag, "max_paintwear=0.01")
	require.Contains(t, frag, "paintseed=412")
	require.Contains(t, frag, "tab=selling")
}

func TestYoupinTiers(t *testing.T) {
	var logs bytes.Buffer
	env := testEnv(t)
	env.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	exact := build(t, model.SearchForm{Item: "AK-47 | Redline", Exterior: "ft"})
	u, err := Generate(model.MarketYoupin, exact, env)
	require.NoError(t, err)
	require.Contains(t, u, "templateId=2172")
	require.Contains(t, u, "inviteCode=SKNTAP")

	// Known item, but this variant has no youpin id.
	gap := build(t, model.SearchForm{Item: "AK-47 | Redline", StatTrak: true, Exterior: "mw"})
	u, err = Generate(model.MarketYoupin, gap, env)
	require.NoError(t, err)
	require.NotContains(t, u, "templateId")
	require.Contains(t, decoded(t, u), "keyword=StatTrak™ AK-47 | Redline")
	require.Contains(t, u, "exterior=WearCategory1")
	require.Contains(t, logs.String(), "youpin catalog gap")

	logs.Reset()
	unknown := build(t, model.SearchForm{Item: "AK-47 | Vulcan", Exterior: "ft"})
	u, err = Generate(model.MarketYoupin, unknown, env)
	require.NoError(t, err)
	require.Contains(t, u, "/market/csgo?")
	require.Empty(t, logs.String())
}

func TestCSFloatUsesReducedTracking(t *testing.T) {
	env := testEnv(t)
	d := build(t, model.SearchForm{Item: "AWP | Asiimov", Exterior: "ft"})

	u, err := Generate(model.MarketCSFloat, d, env)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(u, "&utm_source=skintap&utm_medium=extension&utm_content=csfloat"), u)
	require.NotContains(t, u, "utm_campaign")
}

func TestStatTrakFlag(t *testing.T) {
	env := testEnv(t)
	d := build(t, model.SearchForm{Item: "AK-47 | Redline", StatTrak: true, Exterior: "ft"})

	steam, err := Generate(model.MarketSteam, d, env)
	require.NoError(t, err)
	require.Contains(t, decoded(t, steam), "category_730_Quality[]=tag_strange")

	mcsgo, err := Generate(model.MarketMarketCSGO, d, env)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(mcsgo, "https://market.csgo.com/en/?search=StatTrak%E2%84%A2%20AK-47%20%7C%20Redline&"), mcsgo)
}

func TestTradeHoldOnlyWhenRequested(t *testing.T) {
	env := testEnv(t)
	form := model.SearchForm{Item: "AK-47 | Redline", Exterior: "ft"}

	u, err := Generate(model.MarketSkinport, build(t, form), env)
	require.NoError(t, err)
	require.NotContains(t, u, "lock=0")

	form.NoTradeHold = true
	u, err = Generate(model.MarketSkinport, build(t, form), env)
	require.NoError(t, err)
	require.Contains(t, u, "lock=0")
}
