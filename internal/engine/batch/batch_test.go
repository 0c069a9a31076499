package batch

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rendis/skintap/internal/engine/catalog"
	"github.com/rendis/skintap/internal/engine/synth"
	"github.com/rendis/skintap/internal/model"
)

func newEngine(t *testing.T, logs *bytes.Buffer, opts ...Option) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return New(synth.Env{
		Catalog:  cat,
		Tracking: synth.Tracking{Source: "skintap", Medium: "extension", Campaign: "search"},
		Logger:   slog.New(slog.NewTextHandler(logs, nil)),
	}, opts...)
}

var redline = model.SearchDescriptor{
	FullInput:       "AK-47 | Redline",
	BaseSearchName:  "AK-47 | Redline",
	FinalSearchName: "AK-47 | Redline",
	Exterior:        model.ExteriorFieldTested,
	MaxFloat:        1,
}

func markets(r Results) []model.MarketID {
	var ids []model.MarketID
	for _, e := range r.Entries {
		ids = append(ids, e.Market)
	}
	return ids
}

func TestGenerateAllKeepsCallerOrder(t *testing.T) {
	var logs bytes.Buffer
	e := newEngine(t, &logs)

	res := e.GenerateAll(redline, []string{"youpin", " Steam ", "skinport", "steam", "buff163"})

	want := []model.MarketID{"youpin", "steam", "skinport", "buff163"}
	if diff := cmp.Diff(want, markets(res)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 4, res.Count())
}

func TestPanickingGeneratorIsIsolated(t *testing.T) {
	var logs bytes.Buffer
	e := newEngine(t, &logs, WithGenerator(model.MarketSkinport, func(model.SearchDescriptor, synth.Env) (string, error) {
		panic("boom")
	}))

	res := e.GenerateAll(redline, []string{"steam", "skinport", "dmarket"})
	require.Len(t, res.Entries, 3)

	_, ok := res.URL(model.MarketSkinport)
	require.False(t, ok)
	var perr *PanicError
	require.ErrorAs(t, res.Entries[1].Err, &perr)

	for _, id := range []model.MarketID{model.MarketSteam, model.MarketDMarket} {
		u, ok := res.URL(id)
		require.True(t, ok, id)
		require.NotEmpty(t, u)
	}
	require.Contains(t, logs.String(), "generator panicked")
}

func TestGeneratorErrorBecomesEmptyEntry(t *testing.T) {
	var logs bytes.Buffer
	boom := errors.New("boom")
	e := newEngine(t, &logs, WithGenerator(model.MarketSteam, func(model.SearchDescriptor, synth.Env) (string, error) {
		return "", boom
	}))

	res := e.GenerateAll(redline, []string{"steam", "waxpeer"})
	require.ErrorIs(t, res.Entries[0].Err, boom)
	require.True(t, res.Entries[1].OK())
}

func TestUnknownMarketIsLogged(t *testing.T) {
	var logs bytes.Buffer
	e := newEngine(t, &logs)

	res := e.GenerateAll(redline, []string{"nowhere", "steam"})
	require.Len(t, res.Entries, 2)
	require.ErrorIs(t, res.Entries[0].Err, synth.ErrUnknownMarket)
	require.Contains(t, logs.String(), "unknown market id")

	m := res.Map()
	require.Equal(t, "", m["nowhere"])
	require.NotEmpty(t, m["steam"])
}

func TestCatalogMissSkipsOnlyThatMarket(t *testing.T) {
	var logs bytes.Buffer
	e := newEngine(t, &logs)

	vulcan := redline
	vulcan.BaseSearchName = "AK-47 | Vulcan"
	vulcan.FinalSearchName = "AK-47 | Vulcan"

	res := e.GenerateAll(vulcan, []string{"buff163", "youpin"})
	require.ErrorIs(t, res.Entries[0].Err, synth.ErrNotInCatalog)
	require.True(t, res.Entries[1].OK())
}

func TestEmptySelection(t *testing.T) {
	var logs bytes.Buffer
	res := newEngine(t, &logs).GenerateAll(redline, nil)
	require.Empty(t, res.Entries)
	require.Empty(t, res.Map())
}
