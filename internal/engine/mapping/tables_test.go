package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendis/skintap/internal/model"
)

func TestDefaultCoversAllMarkets(t *testing.T) {
	tables := Default()
	ids := tables.IDs()
	require.Len(t, ids, 17)

	seen := map[model.MarketID]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "duplicate market %s", id)
		seen[id] = true

		m, ok := tables.Market(id)
		require.True(t, ok)
		require.NotEmpty(t, m.Label)
	}
	require.Same(t, tables, Default())
}

func TestPhaseCodeSeparatesGamma(t *testing.T) {
	m, ok := Default().Market(model.MarketCSFloat)
	require.True(t, ok)

	code, ok := m.PhaseCode("Phase 2", Doppler)
	require.True(t, ok)
	require.Equal(t, "419", code)

	code, ok = m.PhaseCode("Phase 2", GammaDoppler)
	require.True(t, ok)
	require.Equal(t, "570", code)

	_, ok = m.PhaseCode("Emerald", Doppler)
	require.False(t, ok)

	_, ok = m.PhaseCode("", Doppler)
	require.False(t, ok)
}

func TestPhaseCodeWithoutGammaTable(t *testing.T) {
	m, ok := Default().Market(model.MarketDMarket)
	require.True(t, ok)

	code, ok := m.PhaseCode("Emerald", GammaDoppler)
	require.True(t, ok)
	require.Equal(t, "emerald", code)
}

func TestExteriorCode(t *testing.T) {
	m, _ := Default().Market(model.MarketSteam)

	code, ok := m.ExteriorCode(model.ExteriorFieldTested)
	require.True(t, ok)
	require.Equal(t, "tag_WearCategory2", code)

	_, ok = m.ExteriorCode(model.ExteriorAny)
	require.False(t, ok)

	for _, id := range []model.MarketID{model.MarketTradeit, model.MarketShadowPay, model.MarketGamerPay} {
		mk, _ := Default().Market(id)
		for _, e := range model.Exteriors {
			code, ok := mk.ExteriorCode(e)
			require.True(t, ok, id)
			require.Equal(t, e.Label(), code, id)
		}
	}

	buff, _ := Default().Market(model.MarketBuff163)
	_, ok = buff.ExteriorCode(model.ExteriorFactoryNew)
	require.False(t, ok)
}

func TestNewDropsDuplicates(t *testing.T) {
	tables := New(
		&Market{ID: "a", Label: "first"},
		&Market{ID: "a", Label: "second"},
		&Market{ID: "b", Label: "b"},
	)
	require.Equal(t, []model.MarketID{"a", "b"}, tables.IDs())
	require.Equal(t, "first", tables.Label("a"))
	require.Equal(t, "zzz", tables.Label("zzz"))
}

func TestClassifiers(t *testing.T) {
	require.True(t, IsGemPhase("Black Pearl"))
	require.False(t, IsGemPhase("Phase 3"))
	require.Contains(t, PhasesFor(GammaDoppler), "Emerald")
	require.NotContains(t, PhasesFor(Doppler), "Emerald")
	require.Nil(t, PhasesFor("Fade"))
}
