package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rendis/skintap/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		statTrak bool
		want     model.SearchDescriptor
	}{
		{
			name: "plain skin",
			raw:  "AK-47 | Redline",
			want: model.SearchDescriptor{
				FullInput:             "AK-47 | Redline",
				BaseSearchName:        "AK-47 | Redline",
				FinalSearchName:       "AK-47 | Redline",
				EncodedBaseSearchName: "AK-47%20%7C%20Redline",
				EncodedFullInput:      "AK-47%20%7C%20Redline",
			},
		},
		{
			name: "doppler gem",
			raw:  "★ Karambit | Doppler (Sapphire)",
			want: model.SearchDescriptor{
				FullInput:             "★ Karambit | Doppler (Sapphire)",
				BaseSearchName:        "★ Karambit | Doppler",
				FinalSearchName:       "★ Karambit | Doppler",
				EncodedBaseSearchName: "%E2%98%85%20Karambit%20%7C%20Doppler",
				EncodedFullInput:      "%E2%98%85%20Karambit%20%7C%20Doppler%20%28Sapphire%29",
				PhaseName:             "Sapphire",
				DopplerType:           "Doppler",
			},
		},
		{
			name: "gamma doppler phase is canonicalised",
			raw:  "  ★ Bayonet | Gamma Doppler (phase  2) ",
			want: model.SearchDescriptor{
				FullInput:             "★ Bayonet | Gamma Doppler (phase  2)",
				BaseSearchName:        "★ Bayonet | Gamma Doppler",
				FinalSearchName:       "★ Bayonet | Gamma Doppler",
				EncodedBaseSearchName: "%E2%98%85%20Bayonet%20%7C%20Gamma%20Doppler",
				EncodedFullInput:      "%E2%98%85%20Bayonet%20%7C%20Gamma%20Doppler%20%28phase%20%202%29",
				PhaseName:             "Phase 2",
				DopplerType:           "Gamma Doppler",
			},
		},
		{
			name: "vanilla",
			raw:  "P250 | Sand Dune | Vanilla",
			want: model.SearchDescriptor{
				FullInput:             "P250 | Sand Dune | Vanilla",
				BaseSearchName:        "P250 | Sand Dune",
				FinalSearchName:       "P250 | Sand Dune",
				EncodedBaseSearchName: "P250%20%7C%20Sand%20Dune",
				EncodedFullInput:      "P250%20%7C%20Sand%20Dune%20%7C%20Vanilla",
				IsVanillaSearch:       true,
			},
		},
		{
			name:     "stattrak only touches final name",
			raw:      "M4A4 | Howl",
			statTrak: true,
			want: model.SearchDescriptor{
				FullInput:             "M4A4 | Howl",
				BaseSearchName:        "M4A4 | Howl",
				FinalSearchName:       "StatTrak™ M4A4 | Howl",
				EncodedBaseSearchName: "M4A4%20%7C%20Howl",
				EncodedFullInput:      "M4A4%20%7C%20Howl",
				IsStatTrak:            true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, tt.statTrak)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseVanillaSkipsPhase(t *testing.T) {
	d, err := Parse("★ Karambit | Doppler (Ruby) | Vanilla", false)
	require.NoError(t, err)
	require.True(t, d.IsVanillaSearch)
	require.Empty(t, d.PhaseName)
	require.Empty(t, d.DopplerType)
	require.Equal(t, "★ Karambit | Doppler (Ruby)", d.BaseSearchName)
}

func TestParseVanillaIsCaseSensitive(t *testing.T) {
	d, err := Parse("★ Karambit | vanilla", false)
	require.NoError(t, err)
	require.False(t, d.IsVanillaSearch)
	require.Equal(t, "★ Karambit | vanilla", d.BaseSearchName)
}

func TestParsePhaseNeedsLeadingSpace(t *testing.T) {
	d, err := Parse("★ Karambit | Doppler(Ruby)", false)
	require.NoError(t, err)
	require.False(t, d.HasPhase())
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := Parse(raw, true)
		require.ErrorIs(t, err, ErrEmptyName)
	}
}

func TestParsePaintSeed(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "0", want: intPtr(0)},
		{raw: "661", want: intPtr(661)},
		{raw: "1000", want: intPtr(1000)},
		{raw: " 42 ", wantErr: true},
		{raw: "42 ", wantErr: true},
		{raw: "1001", wantErr: true},
		{raw: "007", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "-0", wantErr: true},
		{raw: "+5", wantErr: true},
		{raw: "12abc", wantErr: true},
		{raw: "3.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePaintSeed(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPaintSeed)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFloatRange(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantLo  float64
		wantHi  float64
		wantErr bool
	}{
		{name: "defaults", wantLo: 0, wantHi: 1},
		{name: "explicit", min: "0.07", max: "0.15", wantLo: 0.07, wantHi: 0.15},
		{name: "equal bounds", min: "0.5", max: "0.5", wantLo: 0.5, wantHi: 0.5},
		{name: "only min", min: "0.38", wantLo: 0.38, wantHi: 1},
		{name: "inverted", min: "0.4", max: "0.2", wantErr: true},
		{name: "above one", max: "1.2", wantErr: true},
		{name: "negative", min: "-0.1", wantErr: true},
		{name: "garbage", min: "abc", wantErr: true},
		{name: "nan", min: "NaN", wantErr: true},
		{name: "exponent", min: "1e-7", wantErr: true},
		{name: "hex", max: "0x1p-2", wantErr: true},
		{name: "signed", min: "+0.1", wantErr: true},
		{name: "infinity", max: "Inf", wantErr: true},
		{name: "bare fraction", min: ".25", wantLo: 0.25, wantHi: 1},
		{name: "trailing dot", max: "1.", wantLo: 0, wantHi: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, err := ParseFloatRange(tt.min, tt.max)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFloatRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantLo, lo)
			require.Equal(t, tt.wantHi, hi)
		})
	}
}

func TestParseExterior(t *testing.T) {
	tests := map[string]model.Exterior{
		"":               model.ExteriorAny,
		"any":            model.ExteriorAny,
		"fn":             model.ExteriorFactoryNew,
		"MW":             model.ExteriorMinimalWear,
		"field-tested":   model.ExteriorFieldTested,
		"Well-Worn":      model.ExteriorWellWorn,
		"Battle-Scarred": model.ExteriorBattleScarred,
	}
	for raw, want := range tests {
		got, err := ParseExterior(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseExterior("pristine")
	require.ErrorIs(t, err, ErrInvalidExterior)
}

func TestBuild(t *testing.T) {
	d, err := Build(model.SearchForm{
		Item:        "AWP | Asiimov",
		StatTrak:    true,
		Exterior:    "ft",
		MinFloat:    "0.18",
		MaxFloat:    "0.25",
		PaintSeed:   "420",
		NoTradeHold: true,
	})
	require.NoError(t, err)
	require.Equal(t, "StatTrak™ AWP | Asiimov", d.FinalSearchName)
	require.Equal(t, model.ExteriorFieldTested, d.Exterior)
	require.Equal(t, 0.18, d.MinFloat)
	require.Equal(t, 0.25, d.MaxFloat)
	require.Equal(t, intPtr(420), d.PaintSeed)
	require.True(t, d.NoTradeHold)
	require.Equal(t, "StatTrak™ AWP | Asiimov (Field-Tested)", d.MarketHashName())
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name      string
		form      model.SearchForm
		wantField string
		wantErr   error
	}{
		{name: "empty item", form: model.SearchForm{Item: " "}, wantField: "item", wantErr: ErrEmptyName},
		{name: "bad exterior", form: model.SearchForm{Item: "x", Exterior: "mint"}, wantField: "exterior", wantErr: ErrInvalidExterior},
		{name: "bad floats", form: model.SearchForm{Item: "x", MinFloat: "0.9", MaxFloat: "0.1"}, wantField: "float", wantErr: ErrInvalidFloatRange},
		{name: "bad seed", form: model.SearchForm{Item: "x", PaintSeed: "007"}, wantField: "paint_seed", wantErr: ErrInvalidPaintSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.form)
			require.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func intPtr(n int) *int { return &n }
