package catalog

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "AK-47 | Redline (Field-Tested)", want: "ak-47 redline (field-tested)"},
		{in: "  AK-47  |  Redline  ", want: "ak-47 redline"},
		{in: "★ Karambit | Doppler (Phase 2)", want: "★ karambit doppler"},
		{in: "★ Karambit|Doppler (black  pearl)", want: "★ karambit doppler"},
		{in: "★ Karambit | Doppler (Sapphire) (Factory New)", want: "★ karambit doppler (factory new)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestBaseName(t *testing.T) {
	require.Equal(t, "AK-47 | Redline", BaseName("StatTrak™ AK-47 | Redline (Field-Tested)"))
	require.Equal(t, "★ Karambit", BaseName("★ Karambit"))
	require.Equal(t, "AWP | Dragon Lore", BaseName("Souvenir AWP | Dragon Lore (Factory New)"))
}

func TestLookupTwoPasses(t *testing.T) {
	c := New(map[string]Entry{
		"AK-47 | Redline (Field-Tested)":     {Buff163: 33912},
		"★ Karambit | Doppler (Factory New)": {Buff163: 43018},
	})

	e, ok := c.Lookup("AK-47 | Redline (Field-Tested)")
	require.True(t, ok)
	require.Equal(t, int64(33912), e.Buff163)
	require.Equal(t, "AK-47 | Redline (Field-Tested)", e.Name)

	e, ok = c.Lookup("ak-47   redline (field-tested)")
	require.True(t, ok)
	require.Equal(t, int64(33912), e.Buff163)

	e, ok = c.Lookup("★ Karambit |Doppler (Ruby) (Factory New)")
	require.True(t, ok)
	require.Equal(t, int64(43018), e.Buff163)

	_, ok = c.Lookup("AK-47 | Redline")
	require.False(t, ok)
}

func TestLookupBase(t *testing.T) {
	c := New(map[string]Entry{
		"AK-47 | Redline (Minimal Wear)":           {Buff163: 2},
		"AK-47 | Redline (Field-Tested)":           {Buff163: 1},
		"StatTrak™ AK-47 | Redline (Field-Tested)": {Buff163: 3},
		"★ Karambit | Doppler (Factory New)":       {Buff163: 43018},
	})

	e, ok := c.LookupBase("AK-47 | Redline")
	require.True(t, ok)
	require.Equal(t, "AK-47 | Redline (Field-Tested)", e.Name)

	e, ok = c.LookupBase("StatTrak™ AK-47 | Redline")
	require.True(t, ok)
	require.Equal(t, int64(3), e.Buff163)

	e, ok = c.LookupBase("Souvenir AK-47 | Redline")
	require.True(t, ok)
	require.Equal(t, int64(1), e.Buff163)

	e, ok = c.LookupBase("★ Karambit | Doppler (Ruby)")
	require.True(t, ok)
	require.Equal(t, int64(43018), e.Buff163)

	_, ok = c.LookupBase("AK-47 | Vulcan")
	require.False(t, ok)

	var nilCat *Catalog
	_, ok = nilCat.LookupBase("AK-47 | Redline")
	require.False(t, ok)
}

func TestHasVariants(t *testing.T) {
	c := New(map[string]Entry{
		"AK-47 | Redline (Field-Tested)": {Buff163: 1},
	})
	require.True(t, c.HasVariants("StatTrak™ AK-47 | Redline (Minimal Wear)"))
	require.True(t, c.HasVariants("AK-47 | Redline"))
	require.False(t, c.HasVariants("AK-47 | Vulcan (Field-Tested)"))
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("x")
	require.False(t, ok)
	require.False(t, c.HasVariants("x"))
	require.Nil(t, c.BaseNames())
	require.Zero(t, c.Len())
}

func TestParseShapes(t *testing.T) {
	native := []byte(`{"items": {
		"★ Karambit | Doppler (Factory New)": {"buff163": 43018, "youpin": "5340", "buff_phases": {"Ruby": 1204, "Bogus": 0}},
		"Broken": {"note": "no ids"}
	}}`)
	c, err := Parse(native)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	e, ok := c.Lookup("★ Karambit | Doppler (Factory New)")
	require.True(t, ok)
	require.Equal(t, int64(5340), e.Youpin)
	require.Equal(t, map[string]int{"Ruby": 1204}, e.BuffPhases)

	flat := []byte("\xef\xbb\xbf" + `{"AWP | Asiimov (Field-Tested)": 33960, "Empty": 0}`)
	c, err = Parse(flat)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	e, ok = c.Lookup("AWP | Asiimov (Field-Tested)")
	require.True(t, ok)
	require.Equal(t, int64(33960), e.Buff163)

	_, err = Parse([]byte(`{"items": {}}`))
	require.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
}

func TestBaseNamesSortedUnique(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	names := c.BaseNames()
	require.Contains(t, names, "AK-47 | Redline")
	require.Contains(t, names, "★ Karambit")
	require.IsNonDecreasing(t, names)

	seen := map[string]bool{}
	for _, n := range names {
		require.False(t, seen[n], n)
		seen[n] = true
	}
}

func TestLoaderPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Custom | Item (Factory New)": 7}`), 0o644))

	l := NewLoader(path, nil)
	c := l.Get()
	require.NoError(t, l.Err())
	require.Equal(t, 1, c.Len())
	require.Same(t, c, l.Get())
}

func TestLoaderFallsBackToEmbedded(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.NoError(t, l.Err())
	_, ok := l.Get().Lookup("AK-47 | Redline (Field-Tested)")
	require.True(t, ok)
}

func TestLoaderFailureYieldsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	var buf bytes.Buffer
	l := NewLoader(path, slog.New(slog.NewTextHandler(&buf, nil)))
	require.Error(t, l.Err())
	require.Zero(t, l.Get().Len())
	require.Contains(t, buf.String(), "catalog load failed")
}

func TestInstallAndSet(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.json")
	l := NewLoader(dest, nil)
	require.Greater(t, l.Get().Len(), 1)

	src := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"items": {"Custom | Item (Factory New)": {"buff163": 7, "youpin": 9}}}`), 0o644))

	_, err := Install(dest, []byte(`{"items": {}}`))
	require.ErrorIs(t, err, ErrEmptyCatalog)
	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))

	c, err := ImportFile(src, dest)
	require.NoError(t, err)
	l.Set(c)

	e, ok := l.Lookup("Custom | Item (Factory New)")
	require.True(t, ok)
	require.EqualValues(t, 9, e.Youpin)
	require.FileExists(t, dest)
	require.Equal(t, dest, l.Path())
}
