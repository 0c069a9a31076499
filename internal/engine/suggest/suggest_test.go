package suggest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var names = []string{
	"AK-47 | Redline",
	"AWP | Asiimov",
	"M4A1-S | Printstream",
	"★ Karambit",
	"★ Karambit | Doppler",
	"★ Karambit | Gamma Doppler",
	"★ Butterfly Knife | Doppler",
	"Desert Eagle | Blaze",
	"Pokémon Café | Crème",
}

func TestFold(t *testing.T) {
	require.Equal(t, "ak-47 redline", Fold("AK-47 | Redline"))
	require.Equal(t, "pokemon cafe creme", Fold("Pokémon  Café|Crème"))
}

func TestSuggestRanking(t *testing.T) {
	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{
			name:  "prefix beats word prefix and substring",
			query: "karambit",
			want:  []string{"★ Karambit", "★ Karambit | Doppler", "★ Karambit | Gamma Doppler"},
		},
		{
			name:  "accent folded",
			query: "cafe",
			want:  []string{"Pokémon Café | Crème"},
		},
		{
			name:  "limit applied",
			query: "a",
			limit: 2,
			want:  []string{"AWP | Asiimov", "AK-47 | Redline"},
		},
		{
			name:  "blank query",
			query: "   ",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.query, names, tt.limit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSuggestSubstringTier(t *testing.T) {
	got := Suggest("line", names, 0)
	require.Equal(t, []string{"AK-47 | Redline"}, got)
}

func TestSuggestRequiresEveryWord(t *testing.T) {
	got := Suggest("doppler kara", names, 0)
	require.ElementsMatch(t, []string{"★ Karambit | Doppler", "★ Karambit | Gamma Doppler"}, got)
}

func TestSuggestWordPrefixBeforeSubstring(t *testing.T) {
	extra := append([]string{"Souvenir Glock | Undopped"}, names...)
	got := Suggest("dopp", extra, 0)
	require.Len(t, got, 4)
	require.ElementsMatch(t, []string{"★ Butterfly Knife | Doppler", "★ Karambit | Doppler", "★ Karambit | Gamma Doppler"}, got[:3])
	require.Equal(t, "Souvenir Glock | Undopped", got[3])
}
