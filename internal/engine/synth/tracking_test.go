package synth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendTracking(t *testing.T) {
	tr := Tracking{Source: "skintap", Medium: "extension", Campaign: "search"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no query",
			in:   "https://x.com/a",
			want: "https://x.com/a?utm_source=skintap&utm_medium=extension&utm_campaign=search&utm_content=steam",
		},
		{
			name: "existing query",
			in:   "https://x.com/a?q=1",
			want: "https://x.com/a?q=1&utm_source=skintap&utm_medium=extension&utm_campaign=search&utm_content=steam",
		},
		{
			name: "fragment kept last",
			in:   "https://x.com/a#frag",
			want: "https://x.com/a?utm_source=skintap&utm_medium=extension&utm_campaign=search&utm_content=steam#frag",
		},
		{
			name: "question mark only in fragment",
			in:   "https://x.com/a#tab=1?x",
			want: "https://x.com/a?utm_source=skintap&utm_medium=extension&utm_campaign=search&utm_content=steam#tab=1?x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, AppendTracking(tt.in, tr, "steam"))
		})
	}
}

func TestAppendTrackingEscapesValues(t *testing.T) {
	got := AppendTracking("https://x.com", Tracking{Source: "a b", Medium: "m&n", Campaign: "c"}, "steam")
	require.Equal(t, "https://x.com?utm_source=a+b&utm_medium=m%26n&utm_campaign=c&utm_content=steam", got)
}

func TestAppendTrackingNoCampaign(t *testing.T) {
	tr := Tracking{Source: "skintap", Medium: "extension", Campaign: "ignored"}
	got := AppendTrackingNoCampaign("https://csfloat.com/search?a=1", tr, "csfloat")
	require.Equal(t, "https://csfloat.com/search?a=1&utm_source=skintap&utm_medium=extension&utm_content=csfloat", got)
}

func TestTrackingDisabled(t *testing.T) {
	require.False(t, Tracking{}.Enabled())
	require.True(t, Tracking{Source: "s"}.Enabled())
}
