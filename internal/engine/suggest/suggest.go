// Package suggest ranks catalog item names against what the user has typed.
package suggest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const DefaultLimit = 8

// Fold removes accents, lowercases, and treats '|' and runs of whitespace
// as a single space.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return strings.Join(strings.FieldsFunc(result, func(r rune) bool {
		return r == '|' || unicode.IsSpace(r)
	}), " ")
}

type tier int

const (
	tierPrefix tier = iota
	tierWordPrefix
	tierSubstring
	tierNone
)

type candidate struct {
	name  string
	tier  tier
	score float64
}

// Suggest returns up to limit names matching query, best first. Every word
// of the query must occur in the name. Names are ranked by match tier
// (prefix, word prefix, substring), then by Jaro-Winkler similarity, then
// alphabetically.
func Suggest(query string, names []string, limit int) []string {
	q := Fold(query)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	words := strings.Fields(q)

	var cands []candidate
	for _, name := range names {
		folded := Fold(name)
		t := classify(folded, q, words)
		if t == tierNone {
			continue
		}
		cands = append(cands, candidate{
			name:  name,
			tier:  t,
			score: matchr.JaroWinkler(q, folded, false),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.name < b.name
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}

func classify(name, query string, words []string) tier {
	for _, w := range words {
		if !strings.Contains(name, w) {
			return tierNone
		}
	}
	// Knife and glove names lead with a star the user rarely types.
	bare := strings.TrimPrefix(name, "★ ")
	if strings.HasPrefix(name, query) || strings.HasPrefix(bare, query) {
		return tierPrefix
	}

	nameWords := strings.Fields(bare)
	for _, w := range words {
		found := false
		for _, nw := range nameWords {
			if strings.HasPrefix(nw, w) {
				found = true
				break
			}
		}
		if !found {
			return tierSubstring
		}
	}
	return tierWordPrefix
}
