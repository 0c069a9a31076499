package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// Entry holds the marketplace-specific identifiers of one item.
type Entry struct {
	Name       string         `json:"-"`
	Buff163    int64          `json:"buff163,omitempty"`
	Youpin     int64          `json:"youpin,omitempty"`
	BuffPhases map[string]int `json:"buff_phases,omitempty"`
}

// Catalog maps market hash names to entries. It is immutable once built.
type Catalog struct {
	entries    map[string]Entry
	normalized map[string]string   // normalized key -> original key
	bases      map[string]string   // normalized base name -> display base name
	variants   map[string][]string // normalized base name -> sorted keys
}

var (
	phaseParenRe    = regexp.MustCompile(`(?i)\s*\(\s*(phase\s*[1-4]|ruby|sapphire|black\s+pearl|emerald)\s*\)`)
	exteriorParenRe = regexp.MustCompile(`\s*\((Factory New|Minimal Wear|Field-Tested|Well-Worn|Battle-Scarred)\)\s*$`)
	separatorRe     = regexp.MustCompile(`[\s|]+`)
)

var variantPrefixes = []string{"StatTrak™ ", "Souvenir "}

// Normalize strips a phase parenthetical, collapses whitespace and pipes into
// single spaces and lowercases.
func Normalize(s string) string {
	s = phaseParenRe.ReplaceAllString(s, " ")
	s = separatorRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// BaseName removes the StatTrak/Souvenir prefix and the exterior suffix,
// e.g. "StatTrak™ AK-47 | Redline (Field-Tested)" -> "AK-47 | Redline".
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	for _, p := range variantPrefixes {
		name = strings.TrimPrefix(name, p)
	}
	return strings.TrimSpace(exteriorParenRe.ReplaceAllString(name, ""))
}

// New builds a catalog from entries keyed by market hash name.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{
		entries:    make(map[string]Entry, len(entries)),
		normalized: make(map[string]string, len(entries)),
		bases:      make(map[string]string),
		variants:   make(map[string][]string),
	}

	// Sorted so the first key wins deterministically on normalized collisions.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := entries[k]
		e.Name = k
		c.entries[k] = e

		n := Normalize(k)
		if _, dup := c.normalized[n]; !dup {
			c.normalized[n] = k
		}

		base := BaseName(k)
		nb := Normalize(base)
		if _, dup := c.bases[nb]; !dup {
			c.bases[nb] = base
		}
		c.variants[nb] = append(c.variants[nb], k)
	}
	return c
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return New(nil)
}

// Lookup finds an entry by exact key first, then by normalized key.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	if e, ok := c.entries[name]; ok {
		return e, true
	}
	if k, ok := c.normalized[Normalize(name)]; ok {
		return c.entries[k], true
	}
	return Entry{}, false
}

// LookupBase finds any variant of the base item of name. Keys carrying the
// same StatTrak/Souvenir prefix as name are preferred; otherwise the first
// key in sort order wins.
func (c *Catalog) LookupBase(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	keys := c.variants[Normalize(BaseName(name))]
	if len(keys) == 0 {
		return Entry{}, false
	}
	prefix := variantPrefix(name)
	for _, k := range keys {
		if variantPrefix(k) == prefix {
			return c.entries[k], true
		}
	}
	return c.entries[keys[0]], true
}

func variantPrefix(name string) string {
	name = strings.TrimSpace(name)
	for _, p := range variantPrefixes {
		if strings.HasPrefix(name, p) {
			return p
		}
	}
	return ""
}

// HasVariants reports whether any entry shares the base item of name.
func (c *Catalog) HasVariants(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.bases[Normalize(BaseName(name))]
	return ok
}

// BaseNames returns the sorted unique base item names.
func (c *Catalog) BaseNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.bases))
	for _, b := range c.bases {
		names = append(names, b)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
