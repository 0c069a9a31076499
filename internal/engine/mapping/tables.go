// Package mapping holds the static per-marketplace lookup tables used by the
// URL generators: exterior codes, Doppler phase codes, referral tags and
// capability flags. Tables are built once and are read-only afterwards.
package mapping

import (
	"slices"
	"sync"

	"github.com/rendis/skintap/internal/model"
)

const (
	Doppler      = "Doppler"
	GammaDoppler = "Gamma Doppler"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Market is the lookup data for one marketplace.
type Market struct {
	ID    model.MarketID
	Label string

	Exterior map[model.Exterior]string
	// Phase maps phase name to code for regular Dopplers; GammaPhase for
	// Gamma Dopplers. Markets that do not distinguish leave GammaPhase nil.
	Phase      map[string]string
	GammaPhase map[string]string

	// Vanilla is the market's filter value for vanilla items, "" if none.
	Vanilla string

	Referral  Param
	TradeHold Param // zero Key: not supported

	SupportsFloat bool
	SupportsSeed  bool
	// CustomTracking markets append their own reduced tracking params.
	CustomTracking bool
}

// ExteriorCode returns the market's code for e.
func (m *Market) ExteriorCode(e model.Exterior) (string, bool) {
	if e == model.ExteriorAny {
		return "", false
	}
	c, ok := m.Exterior[e]
	return c, ok
}

// PhaseCode returns the market's code for a phase, taking the doppler type
// into account when the market separates them.
func (m *Market) PhaseCode(phase, dopplerType string) (string, bool) {
	if phase == "" {
		return "", false
	}
	if dopplerType == GammaDoppler && m.GammaPhase != nil {
		c, ok := m.GammaPhase[phase]
		return c, ok
	}
	c, ok := m.Phase[phase]
	return c, ok
}

// Tables is the full set of market tables.
type Tables struct {
	markets map[model.MarketID]*Market
	order   []model.MarketID
}

// Market returns the table for id.
func (t *Tables) Market(id model.MarketID) (*Market, bool) {
	m, ok := t.markets[id]
	return m, ok
}

// IDs returns all market ids in display order.
func (t *Tables) IDs() []model.MarketID {
	return slices.Clone(t.order)
}

// Label returns the display name for id, falling back to the id itself.
func (t *Tables) Label(id model.MarketID) string {
	if m, ok := t.markets[id]; ok {
		return m.Label
	}
	return string(id)
}

// New builds tables from the given markets, keeping their order.
func New(markets ...*Market) *Tables {
	t := &Tables{markets: make(map[model.MarketID]*Market, len(markets))}
	for _, m := range markets {
		if _, dup := t.markets[m.ID]; dup {
			continue
		}
		t.markets[m.ID] = m
		t.order = append(t.order, m.ID)
	}
	return t
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the process-wide tables.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = New(builtinMarkets()...)
	})
	return defaultTables
}

var gemPhases = map[string]bool{
	"Ruby":        true,
	"Sapphire":    true,
	"Black Pearl": true,
	"Emerald":     true,
}

// IsGemPhase reports whether phase is one of the named gem patterns.
func IsGemPhase(phase string) bool {
	return gemPhases[phase]
}

// PhasesFor lists the phases that exist for a doppler type.
func PhasesFor(dopplerType string) []string {
	switch dopplerType {
	case Doppler:
		return []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4", "Ruby", "Sapphire", "Black Pearl"}
	case GammaDoppler:
		return []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4", "Emerald"}
	}
	return nil
}
