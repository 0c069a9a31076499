package model

import "strings"

// Exterior is a wear-condition key. The zero value means "any".
type Exterior string

const (
	ExteriorAny           Exterior = ""
	ExteriorFactoryNew    Exterior = "fn"
	ExteriorMinimalWear   Exterior = "mw"
	ExteriorFieldTested   Exterior = "ft"
	ExteriorWellWorn      Exterior = "ww"
	ExteriorBattleScarred Exterior = "bs"
)

// Exteriors lists the wear conditions from best to worst.
var Exteriors = []Exterior{
	ExteriorFactoryNew,
	ExteriorMinimalWear,
	ExteriorFieldTested,
	ExteriorWellWorn,
	ExteriorBattleScarred,
}

var exteriorLabels = map[Exterior]string{
	ExteriorFactoryNew:    "Factory New",
	ExteriorMinimalWear:   "Minimal Wear",
	ExteriorFieldTested:   "Field-Tested",
	ExteriorWellWorn:      "Well-Worn",
	ExteriorBattleScarred: "Battle-Scarred",
}

// Label returns the in-game name of the exterior, or "" for ExteriorAny.
func (e Exterior) Label() string {
	return exteriorLabels[e]
}

func (e Exterior) Valid() bool {
	if e == ExteriorAny {
		return true
	}
	_, ok := exteriorLabels[e]
	return ok
}

// MarketID identifies a marketplace.
type MarketID string

const (
	MarketSteam       MarketID = "steam"
	MarketBuff163     MarketID = "buff163"
	MarketCSFloat     MarketID = "csfloat"
	MarketSkinport    MarketID = "skinport"
	MarketDMarket     MarketID = "dmarket"
	MarketBitSkins    MarketID = "bitskins"
	MarketCSMoney     MarketID = "csmoney"
	MarketSkinBaron   MarketID = "skinbaron"
	MarketTradeit     MarketID = "tradeit"
	MarketWaxpeer     MarketID = "waxpeer"
	MarketShadowPay   MarketID = "shadowpay"
	MarketMarketCSGO  MarketID = "marketcsgo"
	MarketWhiteMarket MarketID = "whitemarket"
	MarketGamerPay    MarketID = "gamerpay"
	MarketLisSkins    MarketID = "lisskins"
	MarketAvanMarket  MarketID = "avanmarket"
	MarketYoupin      MarketID = "youpin"
)

// NormalizeMarketID trims and lowercases a user-supplied market id.
func NormalizeMarketID(s string) MarketID {
	return MarketID(strings.ToLower(strings.TrimSpace(s)))
}

const (
	StatTrakPrefix = "StatTrak™ "
	VanillaSuffix  = " | Vanilla"
)

// SearchDescriptor is the normalized form of one search submission.
// It is built once by the parser and never mutated afterwards.
type SearchDescriptor struct {
	FullInput             string
	BaseSearchName        string
	FinalSearchName       string
	EncodedBaseSearchName string
	EncodedFullInput      string

	PhaseName   string // "" when absent
	DopplerType string // "Doppler" or "Gamma Doppler", only with PhaseName

	IsVanillaSearch bool
	IsStatTrak      bool

	Exterior  Exterior
	MinFloat  float64
	MaxFloat  float64
	PaintSeed *int

	// NoTradeHold asks markets that support it to list only items
	// without a trade hold (instant delivery).
	NoTradeHold bool
}

func (d SearchDescriptor) HasPhase() bool {
	return d.PhaseName != ""
}

// MarketHashName builds the full market name for the descriptor,
// e.g. "StatTrak™ AK-47 | Redline (Field-Tested)".
func (d SearchDescriptor) MarketHashName() string {
	name := d.FinalSearchName
	if !d.IsVanillaSearch && d.Exterior != ExteriorAny {
		name += " (" + d.Exterior.Label() + ")"
	}
	return name
}

// SearchForm holds the raw field values as typed by the user.
// This is what gets persisted; descriptors are always rebuilt from it.
type SearchForm struct {
	Item        string
	StatTrak    bool
	Exterior    string
	MinFloat    string
	MaxFloat    string
	PaintSeed   string
	NoTradeHold bool
	Markets     []string
}
