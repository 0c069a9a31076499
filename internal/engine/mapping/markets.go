package mapping

import "github.com/rendis/skintap/internal/model"

const referralTag = "skintap"

// exteriorKeys maps each exterior to its lowercase key; several markets use
// the keys verbatim.
var exteriorKeys = map[model.Exterior]string{
	model.ExteriorFactoryNew:    "fn",
	model.ExteriorMinimalWear:   "mw",
	model.ExteriorFieldTested:   "ft",
	model.ExteriorWellWorn:      "ww",
	model.ExteriorBattleScarred: "bs",
}

var exteriorUpper = map[model.Exterior]string{
	model.ExteriorFactoryNew:    "FN",
	model.ExteriorMinimalWear:   "MW",
	model.ExteriorFieldTested:   "FT",
	model.ExteriorWellWorn:      "WW",
	model.ExteriorBattleScarred: "BS",
}

// exteriorLabelsText uses the in-game names as codes.
var exteriorLabelsText = func() map[model.Exterior]string {
	m := make(map[model.Exterior]string, len(model.Exteriors))
	for _, e := range model.Exteriors {
		m[e] = e.Label()
	}
	return m
}()

var exteriorSlugs = map[model.Exterior]string{
	model.ExteriorFactoryNew:    "factory-new",
	model.ExteriorMinimalWear:   "minimal-wear",
	model.ExteriorFieldTested:   "field-tested",
	model.ExteriorWellWorn:      "well-worn",
	model.ExteriorBattleScarred: "battle-scarred",
}

// exteriorOrdinal numbers exteriors 1..5 from Factory New.
var exteriorOrdinal = map[model.Exterior]string{
	model.ExteriorFactoryNew:    "1",
	model.ExteriorMinimalWear:   "2",
	model.ExteriorFieldTested:   "3",
	model.ExteriorWellWorn:      "4",
	model.ExteriorBattleScarred: "5",
}

var phaseLabels = map[string]string{
	"Phase 1":     "Phase 1",
	"Phase 2":     "Phase 2",
	"Phase 3":     "Phase 3",
	"Phase 4":     "Phase 4",
	"Ruby":        "Ruby",
	"Sapphire":    "Sapphire",
	"Black Pearl": "Black Pearl",
	"Emerald":     "Emerald",
}

var phaseSlugs = map[string]string{
	"Phase 1":     "phase-1",
	"Phase 2":     "phase-2",
	"Phase 3":     "phase-3",
	"Phase 4":     "phase-4",
	"Ruby":        "ruby",
	"Sapphire":    "sapphire",
	"Black Pearl": "black-pearl",
	"Emerald":     "emerald",
}

func builtinMarkets() []*Market {
	return []*Market{
		{
			ID:    model.MarketSteam,
			Label: "Steam Community Market",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "tag_WearCategory0",
				model.ExteriorMinimalWear:   "tag_WearCategory1",
				model.ExteriorFieldTested:   "tag_WearCategory2",
				model.ExteriorWellWorn:      "tag_WearCategory3",
				model.ExteriorBattleScarred: "tag_WearCategory4",
			},
			Vanilla: "tag_WearCategoryNA",
		},
		{
			// Buff exteriors are part of the goods id; only phase tags are
			// per item and come from the catalog.
			ID:            model.MarketBuff163,
			Label:         "BUFF163",
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:    model.MarketCSFloat,
			Label: "CSFloat",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "1",
				model.ExteriorMinimalWear:   "2",
				model.ExteriorFieldTested:   "3",
				model.ExteriorWellWorn:      "4",
				model.ExteriorBattleScarred: "5",
			},
			Phase: map[string]string{
				"Ruby":        "415",
				"Sapphire":    "416",
				"Black Pearl": "417",
				"Phase 1":     "418",
				"Phase 2":     "419",
				"Phase 3":     "420",
				"Phase 4":     "421",
			},
			GammaPhase: map[string]string{
				"Emerald": "568",
				"Phase 1": "569",
				"Phase 2": "570",
				"Phase 3": "571",
				"Phase 4": "572",
			},
			Vanilla:        "0",
			Referral:       Param{Key: "ref", Value: referralTag},
			SupportsFloat:  true,
			SupportsSeed:   true,
			CustomTracking: true,
		},
		{
			ID:    model.MarketSkinport,
			Label: "Skinport",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "2",
				model.ExteriorMinimalWear:   "4",
				model.ExteriorFieldTested:   "3",
				model.ExteriorWellWorn:      "5",
				model.ExteriorBattleScarred: "1",
			},
			Phase:     phaseSlugs,
			Vanilla:   "1",
			Referral:  Param{Key: "r", Value: referralTag},
			TradeHold: Param{Key: "lock", Value: "0"},
		},
		{
			ID:            model.MarketDMarket,
			Label:         "DMarket",
			Exterior:      exteriorSlugs,
			Phase:         phaseSlugs,
			Vanilla:       "vanilla",
			Referral:      Param{Key: "ref", Value: referralTag},
			TradeHold:     Param{Key: "tradeLockTo", Value: "0"},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:       model.MarketBitSkins,
			Label:    "BitSkins",
			Exterior: exteriorOrdinal,
			Phase: map[string]string{
				"Phase 1":     "1",
				"Phase 2":     "2",
				"Phase 3":     "3",
				"Phase 4":     "4",
				"Ruby":        "5",
				"Sapphire":    "6",
				"Black Pearl": "7",
				"Emerald":     "8",
			},
			Vanilla:       "1",
			Referral:      Param{Key: "ref_alias", Value: referralTag},
			TradeHold:     Param{Key: "tradehold", Value: "0"},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:       model.MarketCSMoney,
			Label:    "CS.MONEY",
			Exterior: exteriorKeys,
			Phase: map[string]string{
				"Phase 1":     "ph1",
				"Phase 2":     "ph2",
				"Phase 3":     "ph3",
				"Phase 4":     "ph4",
				"Ruby":        "ruby",
				"Sapphire":    "sapphire",
				"Black Pearl": "black pearl",
				"Emerald":     "emerald",
			},
			Vanilla:       "true",
			Referral:      Param{Key: "utm_referrer", Value: referralTag},
			TradeHold:     Param{Key: "hasTradeLock", Value: "false"},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:    model.MarketSkinBaron,
			Label: "SkinBaron",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "2",
				model.ExteriorMinimalWear:   "4",
				model.ExteriorFieldTested:   "3",
				model.ExteriorWellWorn:      "5",
				model.ExteriorBattleScarred: "1",
			},
			Phase:         phaseLabels,
			Referral:      Param{Key: "affiliateId", Value: "1337"},
			TradeHold:     Param{Key: "tli", Value: "0"},
			SupportsFloat: true,
		},
		{
			ID:            model.MarketTradeit,
			Label:         "Tradeit.gg",
			Exterior:      exteriorLabelsText,
			Phase:         phaseLabels,
			Referral:      Param{Key: "aff", Value: referralTag},
			TradeHold:     Param{Key: "tradeLockDays", Value: "0"},
			SupportsFloat: true,
		},
		{
			ID:            model.MarketWaxpeer,
			Label:         "Waxpeer",
			Exterior:      exteriorUpper,
			Phase:         phaseLabels,
			Referral:      Param{Key: "ref", Value: referralTag},
			SupportsFloat: true,
		},
		{
			ID:            model.MarketShadowPay,
			Label:         "ShadowPay",
			Exterior:      exteriorLabelsText,
			Phase:         phaseLabels,
			Vanilla:       "1",
			Referral:      Param{Key: "utm_campaign_ref", Value: referralTag},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:    model.MarketMarketCSGO,
			Label: "Market.CSGO",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "Factory New",
				model.ExteriorMinimalWear:   "Minimal Wear",
				model.ExteriorFieldTested:   "Field-Tested",
				model.ExteriorWellWorn:      "Well-Worn",
				model.ExteriorBattleScarred: "Battle-Scarred",
			},
			Phase:    phaseSlugs,
			Referral: Param{Key: "ref", Value: referralTag},
		},
		{
			ID:            model.MarketWhiteMarket,
			Label:         "White.market",
			Exterior:      exteriorUpper,
			Phase:         phaseSlugs,
			Vanilla:       "1",
			Referral:      Param{Key: "ref", Value: referralTag},
			TradeHold:     Param{Key: "unlocked", Value: "1"},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:            model.MarketGamerPay,
			Label:         "GamerPay",
			Exterior:      exteriorLabelsText,
			Phase:         phaseLabels,
			Referral:      Param{Key: "ref", Value: referralTag},
			SupportsFloat: true,
			SupportsSeed:  true,
		},
		{
			ID:       model.MarketLisSkins,
			Label:    "LIS-SKINS",
			Exterior: exteriorOrdinal,
			Phase: map[string]string{
				"Phase 1":     "1",
				"Phase 2":     "2",
				"Phase 3":     "3",
				"Phase 4":     "4",
				"Ruby":        "ruby",
				"Sapphire":    "sapphire",
				"Black Pearl": "black-pearl",
				"Emerald":     "emerald",
			},
			Referral:      Param{Key: "rf", Value: referralTag},
			TradeHold:     Param{Key: "hold", Value: "0"},
			SupportsFloat: true,
		},
		{
			ID:            model.MarketAvanMarket,
			Label:         "Avan.market",
			Exterior:      exteriorKeys,
			Phase:         phaseSlugs,
			Referral:      Param{Key: "r", Value: referralTag},
			TradeHold:     Param{Key: "instant", Value: "1"},
			SupportsFloat: true,
		},
		{
			ID:    model.MarketYoupin,
			Label: "UU Youpin",
			Exterior: map[model.Exterior]string{
				model.ExteriorFactoryNew:    "WearCategory0",
				model.ExteriorMinimalWear:   "WearCategory1",
				model.ExteriorFieldTested:   "WearCategory2",
				model.ExteriorWellWorn:      "WearCategory3",
				model.ExteriorBattleScarred: "WearCategory4",
			},
			Vanilla:  "WearCategoryNA",
			Referral: Param{Key: "inviteCode", Value: "SKNTAP"},
		},
	}
}
