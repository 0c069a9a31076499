package synth

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/rendis/skintap/internal/model"
)

func steamURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketSteam, d, env)
	if err != nil {
		return "", err
	}
	b.set("appid", "730").set("q", d.BaseSearchName)
	b.exterior("category_730_Exterior[]").vanilla("category_730_Exterior[]")
	b.statTrak("category_730_Quality[]", "tag_strange")
	return b.finish("https://steamcommunity.com/market/search"), nil
}

// buff163URL needs the goods id from the catalog. Without it there is no
// useful page to open, so the market abstains with ErrNotInCatalog.
// Buff reads its listing filters from the fragment, so everything except
// the source marker goes after '#'.
func buff163URL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketBuff163, d, env)
	if err != nil {
		return "", err
	}

	entry, ok := env.lookupItem(d)
	if !ok || entry.Buff163 <= 0 {
		return "", ErrNotInCatalog
	}

	frag := url.Values{}
	frag.Set("tab", "selling")
	frag.Set("page_num", "1")
	if d.HasPhase() && !d.IsVanillaSearch {
		if tag, ok := entry.BuffPhases[d.PhaseName]; ok {
			frag.Set("tag_ids", strconv.Itoa(tag))
		}
	}
	if b.m.SupportsFloat && !d.IsVanillaSearch {
		frag.Set("min_paintwear", formatFloat(d.MinFloat))
		frag.Set("max_paintwear", formatFloat(d.MaxFloat))
	}
	if b.m.SupportsSeed && d.PaintSeed != nil {
		frag.Set("paintseed", strconv.Itoa(*d.PaintSeed))
	}

	u := "https://buff.163.com/goods/" + strconv.FormatInt(entry.Buff163, 10) +
		"?from=market#" + frag.Encode()
	return b.track(u), nil
}

func csfloatURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketCSFloat, d, env)
	if err != nil {
		return "", err
	}
	b.set("sort_by", "lowest_price").set("type", "buy_now")
	b.set("market_hash_name", d.FinalSearchName)
	b.exterior("wear").vanilla("paint_index").phase("paint_index")
	b.floats("min_float", "max_float").seed("paint_seed")
	b.referral()
	return b.finish("https://csfloat.com/search"), nil
}

func skinportURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketSkinport, d, env)
	if err != nil {
		return "", err
	}
	b.set("search", d.BaseSearchName).set("sort", "price").set("order", "asc")
	b.exterior("exterior").vanilla("vanilla").phase("phase")
	b.statTrak("stattrak", "1")
	b.tradeHold().referral()
	return b.finish("https://skinport.com/market"), nil
}

func dmarketURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketDMarket, d, env)
	if err != nil {
		return "", err
	}
	b.set("title", d.BaseSearchName)
	b.exterior("exterior").vanilla("category_1").phase("phase")
	b.statTrak("category_0", "stattrak_tm")
	b.floats("floatValueFrom", "floatValueTo").seed("paintSeed")
	b.tradeHold().referral()
	return b.finish("https://dmarket.com/ingame-items/item-list/csgo-skins"), nil
}

// bitskinsURL encodes all filters as one JSON document in the search
// parameter. Numbers go through json.Number so floats keep the exact text
// the other markets use.
func bitskinsURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketBitSkins, d, env)
	if err != nil {
		return "", err
	}

	where := map[string]any{
		"skin_name": "%" + d.BaseSearchName + "%",
	}
	if !d.IsVanillaSearch {
		if code, ok := b.m.ExteriorCode(d.Exterior); ok {
			where["exterior_id"] = []json.Number{json.Number(code)}
		}
		if code, ok := b.m.PhaseCode(d.PhaseName, d.DopplerType); ok {
			where["phase_id"] = []json.Number{json.Number(code)}
		}
		if b.m.SupportsFloat {
			where["float_value_from"] = json.Number(formatFloat(d.MinFloat))
			where["float_value_to"] = json.Number(formatFloat(d.MaxFloat))
		}
	} else if b.m.Vanilla != "" {
		where["vanilla"] = json.Number(b.m.Vanilla)
	}
	if d.IsStatTrak {
		where["category_id"] = []json.Number{"2"}
	}
	if b.m.SupportsSeed && d.PaintSeed != nil {
		where["paint_seed"] = []json.Number{json.Number(strconv.Itoa(*d.PaintSeed))}
	}
	if d.NoTradeHold && b.m.TradeHold.Key != "" {
		where[b.m.TradeHold.Key+"_to"] = json.Number(b.m.TradeHold.Value)
	}

	search, err := json.Marshal(map[string]any{
		"order": []map[string]string{{"field": "price", "order": "ASC"}},
		"where": where,
	})
	if err != nil {
		return "", err
	}
	b.set("search", string(search)).referral()
	return b.finish("https://bitskins.com/market/cs2"), nil
}

func csmoneyURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketCSMoney, d, env)
	if err != nil {
		return "", err
	}
	b.set("search", d.BaseSearchName).set("sort", "price").set("order", "asc")
	b.exterior("quality").vanilla("isVanilla").phase("phase")
	b.statTrak("isStatTrak", "true")
	b.floats("minFloat", "maxFloat").seed("pattern")
	b.tradeHold().referral()
	return b.finish("https://cs.money/market/buy/"), nil
}

func skinbaronURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketSkinBaron, d, env)
	if err != nil {
		return "", err
	}
	b.set("str", d.BaseSearchName).set("sort", "PA")
	b.exterior("wf").phase("phase")
	b.statTrak("statTrak", "true")
	b.floats("plb", "pub")
	b.tradeHold().referral()
	return b.finish("https://skinbaron.de/en/csgo"), nil
}

func tradeitURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketTradeit, d, env)
	if err != nil {
		return "", err
	}
	b.set("search", d.BaseSearchName)
	b.exterior("exterior").phase("phase")
	b.statTrak("isStattrak", "true")
	b.floats("minFloat", "maxFloat")
	b.tradeHold().referral()
	return b.finish("https://tradeit.gg/csgo/trade"), nil
}

func waxpeerURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketWaxpeer, d, env)
	if err != nil {
		return "", err
	}
	b.set("game", "csgo").set("search", d.BaseSearchName).set("sort", "ASC").set("order", "price")
	b.exterior("exterior").phase("phase")
	b.statTrak("stat_trak", "1")
	b.floats("min_float", "max_float")
	b.referral()
	return b.finish("https://waxpeer.com/"), nil
}

func shadowpayURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketShadowPay, d, env)
	if err != nil {
		return "", err
	}
	b.set("search", d.BaseSearchName).set("sort_column", "price").set("sort_dir", "asc")
	b.exterior("exteriors[]").vanilla("is_vanilla").phase("phases[]")
	b.statTrak("is_stattrak", "1")
	b.floats("float_from", "float_to").seed("paint_seed")
	b.referral()
	return b.finish("https://shadowpay.com/csgo-items"), nil
}

// marketcsgoURL keeps the search text first, encoded with %20 for spaces.
func marketcsgoURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketMarketCSGO, d, env)
	if err != nil {
		return "", err
	}
	search := d.EncodedBaseSearchName
	if d.IsStatTrak {
		search = strings.ReplaceAll(url.QueryEscape(model.StatTrakPrefix), "+", "%20") + search
	}
	b.exterior("quality").phase("phase")
	b.referral()

	u := "https://market.csgo.com/en/?search=" + search
	if rest := b.q.Encode(); rest != "" {
		u += "&" + rest
	}
	return b.track(u), nil
}

func whitemarketURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketWhiteMarket, d, env)
	if err != nil {
		return "", err
	}
	b.set("name", d.BaseSearchName).set("sort", "price_asc")
	b.exterior("exterior[]").vanilla("vanilla").phase("phase")
	b.statTrak("stattrak", "1")
	b.floats("float_from", "float_to").seed("pattern")
	b.tradeHold().referral()
	return b.finish("https://white.market/market"), nil
}

func gamerpayURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketGamerPay, d, env)
	if err != nil {
		return "", err
	}
	b.set("query", d.BaseSearchName).set("sortBy", "price").set("ascending", "true")
	b.exterior("wear").phase("phase")
	b.statTrak("statTrak", "true")
	b.floats("floatMin", "floatMax").seed("paintSeed")
	b.referral()
	return b.finish("https://gamerpay.gg/"), nil
}

func lisskinsURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketLisSkins, d, env)
	if err != nil {
		return "", err
	}
	b.set("query", d.BaseSearchName).set("sort_by", "price_asc")
	b.exterior("exterior").phase("phase")
	b.statTrak("is_stattrak", "1")
	b.floats("float_from", "float_to")
	b.tradeHold().referral()
	return b.finish("https://lis-skins.com/market/csgo/"), nil
}

func avanmarketURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketAvanMarket, d, env)
	if err != nil {
		return "", err
	}
	b.set("name", d.BaseSearchName).set("sort", "price_asc")
	b.exterior("exterior").phase("phase")
	b.statTrak("stattrak", "true")
	b.floats("float_min", "float_max")
	b.tradeHold().referral()
	return b.finish("https://avan.market/en/market/cs"), nil
}

// youpinURL prefers the exact template page from the catalog and falls back
// to a keyword search. A catalog that knows other variants of the item but
// not this one is logged as a gap.
func youpinURL(d model.SearchDescriptor, env Env) (string, error) {
	b, err := newBuilder(model.MarketYoupin, d, env)
	if err != nil {
		return "", err
	}

	hash := d.MarketHashName()
	if entry, ok := env.lookup(hash); ok && entry.Youpin > 0 {
		b.set("listType", "10").set("gameId", "730")
		b.set("templateId", strconv.FormatInt(entry.Youpin, 10))
		b.referral()
		return b.finish("https://www.youpin898.com/market/goods-list"), nil
	}

	if env.Catalog != nil && env.Catalog.HasVariants(hash) {
		env.logger().Warn("youpin catalog gap, using keyword search", "item", hash)
	}

	b.set("gameId", "730").set("keyword", d.FinalSearchName)
	b.exterior("exterior").vanilla("exterior")
	b.referral()
	return b.finish("https://www.youpin898.com/market/csgo"), nil
}
