package parser

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rendis/skintap/internal/model"
)

var (
	ErrEmptyName         = errors.New("item name is required")
	ErrInvalidPaintSeed  = errors.New("paint seed must be a whole number between 0 and 1000")
	ErrInvalidFloatRange = errors.New("float range must satisfy 0 <= min <= max <= 1")
	ErrInvalidExterior   = errors.New("unknown exterior")
)

// ValidationError reports which form field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

const maxPaintSeed = 1000

var (
	phaseRe   = regexp.MustCompile(`(?i)\s\(\s*(phase\s*[1-4]|ruby|sapphire|black\s+pearl|emerald)\s*\)`)
	decimalRe = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	gammaRe   = regexp.MustCompile(`(?i)\bgamma\s+doppler\b`)
	dopplRe   = regexp.MustCompile(`(?i)\bdoppler\b`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// canonicalPhases maps a lowercased, space-collapsed tag to its canonical name.
var canonicalPhases = map[string]string{
	"phase 1":     "Phase 1",
	"phase 2":     "Phase 2",
	"phase 3":     "Phase 3",
	"phase 4":     "Phase 4",
	"ruby":        "Ruby",
	"sapphire":    "Sapphire",
	"black pearl": "Black Pearl",
	"emerald":     "Emerald",
}

// Parse turns raw item text into a descriptor carrying only the name-derived
// fields. It returns ErrEmptyName for blank input.
func Parse(raw string, statTrak bool) (model.SearchDescriptor, error) {
	full := strings.TrimSpace(raw)
	if full == "" {
		return model.SearchDescriptor{}, ErrEmptyName
	}

	d := model.SearchDescriptor{
		FullInput:      full,
		BaseSearchName: full,
		IsStatTrak:     statTrak,
	}

	// Vanilla knives have no phases, so phase detection is skipped entirely.
	if strings.HasSuffix(full, model.VanillaSuffix) {
		d.IsVanillaSearch = true
		d.BaseSearchName = strings.TrimSpace(strings.TrimSuffix(full, model.VanillaSuffix))
	} else if loc := phaseRe.FindStringSubmatchIndex(full); loc != nil {
		tag := strings.TrimSpace(full[loc[2]:loc[3]])
		d.PhaseName = canonicalPhase(tag)
		d.BaseSearchName = strings.TrimSpace(full[:loc[0]] + full[loc[1]:])
		d.DopplerType = detectDopplerType(full)
	}

	d.FinalSearchName = d.BaseSearchName
	if statTrak {
		d.FinalSearchName = model.StatTrakPrefix + d.BaseSearchName
	}
	d.EncodedBaseSearchName = EncodeComponent(d.BaseSearchName)
	d.EncodedFullInput = EncodeComponent(d.FullInput)
	return d, nil
}

func canonicalPhase(tag string) string {
	key := strings.ToLower(spaceRe.ReplaceAllString(tag, " "))
	key = strings.Replace(key, "phase", "phase ", 1)
	key = spaceRe.ReplaceAllString(key, " ")
	if name, ok := canonicalPhases[key]; ok {
		return name
	}
	return tag
}

func detectDopplerType(s string) string {
	switch {
	case gammaRe.MatchString(s):
		return "Gamma Doppler"
	case dopplRe.MatchString(s):
		return "Doppler"
	}
	return ""
}

// EncodeComponent percent-encodes s for use inside a query value or path
// segment. Spaces become %20 rather than '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParsePaintSeed validates and parses in one pass. Empty input means no
// filter and is not an error. Anything else must be the exact decimal form
// of the number, so padding and leading zeros are rejected.
func ParsePaintSeed(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxPaintSeed || strconv.Itoa(n) != raw {
		return nil, ErrInvalidPaintSeed
	}
	return &n, nil
}

// ParseFloatRange parses the wear bounds. Empty values default to 0 and 1.
func ParseFloatRange(minRaw, maxRaw string) (float64, float64, error) {
	lo, err := parseBound(minRaw, 0)
	if err != nil {
		return 0, 0, err
	}
	hi, err := parseBound(maxRaw, 1)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, ErrInvalidFloatRange
	}
	return lo, hi, nil
}

func parseBound(raw string, def float64) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	// Plain decimals only; exponent and hex forms would not be reproduced
	// as typed in the generated URLs.
	if !decimalRe.MatchString(s) {
		return 0, ErrInvalidFloatRange
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f > 1 {
		return 0, ErrInvalidFloatRange
	}
	return f, nil
}

// ParseExterior accepts a key ("ft") or a label ("Field-Tested"), case-insensitively.
func ParseExterior(raw string) (model.Exterior, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "any") {
		return model.ExteriorAny, nil
	}
	for _, e := range model.Exteriors {
		if strings.EqualFold(s, string(e)) || strings.EqualFold(s, e.Label()) {
			return e, nil
		}
	}
	return model.ExteriorAny, ErrInvalidExterior
}

// Build validates a whole form and produces the descriptor used for synthesis.
func Build(form model.SearchForm) (model.SearchDescriptor, error) {
	d, err := Parse(form.Item, form.StatTrak)
	if err != nil {
		return d, &ValidationError{Field: "item", Err: err}
	}

	ext, err := ParseExterior(form.Exterior)
	if err != nil {
		return d, &ValidationError{Field: "exterior", Err: fmt.Errorf("%w %q", err, form.Exterior)}
	}

	lo, hi, err := ParseFloatRange(form.MinFloat, form.MaxFloat)
	if err != nil {
		return d, &ValidationError{Field: "float", Err: err}
	}

	seed, err := ParsePaintSeed(form.PaintSeed)
	if err != nil {
		return d, &ValidationError{Field: "paint_seed", Err: err}
	}

	d.Exterior = ext
	d.MinFloat = lo
	d.MaxFloat = hi
	d.PaintSeed = seed
	d.NoTradeHold = form.NoTradeHold
	return d, nil
}
