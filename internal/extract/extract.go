// Package extract turns free-form, multilingual (Russian/English) rental
// listing text into typed attributes. Every extractor is a pure function;
// a miss is a legitimate outcome reported as the zero value or TriUnknown,
// never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"core/internal/model"
)

// digitRunRe matches the first run of digits, allowing interior spaces,
// apostrophes, periods and commas as thousand separators.
var digitRunRe = regexp.MustCompile(`[0-9][0-9\s\x{00a0}'.,]*`)

// FirstInt parses the first digit run of text as an integer. Returns
// (0, false) when no digit run exists.
func FirstInt(text string) (int, bool) {
	m := digitRunRe.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(stripSeparators(m))
	if err != nil {
		return 0, false
	}
	return n, true
}

// AllInts parses every digit run of text, in order of appearance.
func AllInts(text string) []int {
	var out []int
	for _, m := range digitRunRe.FindAllString(text, -1) {
		if n, err := strconv.Atoi(stripSeparators(m)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// locationEntry maps a canonical location tag to its surface-form variants.
// Order matters: the first tag with a matching variant wins, there is no
// scoring among tags.
type locationEntry struct {
	tag      string
	variants []string
}

var locationTable = []locationEntry{
	{"lamai", []string{"lamai", "lamaï", "ламай"}},
	{"bophut", []string{"bophut", "bo phut", "бопхут"}},
	{"chaweng", []string{"chaweng", "чавенг"}},
	{"maenam", []string{"maenam", "mae nam", "маенам", "маэнам"}},
	{"bangrak", []string{"bangrak", "ban rak", "bang rak", "банграк", "банрак"}},
	{"choeng mon", []string{"choeng mon", "чоенг мон", "чонг мон"}},
	{"lipa noi", []string{"lipa noi", "липа ной"}},
	{"taling ngam", []string{"taling ngam", "талинг"}},
}

// Location returns the canonical tag of the first vocabulary entry whose any
// variant occurs in text, or "" when none match.
func Location(text string) string {
	t := strings.ToLower(text)
	for _, e := range locationTable {
		for _, v := range e.variants {
			if strings.Contains(t, v) {
				return e.tag
			}
		}
	}
	return ""
}

// \b is ASCII-only in Go regexp, so Cyrillic keywords spell their own
// boundary out.
var (
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:спальн|bedrooms?\b|beds?\b|br\b|сп(?:[^а-яёa-z]|$))`)
	bathroomsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:сануз|ванн|bathrooms?\b|baths?\b)`)
)

// Bedrooms extracts the bedroom count ("2 спальни", "3br", "2 beds").
func Bedrooms(text string) (int, bool) {
	return captureInt(bedroomsRe, text)
}

// Bathrooms extracts the bathroom count ("2 санузла", "1 bath").
func Bathrooms(text string) (int, bool) {
	return captureInt(bathroomsRe, text)
}

func captureInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

var (
	// "45к" / "45 к" — Cyrillic thousand shorthand after a digit.
	thousandShorthandRe = regexp.MustCompile(`(?i)(\d)\s*[кk]([^а-яёa-z0-9]|$)`)
	priceMarkedRe       = regexp.MustCompile(`([0-9][0-9\s\x{00a0}'.,]*)\s*(?:бат|baht|thb|฿|/\s*мес|/\s*month|per month|в месяц)`)
)

// Price extracts the monthly price in baht. A number adjacent to a currency
// or period marker is preferred; otherwise the first digit run of the whole
// text is the fallback, so re-running on an already normalized numeric string
// yields the same integer.
func Price(text string) (int, bool) {
	t := strings.ToLower(text)
	t = thousandShorthandRe.ReplaceAllString(t, "${1}000${2}")
	if m := priceMarkedRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(stripSeparators(m[1])); err == nil {
			return n, true
		}
	}
	return FirstInt(t)
}

var petNegative = []string{
	"no pets", "no animals", "without animals", "without pets", "pets not allowed",
	"без животных", "без питомцев", "нельзя с животными", "животные запрещены",
}

var petPositive = []string{
	"pets ok", "pets allowed", "pet friendly", "pet-friendly", "with pets",
	"можно с животными", "с животными можно", "с питомцами", "можно с питомцами",
}

// Pets extracts the pet policy. The negative check runs before the positive
// one, so "pets not allowed" never reads as allowed.
func Pets(text string) model.TriState {
	t := strings.ToLower(text)
	for _, p := range petNegative {
		if strings.Contains(t, p) {
			return model.TriDisallowed
		}
	}
	for _, p := range petPositive {
		if strings.Contains(t, p) {
			return model.TriAllowed
		}
	}
	return model.TriUnknown
}

var poolWords = []string{"pool", "бассейн"}

// Pool detects a pool mention. Absence of the word reads as unknown, not no.
func Pool(text string) model.TriState {
	t := strings.ToLower(text)
	for _, w := range poolWords {
		if strings.Contains(t, w) {
			return model.TriAllowed
		}
	}
	return model.TriUnknown
}

var furnishedPositive = []string{"furnished", "с мебелью", "меблирован"}
var furnishedNegative = []string{"unfurnished", "без мебели"}

// Furnished detects the furnishing state.
func Furnished(text string) model.TriState {
	t := strings.ToLower(text)
	for _, w := range furnishedNegative {
		if strings.Contains(t, w) {
			return model.TriDisallowed
		}
	}
	for _, w := range furnishedPositive {
		if strings.Contains(t, w) {
			return model.TriAllowed
		}
	}
	return model.TriUnknown
}

var availableRe = regexp.MustCompile(`(?i)(?:from|от|свободн[а-яё]*\s+с)\s+(` +
	`\d{4}-\d{2}-\d{2}` + `|` +
	`\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|янв|фев|мар|апр|ма[йя]|июн|июл|авг|сен|окт|ноя|дек)[a-zа-я]*` + `|` +
	`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|янв|фев|мар|апр|ма[йя]|июн|июл|авг|сен|окт|ноя|дек)[a-zа-я]*` +
	`)`)

// Available extracts a date-like availability token following "from"/"от"
// (day + month name, ISO date, or a bare month abbreviation). Empty when
// absent.
func Available(text string) string {
	m := availableRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

var (
	electricityRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:бат|baht|thb)?\s*(?:/|за|per\s+)?\s*(?:квт|kwh?\b|kw\b|юнит|unit\b)`)
	waterRe       = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:бат|baht|thb)?\s*(?:/|за|per\s+)?\s*(?:куб|m3\b|м3\b|cubic)`)
)

// UtilityRates extracts per-kilowatt electricity and per-cubic-meter water
// rates. A decimal comma is normalized to a decimal point. Each rate is
// independent; either may be nil.
func UtilityRates(text string) (electricity, water *float64) {
	if m := electricityRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			electricity = &v
		}
	}
	if m := waterRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			water = &v
		}
	}
	return electricity, water
}
