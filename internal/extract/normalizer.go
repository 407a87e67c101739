package extract

import (
	"strings"
	"time"

	"core/internal/model"
)

const (
	titleMaxLen       = 120
	descriptionMaxLen = 4000

	// placeholder when the post carries no usable first line
	emptyTitle = "(untitled)"
)

// BuildListing assembles one canonical ListingRecord from raw text, the
// heuristic extractors and an optional enrichment overlay. Overlay fields win
// over heuristic fields whenever the overlay provides a non-empty value; the
// heuristic is the fallback, never the reverse.
func BuildListing(sourceID int64, createdAt time.Time, rawText, link string, overlay *model.ListingOverlay) model.ListingRecord {
	rec := model.ListingRecord{
		SourceID:  sourceID,
		CreatedAt: createdAt,
		Title:     emptyTitle,
		Pets:      model.TriUnknown,
		Pool:      model.TriUnknown,
		Furnished: model.TriUnknown,
		Link:      link,
		RawText:   rawText,
	}

	title, rest := splitTitle(rawText)
	if title != "" {
		rec.Title = truncateRunes(title, titleMaxLen)
	}
	rec.Description = truncateRunes(rest, descriptionMaxLen)

	rec.Location = Location(rawText)
	if n, ok := Bedrooms(rawText); ok {
		rec.Bedrooms = &n
	}
	if n, ok := Bathrooms(rawText); ok {
		rec.Bathrooms = &n
	}
	if n, ok := Price(rawText); ok {
		rec.PriceMonth = &n
	}
	rec.Pets = Pets(rawText)
	rec.Pool = Pool(rawText)
	rec.Furnished = Furnished(rawText)
	rec.Available = Available(rawText)
	rec.ElectricityRate, rec.WaterRate = UtilityRates(rawText)

	applyOverlay(&rec, overlay)
	return rec
}

// applyOverlay folds enrichment output into the record. An overlay that is
// nil or carries only empty fields leaves the heuristic values untouched.
func applyOverlay(rec *model.ListingRecord, overlay *model.ListingOverlay) {
	if overlay == nil {
		return
	}
	if overlay.Location != "" {
		rec.Location = strings.ToLower(overlay.Location)
	}
	if overlay.Bedrooms != nil {
		rec.Bedrooms = overlay.Bedrooms
	}
	if overlay.Bathrooms != nil {
		rec.Bathrooms = overlay.Bathrooms
	}
	if overlay.PriceMonth != nil {
		rec.PriceMonth = overlay.PriceMonth
	}
	if overlay.Pets == model.TriAllowed || overlay.Pets == model.TriDisallowed {
		rec.Pets = overlay.Pets
	}
	if overlay.Available != "" {
		rec.Available = overlay.Available
	}
	if overlay.ElectricityRate != nil {
		rec.ElectricityRate = overlay.ElectricityRate
	}
	if overlay.WaterRate != nil {
		rec.WaterRate = overlay.WaterRate
	}
	if overlay.Pool == model.TriAllowed || overlay.Pool == model.TriDisallowed {
		rec.Pool = overlay.Pool
	}
	if overlay.Furnished == model.TriAllowed || overlay.Furnished == model.TriDisallowed {
		rec.Furnished = overlay.Furnished
	}
	if len(overlay.Tags) > 0 {
		rec.Tags = overlay.Tags
	}
}

// splitTitle returns the first non-empty line and the remainder of the text.
func splitTitle(text string) (title, rest string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			return t, strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return "", ""
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
