package extract

import (
	"core/internal/model"
)

// Bare budget numbers below these bounds are read as thousands of baht:
// "60" in a renter message means 60 000.
const (
	freeTextThousandBound = 2000
	dialogueThousandBound = 1000
)

// CriteriaFromText derives renter criteria from a free-form message. The
// budget comes from the first two digit runs of the text: none leaves the
// budget unconstrained, one sets only the upper bound, two or more set the
// sorted pair.
func CriteriaFromText(text string) model.QueryCriteria {
	c := model.QueryCriteria{
		Location: Location(text),
		Pets:     Pets(text),
	}
	if n, ok := Bedrooms(text); ok {
		c.MinBedrooms = n
	}
	c.BudgetMin, c.BudgetMax = parseBudget(text, freeTextThousandBound)
	return c
}

// DialogueAnswers carries the raw answers accumulated by the guided flow.
// PetsRequired comes from a fixed two-button choice, never from free text.
type DialogueAnswers struct {
	Location     string
	BudgetText   string
	BedroomsText string
	PetsRequired bool
	DatesText    string
}

// CriteriaFromDialogue derives renter criteria from completed dialogue
// answers. Unparsable numeric answers degrade to safe sentinels: zero
// bedrooms, unconstrained budget.
func CriteriaFromDialogue(a DialogueAnswers) model.QueryCriteria {
	c := model.QueryCriteria{
		Location: a.Location,
		Dates:    a.DatesText,
		Pets:     model.TriUnknown,
	}
	// Canonicalize the answer when it names a known area in either alphabet,
	// so a Cyrillic reply still matches Latin location tags.
	if tag := Location(a.Location); tag != "" {
		c.Location = tag
	}
	if a.PetsRequired {
		c.Pets = model.TriAllowed
	}
	if n, ok := FirstInt(a.BedroomsText); ok {
		c.MinBedrooms = n
	}
	c.BudgetMin, c.BudgetMax = parseBudget(a.BudgetText, dialogueThousandBound)
	return c
}

// parseBudget reads up to two digit runs as inclusive budget bounds, scaling
// bare values below bound by x1000. The pair is sorted before assignment so
// min <= max always holds.
func parseBudget(text string, bound int) (min int, max *int) {
	nums := AllInts(text)
	for i, n := range nums {
		if n > 0 && n < bound {
			nums[i] = n * 1000
		}
	}
	switch {
	case len(nums) == 0:
		return 0, nil
	case len(nums) == 1:
		v := nums[0]
		return 0, &v
	default:
		lo, hi := nums[0], nums[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, &hi
	}
}
