package extract

import (
	"testing"

	"core/internal/model"
)

func TestCriteriaFromText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		location  string
		budgetMin int
		budgetMax *int
		bedrooms  int
		pets      model.TriState
	}{
		{
			name:      "full russian query",
			input:     "Lamai, 2 спальни, 45000 бат/мес, без животных",
			location:  "lamai",
			budgetMin: 2000, // the bedroom count is also a digit run, scaled as a bare thousand
			budgetMax: intPtr(45000),
			bedrooms:  2,
			pets:      model.TriDisallowed,
		},
		{
			name:      "range with shorthand",
			input:     "Маенам 40-60к с питомцами",
			location:  "maenam",
			budgetMin: 40000,
			budgetMax: intPtr(60000),
			pets:      model.TriAllowed,
		},
		{
			name:      "single bare number",
			input:     "бюджет 55",
			budgetMin: 0,
			budgetMax: intPtr(55000),
			pets:      model.TriUnknown,
		},
		{
			name:      "large number not scaled",
			input:     "35000 в месяц",
			budgetMin: 0,
			budgetMax: intPtr(35000),
			pets:      model.TriUnknown,
		},
		{
			name:  "no constraints at all",
			input: "дом у моря",
			pets:  model.TriUnknown,
		},
		{
			name:      "reversed range sorted",
			input:     "от 60 до 40 тысяч",
			budgetMin: 40000,
			budgetMax: intPtr(60000),
			pets:      model.TriUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CriteriaFromText(tt.input)
			if c.Location != tt.location {
				t.Errorf("Location = %q, want %q", c.Location, tt.location)
			}
			if c.BudgetMin != tt.budgetMin {
				t.Errorf("BudgetMin = %d, want %d", c.BudgetMin, tt.budgetMin)
			}
			if !eqIntPtr(c.BudgetMax, tt.budgetMax) {
				t.Errorf("BudgetMax = %v, want %v", fmtIntPtr(c.BudgetMax), fmtIntPtr(tt.budgetMax))
			}
			if c.MinBedrooms != tt.bedrooms {
				t.Errorf("MinBedrooms = %d, want %d", c.MinBedrooms, tt.bedrooms)
			}
			if c.Pets != tt.pets {
				t.Errorf("Pets = %v, want %v", c.Pets, tt.pets)
			}
		})
	}
}

func TestCriteriaFromTextUnconstrained(t *testing.T) {
	c := CriteriaFromText("вилла с бассейном")
	if !c.Unconstrained() {
		t.Errorf("budget should be unconstrained, got min %d max %v", c.BudgetMin, fmtIntPtr(c.BudgetMax))
	}
}

func TestCriteriaFromDialogue(t *testing.T) {
	c := CriteriaFromDialogue(DialogueAnswers{
		Location:     "Ламай",
		BudgetText:   "40-60",
		BedroomsText: "2",
		PetsRequired: true,
		DatesText:    "с декабря на полгода",
	})

	if c.Location != "lamai" {
		t.Errorf("Location = %q, want canonical %q", c.Location, "lamai")
	}
	if c.BudgetMin != 40000 {
		t.Errorf("BudgetMin = %d, want 40000", c.BudgetMin)
	}
	if c.BudgetMax == nil || *c.BudgetMax != 60000 {
		t.Errorf("BudgetMax = %v, want 60000", fmtIntPtr(c.BudgetMax))
	}
	if c.MinBedrooms != 2 {
		t.Errorf("MinBedrooms = %d, want 2", c.MinBedrooms)
	}
	if c.Pets != model.TriAllowed {
		t.Errorf("Pets = %v, want allowed", c.Pets)
	}
	if c.Dates != "с декабря на полгода" {
		t.Errorf("Dates = %q", c.Dates)
	}
}

func TestCriteriaFromDialogueDegrades(t *testing.T) {
	c := CriteriaFromDialogue(DialogueAnswers{
		Location:     "где-нибудь у моря",
		BudgetText:   "пока не знаю",
		BedroomsText: "побольше",
		PetsRequired: false,
		DatesText:    "",
	})

	if c.Location != "где-нибудь у моря" {
		t.Errorf("unknown area should stay verbatim, got %q", c.Location)
	}
	if !c.Unconstrained() {
		t.Error("unparsable budget should be unconstrained")
	}
	if c.MinBedrooms != 0 {
		t.Errorf("MinBedrooms = %d, want 0", c.MinBedrooms)
	}
	if c.Pets != model.TriUnknown {
		t.Errorf("Pets = %v, want unknown", c.Pets)
	}
}

func TestParseBudgetScaling(t *testing.T) {
	tests := []struct {
		name  string
		input string
		bound int
		min   int
		max   *int
	}{
		{"both scaled", "40-60", dialogueThousandBound, 40000, intPtr(60000)},
		{"single scaled", "55", dialogueThousandBound, 0, intPtr(55000)},
		{"above bound kept", "45000", dialogueThousandBound, 0, intPtr(45000)},
		{"free text bound wider", "1500", freeTextThousandBound, 0, intPtr(1500000)},
		{"dialogue bound narrower", "1500", dialogueThousandBound, 0, intPtr(1500)},
		{"empty", "", dialogueThousandBound, 0, nil},
		{"extra runs ignored", "40-60, можно до 70", dialogueThousandBound, 40000, intPtr(60000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := parseBudget(tt.input, tt.bound)
			if min != tt.min || !eqIntPtr(max, tt.max) {
				t.Errorf("parseBudget(%q, %d) = (%d, %v), want (%d, %v)",
					tt.input, tt.bound, min, fmtIntPtr(max), tt.min, fmtIntPtr(tt.max))
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) interface{} {
	if p == nil {
		return "<nil>"
	}
	return *p
}
