package extract

import (
	"strconv"
	"testing"

	"core/internal/model"
)

func TestFirstInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"plain", "45000", 45000, true},
		{"thousand space", "45 000 бат", 45000, true},
		{"nbsp separator", "45 000", 45000, true},
		{"apostrophe separator", "45'000", 45000, true},
		{"comma separator", "45,000", 45000, true},
		{"embedded", "цена 38000 в месяц", 38000, true},
		{"no digits", "дом у моря", 0, false},
		{"empty", "", 0, false},
		{"punctuation only", "?!...", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstInt(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("FirstInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAllInts(t *testing.T) {
	got := AllInts("от 40 до 60 тысяч")
	if len(got) != 2 || got[0] != 40 || got[1] != 60 {
		t.Errorf("AllInts = %v, want [40 60]", got)
	}
	if got := AllInts("без цифр"); got != nil {
		t.Errorf("AllInts on textless input = %v, want nil", got)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"latin", "Villa in Lamai for rent", "lamai"},
		{"cyrillic", "Сдаётся дом на Ламае", "lamai"},
		{"spaced variant", "house in Mae Nam", "maenam"},
		{"cyrillic maenam", "Маенам, дом у моря", "maenam"},
		{"choeng mon", "Чоенг Мон, вилла", "choeng mon"},
		{"first entry wins", "Lamai or Chaweng", "lamai"},
		{"no location", "дом у моря", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(tt.input); got != tt.want {
				t.Errorf("Location(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBedrooms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"russian", "2 спальни, кухня", 2, true},
		{"russian abbrev", "3 сп.", 3, true},
		{"russian abbrev end", "2 сп", 2, true},
		{"english", "3 bedrooms", 3, true},
		{"english short", "2br villa", 2, true},
		{"beds", "4 beds", 4, true},
		{"not a word prefix", "3 спортзала", 0, false},
		{"absent", "большой дом", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Bedrooms(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Bedrooms(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBathrooms(t *testing.T) {
	if got, ok := Bathrooms("2 санузла"); !ok || got != 2 {
		t.Errorf("Bathrooms = (%d, %v), want (2, true)", got, ok)
	}
	if got, ok := Bathrooms("1 bath"); !ok || got != 1 {
		t.Errorf("Bathrooms = (%d, %v), want (1, true)", got, ok)
	}
	if _, ok := Bathrooms("бассейн и сад"); ok {
		t.Error("Bathrooms matched text without a bathroom count")
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"marked baht", "45000 бат/мес", 45000, true},
		{"marked with spaces", "45 000 бат в месяц", 45000, true},
		{"thai symbol", "35000฿", 35000, true},
		{"per month english", "30000 per month", 30000, true},
		{"cyrillic shorthand", "45к/мес", 45000, true},
		{"latin shorthand", "45k baht", 45000, true},
		{"shorthand end of text", "бюджет 60к", 60000, true},
		{"fallback first run", "цена 38000, торг", 38000, true},
		{"no digits", "дом с бассейном", 0, false},
		{"word boundary guard", "5кв, кухня", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Price(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Price(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// Re-running the extractor on its own numeric output must yield the same
// value, so stored prices survive re-extraction.
func TestPriceIdempotent(t *testing.T) {
	inputs := []string{"45000 бат/мес", "45к", "38 000"}
	for _, in := range inputs {
		first, ok := Price(in)
		if !ok {
			t.Fatalf("Price(%q) found nothing", in)
		}
		second, ok := Price(strconv.Itoa(first))
		if !ok || second != first {
			t.Errorf("Price not idempotent for %q: first %d, second %d", in, first, second)
		}
	}
}

func TestPets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.TriState
	}{
		{"russian negative", "без животных", model.TriDisallowed},
		{"russian positive", "можно с животными", model.TriAllowed},
		{"english negative", "no pets please", model.TriDisallowed},
		{"english positive", "pet friendly villa", model.TriAllowed},
		{"negative wins over positive", "pets not allowed", model.TriDisallowed},
		{"silent", "дом у моря", model.TriUnknown},
		{"empty", "", model.TriUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pets(tt.input); got != tt.want {
				t.Errorf("Pets(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPoolAndFurnished(t *testing.T) {
	if got := Pool("вилла с бассейном"); got != model.TriAllowed {
		t.Errorf("Pool = %v, want allowed", got)
	}
	if got := Pool("дом с садом"); got != model.TriUnknown {
		t.Errorf("Pool absent = %v, want unknown", got)
	}
	if got := Furnished("fully furnished"); got != model.TriAllowed {
		t.Errorf("Furnished = %v, want allowed", got)
	}
	if got := Furnished("unfurnished house"); got != model.TriDisallowed {
		t.Errorf("Furnished negative = %v, want disallowed", got)
	}
	if got := Furnished("дом"); got != model.TriUnknown {
		t.Errorf("Furnished absent = %v, want unknown", got)
	}
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"russian day month", "свободна с 1 декабря", "1 декабря"},
		{"english from", "available from 15 Jan", "15 Jan"},
		{"iso date", "от 2026-12-01", "2026-12-01"},
		{"bare month", "от декабря", "декабря"},
		{"absent", "дом у моря", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(tt.input); got != tt.want {
				t.Errorf("Available(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUtilityRates(t *testing.T) {
	el, wa := UtilityRates("электричество 7 бат/квт, вода 30 бат/куб")
	if el == nil || *el != 7 {
		t.Errorf("electricity = %v, want 7", el)
	}
	if wa == nil || *wa != 30 {
		t.Errorf("water = %v, want 30", wa)
	}

	el, wa = UtilityRates("electricity 6.5 per unit")
	if el == nil || *el != 6.5 {
		t.Errorf("electricity = %v, want 6.5", el)
	}
	if wa != nil {
		t.Errorf("water = %v, want nil", wa)
	}

	el, _ = UtilityRates("7,5 бат за квт")
	if el == nil || *el != 7.5 {
		t.Errorf("decimal comma electricity = %v, want 7.5", el)
	}

	el, wa = UtilityRates("дом у моря")
	if el != nil || wa != nil {
		t.Errorf("rates on silent text = (%v, %v), want (nil, nil)", el, wa)
	}
}
