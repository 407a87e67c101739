package model

// QueryCriteria is a renter's structured search intent.
//
// BudgetMax == nil means the upper bound is unconstrained; BudgetMin defaults
// to 0. Whenever both bounds come from parsed input they are sorted before
// assignment, so BudgetMin <= BudgetMax always holds. MinBedrooms == 0 means
// no bedroom constraint. Pets == TriAllowed is a hard filter (the renter has
// pets); the other two states never exclude a candidate.
type QueryCriteria struct {
	Location    string   `json:"location,omitempty"`
	BudgetMin   int      `json:"budget_min"`
	BudgetMax   *int     `json:"budget_max,omitempty"`
	MinBedrooms int      `json:"min_bedrooms"`
	Pets        TriState `json:"pets"`
	Dates       string   `json:"dates,omitempty"`
}

// Unconstrained reports whether the criteria carries no budget bounds at all.
func (c *QueryCriteria) Unconstrained() bool {
	return c.BudgetMin == 0 && c.BudgetMax == nil
}

// MatchResult is one ranked inventory candidate.
type MatchResult struct {
	Listing ListingRecord `json:"listing"`
	Score   float64       `json:"score"`
	Reasons []string      `json:"reasons"`
}
