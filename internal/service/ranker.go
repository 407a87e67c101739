package service

import (
	"math"
	"sort"
	"strings"

	"core/internal/model"
)

// Match reason constants
const (
	ReasonPriceWithinBudget = "Price within budget"
	ReasonBedroomsMatch     = "Bedrooms match"
	ReasonLocationMatch     = "Location match"
	ReasonGeneralMatch      = "General match"
)

// Ranker filters and scores inventory against renter criteria and returns a
// bounded top-K list.
//
// Hard filters: price outside the budget when both are known, bedroom count
// below a positive requirement, explicit pet ban against a renter with pets.
// Unknown candidate fields never fail a filter. Location preference is a
// scoring signal only, it never excludes a candidate.
type Ranker struct {
	weightBedrooms float64
	weightLocation float64
	resultCap      int
}

// NewRanker creates a ranker with the given soft-score weights and result cap.
func NewRanker(weightBedrooms, weightLocation float64, resultCap int) *Ranker {
	return &Ranker{
		weightBedrooms: weightBedrooms,
		weightLocation: weightLocation,
		resultCap:      resultCap,
	}
}

// Rank scores every surviving candidate and returns at most the configured
// cap, best first. Ties keep the relative inventory order. A candidate that
// fails validation is skipped, never aborting the whole pass.
func (r *Ranker) Rank(criteria model.QueryCriteria, inventory []model.ListingRecord) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(inventory))

	for _, candidate := range inventory {
		res, ok := r.rankCandidate(criteria, candidate)
		if !ok {
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > r.resultCap {
		results = results[:r.resultCap]
	}
	return results
}

// rankCandidate applies the hard filters and computes the soft score for one
// candidate. ok is false when the candidate is excluded or malformed.
func (r *Ranker) rankCandidate(criteria model.QueryCriteria, candidate model.ListingRecord) (model.MatchResult, bool) {
	if !validCandidate(candidate) {
		return model.MatchResult{}, false
	}

	// Hard filters; unknown fields are permissive by default.
	if candidate.PriceMonth != nil && !criteria.Unconstrained() {
		price := *candidate.PriceMonth
		if price < criteria.BudgetMin {
			return model.MatchResult{}, false
		}
		if criteria.BudgetMax != nil && price > *criteria.BudgetMax {
			return model.MatchResult{}, false
		}
	}
	if criteria.MinBedrooms > 0 && candidate.Bedrooms != nil && *candidate.Bedrooms < criteria.MinBedrooms {
		return model.MatchResult{}, false
	}
	if criteria.Pets == model.TriAllowed && candidate.Pets == model.TriDisallowed {
		return model.MatchResult{}, false
	}

	res := model.MatchResult{
		Listing: candidate,
		Reasons: []string{},
	}

	// Price proximity: distance from the budget midpoint, normalized by the
	// midpoint. No contribution when the price is unknown; an unconstrained
	// upper bound falls back to max(budget_min, 1).
	if candidate.PriceMonth != nil {
		midpoint := float64(criteria.BudgetMin)
		if criteria.BudgetMax != nil {
			midpoint = float64(criteria.BudgetMin+*criteria.BudgetMax) / 2
		} else if midpoint < 1 {
			midpoint = 1
		}
		if midpoint > 0 {
			res.Score -= math.Abs(float64(*candidate.PriceMonth)-midpoint) / midpoint
		}
		if !criteria.Unconstrained() {
			res.Reasons = append(res.Reasons, ReasonPriceWithinBudget)
		}
	}

	if candidate.Bedrooms != nil && *candidate.Bedrooms >= criteria.MinBedrooms {
		res.Score += r.weightBedrooms
		if criteria.MinBedrooms > 0 {
			res.Reasons = append(res.Reasons, ReasonBedroomsMatch)
		}
	}

	if criteria.Location != "" && strings.Contains(candidate.Location, strings.ToLower(strings.TrimSpace(criteria.Location))) {
		res.Score += r.weightLocation
		res.Reasons = append(res.Reasons, ReasonLocationMatch)
	}

	if len(res.Reasons) == 0 {
		res.Reasons = append(res.Reasons, ReasonGeneralMatch)
	}
	return res, true
}

// validCandidate rejects rows that failed to coerce to sane values; such rows
// are skipped, ranking continues.
func validCandidate(c model.ListingRecord) bool {
	if c.SourceID == 0 {
		return false
	}
	if c.PriceMonth != nil && *c.PriceMonth < 0 {
		return false
	}
	if c.Bedrooms != nil && *c.Bedrooms < 0 {
		return false
	}
	if c.Bathrooms != nil && *c.Bathrooms < 0 {
		return false
	}
	return true
}
