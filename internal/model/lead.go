package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadStatusNew is the initial status of every captured inquiry. Downstream
// status changes happen outside this engine.
const LeadStatusNew = "new"

// LeadRecord is one captured renter inquiry together with the listing ids it
// matched, ordered best-first. Append-only.
type LeadRecord struct {
	ID         string    `json:"id" db:"id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ChatID     int64     `json:"chat_id" db:"chat_id"`
	Username   string    `json:"username" db:"username"`
	Query      string    `json:"query" db:"query"`
	MatchedIDs string    `json:"matched_ids" db:"matched_ids"`
	Status     string    `json:"status" db:"status"`
}

// NewLeadID builds a time-derived unique lead identifier.
func NewLeadID(now time.Time) string {
	return fmt.Sprintf("lead-%s-%s", now.UTC().Format("20060102150405"), uuid.NewString()[:8])
}

// JoinMatchedIDs serializes ranked listing ids preserving order.
func JoinMatchedIDs(results []MatchResult) string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = strconv.FormatInt(r.Listing.SourceID, 10)
	}
	return strings.Join(ids, ",")
}
