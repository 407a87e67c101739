package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewLeadID(t *testing.T) {
	now := time.Date(2026, 8, 25, 15, 4, 5, 0, time.UTC)
	id := NewLeadID(now)

	if !strings.HasPrefix(id, "lead-20260825150405-") {
		t.Errorf("id = %q, want time-derived prefix", id)
	}
	if id == NewLeadID(now) {
		t.Error("two ids for the same instant must differ")
	}
}

func TestJoinMatchedIDs(t *testing.T) {
	results := []MatchResult{
		{Listing: ListingRecord{SourceID: 103}},
		{Listing: ListingRecord{SourceID: 101}},
		{Listing: ListingRecord{SourceID: 102}},
	}
	if got := JoinMatchedIDs(results); got != "103,101,102" {
		t.Errorf("JoinMatchedIDs = %q, order must be preserved", got)
	}
	if got := JoinMatchedIDs(nil); got != "" {
		t.Errorf("JoinMatchedIDs(nil) = %q, want empty", got)
	}
}
