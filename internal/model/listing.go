package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// TriState represents a yes/no signal that the source text may omit entirely.
type TriState string

const (
	TriAllowed    TriState = "allowed"
	TriDisallowed TriState = "disallowed"
	TriUnknown    TriState = "unknown"
)

// ListingRecord is one rental unit advertisement extracted from a channel post.
// SourceID is the channel message id and is the unique key of the inventory;
// a record is append-only once written.
type ListingRecord struct {
	SourceID        int64      `json:"source_id" db:"source_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	Location        string     `json:"location" db:"location"`
	Bedrooms        *int       `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms       *int       `json:"bathrooms,omitempty" db:"bathrooms"`
	PriceMonth      *int       `json:"price_month,omitempty" db:"price_month"`
	Pets            TriState   `json:"pets" db:"pets"`
	Available       string     `json:"available" db:"available"`
	ElectricityRate *float64   `json:"electricity_rate,omitempty" db:"electricity_rate"`
	WaterRate       *float64   `json:"water_rate,omitempty" db:"water_rate"`
	Pool            TriState   `json:"pool" db:"pool"`
	Furnished       TriState   `json:"furnished" db:"furnished"`
	Link            string     `json:"link" db:"link"`
	Images          StringList `json:"images,omitempty" db:"images"`
	Tags            StringList `json:"tags,omitempty" db:"tags"`
	RawText         string     `json:"raw_text" db:"raw_text"`
}

// ListingOverlay is a partial record produced by the enrichment collaborator.
// A non-empty overlay field wins over the heuristic value; an absent field
// falls back to the heuristic. It never carries identity or link fields.
type ListingOverlay struct {
	Location        string     `json:"location,omitempty"`
	Bedrooms        *int       `json:"bedrooms,omitempty"`
	Bathrooms       *int       `json:"bathrooms,omitempty"`
	PriceMonth      *int       `json:"price_month,omitempty"`
	Pets            TriState   `json:"pets,omitempty"`
	Available       string     `json:"available,omitempty"`
	ElectricityRate *float64   `json:"electricity_rate,omitempty"`
	WaterRate       *float64   `json:"water_rate,omitempty"`
	Pool            TriState   `json:"pool,omitempty"`
	Furnished       TriState   `json:"furnished,omitempty"`
	Tags            StringList `json:"tags,omitempty"`
}

// StringList is a string slice stored as a JSON column.
type StringList []string

// Value implements driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), l)
	}
	return json.Unmarshal(bytes, l)
}
