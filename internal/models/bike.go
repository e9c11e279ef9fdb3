package models

import "strings"

// Status is the literal stored in the status column of the bikes sheet.
type Status string

const (
	// StatusActive means the bike is checked out to a user.
	StatusActive Status = "Active"
	// StatusInactive means the bike is available.
	StatusInactive Status = "Inactive"
)

// ParseStatus accepts exactly "Active" or "Inactive", ignoring surrounding spaces.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.TrimSpace(s)) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// Bike is one row of the bikes sheet.
type Bike struct {
	// ID is the identifier in column A. Positive and assigned out of band.
	ID     int    `json:"id"`
	Status Status `json:"status"`
	Brand  string `json:"brand"`
	// User holds the current rider. Empty unless Status is Active.
	User string `json:"user"`

	// Row is the 1-based sheet row the record was read from.
	Row int `json:"-"`
}

// IsActive reports whether the bike is checked out.
func (b Bike) IsActive() bool {
	return b.Status == StatusActive
}

// Consistent reports whether Status and User agree.
func (b Bike) Consistent() bool {
	return (b.Status == StatusActive) == (b.User != "")
}

// SkippedRow describes a sheet row that could not be parsed into a Bike, or a
// parsed bike whose status and user disagree.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BikeListing is every parseable bike in sheet order plus the rows that were
// skipped. Bikes whose status and user disagree stay in Bikes, so a write can
// repair them, and are also listed in Warnings.
type BikeListing struct {
	Bikes    []Bike       `json:"bikes"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
	Warnings []SkippedRow `json:"warnings,omitempty"`
}

// Find returns the first bike with the given id.
func (l BikeListing) Find(id int) (Bike, bool) {
	for _, b := range l.Bikes {
		if b.ID == id {
			return b, true
		}
	}
	return Bike{}, false
}
