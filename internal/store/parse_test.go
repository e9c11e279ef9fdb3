package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bikerental/tracker/internal/models"
)

func TestParseBikeRow(t *testing.T) {
	tests := []struct {
		name   string
		row    []interface{}
		want   models.Bike
		reason string
	}{
		{
			name: "available bike",
			row:  []interface{}{"12", "Inactive", "Giant"},
			want: models.Bike{ID: 12, Status: models.StatusInactive, Brand: "Giant"},
		},
		{
			name: "checked out bike",
			row:  []interface{}{"3", "Active", "Trek", "Sam"},
			want: models.Bike{ID: 3, Status: models.StatusActive, Brand: "Trek", User: "Sam"},
		},
		{
			name: "numeric id from unformatted render",
			row:  []interface{}{float64(5), "Inactive", "Cube", ""},
			want: models.Bike{ID: 5, Status: models.StatusInactive, Brand: "Cube"},
		},
		{
			name: "surrounding spaces",
			row:  []interface{}{" 8 ", " Active", " Brompton ", " Kim "},
			want: models.Bike{ID: 8, Status: models.StatusActive, Brand: "Brompton", User: "Kim"},
		},
		{name: "empty row", row: []interface{}{}, reason: "missing id"},
		{name: "nil id", row: []interface{}{nil, "Inactive"}, reason: "missing id"},
		{name: "text id", row: []interface{}{"B-12", "Inactive"}, reason: `invalid id "B-12"`},
		{name: "fractional id", row: []interface{}{float64(2.5), "Inactive"}, reason: `invalid id "2.5"`},
		{name: "zero id", row: []interface{}{"0", "Inactive"}, reason: `invalid id "0"`},
		{name: "missing status", row: []interface{}{"1"}, reason: `invalid status ""`},
		{name: "unknown status", row: []interface{}{"1", "Repair"}, reason: `invalid status "Repair"`},
		{
			name: "active without user is parsed",
			row:  []interface{}{"1", "Active", "Trek"},
			want: models.Bike{ID: 1, Status: models.StatusActive, Brand: "Trek"},
		},
		{
			name: "inactive with user is parsed",
			row:  []interface{}{"1", "Inactive", "Trek", "Sam"},
			want: models.Bike{ID: 1, Status: models.StatusInactive, Brand: "Trek", User: "Sam"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := parseBikeRow(tt.row)

			assert.Equal(t, tt.reason, reason)
			if tt.reason == "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseBikeRows_KeepsSheetRowNumbers(t *testing.T) {
	listing := parseBikeRows([][]interface{}{
		{"1", "Inactive", "Giant"},
		{"x", "Inactive", "Giant"},
		{},
		{"4", "Active", "Trek", "Sam"},
	})

	if assert.Len(t, listing.Bikes, 2) {
		assert.Equal(t, 2, listing.Bikes[0].Row)
		assert.Equal(t, 5, listing.Bikes[1].Row)
	}
	assert.Equal(t, []models.SkippedRow{
		{Row: 3, Reason: `invalid id "x"`},
		{Row: 4, Reason: "missing id"},
	}, listing.Skipped)
}

func TestParseBikeRows_FlagsStatusUserMismatch(t *testing.T) {
	listing := parseBikeRows([][]interface{}{
		{"1", "Active", "Trek", ""},
		{"2", "Inactive", "Giant", "Stale"},
		{"3", "Active", "Cube", "Kim"},
	})

	assert.Len(t, listing.Bikes, 3)
	assert.Empty(t, listing.Skipped)
	assert.Equal(t, []models.SkippedRow{
		{Row: 2, Reason: "status Active without a user"},
		{Row: 3, Reason: "status Inactive with a user"},
	}, listing.Warnings)
}

func TestParseBikeRows_Empty(t *testing.T) {
	listing := parseBikeRows(nil)

	assert.NotNil(t, listing.Bikes)
	assert.Empty(t, listing.Bikes)
	assert.Empty(t, listing.Skipped)
}
