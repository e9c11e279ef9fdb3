package store

import (
	"fmt"
	"strconv"
	"strings"

	"bikerental/tracker/internal/models"
)

// firstDataRow is the sheet row of the first bike; row 1 is the header.
const firstDataRow = 2

// parseBikeRows turns raw sheet rows into bikes, skipping and recording rows
// that are malformed. A bike whose status and user disagree is kept and
// flagged in Warnings. Row order is preserved and every bike keeps the sheet
// row it came from.
func parseBikeRows(rows [][]interface{}) models.BikeListing {
	listing := models.BikeListing{Bikes: make([]models.Bike, 0, len(rows))}

	for i, row := range rows {
		sheetRow := i + firstDataRow
		bike, reason := parseBikeRow(row)
		if reason != "" {
			listing.Skipped = append(listing.Skipped, models.SkippedRow{Row: sheetRow, Reason: reason})
			continue
		}
		bike.Row = sheetRow
		listing.Bikes = append(listing.Bikes, bike)
		if warning := inconsistency(bike); warning != "" {
			listing.Warnings = append(listing.Warnings, models.SkippedRow{Row: sheetRow, Reason: warning})
		}
	}
	return listing
}

func parseBikeRow(row []interface{}) (models.Bike, string) {
	rawID := cell(row, 0)
	if rawID == "" {
		return models.Bike{}, "missing id"
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return models.Bike{}, fmt.Sprintf("invalid id %q", rawID)
	}

	rawStatus := cell(row, 1)
	status, ok := models.ParseStatus(rawStatus)
	if !ok {
		return models.Bike{}, fmt.Sprintf("invalid status %q", rawStatus)
	}

	return models.Bike{
		ID:     id,
		Status: status,
		Brand:  cell(row, 2),
		User:   cell(row, 3),
	}, ""
}

// inconsistency describes how bike breaks the status/user rule, or "".
func inconsistency(bike models.Bike) string {
	switch {
	case bike.Consistent():
		return ""
	case bike.IsActive():
		return "status Active without a user"
	default:
		return "status Inactive with a user"
	}
}

// cell returns column i of row as trimmed text, or "" when absent.
func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
