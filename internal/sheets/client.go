// Package sheets talks to the Google Sheets values API on behalf of the bike store.
package sheets

import (
	"context"
	"fmt"
	"strings"
)

// Client is the narrow set of values calls the bike store needs.
type Client interface {
	// GetValues returns the rows in a1Range. Trailing empty cells are omitted
	// by the API, so rows may be shorter than the range.
	GetValues(ctx context.Context, a1Range string) ([][]interface{}, error)
	// UpdateValues overwrites a1Range and reports how many cells changed.
	UpdateValues(ctx context.Context, a1Range string, values [][]interface{}) (int64, error)
	// AppendValues adds rows after the last row of the table in a1Range.
	AppendValues(ctx context.Context, a1Range string, values [][]interface{}) error
}

// Range builds an A1 range with a quoted sheet name, e.g. 'Bikes Database'!A2:D.
func Range(sheet, cells string) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if cells == "" {
		return quoted
	}
	return quoted + "!" + cells
}

// RowRange addresses columns from..to of a single row, e.g. 'Bikes Database'!B7:D7.
func RowRange(sheet, from, to string, row int) string {
	return Range(sheet, fmt.Sprintf("%s%d:%s%d", from, row, to, row))
}
