// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
)

// FindRow finds the derived row for date (in datetime.DateLayout) in a result.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(result *forecast.Result, date string) *forecast.DerivedRow {
	if result == nil {
		return nil
	}
	for i := range result.Rows {
		if datetime.FormatDate(result.Rows[i].Date) == date {
			return &result.Rows[i]
		}
	}
	return nil
}

// RevenueTable builds a table with one row per revenue value on consecutive
// days starting at start. It panics on an invalid start date.
func RevenueTable(source, start string, revenues ...float64) *table.Table {
	first := datetime.MustParseTime(datetime.DateLayout, start)
	rows := make([]table.Row, len(revenues))
	for i, revenue := range revenues {
		rows[i] = table.Row{Date: first.AddDate(0, 0, i), Revenue: revenue}
	}
	return &table.Table{Source: source, Rows: rows}
}
