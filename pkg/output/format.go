// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/revenue-forecast/internal/chart"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *forecast.Result) {
	p := message.NewPrinter(language.English)
	columns := Columns(result)

	fmt.Printf("--- Revenue forecast (%s) ---\n", result.Strategy)
	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, column := range columns {
		header[i] = string(column)
		rule[i] = strings.Repeat("_", len(column))
	}
	fmt.Printf("Date       | %s\n", strings.Join(header, " | "))
	fmt.Printf("____       | %s\n", strings.Join(rule, " | "))

	for _, row := range result.Rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i] = p.Sprintf("%.2f", row.Value(column))
		}
		fmt.Printf("%s | %s\n", datetime.FormatDate(row.Date), strings.Join(cells, " | "))
	}

	maxY := chart.MaxStack(result)
	axis := chart.AxisRange(maxY)
	fmt.Printf("\nRows: %d\n", len(result.Rows))
	fmt.Printf("Tallest stacked bar: %s\n", format.Currency(maxY))
	fmt.Printf("Y-axis range: %s to %s\n", format.Currency(axis[0]), format.Currency(axis[1]))
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *forecast.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the result as CSV: the date, the revenue and every derived
// column in computation order.
func CsvString(result *forecast.Result) string {
	if result == nil {
		return ""
	}

	var builder strings.Builder
	writer := csv.NewWriter(&builder)
	columns := Columns(result)

	record := make([]string, len(columns)+1)
	record[0] = "date"
	for i, column := range columns {
		record[i+1] = string(column)
	}
	_ = writer.Write(record)

	for _, row := range result.Rows {
		record[0] = datetime.FormatDate(row.Date)
		for i, column := range columns {
			record[i+1] = strconv.FormatFloat(row.Value(column), 'f', -1, 64)
		}
		_ = writer.Write(record)
	}
	writer.Flush()
	return builder.String()
}

// Columns returns revenue followed by the derived columns of result.
func Columns(result *forecast.Result) []forecast.Column {
	if result == nil {
		return nil
	}
	return append([]forecast.Column{forecast.ColumnRevenue}, result.Columns...)
}
