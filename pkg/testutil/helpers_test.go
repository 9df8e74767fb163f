package testutil

import (
	"testing"

	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
)

func TestRevenueTable(t *testing.T) {
	tbl := RevenueTable("sample.csv", "2024-02-28", 10, 20, 30)

	if tbl.Source != "sample.csv" {
		t.Errorf("Source = %s, expected sample.csv", tbl.Source)
	}
	expectedDates := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	for i, date := range expectedDates {
		if got := datetime.FormatDate(tbl.Rows[i].Date); got != date {
			t.Errorf("row %d date = %s, expected %s", i, got, date)
		}
	}
	if tbl.Rows[2].Revenue != 30 {
		t.Errorf("row 2 revenue = %v, expected 30", tbl.Rows[2].Revenue)
	}
}

func TestFindRow(t *testing.T) {
	result, err := forecast.Compute(nil, RevenueTable("sample.csv", "2024-01-01", 1000, 2000), forecast.Multiplier{}, forecast.DefaultParameters())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	tests := []struct {
		name        string
		date        string
		shouldFind  bool
		wantRevenue float64
	}{
		{name: "First row", date: "2024-01-01", shouldFind: true, wantRevenue: 1000},
		{name: "Second row", date: "2024-01-02", shouldFind: true, wantRevenue: 2000},
		{name: "Missing date", date: "2024-01-03", shouldFind: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindRow(result, tt.date)
			if !tt.shouldFind {
				if row != nil {
					t.Errorf("FindRow(%s) expected nil, got %+v", tt.date, row)
				}
				return
			}
			if row == nil {
				t.Fatalf("FindRow(%s) returned nil", tt.date)
			}
			if row.Revenue != tt.wantRevenue {
				t.Errorf("FindRow(%s) revenue = %v, expected %v", tt.date, row.Revenue, tt.wantRevenue)
			}
		})
	}

	if FindRow(nil, "2024-01-01") != nil {
		t.Errorf("FindRow(nil) expected nil")
	}
}
