package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "daily-revenue.csv", "date,revenue\n2024-01-02,2000\n2024-01-01,1000.5\n\n2024-01-03,\"$1,250.25\"\n")

	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Source != path {
		t.Errorf("Source = %s, expected %s", tbl.Source, path)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}

	// Rows keep file order; sorting is the pipeline's job.
	expected := []struct {
		date    string
		revenue float64
	}{
		{"2024-01-02", 2000},
		{"2024-01-01", 1000.5},
		{"2024-01-03", 1250.25},
	}
	for i, want := range expected {
		row := tbl.Rows[i]
		if got := datetime.FormatDate(row.Date); got != want.date {
			t.Errorf("row %d date = %s, expected %s", i, got, want.date)
		}
		if row.Revenue != want.revenue {
			t.Errorf("row %d revenue = %v, expected %v", i, row.Revenue, want.revenue)
		}
	}
}

func TestLoadExtraColumnsAndHeaderCase(t *testing.T) {
	path := writeFile(t, "revenue.csv", "\ufeffRegion, Revenue ,DATE\nwest,10,2024-05-01\neast,20,2024-05-02\n")

	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 2 || tbl.Rows[1].Revenue != 20 {
		t.Fatalf("unexpected rows: %+v", tbl.Rows)
	}
}

func TestLoadTSVAndDelimiterOverride(t *testing.T) {
	tsv := writeFile(t, "revenue.tsv", "date\trevenue\n2024-01-01\t5\n")
	tbl, err := Load(tsv, Options{})
	if err != nil {
		t.Fatalf("Load(tsv) error = %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows[0].Revenue != 5 {
		t.Fatalf("unexpected tsv rows: %+v", tbl.Rows)
	}

	semi := writeFile(t, "revenue.txt", "date;revenue\n2024-01-01;7\n")
	tbl, err = Load(semi, Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Load(semicolon) error = %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows[0].Revenue != 7 {
		t.Fatalf("unexpected semicolon rows: %+v", tbl.Rows)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "date,revenue\n")

	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected no rows, got %d", tbl.Len())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name         string
		contents     string
		expectLine   int
		expectSubstr string
	}{
		{
			name:         "Empty file",
			contents:     "",
			expectSubstr: "no header row",
		},
		{
			name:         "Missing revenue column",
			contents:     "date,amount\n2024-01-01,5\n",
			expectLine:   1,
			expectSubstr: "revenue",
		},
		{
			name:         "Missing both columns",
			contents:     "day,amount\n",
			expectLine:   1,
			expectSubstr: "date, revenue",
		},
		{
			name:         "Malformed date",
			contents:     "date,revenue\n2024-01-01,5\nnot-a-date,6\n",
			expectLine:   3,
			expectSubstr: "not-a-date",
		},
		{
			name:         "Numeric date serial in delimited file",
			contents:     "date,revenue\n2024-01-01,5\n45292,6\n",
			expectLine:   3,
			expectSubstr: "45292",
		},
		{
			name:         "Compact numeric date",
			contents:     "date,revenue\n20240101,5\n",
			expectLine:   2,
			expectSubstr: "20240101",
		},
		{
			name:         "Non-numeric revenue",
			contents:     "date,revenue\n2024-01-01,lots\n",
			expectLine:   2,
			expectSubstr: "invalid revenue",
		},
		{
			name:         "Negative revenue",
			contents:     "date,revenue\n2024-01-01,-5\n",
			expectLine:   2,
			expectSubstr: "negative",
		},
		{
			name:         "NaN revenue",
			contents:     "date,revenue\n2024-01-01,NaN\n",
			expectLine:   2,
			expectSubstr: "finite",
		},
		{
			name:         "Missing revenue value",
			contents:     "date,revenue\n2024-01-01\n",
			expectLine:   2,
			expectSubstr: "empty revenue",
		},
		{
			name:         "Unterminated quote",
			contents:     "date,revenue\n\"2024-01-01,5\n",
			expectSubstr: "quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.contents)

			_, err := Load(path, Options{})
			if err == nil {
				t.Fatalf("Load() expected error but got none")
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %T: %v", err, err)
			}
			if loadErr.Source != path {
				t.Errorf("Source = %s, expected %s", loadErr.Source, path)
			}
			if tt.expectLine > 0 && loadErr.Line != tt.expectLine {
				t.Errorf("Line = %d, expected %d (%v)", loadErr.Line, tt.expectLine, err)
			}
			if !strings.Contains(err.Error(), tt.expectSubstr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.expectSubstr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path, Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	tbl, err := Parse("upload.csv", strings.NewReader("date,revenue\n01/15/2024,42\n"), Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tbl.Source != "upload.csv" || tbl.Len() != 1 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if got := datetime.FormatDate(tbl.Rows[0].Date); got != "2024-01-15" {
		t.Errorf("date = %s, expected 2024-01-15", got)
	}
}

func TestLoadSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	values := map[string]interface{}{
		"A1": "Date",
		"B1": "Revenue",
		"A2": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"B2": 1000,
		"A3": "2024-01-02",
		"B3": 2000.5,
	}
	for axis, value := range values {
		if err := f.SetCellValue(sheet, axis, value); err != nil {
			t.Fatalf("SetCellValue(%s) error = %v", axis, err)
		}
	}
	path := filepath.Join(t.TempDir(), "daily-revenue.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	_ = f.Close()

	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if got := datetime.FormatDate(tbl.Rows[0].Date); got != "2024-01-01" {
		t.Errorf("row 0 date = %s, expected 2024-01-01", got)
	}
	if got := datetime.FormatDate(tbl.Rows[1].Date); got != "2024-01-02" {
		t.Errorf("row 1 date = %s, expected 2024-01-02", got)
	}
	if tbl.Rows[1].Revenue != 2000.5 {
		t.Errorf("row 1 revenue = %v, expected 2000.5", tbl.Rows[1].Revenue)
	}

	_, err = Load(path, Options{Sheet: "Missing"})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for missing sheet, got %v", err)
	}
}
