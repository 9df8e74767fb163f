package output

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/testutil"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func sampleResult(t *testing.T) *forecast.Result {
	t.Helper()
	result, err := forecast.Compute(nil, testutil.RevenueTable("sample.csv", "2024-01-01", 1000, 2000), forecast.Breakdown{}, forecast.DefaultParameters())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(sampleResult(t))
	})

	expected := []string{
		"--- Revenue forecast (breakdown) ---",
		"Date       | revenue | vintage_view | renewal_estimate",
		"2024-01-01 | 1,000.00 | 12,195.12 | 661.53",
		"437,773.00",
		"Rows: 2",
		"Tallest stacked bar: $",
		"Y-axis range: $0.00 to $",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	output := captureStdout(t, func() {
		CsvFormat(sampleResult(t))
	})
	if !strings.HasPrefix(output, "date,revenue,vintage_view,") {
		t.Errorf("CsvFormat output missing header: %q", output)
	}
}

func TestCsvString(t *testing.T) {
	csvText := CsvString(sampleResult(t))

	records, err := csv.NewReader(strings.NewReader(csvText)).ReadAll()
	if err != nil {
		t.Fatalf("CsvString produced invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d records", len(records))
	}

	header := records[0]
	expectedHeader := []string{
		"date", "revenue", "vintage_view", "renewal_estimate", "new_sales_bonus_estimate",
		"renewals_bonus_estimate", "unassigned_renewals_estimate", "plug_606",
	}
	if strings.Join(header, ",") != strings.Join(expectedHeader, ",") {
		t.Errorf("header = %v, expected %v", header, expectedHeader)
	}
	if records[1][0] != "2024-01-01" || records[1][1] != "1000" || records[1][7] != "437773" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][0] != "2024-01-02" || records[2][1] != "2000" {
		t.Errorf("unexpected second row: %v", records[2])
	}

	if CsvString(nil) != "" {
		t.Errorf("expected empty CSV for nil result")
	}
}

func TestCsvStringMultiplier(t *testing.T) {
	params := forecast.DefaultParameters()
	params.Multiplier = 2
	result, err := forecast.Compute(nil, testutil.RevenueTable("sample.csv", "2024-01-01", 1.5), forecast.Multiplier{}, params)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	expected := "date,revenue,adjusted_revenue\n2024-01-01,1.5,3\n"
	if got := CsvString(result); got != expected {
		t.Errorf("CsvString() = %q, expected %q", got, expected)
	}
}
