package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/xuri/excelize/v2"
)

const (
	dateColumn    = "date"
	revenueColumn = "revenue"
)

// Options controls how a source is parsed.
type Options struct {
	// Delimiter overrides the field separator of delimited files. Zero picks
	// one from the file extension.
	Delimiter rune
	// Sheet selects a worksheet in spreadsheet sources. Empty means the first.
	Sheet string
}

// Load reads the table at path. The format is chosen by file extension:
// .xlsx is read as a spreadsheet, anything else as delimited text.
func Load(path string, opts Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(path, file, opts)
}

// Parse reads a table from r. The source name is used to pick the format and
// to label errors.
func Parse(source string, r io.Reader, opts Options) (*Table, error) {
	var (
		records     [][]string
		lines       []int
		spreadsheet bool
		err         error
	)

	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx", ".xlsm":
		spreadsheet = true
		records, lines, err = readSpreadsheet(r, opts.Sheet)
	default:
		records, lines, err = readDelimited(r, delimiterFor(source, opts.Delimiter))
	}
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Source = source
			return nil, loadErr
		}
		return nil, &LoadError{Source: source, Err: err}
	}

	rows, err := buildRows(records, lines, spreadsheet)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Source = source
			return nil, loadErr
		}
		return nil, &LoadError{Source: source, Err: err}
	}

	return &Table{Source: source, Rows: rows}, nil
}

func delimiterFor(source string, override rune) rune {
	if override != 0 {
		return override
	}
	if strings.EqualFold(filepath.Ext(source), ".tsv") {
		return '\t'
	}
	return ','
}

func readDelimited(r io.Reader, delimiter rune) ([][]string, []int, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, nil, &LoadError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func readSpreadsheet(r io.Reader, sheet string) ([][]string, []int, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return rows, lines, nil
}

func buildRows(records [][]string, lines []int, spreadsheet bool) ([]Row, error) {
	header := -1
	for i, record := range records {
		if !blank(record) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("no header row found")
	}

	dateIdx, revenueIdx := -1, -1
	for i, name := range records[header] {
		switch normalizeHeader(name) {
		case dateColumn:
			if dateIdx < 0 {
				dateIdx = i
			}
		case revenueColumn:
			if revenueIdx < 0 {
				revenueIdx = i
			}
		}
	}
	var missing []string
	if dateIdx < 0 {
		missing = append(missing, dateColumn)
	}
	if revenueIdx < 0 {
		missing = append(missing, revenueColumn)
	}
	if len(missing) > 0 {
		return nil, &LoadError{Line: lines[header], Err: fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))}
	}

	rows := make([]Row, 0, len(records)-header-1)
	for i := header + 1; i < len(records); i++ {
		record := records[i]
		if blank(record) {
			continue
		}

		date, err := parseDateCell(cell(record, dateIdx), spreadsheet)
		if err != nil {
			return nil, &LoadError{Line: lines[i], Err: err}
		}
		revenue, err := parseRevenue(cell(record, revenueIdx))
		if err != nil {
			return nil, &LoadError{Line: lines[i], Err: err}
		}
		rows = append(rows, Row{Date: date, Revenue: revenue})
	}

	return rows, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// parseDateCell accepts text dates, and date serials for spreadsheet cells.
// A bare number in a delimited file is not a date.
func parseDateCell(value string, spreadsheet bool) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if !spreadsheet {
		return datetime.ParseDate(trimmed)
	}
	if serial, convErr := strconv.ParseFloat(trimmed, 64); convErr == nil {
		excelTime, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", trimmed, err)
		}
		return time.Date(excelTime.Year(), excelTime.Month(), excelTime.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return datetime.ParseDate(trimmed)
}

func parseRevenue(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty revenue")
	}

	revenue, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid revenue %q", strings.TrimSpace(value))
	}
	if math.IsNaN(revenue) || math.IsInf(revenue, 0) {
		return 0, fmt.Errorf("revenue %q is not a finite number", strings.TrimSpace(value))
	}
	if revenue < 0 {
		return 0, fmt.Errorf("revenue %q is negative", strings.TrimSpace(value))
	}
	return revenue, nil
}
