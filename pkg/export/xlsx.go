// Package export writes computed forecasts to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/iwvelando/revenue-forecast/internal/chart"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the forecast table and chart.
const SheetName = "Forecast"

const (
	dateFormat   = "yyyy-mm-dd"
	numberFormat = 4 // #,##0.00
)

// WriteXLSX writes result as a workbook: the date, revenue and derived
// columns, plus a native stacked column chart of the stacked series.
func WriteXLSX(w io.Writer, result *forecast.Result) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes result as a workbook at path.
func SaveXLSX(path string, result *forecast.Result) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(result *forecast.Result) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("no forecast to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeTable(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}
	if len(result.Rows) > 0 {
		if err := addStackedChart(f, result); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func columnsOf(result *forecast.Result) []forecast.Column {
	return append([]forecast.Column{forecast.ColumnRevenue}, result.Columns...)
}

func writeTable(f *excelize.File, result *forecast.Result) error {
	columns := columnsOf(result)

	header := make([]interface{}, len(columns)+1)
	header[0] = "date"
	for i, column := range columns {
		header[i+1] = string(column)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range result.Rows {
		values := make([]interface{}, len(columns)+1)
		values[0] = row.Date
		for j, column := range columns {
			values[j+1] = row.Value(column)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns) + 1)
	if err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	if len(result.Rows) > 0 {
		lastRow := len(result.Rows) + 1
		dateFmt := dateFormat
		dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
		if err != nil {
			return fmt.Errorf("failed to create date style: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "A2", fmt.Sprintf("A%d", lastRow), dateStyle); err != nil {
			return err
		}
		numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: numberFormat})
		if err != nil {
			return fmt.Errorf("failed to create number style: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "B2", fmt.Sprintf("%s%d", lastCol, lastRow), numberStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func addStackedChart(f *excelize.File, result *forecast.Result) error {
	columns := columnsOf(result)
	position := make(map[forecast.Column]int, len(columns))
	for i, column := range columns {
		position[column] = i + 2
	}

	lastRow := len(result.Rows) + 1
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", SheetName, lastRow)

	series := make([]excelize.ChartSeries, 0, len(result.Stack))
	for _, s := range result.Stack {
		colName, err := excelize.ColumnNumberToName(position[s.Column])
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", SheetName, colName),
			Categories: categories,
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", SheetName, colName, colName, lastRow),
		})
	}

	axis := chart.AxisRange(chart.MaxStack(result))
	minimum, maximum := axis[0], axis[1]

	anchor, err := excelize.CoordinatesToCellName(len(columns)+3, 2)
	if err != nil {
		return err
	}
	if err := f.AddChart(SheetName, anchor, &excelize.Chart{
		Type:      excelize.ColStacked,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: constants.ChartTitle}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		YAxis:     excelize.ChartAxis{Minimum: &minimum, Maximum: &maximum},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	}); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}
