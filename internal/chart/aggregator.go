// Package chart aggregates computed forecasts into stacked bar charts.
package chart

import (
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// StackTotals returns the height of each stacked bar: the sum of every
// stacked series of the row.
func StackTotals(result *forecast.Result) []float64 {
	if result == nil {
		return nil
	}

	totals := make([]float64, len(result.Rows))
	for i, row := range result.Rows {
		for _, series := range result.Stack {
			totals[i] += row.Value(series.Column)
		}
	}
	return totals
}

// MaxStack returns the tallest stacked bar, or 0 for an empty result.
func MaxStack(result *forecast.Result) float64 {
	totals := StackTotals(result)
	if len(totals) == 0 {
		return 0
	}

	maxY := totals[0]
	for _, total := range totals[1:] {
		if total > maxY {
			maxY = total
		}
	}
	return maxY
}

// AxisRange returns the y-axis range for a chart whose tallest bar is maxY:
// zero to maxY plus headroom. A chart with nothing above zero gets
// constants.MinimumAxisUpperBound as its upper bound.
func AxisRange(maxY float64) [2]float64 {
	if maxY <= 0 {
		return [2]float64{0, constants.MinimumAxisUpperBound}
	}
	return [2]float64{0, maxY * constants.AxisHeadroomFactor}
}
