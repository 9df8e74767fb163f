// Package forecast derives the revenue breakdown columns that feed the
// stacked revenue chart.
package forecast

import (
	"sort"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// DerivedRow is one input row with its derived columns.
type DerivedRow struct {
	Date    time.Time
	Revenue float64
	Values  map[Column]float64
}

// Value returns the value of column c, including the raw revenue.
func (r DerivedRow) Value(c Column) float64 {
	if c == ColumnRevenue {
		return r.Revenue
	}
	return r.Values[c]
}

// Result holds the outcome of one computation pass.
type Result struct {
	Strategy string
	Columns  []Column
	Stack    []Series
	Rows     []DerivedRow
}

// Compute runs one pass of strategy over tbl. The rows are sorted ascending by
// date on a private copy, so tbl is never modified and repeated passes with
// the same inputs yield identical results. Parameter problems are reported as
// *ComputationError before any row is derived.
func Compute(logger *zap.Logger, tbl *table.Table, strategy Strategy, params Parameters) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strategy == nil {
		strategy = Breakdown{}
	}

	var rows []table.Row
	if tbl != nil {
		rows = make([]table.Row, len(tbl.Rows))
		copy(rows, tbl.Rows)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	if err := strategy.Validate(params, len(rows)); err != nil {
		logger.Debug("rejected forecast parameters",
			zap.String("op", "forecast.Compute"),
			zap.String("strategy", strategy.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	derived := strategy.Derive(rows, params)
	columns := strategy.Columns()
	for _, row := range derived {
		for _, column := range columns {
			if value := row.Values[column]; !mathutil.IsFinite(value) {
				return nil, &ComputationError{
					Parameter: string(column),
					Value:     value,
					Date:      datetime.FormatDate(row.Date),
					Err:       ErrNonFinite,
				}
			}
		}
	}

	logger.Debug("forecast computed",
		zap.String("op", "forecast.Compute"),
		zap.String("strategy", strategy.Name()),
		zap.Int("rows", len(derived)),
	)

	return &Result{
		Strategy: strategy.Name(),
		Columns:  columns,
		Stack:    strategy.Stack(),
		Rows:     derived,
	}, nil
}
