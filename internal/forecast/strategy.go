package forecast

import (
	"fmt"

	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
)

// Column names a value carried by a DerivedRow.
type Column string

const (
	ColumnRevenue                    Column = "revenue"
	ColumnVintageView                Column = "vintage_view"
	ColumnRenewalEstimate            Column = "renewal_estimate"
	ColumnNewSalesBonusEstimate      Column = "new_sales_bonus_estimate"
	ColumnRenewalsBonusEstimate      Column = "renewals_bonus_estimate"
	ColumnUnassignedRenewalsEstimate Column = "unassigned_renewals_estimate"
	ColumnPlug606                    Column = "plug_606"
	ColumnAdjustedRevenue            Column = "adjusted_revenue"
)

// Series is one stacked bar series of the chart.
type Series struct {
	Column Column `json:"column"`
	Label  string `json:"label"`
}

// Strategy derives forecast columns from a date-sorted table.
type Strategy interface {
	// Name is the configuration name of the strategy.
	Name() string
	// Columns lists the derived columns in computation order.
	Columns() []Column
	// Stack lists the series rendered as stacked bars, bottom first.
	Stack() []Series
	// Validate rejects parameters that would produce non-finite values for a
	// table of the given size.
	Validate(params Parameters, rows int) error
	// Derive computes one DerivedRow per input row, in input order.
	Derive(rows []table.Row, params Parameters) []DerivedRow
}

// StrategyByName returns the strategy registered under name. An empty name
// selects the default strategy.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", constants.StrategyBreakdown:
		return Breakdown{}, nil
	case constants.StrategyMultiplier:
		return Multiplier{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// checkFiniteParameters rejects NaN and infinite coefficients of the
// breakdown formulas.
func checkFiniteParameters(params Parameters) error {
	for _, field := range params.Fields() {
		if field.Key == "multiplier" {
			continue
		}
		if !mathutil.IsFinite(field.Value) {
			return &ComputationError{Parameter: field.Key, Value: field.Value, Err: ErrNonFinite}
		}
	}
	return nil
}
