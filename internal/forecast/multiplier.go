package forecast

import (
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
)

// Multiplier scales revenue by a single user-supplied factor.
type Multiplier struct{}

func (Multiplier) Name() string {
	return constants.StrategyMultiplier
}

func (Multiplier) Columns() []Column {
	return []Column{ColumnAdjustedRevenue}
}

func (Multiplier) Stack() []Series {
	return []Series{
		{Column: ColumnRevenue, Label: "Original Modeled Revenue"},
		{Column: ColumnAdjustedRevenue, Label: "Adjusted Revenue"},
	}
}

// Validate accepts an empty table: nothing divides by the row count.
func (Multiplier) Validate(params Parameters, _ int) error {
	if !mathutil.IsFinite(params.Multiplier) {
		return &ComputationError{Parameter: "multiplier", Value: params.Multiplier, Err: ErrNonFinite}
	}
	if params.Multiplier < 0 {
		return &ComputationError{Parameter: "multiplier", Value: params.Multiplier, Err: ErrNegative}
	}
	return nil
}

func (Multiplier) Derive(rows []table.Row, params Parameters) []DerivedRow {
	derived := make([]DerivedRow, len(rows))
	for i, row := range rows {
		derived[i] = DerivedRow{
			Date:    row.Date,
			Revenue: row.Revenue,
			Values: map[Column]float64{
				ColumnAdjustedRevenue: row.Revenue * params.Multiplier,
			},
		}
	}
	return derived
}
