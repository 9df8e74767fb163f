package forecast

import (
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// Breakdown splits revenue into renewals, bonuses, the unassigned renewals
// estimate and an evenly spread 606 adjustment plug.
type Breakdown struct{}

func (Breakdown) Name() string {
	return constants.StrategyBreakdown
}

func (Breakdown) Columns() []Column {
	return []Column{
		ColumnVintageView,
		ColumnRenewalEstimate,
		ColumnNewSalesBonusEstimate,
		ColumnRenewalsBonusEstimate,
		ColumnUnassignedRenewalsEstimate,
		ColumnPlug606,
	}
}

// Stack leaves out vintage_view: it is the base the estimates are scaled
// from, not a component of revenue.
func (Breakdown) Stack() []Series {
	return []Series{
		{Column: ColumnRevenue, Label: "Original Modeled Revenue"},
		{Column: ColumnRenewalEstimate, Label: "Renewals Estimate"},
		{Column: ColumnNewSalesBonusEstimate, Label: "New Sales Bonus Estimate"},
		{Column: ColumnRenewalsBonusEstimate, Label: "Future Renewals Bonus Estimate"},
		{Column: ColumnUnassignedRenewalsEstimate, Label: "Unassigned Renewals Estimate"},
		{Column: ColumnPlug606, Label: "606 Adjustment plug"},
	}
}

func (Breakdown) Validate(params Parameters, rows int) error {
	if err := checkFiniteParameters(params); err != nil {
		return err
	}
	if params.CloseFeePct == 0 {
		return &ComputationError{Parameter: "closeFeePct", Err: ErrDivisionByZero}
	}
	if params.RenewalCommissionsForecast == 0 {
		return &ComputationError{Parameter: "renewalCommissionsForecast", Err: ErrDivisionByZero}
	}
	if rows == 0 {
		return &ComputationError{Parameter: "table", Err: ErrEmptyTable}
	}
	return nil
}

// Derive applies the breakdown formulas. currentMonth606Release and
// newSalesExpansionBonus are not part of any formula.
func (Breakdown) Derive(rows []table.Row, params Parameters) []DerivedRow {
	unassignedPct := params.UnassignedRevenuePct()
	plug := (params.PriorMonth606Revised + params.PriorMonth606Revised) / float64(len(rows))

	derived := make([]DerivedRow, len(rows))
	for i, row := range rows {
		vintage := row.Revenue / params.CloseFeePct
		renewal := vintage * params.RenewalRate * params.CommissionRate * params.DiscountAdjustmentFactor

		derived[i] = DerivedRow{
			Date:    row.Date,
			Revenue: row.Revenue,
			Values: map[Column]float64{
				ColumnVintageView:                vintage,
				ColumnRenewalEstimate:            renewal,
				ColumnNewSalesBonusEstimate:      vintage * params.NewSalesRegularBonus,
				ColumnRenewalsBonusEstimate:      vintage * params.RenewalRate * params.RenewalsBonus,
				ColumnUnassignedRenewalsEstimate: renewal * unassignedPct,
				ColumnPlug606:                    plug,
			},
		}
	}
	return derived
}
