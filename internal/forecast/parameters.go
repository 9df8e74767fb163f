package forecast

// Parameters holds the coefficients for one computation pass. Keys match the
// configuration file, the environment overrides and the web form.
type Parameters struct {
	CloseFeePct                float64 `mapstructure:"closeFeePct" yaml:"closeFeePct" json:"closeFeePct"`
	CommissionRate             float64 `mapstructure:"commissionRate" yaml:"commissionRate" json:"commissionRate"`
	DiscountAdjustmentFactor   float64 `mapstructure:"discountAdjustmentFactor" yaml:"discountAdjustmentFactor" json:"discountAdjustmentFactor"`
	RenewalRate                float64 `mapstructure:"renewalRate" yaml:"renewalRate" json:"renewalRate"`
	RenewalsBonus              float64 `mapstructure:"renewalsBonus" yaml:"renewalsBonus" json:"renewalsBonus"`
	NewSalesRegularBonus       float64 `mapstructure:"newSalesRegularBonus" yaml:"newSalesRegularBonus" json:"newSalesRegularBonus"`
	NewSalesExpansionBonus     float64 `mapstructure:"newSalesExpansionBonus" yaml:"newSalesExpansionBonus" json:"newSalesExpansionBonus"`
	RenewalCommissionsForecast float64 `mapstructure:"renewalCommissionsForecast" yaml:"renewalCommissionsForecast" json:"renewalCommissionsForecast"`
	CurrentMonth606Release     float64 `mapstructure:"currentMonth606Release" yaml:"currentMonth606Release" json:"currentMonth606Release"`
	PriorMonth606Revised       float64 `mapstructure:"priorMonth606Revised" yaml:"priorMonth606Revised" json:"priorMonth606Revised"`
	UnassignedRevenueEstimate  float64 `mapstructure:"unassignedRevenueEstimate" yaml:"unassignedRevenueEstimate" json:"unassignedRevenueEstimate"`

	// Multiplier is only used by the multiplier strategy.
	Multiplier float64 `mapstructure:"multiplier" yaml:"multiplier" json:"multiplier"`
}

// DefaultParameters returns the documented defaults of the parameter form.
func DefaultParameters() Parameters {
	return Parameters{
		CloseFeePct:                0.082,
		CommissionRate:             0.0469,
		DiscountAdjustmentFactor:   0.95,
		RenewalRate:                1.2175,
		RenewalsBonus:              0.002,
		NewSalesRegularBonus:       0.021,
		NewSalesExpansionBonus:     0.021,
		RenewalCommissionsForecast: 1227379,
		CurrentMonth606Release:     742730,
		PriorMonth606Revised:       437773,
		UnassignedRevenueEstimate:  254406,
		Multiplier:                 1.0,
	}
}

// UnassignedRevenuePct is the share of the renewal commissions forecast that
// has not been assigned. Callers must reject a zero forecast first.
func (p Parameters) UnassignedRevenuePct() float64 {
	return p.UnassignedRevenueEstimate / p.RenewalCommissionsForecast
}

// Field describes one parameter for configuration defaults and entry forms.
type Field struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Step is the input granularity; whole-number fields use 1.
	Step float64 `json:"step"`
	// Minimum is the smallest accepted input, nil when unbounded.
	Minimum *float64 `json:"minimum,omitempty"`
}

// Fields lists every parameter with its key and form label, in form order.
func (p Parameters) Fields() []Field {
	zero, one := 0.0, 1.0
	return []Field{
		{Key: "closeFeePct", Label: "Close Fee %", Value: p.CloseFeePct, Step: 0.00001},
		{Key: "commissionRate", Label: "Commission Rate", Value: p.CommissionRate, Step: 0.00001},
		{Key: "discountAdjustmentFactor", Label: "Discount Adjustment Factor", Value: p.DiscountAdjustmentFactor, Step: 0.00001},
		{Key: "renewalRate", Label: "Renewal Rate", Value: p.RenewalRate, Step: 0.00001},
		{Key: "renewalsBonus", Label: "Renewals Bonus %", Value: p.RenewalsBonus, Step: 0.00001},
		{Key: "newSalesRegularBonus", Label: "New Sales Regular Bonus %", Value: p.NewSalesRegularBonus, Step: 0.00001},
		{Key: "newSalesExpansionBonus", Label: "New Sales Expansion Bonus %", Value: p.NewSalesExpansionBonus, Step: 0.00001},
		{Key: "renewalCommissionsForecast", Label: "Renewal Commissions Forecast", Value: p.RenewalCommissionsForecast, Step: 1, Minimum: &one},
		{Key: "currentMonth606Release", Label: "Current Month 606 Release", Value: p.CurrentMonth606Release, Step: 1, Minimum: &one},
		{Key: "priorMonth606Revised", Label: "Prior Month 606 Revised", Value: p.PriorMonth606Revised, Step: 1, Minimum: &one},
		{Key: "unassignedRevenueEstimate", Label: "Unassigned Revenue Estimate", Value: p.UnassignedRevenueEstimate, Step: 1, Minimum: &one},
		{Key: "multiplier", Label: "Revenue Multiplier", Value: p.Multiplier, Step: 0.1, Minimum: &zero},
	}
}
