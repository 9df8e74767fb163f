// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// ConfigValidator inspects the parts of a configuration that can be valid but
// still surprising, and reports them as warnings.
type ConfigValidator struct {
	Strategy               string
	CurrentMonth606Release float64
	NewSalesExpansionBonus float64
	Multiplier             float64
}

// ValidateAll returns one warning per questionable setting.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	switch cv.Strategy {
	case constants.StrategyBreakdown:
		if cv.CurrentMonth606Release != 0 {
			warnings = append(warnings, fmt.Sprintf(
				"currentMonth606Release (%.2f) is collected but not used by any breakdown formula", cv.CurrentMonth606Release))
		}
		if cv.NewSalesExpansionBonus != 0 {
			warnings = append(warnings, fmt.Sprintf(
				"newSalesExpansionBonus (%.5f) is collected but not used by any breakdown formula", cv.NewSalesExpansionBonus))
		}
		if cv.Multiplier != 1 {
			warnings = append(warnings, fmt.Sprintf(
				"multiplier (%.5f) only applies to the %s strategy", cv.Multiplier, constants.StrategyMultiplier))
		}
	case constants.StrategyMultiplier:
		if cv.Multiplier == 1 {
			warnings = append(warnings, "multiplier is 1, adjusted revenue will equal revenue")
		}
	}

	return warnings
}
