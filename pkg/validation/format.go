// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV,
		constants.OutputFormatXLSX, constants.OutputFormatHTML:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV,
		constants.OutputFormatXLSX, constants.OutputFormatHTML, format)
}

// ValidateStrategy checks if the strategy name is one of the supported strategies.
func ValidateStrategy(strategy string) error {
	if strategy != constants.StrategyBreakdown && strategy != constants.StrategyMultiplier {
		return fmt.Errorf("expected strategy of %s or %s, got %s",
			constants.StrategyBreakdown, constants.StrategyMultiplier, strategy)
	}
	return nil
}
