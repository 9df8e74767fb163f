package validation

import (
	"strings"
	"testing"
)

func TestConfigValidator_ValidateAll(t *testing.T) {
	tests := []struct {
		name            string
		validator       ConfigValidator
		expectWarnCount int
		expectContains  string
	}{
		{
			name: "Breakdown with unused 606 release",
			validator: ConfigValidator{
				Strategy:               "breakdown",
				CurrentMonth606Release: 742730,
				Multiplier:             1,
			},
			expectWarnCount: 1,
			expectContains:  "currentMonth606Release",
		},
		{
			name: "Breakdown with documented defaults",
			validator: ConfigValidator{
				Strategy:               "breakdown",
				CurrentMonth606Release: 742730,
				NewSalesExpansionBonus: 0.021,
				Multiplier:             1,
			},
			expectWarnCount: 2,
		},
		{
			name: "Breakdown with a stray multiplier",
			validator: ConfigValidator{
				Strategy:   "breakdown",
				Multiplier: 1.5,
			},
			expectWarnCount: 1,
			expectContains:  "multiplier",
		},
		{
			name: "Breakdown without unused parameters",
			validator: ConfigValidator{
				Strategy:   "breakdown",
				Multiplier: 1,
			},
			expectWarnCount: 0,
		},
		{
			name: "Multiplier of one",
			validator: ConfigValidator{
				Strategy:               "multiplier",
				Multiplier:             1,
				CurrentMonth606Release: 742730,
			},
			expectWarnCount: 1,
			expectContains:  "equal revenue",
		},
		{
			name: "Multiplier scaling",
			validator: ConfigValidator{
				Strategy:   "multiplier",
				Multiplier: 1.25,
			},
			expectWarnCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.validator.ValidateAll()

			if len(warnings) != tt.expectWarnCount {
				t.Errorf("ValidateAll() returned %d warnings, expected %d: %v",
					len(warnings), tt.expectWarnCount, warnings)
			}
			if tt.expectContains != "" && len(warnings) > 0 && !strings.Contains(warnings[0], tt.expectContains) {
				t.Errorf("expected warning to mention %q, got %q", tt.expectContains, warnings[0])
			}
		})
	}
}
