package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero marks a parameter used as a denominator that is zero.
	ErrDivisionByZero = errors.New("must not be zero, it is used as a divisor")
	// ErrNonFinite marks a NaN or infinite parameter or derived value.
	ErrNonFinite = errors.New("is not a finite number")
	// ErrNegative marks a parameter that must be zero or greater.
	ErrNegative = errors.New("must not be negative")
	// ErrEmptyTable marks a pass over a table with no rows where the row
	// count is a divisor.
	ErrEmptyTable = errors.New("has no rows")
)

// ComputationError reports a parameter or derived value that would put a
// non-finite number into the chart. Parameter holds the parameter key, the
// derived column name, or "table".
type ComputationError struct {
	Parameter string
	Value     float64
	Date      string
	Err       error
}

func (e *ComputationError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("%s on %s %v", e.Parameter, e.Date, e.Err)
	}
	if errors.Is(e.Err, ErrEmptyTable) {
		return fmt.Sprintf("%s %v", e.Parameter, e.Err)
	}
	return fmt.Sprintf("%s (%v) %v", e.Parameter, e.Value, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
