// Package format renders amounts for human-facing output.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := groupDigits(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

func groupDigits(value float64) string {
	intPart, decPart, _ := strings.Cut(fmt.Sprintf("%.2f", value), ".")
	if len(intPart) <= 3 {
		return intPart + "." + decPart
	}

	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String() + "." + decPart
}
