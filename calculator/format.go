package calculator

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Significant is the number of significant digits kept in computed results.
const Significant = 15

// FormatResult rounds v to 15 significant digits and renders the shortest
// plain decimal string, so 0.1+0.2 shows "0.3". Exponent notation is never
// used: 1e21 renders as "1000000000000000000000".
func FormatResult(v float64) string {
	rounded := strconv.FormatFloat(v, 'g', Significant, 64)
	d, err := decimal.NewFromString(rounded)
	if err != nil {
		return rounded
	}
	return d.String()
}

// formatOperand renders a stored operand for the history line.
func formatOperand(v float64) string {
	return decimal.NewFromFloat(v).String()
}
