package reconcile

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the only currency the app displays.
const DefaultCurrency = money.BRL

// NotANumber is displayed for a NaN amount.
const NotANumber = "—"

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// FormatBRL renders v as Brazilian reais, e.g. "R$1.234,50".
func FormatBRL(v float64) string {
	return FormatAmount(v, DefaultCurrency)
}

// FormatAmount renders v in the given ISO currency, rounding half away from
// zero to the currency's minor unit. Unknown codes fall back to BRL.
// Infinities render as the currency symbol followed by ∞.
func FormatAmount(v float64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}

	switch {
	case math.IsNaN(v):
		return NotANumber
	case math.IsInf(v, 0):
		return applyTemplate(cur, "∞", v < 0)
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(v).Mul(factor).Round(0)
	if minor.Abs().LessThanOrEqual(maxMinor) {
		return money.New(minor.IntPart(), cur.Code).Display()
	}
	return formatMinor(cur, minor)
}

// formatMinor lays out an amount in minor units too large for money.Money,
// following the same grouping rules as money.Formatter.
func formatMinor(cur *money.Currency, minor decimal.Decimal) string {
	digits := minor.Abs().String()
	if len(digits) <= cur.Fraction {
		digits = strings.Repeat("0", cur.Fraction-len(digits)+1) + digits
	}
	if cur.Thousand != "" {
		for i := len(digits) - cur.Fraction - 3; i > 0; i -= 3 {
			digits = digits[:i] + cur.Thousand + digits[i:]
		}
	}
	if cur.Fraction > 0 {
		digits = digits[:len(digits)-cur.Fraction] + cur.Decimal + digits[len(digits)-cur.Fraction:]
	}
	return applyTemplate(cur, digits, minor.IsNegative())
}

func applyTemplate(cur *money.Currency, amount string, negative bool) string {
	s := strings.Replace(cur.Template, "1", amount, 1)
	s = strings.Replace(s, "$", cur.Grapheme, 1)
	if negative {
		s = "-" + s
	}
	return s
}
