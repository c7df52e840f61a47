package reconcile

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber reads the longest numeric prefix of s, the way a lenient
// number box does: leading whitespace is skipped, the first comma is taken
// as the decimal separator and trailing garbage is ignored ("12,5abc" is
// 12.5). It reports false when no number can be read.
func ParseNumber(s string) (float64, bool) {
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if rest := s[i:]; strings.HasPrefix(rest, "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN(), false
	}
	end := i

	// Exponent only counts if at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out of range literals overflow to ±Inf like any float parse.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return math.NaN(), false
	}
	return v, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
