package calculator

import (
	"strconv"
	"strings"
)

// FormatResult renders v with the shortest digits that round-trip. Decimal
// exponents in (-5, 15) use plain notation, everything else scientific
// notation such as 1E+16 or 1.5E-06. A ',' replaces the decimal point when
// usesPoint is false.
func FormatResult(v float64, usesPoint bool) string {
	if v == 0 {
		// also folds -0
		return "0"
	}

	sci := strconv.FormatFloat(v, 'E', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'E')+1:])

	out := sci
	if err == nil && exp > -5 && exp < 15 {
		out = strconv.FormatFloat(v, 'f', -1, 64)
	}

	if !usesPoint {
		out = strings.Replace(out, ".", ",", 1)
	}
	return out
}
