package calculator

import (
	"math"
	"strconv"
	"strings"
)

// fractionDigits caps the fractional part of a displayed result.
const fractionDigits = 8

// FormatResult renders integers without a decimal point and everything else
// rounded to eight fractional digits with trailing zeros removed, so
// 0.1+0.2 displays as "0.3".
func FormatResult(v float64) string {
	var s string
	if v == math.Trunc(v) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', fractionDigits, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}

	if s == "-0" {
		return "0"
	}
	return s
}
