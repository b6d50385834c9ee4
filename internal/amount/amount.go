// Package amount pulls the first currency-marked monetary value out of
// extracted screenshot text.
package amount

import (
	"regexp"
	"strconv"
	"strings"
)

// A currency marker (symbol or "Rs") followed by a numeric token with
// optional thousands separators and up to two decimal places. Plain
// numbers without a marker never match.
var pattern = regexp.MustCompile(`(?i)(?:\brs\.?|[$€£₹])\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// Parse returns the first currency-marked amount in the text. The second
// return is false when the text carries no such amount.
func Parse(text string) (float64, bool) {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(match[1], ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
