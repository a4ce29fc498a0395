// Package format renders statement amounts for display.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Indian groups a whole number the Indian way: the last three digits, then
// groups of two ("12,34,567"). Values are rounded to the nearest integer.
func Indian(v decimal.Decimal) string {
	r := v.Round(0)
	digits := r.Abs().String()

	var groups []string
	if len(digits) > 3 {
		groups = append(groups, digits[len(digits)-3:])
		digits = digits[:len(digits)-3]
		for len(digits) > 2 {
			groups = append(groups, digits[len(digits)-2:])
			digits = digits[:len(digits)-2]
		}
	}
	groups = append(groups, digits)

	var b strings.Builder
	if r.IsNegative() {
		b.WriteByte('-')
	}
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		if i > 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// Percent renders a ratio as a percentage with two decimals (0.1234 ->
// "12.34%"). Zero renders as an empty string.
func Percent(v decimal.Decimal) string {
	if v.IsZero() {
		return ""
	}
	return v.Mul(hundred).StringFixed(2) + "%"
}
