// Package token - Display formatting
package token

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a decimal as a dollar display string with
// thousands separators, e.g. "$12,500.00". Agreements always show cents.
func FormatCurrency(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(parts[1])
	return b.String()
}

// FormatCount renders an integer count with thousands separators
func FormatCount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatGB renders a data volume. Whole numbers drop the fraction.
func FormatGB(v decimal.Decimal) string {
	if v.Equal(v.Truncate(0)) {
		return v.Truncate(0).String()
	}
	return v.Round(2).String()
}

// FormatPercent renders a discount percentage, dropping a trailing ".0"
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', -1, 64)
	return s + "%"
}
