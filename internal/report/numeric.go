package report

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var plainNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmountOr parses a money cell such as "1,234.50", "฿500" or "(20.00)".
// Thousands separators, spaces and the baht sign are ignored and a parenthesised value
// is negative. Anything else that is not a plain number yields fallback.
func ParseAmountOr(s string, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := parseAmount(s); ok {
		return d
	}
	return fallback
}

// ParseAmount is ParseAmountOr with a zero fallback.
func ParseAmount(s string) decimal.Decimal {
	return ParseAmountOr(s, decimal.Zero)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "฿", "")

	negative := false
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer(",", "", " ", "").Replace(s)

	if !plainNumber.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
