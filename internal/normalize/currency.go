package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "")

// Plain fixed-point only. Exponent forms are rejected: a huge exponent
// would make every later Add rescale to an enormous coefficient.
var fixedPoint = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseCurrency converts an export currency cell to a decimal amount.
// "$1,234.50" → 1234.50, "(1,000)" → -1000. Empty, "(blank)" and
// unparseable values, including scientific notation, return zero.
func ParseCurrency(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "(blank)") {
		return decimal.Zero
	}
	s = currencyStripper.Replace(s)

	negative := false
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if !fixedPoint.MatchString(s) {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}
