// Package currency is the external currency-metadata collaborator.
//
// The core (internal/money, internal/tax) treats Currency as an opaque,
// comparable token: it never inspects exponents, symbols, or locale rules.
// This package owns that metadata and the one formatting function the core
// is allowed to call on a Money value's display path. It is deliberately a
// small table, not the exhaustive ISO-4217 catalog a production collaborator
// would carry: decimal exponent, symbol, symbol-first flag, and grouping
// separator for a handful of currencies are enough to exercise the
// contract.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an opaque, comparable tag. Two Currency values are equal iff
// their codes are equal; that equality is all the core relies on.
type Currency struct {
	code string
}

// New returns the Currency identified by an ISO-4217-like code. Unknown
// codes are accepted (the core never rejects a currency it doesn't
// recognize); formatting for an unknown code falls back to the code plus a
// space as a leading symbol, two decimal places, and comma grouping.
func New(code string) Currency {
	return Currency{code: strings.ToUpper(code)}
}

// Code returns the currency's identifying code.
func (c Currency) Code() string { return c.code }

func (c Currency) String() string { return c.code }

// Equals reports whether two currencies are the same tag.
func Equals(a, b Currency) bool { return a.code == b.code }

var (
	CAD = New("CAD")
	USD = New("USD")
	EUR = New("EUR")
	GBP = New("GBP")
	INR = New("INR")
)

type metadata struct {
	exponent     int32
	symbol       string
	symbolFirst  bool
	groupingSep  string
	decimalPoint string
}

var table = map[string]metadata{
	"CAD": {exponent: 2, symbol: "$", symbolFirst: true, groupingSep: ",", decimalPoint: "."},
	"USD": {exponent: 2, symbol: "$", symbolFirst: true, groupingSep: ",", decimalPoint: "."},
	"GBP": {exponent: 2, symbol: "£", symbolFirst: true, groupingSep: ",", decimalPoint: "."},
	"EUR": {exponent: 2, symbol: "€", symbolFirst: false, groupingSep: ".", decimalPoint: ","},
	"INR": {exponent: 2, symbol: "₹", symbolFirst: true, groupingSep: ",", decimalPoint: "."},
}

func lookup(c Currency) metadata {
	if m, ok := table[c.code]; ok {
		return m
	}
	return metadata{exponent: 2, symbol: c.code + " ", symbolFirst: true, groupingSep: ",", decimalPoint: "."}
}

// Format renders amount under the currency's display conventions. It is
// never called from inside a tax calculation, only from a Money's display
// path or a CLI report.
func Format(c Currency, amount decimal.Decimal) string {
	m := lookup(c)
	rounded := amount.Round(m.exponent)
	negative := rounded.IsNegative()
	if negative {
		rounded = rounded.Neg()
	}

	digits := rounded.StringFixed(m.exponent)
	intPart, fracPart, _ := strings.Cut(digits, ".")
	intPart = groupDigits(intPart, m.groupingSep)

	value := intPart
	if m.exponent > 0 {
		value = intPart + m.decimalPoint + fracPart
	}

	if rounded.IsZero() {
		if m.symbolFirst {
			return fmt.Sprintf("%s0%s%s", m.symbol, m.decimalPoint, strings.Repeat("0", int(m.exponent)))
		}
		return fmt.Sprintf("0%s%s%s", m.decimalPoint, strings.Repeat("0", int(m.exponent)), m.symbol)
	}

	if m.symbolFirst {
		if negative {
			return fmt.Sprintf("%s(%s)", m.symbol, value)
		}
		return m.symbol + value
	}
	if negative {
		return fmt.Sprintf("(%s)%s", value, m.symbol)
	}
	return value + m.symbol
}

func groupDigits(intPart, sep string) string {
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	n := len(intPart)
	if n <= 3 {
		if neg {
			return "-" + intPart
		}
		return intPart
	}
	var b strings.Builder
	lead := n % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < n; i += 3 {
		b.WriteString(sep)
		b.WriteString(intPart[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}
