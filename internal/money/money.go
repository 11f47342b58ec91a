// Package money implements exact-decimal monetary values tagged with a
// currency, and a directed exchange-rate table for converting, comparing,
// and combining them across currencies.
//
// Money is a same-currency value type; Exchange adds explicit,
// output-currency-aware cross-currency operations. Neither type performs
// I/O or retains any state beyond what its owner gave it.
package money

import (
	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
)

// Money pairs an exact decimal amount with a currency tag. It is an
// immutable value type: every operation returns a new Money rather than
// mutating the receiver.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Currency
}

// New constructs a Money from an amount and currency.
func New(amount decimal.Decimal, c currency.Currency) Money {
	return Money{Amount: amount, Currency: c}
}

// Zero returns the zero amount in the given currency.
func Zero(c currency.Currency) Money {
	return Money{Amount: decimal.Zero, Currency: c}
}

func (m Money) sameCurrency(other Money) bool {
	return currency.Equals(m.Currency, other.Currency)
}

// CheckedAdd adds two same-currency amounts, reporting MismatchedCurrencies
// rather than producing a nonsensical value.
func (m Money) CheckedAdd(other Money) (Money, error) {
	if !m.sameCurrency(other) {
		return Money{}, newError(MismatchedCurrencies, "cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Add is the unchecked fast-path: it panics on a currency mismatch rather
// than returning an error. Cross-currency addition has no defined value,
// so there is nothing sensible to return; callers wanting the recoverable
// path use CheckedAdd.
func (m Money) Add(other Money) Money {
	out, err := m.CheckedAdd(other)
	if err != nil {
		panic(err)
	}
	return out
}

// CheckedSub is the checked counterpart of Sub.
func (m Money) CheckedSub(other Money) (Money, error) {
	if !m.sameCurrency(other) {
		return Money{}, newError(MismatchedCurrencies, "cannot subtract %s from %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Sub is the unchecked fast-path for subtraction; see Add.
func (m Money) Sub(other Money) Money {
	out, err := m.CheckedSub(other)
	if err != nil {
		panic(err)
	}
	return out
}

// MulDecimal scales the amount by a dimensionless factor, preserving currency.
func (m Money) MulDecimal(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// MulInt scales the amount by an integer factor, preserving currency.
func (m Money) MulInt(factor int64) Money {
	return m.MulDecimal(decimal.NewFromInt(factor))
}

// Neg returns the additive inverse, preserving currency.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// CheckedDiv divides by another Money of the same currency, yielding a
// dimensionless ratio.
func (m Money) CheckedDiv(other Money) (decimal.Decimal, error) {
	if !m.sameCurrency(other) {
		return decimal.Zero, newError(MismatchedCurrencies, "cannot divide %s by %s", m.Currency, other.Currency)
	}
	if other.Amount.IsZero() {
		return decimal.Zero, newError(InvalidAmount, "division by zero amount")
	}
	return m.Amount.Div(other.Amount), nil
}

// Round rounds the amount to dp decimal places, preserving currency.
func (m Money) Round(dp int32) Money {
	return Money{Amount: m.Amount.Round(dp), Currency: m.Currency}
}

// IsZero, IsPositive, IsNegative test the sign of the amount.
func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// CheckedCompare orders two same-currency amounts: -1, 0, or 1. Cross
// currency comparison is undefined and reported rather than guessed at.
func (m Money) CheckedCompare(other Money) (int, error) {
	if !m.sameCurrency(other) {
		return 0, newError(MismatchedCurrencies, "cannot compare %s to %s", m.Currency, other.Currency)
	}
	return m.Amount.Cmp(other.Amount), nil
}

// Less, LessOrEqual, Equal, GreaterOrEqual, Greater are the unchecked
// same-currency comparisons; they panic on mismatch, matching Add/Sub.
func (m Money) Less(other Money) bool {
	c, err := m.CheckedCompare(other)
	if err != nil {
		panic(err)
	}
	return c < 0
}

func (m Money) LessOrEqual(other Money) bool {
	c, err := m.CheckedCompare(other)
	if err != nil {
		panic(err)
	}
	return c <= 0
}

func (m Money) Equal(other Money) bool {
	c, err := m.CheckedCompare(other)
	if err != nil {
		panic(err)
	}
	return c == 0
}

func (m Money) GreaterOrEqual(other Money) bool {
	c, err := m.CheckedCompare(other)
	if err != nil {
		panic(err)
	}
	return c >= 0
}

func (m Money) Greater(other Money) bool {
	c, err := m.CheckedCompare(other)
	if err != nil {
		panic(err)
	}
	return c > 0
}

// RoundedEqual rounds both amounts to dp decimal places and compares.
// Cross-currency inputs return false rather than failing.
func RoundedEqual(a, b Money, dp int32) bool {
	if !currency.Equals(a.Currency, b.Currency) {
		return false
	}
	return a.Amount.Round(dp).Equal(b.Amount.Round(dp))
}

// String renders the amount via the currency collaborator's Format
// function. It is the only place in the money package that calls into the
// currency-metadata collaborator: never on the calculation path, only for
// display.
func (m Money) String() string {
	return currency.Format(m.Currency, m.Amount)
}
