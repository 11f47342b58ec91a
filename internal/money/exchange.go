package money

import (
	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
)

// ExchangeRateKey is the lookup key for a directed exchange rate: equal iff
// both From and To are equal.
type ExchangeRateKey struct {
	From currency.Currency
	To   currency.Currency
}

// Exchange is a directed map from (from, to) to a conversion rate. Only
// explicitly inserted rates exist, except that the identity rate
// (from == to) is always 1 without requiring insertion.
type Exchange struct {
	rates map[ExchangeRateKey]decimal.Decimal
}

// NewExchange returns an empty rate table.
func NewExchange() *Exchange {
	return &Exchange{rates: make(map[ExchangeRateKey]decimal.Decimal)}
}

// SetRate records the forward rate only: (from -> to) = rate. Builder
// methods like this must not be interleaved with calculations against the
// same Exchange; callers needing concurrent safety provide their own
// mutual exclusion.
func (e *Exchange) SetRate(from, to currency.Currency, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return newError(InvalidRatio, "exchange rate must be positive, got %s", rate)
	}
	e.rates[ExchangeRateKey{From: from, To: to}] = rate
	return nil
}

// SetRateAndInverse records both (from -> to, rate) and (to -> from,
// 1/rate) in a single logical step.
func (e *Exchange) SetRateAndInverse(from, to currency.Currency, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return newError(InvalidRatio, "exchange rate must be positive, got %s", rate)
	}
	e.rates[ExchangeRateKey{From: from, To: to}] = rate
	e.rates[ExchangeRateKey{From: to, To: from}] = decimal.NewFromInt(1).Div(rate)
	return nil
}

// GetRate returns the rate for from->to. Identity is always 1, stored or
// not; any other unset pair fails with CouldNotFindExchangeRate.
func (e *Exchange) GetRate(from, to currency.Currency) (decimal.Decimal, error) {
	if currency.Equals(from, to) {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := e.rates[ExchangeRateKey{From: from, To: to}]
	if !ok {
		return decimal.Zero, newError(CouldNotFindExchangeRate, "no rate from %s to %s", from, to)
	}
	return rate, nil
}

// Convert converts m into currency to. Same-currency conversion is an
// identity short-circuit; otherwise it multiplies by GetRate.
func (e *Exchange) Convert(m Money, to currency.Currency) (Money, error) {
	if currency.Equals(m.Currency, to) {
		return m, nil
	}
	rate, err := e.GetRate(m.Currency, to)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Mul(rate), Currency: to}, nil
}

// Add converts a and b into out and adds them.
func (e *Exchange) Add(a, b Money, out currency.Currency) (Money, error) {
	ca, err := e.Convert(a, out)
	if err != nil {
		return Money{}, err
	}
	cb, err := e.Convert(b, out)
	if err != nil {
		return Money{}, err
	}
	return ca.Add(cb), nil
}

// Sub converts a and b into out and subtracts b from a.
func (e *Exchange) Sub(a, b Money, out currency.Currency) (Money, error) {
	ca, err := e.Convert(a, out)
	if err != nil {
		return Money{}, err
	}
	cb, err := e.Convert(b, out)
	if err != nil {
		return Money{}, err
	}
	return ca.Sub(cb), nil
}

// compare converts b into a's currency and returns the sign of a - b.
func (e *Exchange) compare(a, b Money) (int, error) {
	cb, err := e.Convert(b, a.Currency)
	if err != nil {
		return 0, err
	}
	return a.Amount.Cmp(cb.Amount), nil
}

func (e *Exchange) Lt(a, b Money) (bool, error) {
	c, err := e.compare(a, b)
	return c < 0, err
}

func (e *Exchange) Le(a, b Money) (bool, error) {
	c, err := e.compare(a, b)
	return c <= 0, err
}

func (e *Exchange) Eq(a, b Money) (bool, error) {
	c, err := e.compare(a, b)
	return c == 0, err
}

func (e *Exchange) Ge(a, b Money) (bool, error) {
	c, err := e.compare(a, b)
	return c >= 0, err
}

func (e *Exchange) Gt(a, b Money) (bool, error) {
	c, err := e.compare(a, b)
	return c > 0, err
}

// RangePosition is the result of comparing a value against a [lo, hi) range
// via currency-independent comparison.
type RangePosition int

const (
	BeforeRange RangePosition = iota
	WithinRange
	AfterRange
)

// Clamp restricts x into [lo, hi), returning lo, x, or hi converted to out.
// Position is determined by two currency-independent comparisons: x is
// BeforeRange if x < lo, WithinRange if lo <= x < hi (so x == lo is
// WithinRange), else AfterRange (so x == hi is AfterRange: half-open at
// the top).
func (e *Exchange) Clamp(x, lo, hi Money, out currency.Currency) (Money, error) {
	isLtMin, err := e.Lt(x, lo)
	if err != nil {
		return Money{}, err
	}
	if isLtMin {
		return e.Convert(lo, out)
	}
	isLtMax, err := e.Lt(x, hi)
	if err != nil {
		return Money{}, err
	}
	if isLtMax {
		return e.Convert(x, out)
	}
	return e.Convert(hi, out)
}

// Position reports which of BeforeRange/WithinRange/AfterRange x falls
// into relative to [lo, hi), without performing the final conversion. It
// factors out the decision Clamp makes, for callers that only need the
// classification (e.g. a caller reporting "claim exceeds the range" instead
// of silently clamping).
func (e *Exchange) Position(x, lo, hi Money) (RangePosition, error) {
	isLtMin, err := e.Lt(x, lo)
	if err != nil {
		return 0, err
	}
	if isLtMin {
		return BeforeRange, nil
	}
	isLtMax, err := e.Lt(x, hi)
	if err != nil {
		return 0, err
	}
	if isLtMax {
		return WithinRange, nil
	}
	return AfterRange, nil
}
