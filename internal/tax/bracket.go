package tax

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
)

// Bracket is a half-open income range [Min, Max) with a flat marginal rate.
// A Bracket with no Max is the open-ended top bracket. Min and Max (when
// present) must share a currency; Rate must be non-negative.
type Bracket struct {
	Min  money.Money
	Max  *money.Money
	Rate decimal.Decimal
}

// NewBracket checks that Min and Max share a currency when Max is present
// and that the rate is non-negative.
func NewBracket(min money.Money, max *money.Money, rate decimal.Decimal) (Bracket, error) {
	if max != nil && !currency.Equals(min.Currency, max.Currency) {
		return Bracket{}, newError(MismatchedCurrencies, "bracket min currency %s does not match max currency %s", min.Currency, max.Currency)
	}
	if rate.IsNegative() {
		return Bracket{}, newError(InvalidRatio, "bracket rate must be non-negative, got %s", rate)
	}
	return Bracket{Min: min, Max: max, Rate: rate}, nil
}

// CalculateTax returns this bracket's marginal contribution to tax on the
// given taxable income:
//   - 0 when income is below Min
//   - (max - min) * rate when Max is present and income has fully crossed it
//   - (income - min) * rate otherwise
//
// The fully-crossed contribution is the width of the bracket times the
// rate, so contributions are additive across a sorted bracket list. Income
// in a different currency than the bracket is reported as
// MismatchedCurrencies rather than computed.
func (b Bracket) CalculateTax(income money.Money) (money.Money, error) {
	cmpMin, err := income.CheckedCompare(b.Min)
	if err != nil {
		return money.Money{}, err
	}
	if cmpMin < 0 {
		return money.Zero(b.Min.Currency), nil
	}
	if b.Max != nil {
		cmpMax, err := income.CheckedCompare(*b.Max)
		if err != nil {
			return money.Money{}, err
		}
		if cmpMax >= 0 {
			span, err := b.Max.CheckedSub(b.Min)
			if err != nil {
				return money.Money{}, err
			}
			return span.MulDecimal(b.Rate), nil
		}
	}
	span, err := income.CheckedSub(b.Min)
	if err != nil {
		return money.Money{}, err
	}
	return span.MulDecimal(b.Rate), nil
}

// SortBrackets sorts brackets ascending by Min. It does not detect gaps,
// overlaps, or duplicate Min values; ValidateBrackets rejects duplicates.
func SortBrackets(brackets []Bracket) []Bracket {
	sorted := make([]Bracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min.Less(sorted[j].Min)
	})
	return sorted
}

// ValidateBrackets checks that every bracket carries the expected currency
// and rejects two brackets with identical Min values, since a marginal-rate
// lookup over such a set has no well-defined answer.
func ValidateBrackets(brackets []Bracket, expected currency.Currency) error {
	seen := make(map[string]bool, len(brackets))
	for _, b := range brackets {
		if !currency.Equals(b.Min.Currency, expected) {
			return newError(MismatchedCurrencies, "bracket currency %s does not match schedule currency %s", b.Min.Currency, expected)
		}
		if b.Max != nil && !currency.Equals(b.Max.Currency, expected) {
			return newError(MismatchedCurrencies, "bracket currency %s does not match schedule currency %s", b.Max.Currency, expected)
		}
		key := b.Min.Amount.String()
		if seen[key] {
			return newError(InvalidBracketSet, "duplicate bracket minimum %s", b.Min.Amount)
		}
		seen[key] = true
	}
	return nil
}
