package tax

import "github.com/taxengine/taxengine/internal/money"

// StrategyKind discriminates the ClaimStrategy variants.
type StrategyKind int

const (
	ExactAmount StrategyKind = iota
	Range
	Min
	Max
)

// ClaimStrategy validates a claimed deduction/credit amount against a
// bound. The validated amount is the amount actually used: ClaimStrategy
// never adjusts the claim, only accepts or rejects it.
type ClaimStrategy struct {
	Kind StrategyKind
	// Bound1 is the exact amount (ExactAmount), the lower bound (Range,
	// Min), or unused (Max).
	Bound1 money.Money
	// Bound2 is the upper bound for Range and Max; unused otherwise.
	Bound2 money.Money
}

// NewExactAmountStrategy requires the claim to equal amount.
func NewExactAmountStrategy(amount money.Money) ClaimStrategy {
	return ClaimStrategy{Kind: ExactAmount, Bound1: amount}
}

// NewRangeStrategy requires lo <= claim <= hi (closed interval).
func NewRangeStrategy(lo, hi money.Money) ClaimStrategy {
	return ClaimStrategy{Kind: Range, Bound1: lo, Bound2: hi}
}

// NewMinStrategy requires claim >= lo.
func NewMinStrategy(lo money.Money) ClaimStrategy {
	return ClaimStrategy{Kind: Min, Bound1: lo}
}

// NewMaxStrategy requires claim <= hi.
func NewMaxStrategy(hi money.Money) ClaimStrategy {
	return ClaimStrategy{Kind: Max, Bound2: hi}
}

func (s ClaimStrategy) isValid(claim money.Money) (bool, error) {
	switch s.Kind {
	case ExactAmount:
		sign, err := claim.CheckedCompare(s.Bound1)
		if err != nil {
			return false, err
		}
		return sign == 0, nil
	case Range:
		loOK, err := s.Bound1.CheckedCompare(claim)
		if err != nil {
			return false, err
		}
		hiOK, err := claim.CheckedCompare(s.Bound2)
		if err != nil {
			return false, err
		}
		return loOK <= 0 && hiOK <= 0, nil
	case Min:
		sign, err := claim.CheckedCompare(s.Bound1)
		if err != nil {
			return false, err
		}
		return sign >= 0, nil
	case Max:
		sign, err := claim.CheckedCompare(s.Bound2)
		if err != nil {
			return false, err
		}
		return sign <= 0, nil
	default:
		return false, nil
	}
}

// ApplyClaim returns claimAmount unchanged when it satisfies the strategy,
// or ClaimDidNotMatchStrategy otherwise. All comparisons are same-currency;
// a cross-currency claim fails validation rather than panicking.
func (s ClaimStrategy) ApplyClaim(claimAmount money.Money) (money.Money, error) {
	ok, err := s.isValid(claimAmount)
	if err != nil {
		return money.Money{}, newError(ClaimDidNotMatchStrategy, "claim validation failed: %v", err)
	}
	if !ok {
		return money.Money{}, newError(ClaimDidNotMatchStrategy, "claim amount %s did not satisfy strategy", claimAmount)
	}
	return claimAmount, nil
}
