package tax

import (
	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
)

// Schedule owns one jurisdiction's bracket list, deduction and credit
// registries, currency, and capital-gains inclusion rate. Calculation is a
// pure function of its state and its inputs.
type Schedule struct {
	Identifier                string
	Currency                  currency.Currency
	CapitalGainsInclusionRate decimal.Decimal

	brackets   []Bracket
	deductions map[string]DeductionRule
	credits    map[string]CreditRule
}

// NewSchedule validates that every bracket carries the schedule's currency,
// sorts brackets ascending by Min, rejects duplicate bracket minimums, and
// requires a positive capital-gains inclusion rate.
func NewSchedule(identifier string, brackets []Bracket, curr currency.Currency, inclusionRate decimal.Decimal) (*Schedule, error) {
	if err := ValidateBrackets(brackets, curr); err != nil {
		return nil, err
	}
	if !inclusionRate.IsPositive() {
		return nil, newError(InvalidRatio, "capital gains inclusion rate must be positive, got %s", inclusionRate)
	}
	return &Schedule{
		Identifier:                identifier,
		Currency:                  curr,
		CapitalGainsInclusionRate: inclusionRate,
		brackets:                  SortBrackets(brackets),
		deductions:                make(map[string]DeductionRule),
		credits:                   make(map[string]CreditRule),
	}, nil
}

// AddDeduction inserts a deduction rule, overwriting any prior rule with
// the same identifier.
func (s *Schedule) AddDeduction(rule DeductionRule) {
	s.deductions[rule.Identifier] = rule
}

// AddCredit inserts a credit rule, overwriting any prior rule with the
// same identifier.
func (s *Schedule) AddCredit(rule CreditRule) {
	s.credits[rule.Identifier] = rule
}

// IsDeductionClaimValid tests identifier membership, used by Regime for
// per-schedule claim routing.
func (s *Schedule) IsDeductionClaimValid(claim DeductionClaim) bool {
	_, ok := s.deductions[claim.Identifier]
	return ok
}

// IsCreditClaimValid is the credit counterpart of IsDeductionClaimValid.
func (s *Schedule) IsCreditClaimValid(claim CreditClaim) bool {
	_, ok := s.credits[claim.Identifier]
	return ok
}

// incomeUnderConsideration adjusts a single income stream: employment
// passes through, capital gains is scaled by the inclusion rate.
func (s *Schedule) incomeUnderConsideration(income Income) money.Money {
	if income.Kind == CapitalGains {
		return income.Amount.MulDecimal(s.CapitalGainsInclusionRate)
	}
	return income.Amount
}

// adjustedIncome sums every stream's income-under-consideration into a
// single Money in the schedule's currency. A stream in a different
// currency is reported as MismatchedCurrencies; streams are never
// auto-converted.
func (s *Schedule) adjustedIncome(incomes []Income) (money.Money, error) {
	total := money.Zero(s.Currency)
	for _, income := range incomes {
		var err error
		total, err = total.CheckedAdd(s.incomeUnderConsideration(income))
		if err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

// taxableIncome applies every deduction claim (unknown identifiers are
// silently ignored; a validation failure aborts the whole calculation),
// then floors adjusted-income-minus-deductions at zero.
func (s *Schedule) taxableIncome(adjusted money.Money, claims []DeductionClaim) (money.Money, error) {
	totalDeductions := money.Zero(s.Currency)
	for _, claim := range claims {
		rule, ok := s.deductions[claim.Identifier]
		if !ok {
			continue
		}
		amount, err := rule.Apply(claim)
		if err != nil {
			return money.Money{}, err
		}
		totalDeductions, err = totalDeductions.CheckedAdd(amount)
		if err != nil {
			return money.Money{}, err
		}
	}

	taxable, err := adjusted.CheckedSub(totalDeductions)
	if err != nil {
		return money.Money{}, err
	}
	if taxable.IsNegative() {
		return money.Zero(s.Currency), nil
	}
	return taxable, nil
}

// grossTax sums every bracket's contribution to taxable income.
func (s *Schedule) grossTax(taxableIncome money.Money) (money.Money, error) {
	total := money.Zero(s.Currency)
	for _, bracket := range s.brackets {
		contribution, err := bracket.CalculateTax(taxableIncome)
		if err != nil {
			return money.Money{}, err
		}
		total, err = total.CheckedAdd(contribution)
		if err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

// netResult partitions credit claims into refundable and non-refundable
// (unknown identifiers dropped), evaluates each, and nets them against
// gross tax: non-refundable credits floor tax payable at zero, forfeiting
// any excess; refundable credits then create a genuine refund.
func (s *Schedule) netResult(grossTax money.Money, claims []CreditClaim) (Calculation, error) {
	nonRefundable := money.Zero(s.Currency)
	refundable := money.Zero(s.Currency)

	for _, claim := range claims {
		rule, ok := s.credits[claim.Identifier]
		if !ok {
			continue
		}
		amount, err := rule.Apply(claim)
		if err != nil {
			return Calculation{}, err
		}
		if rule.Refundable {
			refundable, err = refundable.CheckedAdd(amount)
		} else {
			nonRefundable, err = nonRefundable.CheckedAdd(amount)
		}
		if err != nil {
			return Calculation{}, err
		}
	}

	afterNonRefundable, err := grossTax.CheckedSub(nonRefundable)
	if err != nil {
		return Calculation{}, err
	}
	if afterNonRefundable.IsNegative() {
		// Non-refundable credits already zeroed out tax payable; the
		// excess is forfeited. What remains is a pure refund of the
		// refundable credits.
		return NewRefund(refundable), nil
	}

	diff, err := afterNonRefundable.CheckedSub(refundable)
	if err != nil {
		return Calculation{}, err
	}
	if diff.IsPositive() {
		return NewLiability(diff), nil
	}
	return NewRefund(diff.Neg()), nil
}

// Calculate runs the full pipeline: adjust incomes, apply deductions,
// compute gross tax, apply credits, net the result.
func (s *Schedule) Calculate(incomes []Income, deductionClaims []DeductionClaim, creditClaims []CreditClaim) (Calculation, error) {
	adjusted, err := s.adjustedIncome(incomes)
	if err != nil {
		return Calculation{}, err
	}
	taxable, err := s.taxableIncome(adjusted, deductionClaims)
	if err != nil {
		return Calculation{}, err
	}
	gross, err := s.grossTax(taxable)
	if err != nil {
		return Calculation{}, err
	}
	return s.netResult(gross, creditClaims)
}

// DetermineMarginalRate finds the rate of the bracket with the greatest Min
// strictly less than taxable income (or, if none strictly less, the first
// bracket).
func (s *Schedule) DetermineMarginalRate(incomes []Income, deductionClaims []DeductionClaim) (decimal.Decimal, error) {
	if len(s.brackets) == 0 {
		return decimal.Zero, newError(ThereAreNoBrackets, "schedule %q has no brackets", s.Identifier)
	}

	adjusted, err := s.adjustedIncome(incomes)
	if err != nil {
		return decimal.Zero, err
	}
	taxable, err := s.taxableIncome(adjusted, deductionClaims)
	if err != nil {
		return decimal.Zero, err
	}

	var applicable *Bracket
	for i := range s.brackets {
		bracket := s.brackets[i]
		if applicable == nil {
			applicable = &bracket
			continue
		}
		cmp, err := taxable.CheckedCompare(bracket.Min)
		if err != nil {
			return decimal.Zero, err
		}
		if cmp > 0 {
			applicable = &bracket
		}
	}
	return applicable.Rate, nil
}
