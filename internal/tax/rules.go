package tax

import "github.com/taxengine/taxengine/internal/money"

// DeductionRule is a named rule that validates a claimed deduction amount
// via its ClaimStrategy.
type DeductionRule struct {
	Identifier string
	Strategy   ClaimStrategy
}

// DeductionClaim references a DeductionRule by identifier with the amount
// to deduct.
type DeductionClaim struct {
	Identifier string
	Amount     money.Money
}

// Apply validates claim against the rule. A mismatched identifier is
// CouldNotFindDeduction, distinct from the schedule-level "unknown claim ->
// silently ignored" routing behavior in Schedule.Calculate.
func (r DeductionRule) Apply(claim DeductionClaim) (money.Money, error) {
	if claim.Identifier != r.Identifier {
		return money.Money{}, newError(CouldNotFindDeduction, "claim identifier %q does not match rule %q", claim.Identifier, r.Identifier)
	}
	return r.Strategy.ApplyClaim(claim.Amount)
}

// CreditRule is the credit counterpart of DeductionRule; Refundable
// controls whether it can create a cash refund or only zero out tax
// payable.
type CreditRule struct {
	Identifier string
	Strategy   ClaimStrategy
	Refundable bool
}

// CreditClaim references a CreditRule by identifier with the amount to credit.
type CreditClaim struct {
	Identifier string
	Amount     money.Money
}

// Apply is the credit analogue of DeductionRule.Apply.
func (r CreditRule) Apply(claim CreditClaim) (money.Money, error) {
	if claim.Identifier != r.Identifier {
		return money.Money{}, newError(CouldNotFindCredit, "claim identifier %q does not match rule %q", claim.Identifier, r.Identifier)
	}
	return r.Strategy.ApplyClaim(claim.Amount)
}
