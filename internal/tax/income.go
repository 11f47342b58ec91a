package tax

import "github.com/taxengine/taxengine/internal/money"

// IncomeKind discriminates the Income variants.
type IncomeKind int

const (
	Employment IncomeKind = iota
	CapitalGains
)

// Income is one income stream: either employment (passed through unchanged)
// or capital gains (subject to a schedule's inclusion rate). Uniform
// currency across a set of Income values is required for a well-posed
// calculation against a single schedule; the type itself does not enforce
// it, so a stream in the wrong currency surfaces as MismatchedCurrencies
// from the calculation rather than being auto-converted.
type Income struct {
	Kind   IncomeKind
	Amount money.Money
}

// NewEmploymentIncome constructs an Employment income stream.
func NewEmploymentIncome(amount money.Money) Income {
	return Income{Kind: Employment, Amount: amount}
}

// NewCapitalGainsIncome constructs a CapitalGains income stream.
func NewCapitalGainsIncome(amount money.Money) Income {
	return Income{Kind: CapitalGains, Amount: amount}
}
