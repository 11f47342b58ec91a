package tax

import (
	"github.com/google/uuid"
	"github.com/taxengine/taxengine/internal/money"
)

// OutcomeKind discriminates a TaxCalculation's two variants.
type OutcomeKind int

const (
	Liability OutcomeKind = iota
	Refund
)

// Calculation is a single tax outcome: a Liability or a Refund. The held
// Money is always non-negative; Kind carries the sign. CalculationID
// stamps each result with a UUID so a calling ledger or audit system can
// correlate a regime run with a stored record. The engine itself never
// persists anything, it only hands the caller an identifier to key its own
// storage by.
type Calculation struct {
	Kind          OutcomeKind
	Amount        money.Money
	CalculationID uuid.UUID
}

// NewLiability constructs a Liability outcome, stamping a fresh CalculationID.
func NewLiability(amount money.Money) Calculation {
	return Calculation{Kind: Liability, Amount: amount, CalculationID: uuid.New()}
}

// NewRefund constructs a Refund outcome, stamping a fresh CalculationID.
func NewRefund(amount money.Money) Calculation {
	return Calculation{Kind: Refund, Amount: amount, CalculationID: uuid.New()}
}

// signedAmount returns the signed view used by Add: positive for
// Liability, negative for Refund.
func (c Calculation) signedAmount() money.Money {
	if c.Kind == Refund {
		return c.Amount.Neg()
	}
	return c.Amount
}

// CheckedAdd combines two outcomes as a signed sum, re-tagged Liability if
// the result is non-negative, else Refund. Operands in different
// currencies are reported as MismatchedCurrencies. The resulting
// CalculationID is freshly stamped; it does not inherit either operand's
// ID.
func (c Calculation) CheckedAdd(other Calculation) (Calculation, error) {
	sum, err := c.signedAmount().CheckedAdd(other.signedAmount())
	if err != nil {
		return Calculation{}, err
	}
	if sum.IsNegative() {
		return NewRefund(sum.Neg()), nil
	}
	return NewLiability(sum), nil
}

// Add is the unchecked fast-path for CheckedAdd; it panics on a currency
// mismatch.
func (c Calculation) Add(other Calculation) Calculation {
	out, err := c.CheckedAdd(other)
	if err != nil {
		panic(err)
	}
	return out
}
