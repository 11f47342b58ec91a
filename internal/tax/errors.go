// Package tax implements progressive tax computation: brackets, claim
// strategies, deduction and credit rules, the single-jurisdiction schedule
// pipeline, and the regime-level aggregation across jurisdictions.
package tax

import "fmt"

// Kind identifies one of the tax-specific error conditions.
type Kind int

const (
	// MismatchedCurrencies is raised by bracket or schedule construction
	// across incompatible currencies.
	MismatchedCurrencies Kind = iota
	// CouldNotFindDeduction is raised when a deduction rule's Apply is
	// called with a claim whose identifier does not match the rule.
	CouldNotFindDeduction
	// CouldNotFindCredit is the credit-rule counterpart of CouldNotFindDeduction.
	CouldNotFindCredit
	// ClaimDidNotMatchStrategy is raised when a claimed amount fails its
	// strategy's validation.
	ClaimDidNotMatchStrategy
	// ThereAreNoBrackets is raised when a marginal rate is requested from
	// a schedule with no brackets.
	ThereAreNoBrackets
	// NoSchedules is raised when a calculation is requested on an empty
	// regime.
	NoSchedules
	// InvalidBracketSet is raised by schedule construction when two
	// brackets share a Min value.
	InvalidBracketSet
	// InvalidRatio is raised at construction when a bracket rate or a
	// capital-gains inclusion rate is not a well-formed decimal for its
	// purpose.
	InvalidRatio
)

func (k Kind) String() string {
	switch k {
	case MismatchedCurrencies:
		return "mismatched currencies"
	case CouldNotFindDeduction:
		return "could not find deduction"
	case CouldNotFindCredit:
		return "could not find credit"
	case ClaimDidNotMatchStrategy:
		return "claim did not match strategy"
	case ThereAreNoBrackets:
		return "there are no brackets"
	case NoSchedules:
		return "regime has no schedules"
	case InvalidBracketSet:
		return "invalid bracket set"
	case InvalidRatio:
		return "invalid ratio"
	default:
		return "unknown error"
	}
}

// Error is the error type every fallible tax operation returns.
type Error struct {
	Kind Kind
	msg  string
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel returns a zero-message *Error of the given kind for errors.Is comparisons.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
