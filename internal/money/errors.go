package money

import "fmt"

// Kind identifies one of the error conditions the money and exchange
// operations can raise.
type Kind int

const (
	// MismatchedCurrencies is raised by arithmetic, comparison, or
	// construction across two different currencies.
	MismatchedCurrencies Kind = iota
	// CouldNotFindExchangeRate is raised by a conversion that needs a rate
	// no one has set, between two distinct currencies.
	CouldNotFindExchangeRate
	// InvalidAmount is raised when an amount falls outside a permitted
	// range at a decimal boundary.
	InvalidAmount
	// InvalidRatio is raised when an exchange rate is not a positive
	// decimal. (A bad capital-gains inclusion rate is tax.InvalidRatio.)
	InvalidRatio
)

func (k Kind) String() string {
	switch k {
	case MismatchedCurrencies:
		return "mismatched currencies"
	case CouldNotFindExchangeRate:
		return "could not find exchange rate"
	case InvalidAmount:
		return "invalid amount"
	case InvalidRatio:
		return "invalid ratio"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every fallible money/exchange
// operation. Callers that need to branch on the failure mode compare
// Kind rather than parsing the message.
type Error struct {
	Kind Kind
	msg  string
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.msg }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, money.Sentinel(money.MismatchedCurrencies)) matches by Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel returns a zero-message *Error of the given kind, suitable for
// errors.Is comparisons, e.g. errors.Is(err, money.Sentinel(money.MismatchedCurrencies)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
