package config

import (
	"fmt"

	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
	"github.com/taxengine/taxengine/internal/tax"
)

// BuildExchange constructs a money.Exchange from the document's rate
// entries, using SetRateAndInverse when Inverse is requested and SetRate
// otherwise.
func (doc *RegimeDocument) BuildExchange() (*money.Exchange, error) {
	exchange := money.NewExchange()
	for _, entry := range doc.ExchangeRates {
		from := currency.New(entry.From)
		to := currency.New(entry.To)
		var err error
		if entry.Inverse {
			err = exchange.SetRateAndInverse(from, to, entry.Rate)
		} else {
			err = exchange.SetRate(from, to, entry.Rate)
		}
		if err != nil {
			return nil, fmt.Errorf("exchange rate %s->%s: %w", entry.From, entry.To, err)
		}
	}
	return exchange, nil
}

// BuildRegime constructs a tax.Regime from the document's schedules, in
// declaration order.
func (doc *RegimeDocument) BuildRegime() (*tax.Regime, error) {
	regime := tax.NewRegime()
	for _, scheduleDoc := range doc.Schedules {
		schedule, err := scheduleDoc.build()
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", scheduleDoc.Identifier, err)
		}
		regime.AddSchedule(schedule)
	}
	return regime, nil
}

func (s ScheduleYAML) build() (*tax.Schedule, error) {
	curr := currency.New(s.Currency)

	brackets := make([]tax.Bracket, 0, len(s.Brackets))
	for _, b := range s.Brackets {
		var max *money.Money
		if b.Max != nil {
			m := b.Max.toMoney()
			max = &m
		}
		bracket, err := tax.NewBracket(b.Min.toMoney(), max, b.Rate)
		if err != nil {
			return nil, fmt.Errorf("bracket starting at %s: %w", b.Min.Amount, err)
		}
		brackets = append(brackets, bracket)
	}

	schedule, err := tax.NewSchedule(s.Identifier, brackets, curr, s.CapitalGainsInclusionRate)
	if err != nil {
		return nil, err
	}

	for _, d := range s.Deductions {
		strategy, err := d.Strategy.toStrategy()
		if err != nil {
			return nil, fmt.Errorf("deduction %q: %w", d.Identifier, err)
		}
		schedule.AddDeduction(tax.DeductionRule{Identifier: d.Identifier, Strategy: strategy})
	}

	for _, c := range s.Credits {
		strategy, err := c.Strategy.toStrategy()
		if err != nil {
			return nil, fmt.Errorf("credit %q: %w", c.Identifier, err)
		}
		schedule.AddCredit(tax.CreditRule{Identifier: c.Identifier, Strategy: strategy, Refundable: c.Refundable})
	}

	return schedule, nil
}

// BuildIncomes converts the document's income worksheet entries into
// tax.Income streams.
func (doc *RegimeDocument) BuildIncomes() ([]tax.Income, error) {
	incomes := make([]tax.Income, 0, len(doc.Incomes))
	for _, i := range doc.Incomes {
		switch i.Kind {
		case "employment":
			incomes = append(incomes, tax.NewEmploymentIncome(i.Amount.toMoney()))
		case "capital_gains":
			incomes = append(incomes, tax.NewCapitalGainsIncome(i.Amount.toMoney()))
		default:
			return nil, fmt.Errorf("unknown income kind %q", i.Kind)
		}
	}
	return incomes, nil
}

// BuildDeductionClaims converts the document's deduction-claim worksheet entries.
func (doc *RegimeDocument) BuildDeductionClaims() []tax.DeductionClaim {
	claims := make([]tax.DeductionClaim, 0, len(doc.Deductions))
	for _, c := range doc.Deductions {
		claims = append(claims, tax.DeductionClaim{Identifier: c.Identifier, Amount: c.Amount.toMoney()})
	}
	return claims
}

// BuildCreditClaims converts the document's credit-claim worksheet entries.
func (doc *RegimeDocument) BuildCreditClaims() []tax.CreditClaim {
	claims := make([]tax.CreditClaim, 0, len(doc.Credits))
	for _, c := range doc.Credits {
		claims = append(claims, tax.CreditClaim{Identifier: c.Identifier, Amount: c.Amount.toMoney()})
	}
	return claims
}
