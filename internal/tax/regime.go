package tax

import (
	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
)

// Regime is an ordered composition of schedules evaluated together, e.g.
// federal + provincial. All schedules in a non-empty Regime share a
// currency; that shared currency is the regime's currency.
type Regime struct {
	schedules []*Schedule
}

// NewRegime returns an empty regime.
func NewRegime() *Regime {
	return &Regime{}
}

// AddSchedule appends a schedule to the regime's ordered list.
func (r *Regime) AddSchedule(schedule *Schedule) {
	r.schedules = append(r.schedules, schedule)
}

// Currency returns the regime's common currency and true, or false if the
// regime has no schedules yet.
func (r *Regime) Currency() (currency.Currency, bool) {
	if len(r.schedules) == 0 {
		return currency.Currency{}, false
	}
	return r.schedules[0].Currency, true
}

func routedDeductionClaims(claims []DeductionClaim, schedule *Schedule) []DeductionClaim {
	var routed []DeductionClaim
	for _, claim := range claims {
		if schedule.IsDeductionClaimValid(claim) {
			routed = append(routed, claim)
		}
	}
	return routed
}

func routedCreditClaims(claims []CreditClaim, schedule *Schedule) []CreditClaim {
	var routed []CreditClaim
	for _, claim := range claims {
		if schedule.IsCreditClaimValid(claim) {
			routed = append(routed, claim)
		}
	}
	return routed
}

// Result is the per-schedule and aggregate outcome of a regime calculation.
type Result struct {
	ScheduleResults map[string]Calculation
	Total           Calculation
	AverageTaxRate  decimal.Decimal
	MarginalTaxRate decimal.Decimal
}

// Calculate routes each claim to the schedule(s) that recognize its
// identifier, runs every schedule end-to-end against the full income list,
// and aggregates the results: Total is the signed sum of per-schedule
// calculations, MarginalTaxRate is the sum of each schedule's marginal
// rate, and AverageTaxRate is |total| / total pre-inclusion income.
// Calculating against an empty regime fails with NoSchedules.
func (r *Regime) Calculate(incomes []Income, deductionClaims []DeductionClaim, creditClaims []CreditClaim) (*Result, error) {
	curr, ok := r.Currency()
	if !ok {
		return nil, newError(NoSchedules, "cannot calculate tax on a regime with no schedules")
	}

	scheduleResults := make(map[string]Calculation, len(r.schedules))
	marginalRate := decimal.Zero
	total := NewLiability(money.Zero(curr))

	for _, schedule := range r.schedules {
		routedDeductions := routedDeductionClaims(deductionClaims, schedule)
		routedCredits := routedCreditClaims(creditClaims, schedule)

		result, err := schedule.Calculate(incomes, routedDeductions, routedCredits)
		if err != nil {
			return nil, err
		}
		scheduleResults[schedule.Identifier] = result
		total, err = total.CheckedAdd(result)
		if err != nil {
			return nil, err
		}

		rate, err := schedule.DetermineMarginalRate(incomes, routedDeductions)
		if err != nil {
			return nil, err
		}
		marginalRate = marginalRate.Add(rate)
	}

	totalIncome := money.Zero(curr)
	for _, income := range incomes {
		var err error
		totalIncome, err = totalIncome.CheckedAdd(income.Amount)
		if err != nil {
			return nil, err
		}
	}

	averageRate := decimal.Zero
	if !totalIncome.IsZero() {
		ratio, err := total.Amount.CheckedDiv(totalIncome)
		if err != nil {
			return nil, err
		}
		averageRate = ratio
	}

	return &Result{
		ScheduleResults: scheduleResults,
		Total:           total,
		AverageTaxRate:  averageRate,
		MarginalTaxRate: marginalRate,
	}, nil
}
