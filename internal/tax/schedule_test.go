package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
)

func threeBracketSchedule(t *testing.T) *Schedule {
	t.Helper()
	low, err := NewBracket(cad(0), cadPtr(10000), decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mid, err := NewBracket(cad(10000), cadPtr(20000), decimal.NewFromFloat(0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := NewBracket(cad(20000), nil, decimal.NewFromFloat(0.3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schedule, err := NewSchedule("TEST", []Bracket{low, mid, high}, currency.CAD, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return schedule
}

func TestSchedule_ThreeBracketProgressive(t *testing.T) {
	schedule := threeBracketSchedule(t)

	tests := []struct {
		name    string
		incomes []Income
		want    Calculation
	}{
		{
			name:    "25000 employment",
			incomes: []Income{NewEmploymentIncome(cad(25000))},
			want:    NewLiability(cad(4500)),
		},
		{
			name:    "25000 employment + 5000 capital gains",
			incomes: []Income{NewEmploymentIncome(cad(25000)), NewCapitalGainsIncome(cad(5000))},
			want:    NewLiability(cad(5250)),
		},
		{
			name:    "15000 employment",
			incomes: []Income{NewEmploymentIncome(cad(15000))},
			want:    NewLiability(cad(2000)),
		},
		{
			name:    "5000 employment",
			incomes: []Income{NewEmploymentIncome(cad(5000))},
			want:    NewLiability(cad(500)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schedule.Calculate(tt.incomes, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.want.Kind || !got.Amount.Equal(tt.want.Amount) {
				t.Errorf("Calculate() = %v %s, want %v %s", got.Kind, got.Amount, tt.want.Kind, tt.want.Amount)
			}
		})
	}
}

func TestSchedule_SingleBracket(t *testing.T) {
	closedBracket, err := NewBracket(cad(0), cadPtr(10000), decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed, err := NewSchedule("TEST", []Bracket{closedBracket}, currency.CAD, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := closed.Calculate([]Income{NewEmploymentIncome(cad(10000))}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Liability || !got.Amount.Equal(cad(1000)) {
		t.Errorf("closed bracket result = %v %s, want Liability 1000", got.Kind, got.Amount)
	}

	openBracket, err := NewBracket(cad(0), nil, decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, err := NewSchedule("TEST", []Bracket{openBracket}, currency.CAD, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = open.Calculate([]Income{NewEmploymentIncome(cad(10000)), NewCapitalGainsIncome(cad(10000))}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Liability || !got.Amount.Equal(cad(1500)) {
		t.Errorf("open bracket result = %v %s, want Liability 1500", got.Kind, got.Amount)
	}
}

func TestSchedule_MismatchedCurrencies(t *testing.T) {
	usdMax := money.New(decimal.NewFromInt(10000), currency.USD)
	_, err := NewBracket(cad(0), &usdMax, decimal.NewFromFloat(0.1))
	if err == nil {
		t.Fatal("expected MismatchedCurrencies from bracket construction")
	}

	validBracket, err := NewBracket(money.New(decimal.Zero, currency.USD), nil, decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = NewSchedule("TEST", []Bracket{validBracket}, currency.CAD, decimal.NewFromFloat(0.5))
	if err == nil {
		t.Fatal("expected MismatchedCurrencies from schedule construction")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != MismatchedCurrencies {
		t.Fatalf("expected MismatchedCurrencies, got %v", err)
	}
}

func TestNewSchedule_RejectsNonPositiveInclusionRate(t *testing.T) {
	bracket, err := NewBracket(cad(0), nil, decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rate := range []decimal.Decimal{decimal.Zero, decimal.NewFromFloat(-0.5)} {
		_, err := NewSchedule("TEST", []Bracket{bracket}, currency.CAD, rate)
		if err == nil {
			t.Fatalf("expected InvalidRatio for inclusion rate %s", rate)
		}
		terr, ok := err.(*Error)
		if !ok || terr.Kind != InvalidRatio {
			t.Fatalf("expected InvalidRatio, got %v", err)
		}
	}
}

func TestSchedule_CrossCurrencyIncomeFails(t *testing.T) {
	schedule := threeBracketSchedule(t)
	incomes := []Income{
		NewEmploymentIncome(cad(10000)),
		NewEmploymentIncome(money.New(decimal.NewFromInt(5000), currency.USD)),
	}

	_, err := schedule.Calculate(incomes, nil, nil)
	if err == nil {
		t.Fatal("expected MismatchedCurrencies for a USD stream on a CAD schedule")
	}
	merr, ok := err.(*money.Error)
	if !ok || merr.Kind != money.MismatchedCurrencies {
		t.Fatalf("expected MismatchedCurrencies, got %v", err)
	}

	if _, err := schedule.DetermineMarginalRate(incomes, nil); err == nil {
		t.Fatal("expected MismatchedCurrencies from the marginal rate as well")
	}
}

func TestSchedule_DeductionStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy ClaimStrategy
		claim    int64
		wantErr  bool
		want     int64
	}{
		{"max 5000, claim 5000", NewMaxStrategy(cad(5000)), 5000, false, 3000},
		{"max 5000, claim 2500", NewMaxStrategy(cad(5000)), 2500, false, 3750},
		{"max 5000, claim 6000", NewMaxStrategy(cad(5000)), 6000, true, 0},
		{"min 5000, claim 5000", NewMinStrategy(cad(5000)), 5000, false, 3000},
		{"min 5000, claim 6000", NewMinStrategy(cad(5000)), 6000, false, 2800},
		{"min 5000, claim 4000", NewMinStrategy(cad(5000)), 4000, true, 0},
		{"exact 5000, claim 5000", NewExactAmountStrategy(cad(5000)), 5000, false, 3000},
		{"exact 5000, claim 4000", NewExactAmountStrategy(cad(5000)), 4000, true, 0},
		{"range 2500-5000, claim 5000", NewRangeStrategy(cad(2500), cad(5000)), 5000, false, 3000},
		{"range 2500-5000, claim 2500", NewRangeStrategy(cad(2500), cad(5000)), 2500, false, 3750},
		{"range 2500-5000, claim 6000", NewRangeStrategy(cad(2500), cad(5000)), 6000, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := threeBracketSchedule(t)
			schedule.AddDeduction(DeductionRule{Identifier: "RRSP", Strategy: tt.strategy})

			claims := []DeductionClaim{{Identifier: "RRSP", Amount: cad(tt.claim)}}
			got, err := schedule.Calculate([]Income{NewEmploymentIncome(cad(25000))}, claims, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected ClaimDidNotMatchStrategy, got result %v", got)
				}
				terr, ok := err.(*Error)
				if !ok || terr.Kind != ClaimDidNotMatchStrategy {
					t.Fatalf("expected ClaimDidNotMatchStrategy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != Liability || !got.Amount.Equal(cad(tt.want)) {
				t.Errorf("Calculate() = %v %s, want Liability %d", got.Kind, got.Amount, tt.want)
			}
		})
	}
}

func TestSchedule_CreditRefundability(t *testing.T) {
	schedule := threeBracketSchedule(t)
	schedule.AddDeduction(DeductionRule{Identifier: "RRSP_EXACT", Strategy: NewExactAmountStrategy(cad(5000))})

	deductionClaims := []DeductionClaim{{Identifier: "RRSP_EXACT", Amount: cad(5000)}}
	incomes := []Income{NewEmploymentIncome(cad(25000))}

	t.Run("refundable credit yields a large refund", func(t *testing.T) {
		schedule := threeBracketSchedule(t)
		schedule.AddDeduction(DeductionRule{Identifier: "RRSP_EXACT", Strategy: NewExactAmountStrategy(cad(5000))})
		schedule.AddCredit(CreditRule{Identifier: "BIG_CREDIT", Strategy: NewExactAmountStrategy(cad(25000)), Refundable: true})

		creditClaims := []CreditClaim{{Identifier: "BIG_CREDIT", Amount: cad(25000)}}
		got, err := schedule.Calculate(incomes, deductionClaims, creditClaims)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Kind != Refund || !got.Amount.Equal(cad(22000)) {
			t.Errorf("Calculate() = %v %s, want Refund 22000", got.Kind, got.Amount)
		}
	})

	t.Run("non-refundable credit forfeits the excess", func(t *testing.T) {
		schedule := threeBracketSchedule(t)
		schedule.AddDeduction(DeductionRule{Identifier: "RRSP_EXACT", Strategy: NewExactAmountStrategy(cad(5000))})
		schedule.AddCredit(CreditRule{Identifier: "BIG_CREDIT", Strategy: NewExactAmountStrategy(cad(25000)), Refundable: false})

		creditClaims := []CreditClaim{{Identifier: "BIG_CREDIT", Amount: cad(25000)}}
		got, err := schedule.Calculate(incomes, deductionClaims, creditClaims)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Kind != Refund || !got.Amount.IsZero() {
			t.Errorf("Calculate() = %v %s, want Refund 0", got.Kind, got.Amount)
		}
	})
}

// Gross tax must be monotonic non-decreasing in taxable income.
func TestSchedule_MonotonicTax(t *testing.T) {
	schedule := threeBracketSchedule(t)
	incomeLevels := []int64{0, 5000, 9999, 10000, 15000, 19999, 20000, 25000, 1000000}

	var previous money.Money
	for i, level := range incomeLevels {
		result, err := schedule.Calculate([]Income{NewEmploymentIncome(cad(level))}, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if i > 0 && result.Amount.Less(previous) {
			t.Errorf("tax at income %d (%s) is less than tax at income %d (%s)", level, result.Amount, incomeLevels[i-1], previous)
		}
		previous = result.Amount
	}
}

func TestSchedule_UnknownClaims_SilentlyIgnored(t *testing.T) {
	schedule := threeBracketSchedule(t)
	deductionClaims := []DeductionClaim{{Identifier: "UNKNOWN", Amount: cad(1000000)}}
	creditClaims := []CreditClaim{{Identifier: "ALSO_UNKNOWN", Amount: cad(1000000)}}

	got, err := schedule.Calculate([]Income{NewEmploymentIncome(cad(25000))}, deductionClaims, creditClaims)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Liability || !got.Amount.Equal(cad(4500)) {
		t.Errorf("unknown claims should be ignored, got %v %s", got.Kind, got.Amount)
	}
}

func TestSchedule_DetermineMarginalRate(t *testing.T) {
	schedule := threeBracketSchedule(t)

	tests := []struct {
		name   string
		income int64
		want   float64
	}{
		{"in lowest bracket", 5000, 0.1},
		{"in middle bracket", 15000, 0.2},
		{"in top bracket", 25000, 0.3},
		{"at a bracket boundary", 10000, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := schedule.DetermineMarginalRate([]Income{NewEmploymentIncome(cad(tt.income))}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rate.Equal(decimal.NewFromFloat(tt.want)) {
				t.Errorf("DetermineMarginalRate(%d) = %s, want %v", tt.income, rate, tt.want)
			}
		})
	}
}

func TestSchedule_DetermineMarginalRate_NoBrackets(t *testing.T) {
	schedule, err := NewSchedule("EMPTY", nil, currency.CAD, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = schedule.DetermineMarginalRate([]Income{NewEmploymentIncome(cad(1000))}, nil)
	if err == nil {
		t.Fatal("expected ThereAreNoBrackets")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != ThereAreNoBrackets {
		t.Fatalf("expected ThereAreNoBrackets, got %v", err)
	}
}

// Zero gross tax with only unrecognized credits yields a zero-valued
// Refund or Liability.
func TestSchedule_ZeroTaxUnrecognizedCredits(t *testing.T) {
	bracket, err := NewBracket(cad(0), nil, decimal.NewFromFloat(0.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schedule, err := NewSchedule("TEST", []Bracket{bracket}, currency.CAD, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := schedule.Calculate([]Income{NewEmploymentIncome(cad(0))}, nil, []CreditClaim{{Identifier: "NOPE", Amount: cad(100)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Amount.IsZero() {
		t.Errorf("expected zero-valued outcome, got %v %s", got.Kind, got.Amount)
	}
}
