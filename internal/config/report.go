package config

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/tax"
)

var decimal100 = decimal.NewFromInt(100)

// FormatResult renders a tax.Result as a human-readable CLI report. It is
// the only place outside internal/money and internal/currency that calls
// into the currency-metadata collaborator: purely for display, never on
// the calculation path.
func FormatResult(result *tax.Result) string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "TAX CALCULATION RESULT")
	fmt.Fprintln(&buf, "======================")
	fmt.Fprintln(&buf)

	identifiers := make([]string, 0, len(result.ScheduleResults))
	for id := range result.ScheduleResults {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	for _, id := range identifiers {
		calc := result.ScheduleResults[id]
		fmt.Fprintf(&buf, "  %-20s %-10s %s\n", id, outcomeLabel(calc), currency.Format(calc.Amount.Currency, calc.Amount.Amount))
	}

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "  %-20s %-10s %s\n", "TOTAL", outcomeLabel(result.Total), currency.Format(result.Total.Amount.Currency, result.Total.Amount.Amount))
	fmt.Fprintf(&buf, "  Marginal rate: %s%%\n", result.MarginalTaxRate.Mul(decimal100))
	fmt.Fprintf(&buf, "  Average rate:  %s%%\n", result.AverageTaxRate.Mul(decimal100))

	return buf.String()
}

func outcomeLabel(calc tax.Calculation) string {
	if calc.Kind == tax.Refund {
		return "Refund"
	}
	return "Liability"
}
