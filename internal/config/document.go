// Package config loads a tax regime from a YAML document: exchange rates,
// one or more tax schedules (brackets, deductions, credits, inclusion
// rate), and an income/claim worksheet.
//
// The parser reads the file, unmarshals it with gopkg.in/yaml.v3,
// validates the result, and normalizes it, wrapping every failure with
// fmt.Errorf's %w so the underlying cause survives.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/taxengine/taxengine/internal/currency"
	"github.com/taxengine/taxengine/internal/money"
	"github.com/taxengine/taxengine/internal/tax"
)

// MoneyYAML is a YAML-friendly stand-in for money.Money: decimal.Decimal
// already round-trips through yaml.v3 via its text marshaling methods, but
// Currency does not, so this mirrors it with a plain currency code string.
type MoneyYAML struct {
	Amount   decimal.Decimal `yaml:"amount"`
	Currency string          `yaml:"currency"`
}

func (m MoneyYAML) toMoney() money.Money {
	return money.New(m.Amount, currency.New(m.Currency))
}

// BracketYAML is one tax bracket in a schedule document. Max is a pointer
// so an absent key means "open-ended top bracket".
type BracketYAML struct {
	Min  MoneyYAML       `yaml:"min"`
	Max  *MoneyYAML      `yaml:"max,omitempty"`
	Rate decimal.Decimal `yaml:"rate"`
}

// ClaimStrategyYAML is a tagged-union encoding of tax.ClaimStrategy: Kind
// selects the variant, and only that variant's field is read ("exact",
// "min" or "max", or both "range_min" and "range_max" for a range).
type ClaimStrategyYAML struct {
	Kind    string     `yaml:"kind"` // "exact", "range", "min", "max"
	Exact   *MoneyYAML `yaml:"exact,omitempty"`
	RangeLo *MoneyYAML `yaml:"range_min,omitempty"`
	RangeHi *MoneyYAML `yaml:"range_max,omitempty"`
	Min     *MoneyYAML `yaml:"min,omitempty"`
	Max     *MoneyYAML `yaml:"max,omitempty"`
}

func (c ClaimStrategyYAML) toStrategy() (tax.ClaimStrategy, error) {
	switch c.Kind {
	case "exact":
		if c.Exact == nil {
			return tax.ClaimStrategy{}, fmt.Errorf("claim strategy kind %q requires \"exact\"", c.Kind)
		}
		return tax.NewExactAmountStrategy(c.Exact.toMoney()), nil
	case "range":
		if c.RangeLo == nil || c.RangeHi == nil {
			return tax.ClaimStrategy{}, fmt.Errorf("claim strategy kind %q requires \"range_min\" and \"range_max\"", c.Kind)
		}
		return tax.NewRangeStrategy(c.RangeLo.toMoney(), c.RangeHi.toMoney()), nil
	case "min":
		if c.Min == nil {
			return tax.ClaimStrategy{}, fmt.Errorf("claim strategy kind %q requires \"min\"", c.Kind)
		}
		return tax.NewMinStrategy(c.Min.toMoney()), nil
	case "max":
		if c.Max == nil {
			return tax.ClaimStrategy{}, fmt.Errorf("claim strategy kind %q requires \"max\"", c.Kind)
		}
		return tax.NewMaxStrategy(c.Max.toMoney()), nil
	default:
		return tax.ClaimStrategy{}, fmt.Errorf("unknown claim strategy kind %q", c.Kind)
	}
}

// DeductionRuleYAML is one named deduction rule.
type DeductionRuleYAML struct {
	Identifier string            `yaml:"identifier"`
	Strategy   ClaimStrategyYAML `yaml:"strategy"`
}

// CreditRuleYAML is one named credit rule.
type CreditRuleYAML struct {
	Identifier string            `yaml:"identifier"`
	Strategy   ClaimStrategyYAML `yaml:"strategy"`
	Refundable bool              `yaml:"refundable"`
}

// ScheduleYAML is one jurisdiction's schedule.
type ScheduleYAML struct {
	Identifier                string              `yaml:"identifier"`
	Currency                  string              `yaml:"currency"`
	CapitalGainsInclusionRate decimal.Decimal     `yaml:"capital_gains_inclusion_rate"`
	Brackets                  []BracketYAML       `yaml:"brackets"`
	Deductions                []DeductionRuleYAML `yaml:"deductions"`
	Credits                   []CreditRuleYAML    `yaml:"credits"`
}

// ExchangeRateYAML is one directed (or bidirectional) exchange rate entry.
type ExchangeRateYAML struct {
	From    string          `yaml:"from"`
	To      string          `yaml:"to"`
	Rate    decimal.Decimal `yaml:"rate"`
	Inverse bool            `yaml:"set_inverse,omitempty"`
}

// IncomeYAML is one income stream in the worksheet.
type IncomeYAML struct {
	Kind   string    `yaml:"kind"` // "employment" or "capital_gains"
	Amount MoneyYAML `yaml:"amount"`
}

// ClaimYAML is one deduction or credit claim in the worksheet.
type ClaimYAML struct {
	Identifier string    `yaml:"identifier"`
	Amount     MoneyYAML `yaml:"amount"`
}

// RegimeDocument is the top-level YAML shape this package loads: a set of
// exchange rates and an ordered list of schedules composing a tax.Regime,
// plus a worksheet of incomes and claims to run against it.
type RegimeDocument struct {
	ExchangeRates []ExchangeRateYAML `yaml:"exchange_rates"`
	Schedules     []ScheduleYAML     `yaml:"schedules"`
	Incomes       []IncomeYAML       `yaml:"incomes"`
	Deductions    []ClaimYAML        `yaml:"deduction_claims"`
	Credits       []ClaimYAML        `yaml:"credit_claims"`
}

// Parser loads and validates RegimeDocuments.
type Parser struct{}

// NewParser returns a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// LoadFromFile reads a YAML regime document from filename.
func (p *Parser) LoadFromFile(filename string) (*RegimeDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var doc RegimeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := p.validate(&doc); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	p.normalize(&doc)

	return &doc, nil
}

func (p *Parser) validate(doc *RegimeDocument) error {
	if len(doc.Schedules) == 0 {
		return fmt.Errorf("document must declare at least one schedule")
	}
	for _, schedule := range doc.Schedules {
		if schedule.Identifier == "" {
			return fmt.Errorf("schedule is missing an identifier")
		}
		if len(schedule.Brackets) == 0 {
			return fmt.Errorf("schedule %q has no brackets", schedule.Identifier)
		}
	}
	return nil
}

// normalize sorts each schedule's deduction and credit rule lists so a
// document re-saved after loading is deterministic.
func (p *Parser) normalize(doc *RegimeDocument) {
	for i := range doc.Schedules {
		schedule := &doc.Schedules[i]
		sort.Slice(schedule.Deductions, func(a, b int) bool {
			return schedule.Deductions[a].Identifier < schedule.Deductions[b].Identifier
		})
		sort.Slice(schedule.Credits, func(a, b int) bool {
			return schedule.Credits[a].Identifier < schedule.Credits[b].Identifier
		})
	}
}
