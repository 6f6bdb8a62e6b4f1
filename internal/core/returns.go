package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Preset fixes the growth-modeling parameters of a returns endpoint.
type Preset struct {
	Name       string
	AnnualRate float64
	TaxBenefit bool
}

// The two supported presets. NPS contributions are tax-deductible; Index
// investments are not, so their responses omit the tax benefit entirely.
var (
	PresetNPS   = Preset{Name: "nps", AnnualRate: 0.0711, TaxBenefit: true}
	PresetIndex = Preset{Name: "index", AnnualRate: 0.1449, TaxBenefit: false}
)

const (
	retirementAge = 60
	minYears      = 5
)

var (
	twelve           = decimal.NewFromInt(12)
	deductionRate    = decimal.RequireFromString("0.10")
	deductionCeiling = decimal.RequireFromString("200000")
)

// ReturnsInput is the full payload of a returns computation.
type ReturnsInput struct {
	Age          int
	Wage         decimal.Decimal
	Inflation    decimal.Decimal
	Q            []FixedRuleSpec
	P            []ExtraRuleSpec
	K            []WindowSpec
	Transactions []Transaction
}

// SavingsByDate is the projection for one inclusion window. TaxBenefit is
// nil when the preset has no tax benefit; absence distinguishes "not
// applicable" from "computed as zero".
type SavingsByDate struct {
	Start      string           `json:"start"`
	End        string           `json:"end"`
	Amount     decimal.Decimal  `json:"amount"`
	Profit     decimal.Decimal  `json:"profit"`
	TaxBenefit *decimal.Decimal `json:"taxBenefit,omitempty"`
}

// ReturnsResult aggregates the accepted transactions and the per-window
// projections.
type ReturnsResult struct {
	TotalTransactionAmount decimal.Decimal `json:"totalTransactionAmount"`
	TotalCeiling           decimal.Decimal `json:"totalCeiling"`
	SavingsByDates         []SavingsByDate `json:"savingsByDates"`
}

// InvestmentYears is the projection horizon for a caller of the given
// age: years to retirement with a floor of 5, so ages at or beyond 60
// never produce a degenerate horizon.
func InvestmentYears(age int) int {
	years := retirementAge - age
	if years < minYears {
		return minYears
	}
	return years
}

// compound is the single sanctioned float64 crossing: exponentiation for
// compound growth runs in binary floating point and callers immediately
// reconvert to decimal and round before exposing any value.
func compound(amount, rate, inflationPercent float64, years int) (futureValue, realValue float64) {
	futureValue = amount * math.Pow(1.0+rate, float64(years))
	realValue = futureValue / math.Pow(1.0+inflationPercent/100.0, float64(years))
	return futureValue, realValue
}

type resolvedTransaction struct {
	at       time.Time
	remanent decimal.Decimal
}

// ComputeReturns runs the full returns pipeline for one preset: compile
// all rule timestamps once, accept transactions with non-negative amounts
// and unseen dates (silently skipping the rest), resolve each accepted
// remanent against the Q/P rules, then project every K window's aggregate
// to its inflation-adjusted real value and, for tax-benefit presets, the
// tax saved by deducting the contribution.
func ComputeReturns(in ReturnsInput, preset Preset) (*ReturnsResult, error) {
	fixed, err := CompileFixedRules(in.Q)
	if err != nil {
		return nil, err
	}
	extras, err := CompileExtraRules(in.P)
	if err != nil {
		return nil, err
	}
	windows, err := CompileWindows(in.K)
	if err != nil {
		return nil, err
	}

	accepted := make([]resolvedTransaction, 0, len(in.Transactions))
	seen := make(map[string]struct{}, len(in.Transactions))
	totalAmount := decimal.Zero
	totalCeiling := decimal.Zero

	for _, tx := range in.Transactions {
		if tx.Amount.IsNegative() || dateSeen(seen, tx.Date) {
			continue
		}
		seen[tx.Date] = struct{}{}

		at, err := ParseDate(tx.Date)
		if err != nil {
			return nil, err
		}

		accepted = append(accepted, resolvedTransaction{
			at:       at,
			remanent: ResolveRemanent(at, tx.Remanent, fixed, extras),
		})
		totalAmount = totalAmount.Add(tx.Amount)
		totalCeiling = totalCeiling.Add(tx.Ceiling)
	}

	yearlyIncome := in.Wage.Mul(twelve)
	years := InvestmentYears(in.Age)
	inflation, _ := in.Inflation.Float64()

	savings := make([]SavingsByDate, 0, len(windows))
	for _, window := range windows {
		amount := decimal.Zero
		for _, tx := range accepted {
			if window.Contains(tx.at) {
				amount = amount.Add(tx.remanent)
			}
		}

		periodAmount, _ := amount.Float64()
		_, realValue := compound(periodAmount, preset.AnnualRate, inflation, years)
		profit := Round2(decimal.NewFromFloat(realValue).Sub(amount))

		var taxBenefit *decimal.Decimal
		if preset.TaxBenefit {
			deduction := decimal.Min(amount, deductionRate.Mul(yearlyIncome), deductionCeiling)
			baseTax, err := Tax(yearlyIncome)
			if err != nil {
				return nil, err
			}
			reducedTax, err := Tax(yearlyIncome.Sub(deduction))
			if err != nil {
				return nil, err
			}
			benefit := Round2(baseTax.Sub(reducedTax))
			taxBenefit = &benefit
		}

		savings = append(savings, SavingsByDate{
			Start:      window.StartRaw,
			End:        window.EndRaw,
			Amount:     Round2(amount),
			Profit:     profit,
			TaxBenefit: taxBenefit,
		})
	}

	return &ReturnsResult{
		TotalTransactionAmount: Round2(totalAmount),
		TotalCeiling:           Round2(totalCeiling),
		SavingsByDates:         savings,
	}, nil
}
