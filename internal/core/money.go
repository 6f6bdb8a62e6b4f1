package core

import "github.com/shopspring/decimal"

func init() {
	// Monetary fields serialize as JSON numbers with 2 fraction digits,
	// not as quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// Round2 quantizes to 2 fraction digits with half rounding away from zero.
// Every monetary value is passed through it before leaving the package.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Remanent computes the round-up-to-next-100 complement of amount.
// Exact multiples of 100 yield 0, not 100. Amount must be non-negative;
// negative inputs are rejected upstream by validation.
func Remanent(amount decimal.Decimal) decimal.Decimal {
	return Round2(hundred.Sub(amount.Mod(hundred)).Mod(hundred))
}

// Enrich builds a transaction from its raw date and amount, deriving the
// remanent and the rounded-up ceiling.
func Enrich(date string, amount decimal.Decimal) Transaction {
	remanent := Remanent(amount)
	return Transaction{
		Date:     date,
		Amount:   amount,
		Ceiling:  amount.Add(remanent),
		Remanent: remanent,
	}
}
