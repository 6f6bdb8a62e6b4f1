// Package core implements the round-up savings engine: monetary rounding,
// remanent calculation, tax brackets, date-range rule resolution,
// transaction validation and compound returns projection.
//
// The package is stateless and request-scoped aside from two bounded
// memoization caches (date parsing, tax calculation); every exported
// operation is a pure function of its inputs.
package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rejection messages attached to invalid transactions.
const (
	MsgNegativeAmount = "Negative amounts are not allowed"
	MsgDuplicate      = "Duplicate transaction"
)

var (
	// ErrBadDate marks a timestamp that does not match DateLayout.
	// It is a request-level input error, not a per-row data-quality issue.
	ErrBadDate = errors.New("invalid date format, expected YYYY-MM-DD HH:MM:SS")

	// ErrBracketTable marks a corrupted tax bracket table. It indicates a
	// broken invariant and fails the whole request.
	ErrBracketTable = errors.New("tax bracket table corrupted")
)

// Transaction is a dated monetary movement enriched with its round-up
// complement. Ceiling = Amount + Remanent is established at parse time;
// Remanent is replaced by rule resolution on the filter and returns paths.
type Transaction struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Ceiling  decimal.Decimal `json:"ceiling"`
	Remanent decimal.Decimal `json:"remanent"`

	// InKPeriod reports whether the transaction falls inside any supplied
	// inclusion window. Only the filter operation sets it.
	InKPeriod *bool `json:"inkPeriod,omitempty"`

	// Message carries the rejection reason for invalid transactions.
	Message string `json:"message,omitempty"`
}

// FixedRuleSpec is a fixed-override period (Q): during [Start, End] the
// remanent is replaced wholesale by Fixed.
type FixedRuleSpec struct {
	Fixed decimal.Decimal `json:"fixed"`
	Start string          `json:"start"`
	End   string          `json:"end"`
}

// ExtraRuleSpec is an additive period (P): during [Start, End] Extra is
// added to the remanent. Overlapping P rules apply cumulatively.
type ExtraRuleSpec struct {
	Extra decimal.Decimal `json:"extra"`
	Start string          `json:"start"`
	End   string          `json:"end"`
}

// WindowSpec is an inclusion window (K) used to bucket transactions for
// aggregation. Windows may overlap; each is evaluated independently.
type WindowSpec struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
