package http

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"roundup/internal/core"
)

// parseInput is one raw transaction of the parse operation.
type parseInput struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// validatorRequest is the body of the validator operation.
type validatorRequest struct {
	Wage         decimal.Decimal    `json:"wage"`
	Transactions []core.Transaction `json:"transactions"`
}

// filterRequest is the body of the filter operation.
type filterRequest struct {
	Q            []core.FixedRuleSpec `json:"q"`
	P            []core.ExtraRuleSpec `json:"p"`
	K            []core.WindowSpec    `json:"k"`
	Wage         decimal.Decimal      `json:"wage"`
	Transactions []core.Transaction   `json:"transactions"`
}

// partitionResponse carries the valid/invalid split of the validator and
// filter operations.
type partitionResponse struct {
	Valid   []core.Transaction `json:"valid"`
	Invalid []core.Transaction `json:"invalid"`
}

// returnsRequest is the body of both returns operations.
type returnsRequest struct {
	Age          int                  `json:"age"`
	Wage         decimal.Decimal      `json:"wage"`
	Inflation    decimal.Decimal      `json:"inflation"`
	Q            []core.FixedRuleSpec `json:"q"`
	P            []core.ExtraRuleSpec `json:"p"`
	K            []core.WindowSpec    `json:"k"`
	Transactions []core.Transaction   `json:"transactions"`
}

// Validate checks the scalar fields of a returns request.
func (r returnsRequest) Validate() error {
	var problems []string

	if r.Age < 18 || r.Age > 100 {
		problems = append(problems, fmt.Sprintf("age %d out of range [18, 100]", r.Age))
	}
	if r.Wage.IsNegative() {
		problems = append(problems, "wage must be non-negative")
	}
	if r.Inflation.IsNegative() {
		problems = append(problems, "inflation must be non-negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid request: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (r returnsRequest) toInput() core.ReturnsInput {
	return core.ReturnsInput{
		Age:          r.Age,
		Wage:         r.Wage,
		Inflation:    r.Inflation,
		Q:            r.Q,
		P:            r.P,
		K:            r.K,
		Transactions: r.Transactions,
	}
}
