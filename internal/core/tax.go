package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"roundup/internal/cache"
)

// Progressive tax schedule. The parallel tables are ordered by threshold;
// income below the first threshold is untaxed. An income exactly equal to
// a threshold falls into the bracket above it (bisect-right semantics).
var (
	taxThresholds = []decimal.Decimal{
		decimal.RequireFromString("700000"),
		decimal.RequireFromString("1000000"),
		decimal.RequireFromString("1200000"),
		decimal.RequireFromString("1500000"),
	}

	taxPrevThresholds = []decimal.Decimal{
		decimal.RequireFromString("0"),
		decimal.RequireFromString("700000"),
		decimal.RequireFromString("1000000"),
		decimal.RequireFromString("1200000"),
		decimal.RequireFromString("1500000"),
	}

	taxBase = []decimal.Decimal{
		decimal.RequireFromString("0"),
		decimal.RequireFromString("0"),
		decimal.RequireFromString("30000"),
		decimal.RequireFromString("60000"),
		decimal.RequireFromString("120000"),
	}

	taxRates = []decimal.Decimal{
		decimal.RequireFromString("0.0"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.15"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.30"),
	}
)

var taxCache = cache.NewLRUCache[decimal.Decimal](1024, time.Hour)

// Tax computes the progressive tax due on a yearly income, rounded to
// 2 fraction digits. Deterministic and memoized by exact input value.
func Tax(yearlyIncome decimal.Decimal) (decimal.Decimal, error) {
	return taxCache.GetOrCompute(yearlyIncome.String(), func() (decimal.Decimal, error) {
		n := len(taxThresholds)
		if len(taxPrevThresholds) != n+1 || len(taxBase) != n+1 || len(taxRates) != n+1 {
			return decimal.Decimal{}, fmt.Errorf("compute tax: %w", ErrBracketTable)
		}

		// Bracket index: count of thresholds <= income.
		idx := 0
		for _, threshold := range taxThresholds {
			if yearlyIncome.Cmp(threshold) < 0 {
				break
			}
			idx++
		}

		tax := taxBase[idx].Add(yearlyIncome.Sub(taxPrevThresholds[idx]).Mul(taxRates[idx]))
		return Round2(tax), nil
	})
}
