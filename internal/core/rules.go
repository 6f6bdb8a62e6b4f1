package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedRule is a compiled fixed-override period. Ordinal is the rule's
// declaration index, used to break ties between rules sharing a start.
type FixedRule struct {
	Fixed   decimal.Decimal
	Start   time.Time
	End     time.Time
	Ordinal int
}

// ExtraRule is a compiled additive period.
type ExtraRule struct {
	Extra decimal.Decimal
	Start time.Time
	End   time.Time
}

// Window is a compiled inclusion window. The raw bounds are kept so
// responses can echo the caller's original strings.
type Window struct {
	Start    time.Time
	End      time.Time
	StartRaw string
	EndRaw   string
}

// Contains reports whether t falls inside the window. Bounds are closed
// on both ends, as for every interval in this package.
func (w Window) Contains(t time.Time) bool {
	return within(t, w.Start, w.End)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// CompileFixedRules parses the timestamps of the given specs once,
// preserving declaration order as the tie-break ordinal.
func CompileFixedRules(specs []FixedRuleSpec) ([]FixedRule, error) {
	rules := make([]FixedRule, 0, len(specs))
	for i, spec := range specs {
		start, err := ParseDate(spec.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseDate(spec.End)
		if err != nil {
			return nil, err
		}
		rules = append(rules, FixedRule{Fixed: spec.Fixed, Start: start, End: end, Ordinal: i})
	}
	return rules, nil
}

// CompileExtraRules parses the timestamps of the given additive specs.
func CompileExtraRules(specs []ExtraRuleSpec) ([]ExtraRule, error) {
	rules := make([]ExtraRule, 0, len(specs))
	for _, spec := range specs {
		start, err := ParseDate(spec.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseDate(spec.End)
		if err != nil {
			return nil, err
		}
		rules = append(rules, ExtraRule{Extra: spec.Extra, Start: start, End: end})
	}
	return rules, nil
}

// CompileWindows parses the timestamps of the given window specs.
func CompileWindows(specs []WindowSpec) ([]Window, error) {
	windows := make([]Window, 0, len(specs))
	for _, spec := range specs {
		start, err := ParseDate(spec.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseDate(spec.End)
		if err != nil {
			return nil, err
		}
		windows = append(windows, Window{Start: start, End: end, StartRaw: spec.Start, EndRaw: spec.End})
	}
	return windows, nil
}

// ResolveRemanent applies the date-range rules to a transaction's base
// remanent at the given instant.
//
// Among fixed-override rules containing the instant exactly one wins: the
// one with the latest start, ties broken by the highest ordinal. The
// winner's value replaces the base remanent wholesale. Every additive rule
// containing the instant then adds its extra cumulatively. Empty rule sets
// pass the base through unchanged. No rounding happens here; rounding is
// applied at the aggregation and output boundaries.
func ResolveRemanent(at time.Time, base decimal.Decimal, fixed []FixedRule, extras []ExtraRule) decimal.Decimal {
	remanent := base

	var winner *FixedRule
	for i := range fixed {
		rule := &fixed[i]
		if !within(at, rule.Start, rule.End) {
			continue
		}
		if winner == nil ||
			rule.Start.After(winner.Start) ||
			(rule.Start.Equal(winner.Start) && rule.Ordinal > winner.Ordinal) {
			winner = rule
		}
	}
	if winner != nil {
		remanent = winner.Fixed
	}

	for _, rule := range extras {
		if within(at, rule.Start, rule.End) {
			remanent = remanent.Add(rule.Extra)
		}
	}

	return remanent
}

// InAnyWindow reports whether the instant falls inside at least one of the
// supplied inclusion windows.
func InAnyWindow(at time.Time, windows []Window) bool {
	for _, w := range windows {
		if w.Contains(at) {
			return true
		}
	}
	return false
}
