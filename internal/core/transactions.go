package core

// Partition splits a transaction stream into valid and invalid sets in a
// single left-to-right pass. Negative amounts are rejected first, then
// duplicate dates (first occurrence wins), so a negative duplicate always
// reports the negative-amount reason. Both partitions preserve input
// order, and every input row lands in exactly one of them.
func Partition(transactions []Transaction) (valid, invalid []Transaction) {
	valid = make([]Transaction, 0, len(transactions))
	invalid = make([]Transaction, 0)
	seen := make(map[string]struct{}, len(transactions))

	for _, tx := range transactions {
		switch {
		case tx.Amount.IsNegative():
			tx.Message = MsgNegativeAmount
			invalid = append(invalid, tx)
		case dateSeen(seen, tx.Date):
			tx.Message = MsgDuplicate
			invalid = append(invalid, tx)
		default:
			seen[tx.Date] = struct{}{}
			valid = append(valid, tx)
		}
	}

	return valid, invalid
}

// Filter partitions like Partition and additionally resolves the
// date-range rules for every accepted transaction: the remanent is
// replaced by its rule-resolved value and InKPeriod reports membership in
// any inclusion window. Rejected rows never reach rule resolution.
// A malformed timestamp anywhere fails the whole call.
func Filter(q []FixedRuleSpec, p []ExtraRuleSpec, k []WindowSpec, transactions []Transaction) (valid, invalid []Transaction, err error) {
	fixed, err := CompileFixedRules(q)
	if err != nil {
		return nil, nil, err
	}
	extras, err := CompileExtraRules(p)
	if err != nil {
		return nil, nil, err
	}
	windows, err := CompileWindows(k)
	if err != nil {
		return nil, nil, err
	}

	valid = make([]Transaction, 0, len(transactions))
	invalid = make([]Transaction, 0)
	seen := make(map[string]struct{}, len(transactions))

	for _, tx := range transactions {
		if tx.Amount.IsNegative() {
			tx.Message = MsgNegativeAmount
			invalid = append(invalid, tx)
			continue
		}
		if dateSeen(seen, tx.Date) {
			tx.Message = MsgDuplicate
			invalid = append(invalid, tx)
			continue
		}
		seen[tx.Date] = struct{}{}

		at, err := ParseDate(tx.Date)
		if err != nil {
			return nil, nil, err
		}

		tx.Remanent = ResolveRemanent(at, tx.Remanent, fixed, extras)
		ink := InAnyWindow(at, windows)
		tx.InKPeriod = &ink
		valid = append(valid, tx)
	}

	return valid, invalid, nil
}

func dateSeen(seen map[string]struct{}, date string) bool {
	_, ok := seen[date]
	return ok
}
