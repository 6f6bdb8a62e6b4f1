package core

import (
	"fmt"
	"time"

	"roundup/internal/cache"
)

// DateLayout is the only accepted timestamp format, on input and output.
const DateLayout = "2006-01-02 15:04:05"

// Parsed timestamps are memoized: the same date strings recur across rule
// sets and transaction streams within and across requests.
var dateCache = cache.NewLRUCache[time.Time](10000, time.Hour)

// Memos exposes the package's memoization caches so the entrypoint can
// register them for periodic expiry sweeps. Entries are droppable at any
// time; sweeping only reclaims memory between bursts of traffic.
func Memos() []cache.Cleaner {
	return []cache.Cleaner{dateCache, taxCache}
}

// ParseDate parses a timestamp in DateLayout. Results are cached by the
// exact input string; a mismatched string fails with ErrBadDate naming
// the offending value.
func ParseDate(s string) (time.Time, error) {
	return dateCache.GetOrCompute(s, func() (time.Time, error) {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrBadDate)
		}
		return t, nil
	})
}
