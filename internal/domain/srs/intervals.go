package srs

import "time"

const day = 24 * time.Hour

// intervals is the fixed spaced-repetition curve. A card's success count
// indexes into this table to find the gap until its next review: a fresh or
// failed card comes back in 30 minutes, a card at the top of the table stays
// on a yearly cycle.
var intervals = [...]time.Duration{
	day / 48, // 30 minutes
	1 * day,
	3 * day,
	7 * day,
	14 * day,
	30 * day,
	120 * day,
	365 * day,
}

// Steps returns the number of entries in the interval table.
func Steps() int {
	return len(intervals)
}

// IntervalAt returns the review interval for the given success count.
// The index is clamped into the table, so any count at or beyond the top
// keeps returning the longest interval.
func IntervalAt(successCount int) time.Duration {
	if successCount < 0 {
		successCount = 0
	}
	if successCount > len(intervals)-1 {
		successCount = len(intervals) - 1
	}
	return intervals[successCount]
}
