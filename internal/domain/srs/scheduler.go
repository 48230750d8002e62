package srs

import "time"

// Schedule is the scheduling slice of a card's state: the consecutive
// success counter and the resulting due date. Scheduler functions take and
// return Schedule values; they never touch storage.
type Schedule struct {
	SuccessCount int
	DueDate      time.Time
}

// OnCreate returns the schedule for a freshly created card: zero successes,
// due after the shortest interval. A new card is never immediately due.
func OnCreate(now time.Time) Schedule {
	return Schedule{
		SuccessCount: 0,
		DueDate:      now.Add(IntervalAt(0)),
	}
}

// OnSuccess advances the schedule one step after a successful review.
// The counter is capped at the top of the interval table, which keeps a
// fully-learned card on the longest interval indefinitely.
func OnSuccess(s Schedule, now time.Time) Schedule {
	next := s.SuccessCount + 1
	if next > Steps()-1 {
		next = Steps() - 1
	}
	return Schedule{
		SuccessCount: next,
		DueDate:      now.Add(IntervalAt(next)),
	}
}

// OnFailure resets the schedule after a failed review, regardless of prior
// progress. The card comes back after the shortest interval.
func OnFailure(s Schedule, now time.Time) Schedule {
	return Schedule{
		SuccessCount: 0,
		DueDate:      now.Add(IntervalAt(0)),
	}
}

// OnSetDueDate overrides the due date without touching the success counter.
// The value is passed through as-is: a past timestamp is allowed and makes
// the card immediately due.
func OnSetDueDate(s Schedule, due time.Time) Schedule {
	return Schedule{
		SuccessCount: s.SuccessCount,
		DueDate:      due,
	}
}
