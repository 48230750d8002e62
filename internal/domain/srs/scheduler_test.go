package srs

import (
	"testing"
	"time"
)

func TestOnCreate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := OnCreate(now)

	if s.SuccessCount != 0 {
		t.Errorf("Expected success count 0, got %d", s.SuccessCount)
	}

	expected := now.Add(30 * time.Minute)
	if !s.DueDate.Equal(expected) {
		t.Errorf("Expected due date %v, got %v", expected, s.DueDate)
	}

	// A new card must not be immediately due.
	if !s.DueDate.After(now) {
		t.Errorf("Expected due date after creation time, got %v", s.DueDate)
	}
}

func TestOnSuccess(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		current       Schedule
		expectedCount int
		expectedDue   time.Time
	}{
		{
			name:          "First success moves to one day",
			current:       Schedule{SuccessCount: 0, DueDate: now},
			expectedCount: 1,
			expectedDue:   now.Add(24 * time.Hour),
		},
		{
			name:          "Third success moves to seven days",
			current:       Schedule{SuccessCount: 2, DueDate: now},
			expectedCount: 3,
			expectedDue:   now.Add(7 * 24 * time.Hour),
		},
		{
			name:          "Success at the top keeps the yearly interval",
			current:       Schedule{SuccessCount: 7, DueDate: now},
			expectedCount: 7,
			expectedDue:   now.Add(365 * 24 * time.Hour),
		},
		{
			name:          "Interval is measured from now, not the old due date",
			current:       Schedule{SuccessCount: 0, DueDate: now.Add(-48 * time.Hour)},
			expectedCount: 1,
			expectedDue:   now.Add(24 * time.Hour),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := OnSuccess(tc.current, now)

			if got.SuccessCount != tc.expectedCount {
				t.Errorf("Expected success count %d, got %d", tc.expectedCount, got.SuccessCount)
			}
			if !got.DueDate.Equal(tc.expectedDue) {
				t.Errorf("Expected due date %v, got %v", tc.expectedDue, got.DueDate)
			}
		})
	}
}

func TestOnFailure(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		current Schedule
	}{
		{
			name:    "Failure on a fresh card",
			current: Schedule{SuccessCount: 0, DueDate: now},
		},
		{
			name:    "Failure wipes accumulated progress",
			current: Schedule{SuccessCount: 6, DueDate: now.Add(120 * 24 * time.Hour)},
		},
		{
			name:    "Failure at the top of the table",
			current: Schedule{SuccessCount: 7, DueDate: now.Add(365 * 24 * time.Hour)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := OnFailure(tc.current, now)

			if got.SuccessCount != 0 {
				t.Errorf("Expected success count 0, got %d", got.SuccessCount)
			}

			expected := now.Add(30 * time.Minute)
			if !got.DueDate.Equal(expected) {
				t.Errorf("Expected due date %v, got %v", expected, got.DueDate)
			}
		})
	}
}

func TestOnSetDueDate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	current := Schedule{SuccessCount: 4, DueDate: now.Add(14 * 24 * time.Hour)}

	// Future override keeps the counter.
	future := now.Add(90 * 24 * time.Hour)
	got := OnSetDueDate(current, future)
	if got.SuccessCount != 4 {
		t.Errorf("Expected success count 4, got %d", got.SuccessCount)
	}
	if !got.DueDate.Equal(future) {
		t.Errorf("Expected due date %v, got %v", future, got.DueDate)
	}

	// A past due date is accepted as-is and makes the card immediately due.
	past := now.Add(-24 * time.Hour)
	got = OnSetDueDate(current, past)
	if !got.DueDate.Equal(past) {
		t.Errorf("Expected due date %v, got %v", past, got.DueDate)
	}
	if got.SuccessCount != current.SuccessCount {
		t.Errorf("Expected success count unchanged at %d, got %d",
			current.SuccessCount, got.SuccessCount)
	}
}

func TestSuccessThenFailureRoundTrip(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	s := OnCreate(now)
	for i := 0; i < 5; i++ {
		s = OnSuccess(s, now)
	}
	if s.SuccessCount != 5 {
		t.Fatalf("Expected success count 5 after five successes, got %d", s.SuccessCount)
	}

	s = OnFailure(s, now)
	if s.SuccessCount != 0 {
		t.Errorf("Expected success count reset to 0, got %d", s.SuccessCount)
	}
	if !s.DueDate.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("Expected due date 30 minutes out, got %v", s.DueDate)
	}
}
