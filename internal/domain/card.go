package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardSuccessCountNegative is returned when a card's success count
	// is below zero.
	ErrCardSuccessCountNegative = errors.New("card success count cannot be negative")
)

// Card represents a single flashcard together with its spaced-repetition
// scheduling state. SuccessCount is the number of consecutive successful
// reviews since the last failure (or since creation); DueDate is the earliest
// moment the card should be offered for review again.
type Card struct {
	ID           uuid.UUID `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Tags         []string  `json:"tags"`
	SuccessCount int       `json:"success_count"`
	DueDate      time.Time `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCard creates a new Card with the given question, answer and tags.
// It generates a new UUID for the card ID and sets the creation timestamp.
// Scheduling fields (SuccessCount, DueDate) are left at their zero values;
// the caller is expected to apply the scheduler's creation rule before
// persisting. Returns an error if validation fails.
func NewCard(question, answer string, tags []string, now time.Time) (*Card, error) {
	card := &Card{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		Tags:      normalizeTags(tags),
		CreatedAt: now.UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Question == "" {
		return ErrCardQuestionEmpty
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	if c.SuccessCount < 0 {
		return ErrCardSuccessCountNegative
	}

	return nil
}

// HasTag reports whether the card carries the given tag.
// Matching is exact and case-sensitive.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// normalizeTags returns a non-nil copy of tags so that cards always
// serialize with a JSON array, never null.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
