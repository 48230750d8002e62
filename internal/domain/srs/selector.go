package srs

import (
	"strings"
	"time"

	"github.com/mwhitby/recall-api/internal/domain"
)

// NextDue picks the single next card to review from the given collection:
// the card with the smallest due date, ties broken by lexically smallest ID
// so repeated calls over the same input are deterministic.
//
// Cards that are not yet due remain eligible. When nothing is strictly due
// the globally earliest-due card is still returned rather than "nothing":
// being due affects only ordering, never eligibility, and it is fine to be
// handed cards ahead of schedule. Returns nil only when the collection is
// empty.
//
// now is accepted so callers thread an explicit clock through every
// scheduling call; selection itself never filters on it.
func NextDue(cards []*domain.Card, now time.Time) *domain.Card {
	var best *domain.Card
	for _, c := range cards {
		if c == nil {
			continue
		}
		if best == nil || dueBefore(c, best) {
			best = c
		}
	}
	return best
}

// NextDueByTag is NextDue restricted to cards carrying the given tag.
// Tag matching is exact and case-sensitive. Returns nil when no card in the
// collection carries the tag.
func NextDueByTag(cards []*domain.Card, tag string, now time.Time) *domain.Card {
	var best *domain.Card
	for _, c := range cards {
		if c == nil || !c.HasTag(tag) {
			continue
		}
		if best == nil || dueBefore(c, best) {
			best = c
		}
	}
	return best
}

// dueBefore reports whether a should be served before b: earlier due date
// first, smaller ID on equal due dates.
func dueBefore(a, b *domain.Card) bool {
	if a.DueDate.Before(b.DueDate) {
		return true
	}
	if b.DueDate.Before(a.DueDate) {
		return false
	}
	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}
