// Package review orchestrates the review workflow: selecting the next due
// card, applying success/failure outcomes and manual due-date overrides, and
// tracking the last served card so outcome calls can omit the card ID.
package review
