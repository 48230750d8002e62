// Package srs implements the spaced-repetition core: the fixed interval
// table, the scheduling state machine that maps review events to new due
// dates, and the due-card selector. All functions are pure; the current time
// is always passed in explicitly and persistence is left to the caller.
package srs
