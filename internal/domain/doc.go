// Package domain contains the core business entities and domain logic of the
// application, independent of any specific infrastructure or delivery
// mechanism: flashcards with their spaced-repetition scheduling state, and
// knowledge-base documents.
package domain
