// Package postgres provides PostgreSQL implementations of the store
// interfaces, backed by database/sql with the pgx driver. Backend errors are
// mapped onto the store package's sentinel errors via MapError.
package postgres
