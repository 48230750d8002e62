// Package store defines the persistence interfaces consumed by the service
// layer, the shared database abstractions (DBTX, RunInTransaction) and the
// sentinel errors every store implementation maps its backend errors onto.
package store
