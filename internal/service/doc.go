// Package service contains orchestration logic between the HTTP layer and
// the stores: card and document lifecycle operations and bulk
// backup/restore. The review workflow lives in the nested review package.
package service
