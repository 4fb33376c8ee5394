// Package apperr defines sentinel errors shared across slovnik services.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrMissingHeadword aborts reconciliation of a single word; it must
	// never abort the surrounding batch.
	ErrMissingHeadword = errors.New("word record has no headword")

	// ErrNoEndpoints is returned by the analyzer balancer when no server
	// URLs are configured.
	ErrNoEndpoints = errors.New("no analyzer endpoints configured")
)
