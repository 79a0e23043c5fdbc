package dto

import "errors"

var (
	// ErrNotFound marks lookups that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateVote is a normal outcome, not an infrastructure fault: the
	// (voter, entrant) pair already exists in the ledger.
	ErrDuplicateVote = errors.New("duplicate vote")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthorized marks callers without the required role.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInternalFailure wraps storage and broker faults. Callers must never
	// conflate it with ErrDuplicateVote.
	ErrInternalFailure = errors.New("internal failure")
)
