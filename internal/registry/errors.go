package registry

import "errors"

var (
	// ErrInvalidInput reports a malformed code or destination URL. Caller
	// error, never retried.
	ErrInvalidInput = errors.New("registry: invalid input")
	// ErrConflict reports that the requested code is already taken.
	ErrConflict = errors.New("registry: code already exists")
	// ErrNotFound reports that no live link matches the code.
	ErrNotFound = errors.New("registry: link not found")
	// ErrUnavailable reports an underlying store failure. Infrastructure
	// errors are never masked as domain errors.
	ErrUnavailable = errors.New("registry: store unavailable")
	// ErrKeyspaceExhausted reports that code generation kept colliding past
	// the attempt bound.
	ErrKeyspaceExhausted = errors.New("registry: code space exhausted")
)
