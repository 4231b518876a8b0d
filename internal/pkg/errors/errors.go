package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller acting on something it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks uniqueness violations and in-flight duplicates.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable wraps any failed read or write against a backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
