package engine

import "errors"

var (
	// ErrInvalidArgument marks operations rejected for malformed input
	// (non-positive capacity, priority, or an inverted user ID range).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks operations referencing a seat/user mapping that
	// does not exist in the expected state.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks operations that would violate the one-seat,
	// one-waitlist-slot-per-user invariant.
	ErrAlreadyExists = errors.New("already exists")
)
