package service

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds shared across services. Handlers map them onto HTTP statuses;
// services never leak storage-level errors through these.
var (
	// ErrUnauthenticated means no verifiable caller identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the caller lacks the role, status or ownership the
	// operation requires.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the operation was attempted from a state that
	// does not permit it, including transition races lost inside a
	// transaction.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrConflict means a duplicate action the model explicitly forbids.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument means a request parameter failed a semantic check
	// outside struct validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RateLimitError reports a cooldown that has not yet elapsed.
type RateLimitError struct {
	Action     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Action, e.RetryAfter)
}

// RetryAfterSeconds returns the wait rounded up to whole seconds, always at
// least one so clients never receive a zero back-off.
func (e *RateLimitError) RetryAfterSeconds() int {
	seconds := int((e.RetryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// Actor is the verified identity performing an operation. It is always built
// from the account store, never from client-supplied claims.
type Actor struct {
	ID     uint
	Role   string
	Status string
}
