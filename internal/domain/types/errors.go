package types

import "errors"

var (
	// ErrInvalidInput - malformed request data, rejected before any state mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - unknown booking or observer id, no side effect.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidTransition - state machine rule violation, current state unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrDriverNotFound = errors.New("driver not found")
	ErrDriverAssigned = errors.New("driver already assigned")
	ErrInvalidRole    = errors.New("invalid observer role")
	ErrHubClosed      = errors.New("notification hub is closed")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)
