package types

import "strings"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusRequested BookingStatus = "REQUESTED"
	StatusAssigned  BookingStatus = "ASSIGNED"
	StatusEnRoute   BookingStatus = "EN_ROUTE"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) String() string {
	return string(s)
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(in string) (BookingStatus, error) {
	s := BookingStatus(strings.ToUpper(strings.TrimSpace(in)))
	if s.Valid() {
		return s, nil
	}
	return "", ErrInvalidInput
}

// Valid reports whether the status is one of the known constants.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusAssigned, StatusEnRoute, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the edge s -> next is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusRequested:
		return next == StatusAssigned || next == StatusCancelled

	case StatusAssigned:
		return next == StatusEnRoute || next == StatusCancelled

	case StatusEnRoute:
		return next == StatusCompleted || next == StatusCancelled

	case StatusCompleted, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal reports whether no further transitions are permitted.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether a driver is in motion for this booking,
// i.e. location updates are accepted.
func (s BookingStatus) Active() bool {
	return s == StatusAssigned || s == StatusEnRoute
}
