package models

import (
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

// Coordinate is an opaque latitude/longitude pair updated externally.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Equal(other Coordinate) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

type Booking struct {
	ID            uuid.UUID
	BookingNumber string
	Status        types.BookingStatus
	CustomerID    uuid.UUID
	DriverID      *uuid.UUID // nil until assignment

	// Requested travel time estimate in minutes.
	TravelTimeMin int

	// Cancellation reason, present only on cancelled bookings.
	CancellationReason *string

	// Lifecycle timestamps
	CreatedAt   time.Time
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// LocationRecord holds the coordinate data for one booking, 1:1.
// Origin and destination never change after creation; the current
// coordinate is mutated through the tracker only.
type LocationRecord struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Origin      Coordinate
	Destination Coordinate
	Current     Coordinate
	UpdatedAt   time.Time
}

// Snapshot is a consistent read-only view of a booking and its location.
type Snapshot struct {
	BookingID     uuid.UUID           `json:"booking_id"`
	BookingNumber string              `json:"booking_number"`
	Status        types.BookingStatus `json:"status"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	DriverID      *uuid.UUID          `json:"driver_id,omitempty"`
	Origin        Coordinate          `json:"origin"`
	Destination   Coordinate          `json:"destination"`
	Current       Coordinate          `json:"current"`
	TravelTimeMin int                 `json:"travel_time_min"`
}
