package models

import (
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

// NotificationEvent is a transient value produced by the lifecycle or the
// tracker and consumed within one delivery cycle. Exactly one of Status
// and Coordinate carries the payload, depending on Kind; Status is always
// filled with the booking status at emit time so role predicates can
// filter location updates without a second lookup.
type NotificationEvent struct {
	Kind       types.EventKind     `json:"kind"`
	BookingID  uuid.UUID           `json:"booking_id"`
	Status     types.BookingStatus `json:"status"`
	Coordinate *Coordinate         `json:"coordinate,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

/* ======================= rabbitmq ======================= */

type BookingStatusMessage struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	Status        string     `json:"status"`
	DriverID      *uuid.UUID `json:"driver_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	CorrelationID string     `json:"correlation_id"`
}

type BookingLocationMessage struct {
	BookingID     uuid.UUID `json:"booking_id"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id"`
}

/* ======================= Websocket ======================= */

// ObserverStatusUpdateDTO is the WebSocket frame pushed to a subscribed
// party when the booking status changes.
type ObserverStatusUpdateDTO struct {
	Type      string    `json:"type"` // "booking_status_update"
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ObserverLocationUpdateDTO is the WebSocket frame pushed to a subscribed
// party when the current coordinate changes.
type ObserverLocationUpdateDTO struct {
	Type      string     `json:"type"` // "booking_location_update"
	BookingID uuid.UUID  `json:"booking_id"`
	Location  Coordinate `json:"location"`
	Timestamp time.Time  `json:"timestamp"`
}
