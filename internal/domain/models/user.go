package models

import (
	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

// User is a party that can observe bookings. Role-specific data lives in
// the optional profile fields; a single factory builds all three kinds.
type User struct {
	ID   uuid.UUID
	Name string
	Role types.Role

	// Driver only
	CarID *uuid.UUID

	// Customer only
	Contact string
	Address string
}

type Car struct {
	ID          uuid.UUID
	Type        types.CarType
	Description string
}

// Payment is the billing record generated when a trip completes.
// Owned by the billing collaborator, not by the lifecycle.
type Payment struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Method      types.PaymentMethod
	TotalAmount float64
}

// Rating is the post-trip feedback record.
type Rating struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	DriverID   uuid.UUID
	Points     int // 1..5
	Feedback   string
}

type ChatMessage struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	SenderID  uuid.UUID
	Text      string
}
