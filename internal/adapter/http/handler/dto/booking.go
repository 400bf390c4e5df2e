package dto

import (
	"fmt"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

type CoordinateDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c CoordinateDTO) Model() models.Coordinate {
	return models.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

func (c CoordinateDTO) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", types.ErrInvalidInput)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", types.ErrInvalidInput)
	}
	return nil
}

// CreateBookingRequest carries pointer coordinates so an omitted field
// is distinguishable from a coordinate that happens to be (0, 0).
type CreateBookingRequest struct {
	CustomerID    uuid.UUID      `json:"customer_id"`
	Origin        *CoordinateDTO `json:"origin"`
	Destination   *CoordinateDTO `json:"destination"`
	TravelTimeMin int            `json:"travel_time_min"`
}

func (r CreateBookingRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customer_id is required", types.ErrInvalidInput)
	}
	if r.Origin == nil {
		return fmt.Errorf("%w: origin is required", types.ErrInvalidInput)
	}
	if r.Destination == nil {
		return fmt.Errorf("%w: destination is required", types.ErrInvalidInput)
	}
	if err := r.Origin.Validate(); err != nil {
		return err
	}
	return r.Destination.Validate()
}

type CreateBookingResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	Status        string    `json:"status"`
}

type AssignDriverRequest struct {
	DriverID uuid.UUID `json:"driver_id"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type UpdateLocationRequest struct {
	Location *CoordinateDTO `json:"location"`
}

func (r UpdateLocationRequest) Validate() error {
	if r.Location == nil {
		return fmt.Errorf("%w: location is required", types.ErrInvalidInput)
	}
	return r.Location.Validate()
}

type WatchRequest struct {
	OperatorID uuid.UUID `json:"operator_id"`
}

type SubmitRatingRequest struct {
	Points   int    `json:"points"`
	Feedback string `json:"feedback"`
}

type ChatMessageRequest struct {
	SenderID uuid.UUID `json:"sender_id"`
	Text     string    `json:"text"`
}
