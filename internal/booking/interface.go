package booking

import (
	"context"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
)

// Billing generates the bill for a completed trip. Invoked
// fire-and-forget: its failure never affects the booking's state.
type Billing interface {
	GenerateBill(ctx context.Context, b models.Booking) error
}

// Ratings asks the customer for post-trip feedback. Same contract as
// Billing: best-effort, out of the lifecycle's control.
type Ratings interface {
	RequestFeedback(ctx context.Context, b models.Booking) error
}

// Journal is an append-only audit of transitions and location updates,
// kept outside the in-memory authority (e.g. in postgres).
type Journal interface {
	BookingCreated(ctx context.Context, b models.Booking, loc models.LocationRecord) error
	StatusChanged(ctx context.Context, b models.Booking) error
	LocationChanged(ctx context.Context, bookingID uuid.UUID, c models.Coordinate) error
}

type noopJournal struct{}

func (noopJournal) BookingCreated(context.Context, models.Booking, models.LocationRecord) error {
	return nil
}
func (noopJournal) StatusChanged(context.Context, models.Booking) error { return nil }
func (noopJournal) LocationChanged(context.Context, uuid.UUID, models.Coordinate) error {
	return nil
}

// NoopJournal returns a Journal that records nothing, for wirings
// without a database.
func NoopJournal() Journal {
	return noopJournal{}
}
