package location

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/booking"
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
)

// Tracker owns the mutable current coordinate of every booking. Updates
// are accepted only while a driver is actually in motion and are
// announced through the hub; the announcement is fire-and-forget from
// the caller's point of view.
type Tracker struct {
	store   *booking.Store
	hub     Publisher
	journal booking.Journal
	log     logger.Logger
}

// Publisher is the slice of the notification hub the tracker needs.
type Publisher interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}

func NewTracker(store *booking.Store, h Publisher, journal booking.Journal, log logger.Logger) *Tracker {
	if journal == nil {
		journal = booking.NoopJournal()
	}
	return &Tracker{
		store:   store,
		hub:     h,
		journal: journal,
		log:     log,
	}
}

// UpdateCurrent moves the booking's current coordinate. Rejected with
// ErrInvalidTransition while the booking is REQUESTED or terminal:
// there is no driver in motion to report a position.
func (t *Tracker) UpdateCurrent(ctx context.Context, bookingID uuid.UUID, c models.Coordinate) error {
	ctx = wrap.WithAction(ctx, "update_location")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	err := t.store.Mutate(bookingID, func(b *models.Booking, loc *models.LocationRecord) error {
		if !b.Status.Active() {
			return fmt.Errorf("%w: booking is %s", types.ErrInvalidTransition, b.Status)
		}
		loc.Current = c
		loc.UpdatedAt = time.Now().UTC()

		// Announced while the entry lock is still held, so a status
		// transition racing with this update cannot enqueue its event
		// first and leave a stale coordinate trailing it. Journal and
		// publish failures never roll the update back.
		if err := t.journal.LocationChanged(ctx, bookingID, c); err != nil {
			t.log.Error(ctx, "failed to journal location update", err)
		}

		coord := c
		event := models.NotificationEvent{
			Kind:       types.EventLocationChanged,
			BookingID:  bookingID,
			Status:     b.Status,
			Coordinate: &coord,
			Timestamp:  time.Now().UTC(),
		}
		if err := t.hub.Publish(ctx, event); err != nil {
			t.log.Error(ctx, "failed to publish location event", err)
		}

		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	metrics.LocationUpdatesTotal.Inc()

	return nil
}

// GetSnapshot returns a consistent view of the booking's status and
// coordinates. Never fails for a known booking id.
func (t *Tracker) GetSnapshot(ctx context.Context, bookingID uuid.UUID) (models.Snapshot, error) {
	var snap models.Snapshot
	err := t.store.View(bookingID, func(b models.Booking, loc models.LocationRecord) {
		snap = models.Snapshot{
			BookingID:     b.ID,
			BookingNumber: b.BookingNumber,
			Status:        b.Status,
			CustomerID:    b.CustomerID,
			DriverID:      b.DriverID,
			Origin:        loc.Origin,
			Destination:   loc.Destination,
			Current:       loc.Current,
			TravelTimeMin: b.TravelTimeMin,
		}
	})
	if err != nil {
		return models.Snapshot{}, wrap.Error(ctx, err)
	}
	return snap, nil
}
