package booking

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
)

// Service is the booking lifecycle: the sole authority over a booking's
// status. Every transition is serialized per booking by the store,
// validated against the status graph, and announced through the hub.
type Service struct {
	store   *Store
	hub     *hub.Hub
	billing Billing
	ratings Ratings
	journal Journal
	log     logger.Logger

	seq atomic.Int64 // booking number sequence
}

func NewService(store *Store, h *hub.Hub, billing Billing, ratings Ratings, journal Journal, log logger.Logger) *Service {
	if journal == nil {
		journal = NoopJournal()
	}
	return &Service{
		store:   store,
		hub:     h,
		billing: billing,
		ratings: ratings,
		journal: journal,
		log:     log,
	}
}

// Create allocates a new booking in REQUESTED state with its location
// record, current coordinate set to the origin.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, origin, destination models.Coordinate, travelTimeMin int) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "create_booking")

	if customerID == uuid.Nil {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("%w: customer id is required", types.ErrInvalidInput))
	}
	if origin.Equal(destination) {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("%w: origin and destination must differ", types.ErrInvalidInput))
	}
	if travelTimeMin < 0 {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("%w: travel time must not be negative", types.ErrInvalidInput))
	}

	now := time.Now().UTC()
	b := models.Booking{
		ID:            uuid.New(),
		BookingNumber: s.nextBookingNumber(now),
		Status:        types.StatusRequested,
		CustomerID:    customerID,
		TravelTimeMin: travelTimeMin,
		CreatedAt:     now,
	}
	loc := models.LocationRecord{
		ID:          uuid.New(),
		BookingID:   b.ID,
		Origin:      origin,
		Destination: destination,
		Current:     origin,
		UpdatedAt:   now,
	}

	s.store.Add(b, loc)
	s.hub.Register(b.ID)

	metrics.ActiveBookingsGauge.Inc()
	metrics.BookingsTotal.WithLabelValues(b.Status.String()).Inc()

	ctx = wrap.WithBookingID(ctx, b.ID.String())
	if err := s.journal.BookingCreated(ctx, b, loc); err != nil {
		s.log.Error(ctx, "failed to journal booking creation", err)
	}

	s.log.Info(ctx, "booking created",
		"booking_number", b.BookingNumber,
		"customer_id", customerID,
	)

	return b.ID, nil
}

// AssignDriver transitions REQUESTED -> ASSIGNED and sets the driver.
func (s *Service) AssignDriver(ctx context.Context, bookingID, driverID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "assign_driver")

	if driverID == uuid.Nil {
		return wrap.Error(ctx, fmt.Errorf("%w: driver id is required", types.ErrInvalidInput))
	}

	return s.transition(ctx, bookingID, types.StatusAssigned, func(b *models.Booking) error {
		now := time.Now().UTC()
		b.DriverID = &driverID
		b.AssignedAt = &now
		return nil
	}, "")
}

// StartTrip transitions ASSIGNED -> EN_ROUTE.
func (s *Service) StartTrip(ctx context.Context, bookingID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "start_trip")

	return s.transition(ctx, bookingID, types.StatusEnRoute, func(b *models.Booking) error {
		now := time.Now().UTC()
		b.StartedAt = &now
		return nil
	}, "")
}

// CompleteTrip transitions EN_ROUTE -> COMPLETED and hands the finished
// booking to the billing and rating collaborators. Their failures are
// logged only; the booking is already terminal.
func (s *Service) CompleteTrip(ctx context.Context, bookingID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "complete_trip")

	var completed models.Booking
	err := s.transition(ctx, bookingID, types.StatusCompleted, func(b *models.Booking) error {
		now := time.Now().UTC()
		b.CompletedAt = &now
		completed = *b
		return nil
	}, "")
	if err != nil {
		return err
	}

	go s.invokeCollaborators(completed)

	return nil
}

// Cancel transitions any non-terminal state to CANCELLED.
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error {
	ctx = wrap.WithAction(ctx, "cancel_booking")

	return s.transition(ctx, bookingID, types.StatusCancelled, func(b *models.Booking) error {
		now := time.Now().UTC()
		b.CancelledAt = &now
		if reason != "" {
			b.CancellationReason = &reason
		}
		return nil
	}, reason)
}

// transition applies one edge of the status graph. The store's Mutate
// keeps it atomic and per-booking serialized. The event is enqueued
// before the entry lock is released, so a later transition can never
// slip its event in ahead of this one: subscribers observe status
// changes in commit order.
func (s *Service) transition(ctx context.Context, bookingID uuid.UUID, next types.BookingStatus, apply func(b *models.Booking) error, reason string) error {
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	err := s.store.Mutate(bookingID, func(b *models.Booking, _ *models.LocationRecord) error {
		if !b.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, b.Status, next)
		}
		b.Status = next
		if err := apply(b); err != nil {
			return err
		}

		// Journal and publish failures never roll the transition back.
		if err := s.journal.StatusChanged(ctx, *b); err != nil {
			s.log.Error(ctx, "failed to journal status change", err)
		}

		event := models.NotificationEvent{
			Kind:      types.EventStatusChanged,
			BookingID: bookingID,
			Status:    next,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		}
		if err := s.hub.Publish(ctx, event); err != nil {
			s.log.Error(ctx, "failed to publish status event", err)
		}

		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	metrics.BookingsTotal.WithLabelValues(next.String()).Inc()
	if next.Terminal() {
		metrics.ActiveBookingsGauge.Dec()
	}

	s.log.Info(ctx, "booking status changed", "status", next.String())

	return nil
}

func (s *Service) invokeCollaborators(b models.Booking) {
	ctx := wrap.WithAction(context.Background(), "post_trip_collaborators")
	ctx = wrap.WithBookingID(ctx, b.ID.String())

	if s.billing != nil {
		if err := s.billing.GenerateBill(ctx, b); err != nil {
			s.log.Error(ctx, "billing collaborator failed", err)
		}
	}
	if s.ratings != nil {
		if err := s.ratings.RequestFeedback(ctx, b); err != nil {
			s.log.Error(ctx, "rating collaborator failed", err)
		}
	}
}

func (s *Service) nextBookingNumber(now time.Time) string {
	return fmt.Sprintf("BOOK_%s_%03d", now.Format("20060102"), s.seq.Add(1))
}
