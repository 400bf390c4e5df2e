package rating

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
)

// Service collects post-trip feedback. The lifecycle asks it to open a
// feedback slot when a trip completes; the customer submits later.
type Service struct {
	mu      sync.RWMutex
	pending map[uuid.UUID]models.Rating // keyed by booking id
	done    map[uuid.UUID]models.Rating

	log logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{
		pending: make(map[uuid.UUID]models.Rating),
		done:    make(map[uuid.UUID]models.Rating),
		log:     log,
	}
}

// RequestFeedback opens a feedback slot for a completed booking.
func (s *Service) RequestFeedback(ctx context.Context, b models.Booking) error {
	if b.DriverID == nil {
		return fmt.Errorf("%w: completed booking has no driver", types.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.done[b.ID]; ok {
		return nil
	}

	s.pending[b.ID] = models.Rating{
		ID:         uuid.New(),
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		DriverID:   *b.DriverID,
	}

	s.log.Info(ctx, "feedback requested", "customer_id", b.CustomerID)

	return nil
}

// Submit records the customer's rating for a booking whose feedback was
// requested. Points outside 1..5 are rejected.
func (s *Service) Submit(ctx context.Context, bookingID uuid.UUID, points int, feedback string) error {
	if points < 1 || points > 5 {
		return types.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.pending[bookingID]
	if !ok {
		return types.ErrNotFound
	}

	r.Points = points
	r.Feedback = feedback
	delete(s.pending, bookingID)
	s.done[bookingID] = r

	s.log.Info(ctx, "rating submitted", "points", points)

	return nil
}

// Get returns the submitted rating for a booking.
func (s *Service) Get(bookingID uuid.UUID) (models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.done[bookingID]
	if !ok {
		return models.Rating{}, types.ErrNotFound
	}
	return r, nil
}
