package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
)

// Service records a payment entry for each completed trip. Fare
// computation lives outside this module; the recorded amount is the
// flat per-minute rate times the planned travel time.
type Service struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]models.Payment // keyed by booking id

	ratePerMin float64
	log        logger.Logger
}

func NewService(ratePerMin float64, log logger.Logger) *Service {
	return &Service{
		payments:   make(map[uuid.UUID]models.Payment),
		ratePerMin: ratePerMin,
		log:        log,
	}
}

// GenerateBill creates the payment record for a completed booking.
// Idempotent per booking: a second call returns the existing record.
func (s *Service) GenerateBill(ctx context.Context, b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[b.ID]; ok {
		return nil
	}

	p := models.Payment{
		ID:          uuid.New(),
		BookingID:   b.ID,
		Method:      types.PaymentCash,
		TotalAmount: s.ratePerMin * float64(b.TravelTimeMin),
	}
	s.payments[b.ID] = p

	s.log.Info(ctx, "bill generated",
		"payment_id", p.ID,
		"amount", p.TotalAmount,
	)

	return nil
}

// Payment returns the payment record for a booking, if one exists.
func (s *Service) Payment(bookingID uuid.UUID) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[bookingID]
	if !ok {
		return models.Payment{}, types.ErrNotFound
	}
	return p, nil
}
