package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
)

func completedBooking() models.Booking {
	driverID := uuid.New()
	return models.Booking{
		ID:         uuid.New(),
		Status:     types.StatusCompleted,
		CustomerID: uuid.New(),
		DriverID:   &driverID,
	}
}

func TestSubmit(t *testing.T) {
	s := NewService(logger.InitLogger("rating-test", logger.LevelError))
	ctx := context.Background()

	b := completedBooking()
	if err := s.RequestFeedback(ctx, b); err != nil {
		t.Fatalf("request feedback: %v", err)
	}

	// Out-of-range points rejected.
	for _, points := range []int{0, -1, 6} {
		if err := s.Submit(ctx, b.ID, points, ""); !errors.Is(err, types.ErrInvalidRating) {
			t.Fatalf("points=%d: expected ErrInvalidRating, got %v", points, err)
		}
	}

	// Unknown booking rejected.
	if err := s.Submit(ctx, uuid.New(), 5, ""); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Submit(ctx, b.ID, 5, "clean car"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	r, err := s.Get(b.ID)
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if r.Points != 5 || r.Feedback != "clean car" {
		t.Fatalf("stored rating mismatch: %+v", r)
	}
	if r.CustomerID != b.CustomerID || r.DriverID != *b.DriverID {
		t.Fatalf("rating parties mismatch")
	}

	// A second submit needs a new feedback request.
	if err := s.Submit(ctx, b.ID, 1, ""); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for resubmit, got %v", err)
	}
}

func TestRequestFeedbackRequiresDriver(t *testing.T) {
	s := NewService(logger.InitLogger("rating-test", logger.LevelError))

	b := completedBooking()
	b.DriverID = nil
	if err := s.RequestFeedback(context.Background(), b); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
