package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/booking"
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/pkg/logger"
)

var (
	origin      = models.Coordinate{Latitude: 43.238949, Longitude: 76.889709}
	destination = models.Coordinate{Latitude: 43.352072, Longitude: 77.040508}
	midway      = models.Coordinate{Latitude: 43.295000, Longitude: 76.960000}
)

// capture records every event the tracker publishes.
type capture struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (c *capture) Publish(_ context.Context, event models.NotificationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capture) last() (models.NotificationEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return models.NotificationEvent{}, false
	}
	return c.events[len(c.events)-1], true
}

func newTestTracker(t *testing.T) (*Tracker, *booking.Service, *booking.Store, *capture) {
	t.Helper()

	log := logger.InitLogger("tracker-test", logger.LevelError)
	h := hub.New(log, hub.Options{})
	t.Cleanup(func() { h.Close(context.Background()) })

	store := booking.NewStore()
	svc := booking.NewService(store, h, nil, nil, nil, log)

	cap := &capture{}
	return NewTracker(store, cap, nil, log), svc, store, cap
}

func TestUpdateCurrentGatedByStatus(t *testing.T) {
	tracker, svc, store, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, uuid.New(), origin, destination, 25)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// REQUESTED: no driver in motion yet.
	if err := tracker.UpdateCurrent(ctx, id, midway); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition in REQUESTED, got %v", err)
	}

	if err := svc.AssignDriver(ctx, id, uuid.New()); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := tracker.UpdateCurrent(ctx, id, midway); err != nil {
		t.Fatalf("update in ASSIGNED: %v", err)
	}

	store.View(id, func(_ models.Booking, loc models.LocationRecord) {
		if !loc.Current.Equal(midway) {
			t.Errorf("current coordinate not stored")
		}
	})

	if err := svc.StartTrip(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.CompleteTrip(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Terminal: updates rejected again, stored coordinate untouched.
	if err := tracker.UpdateCurrent(ctx, id, destination); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition in COMPLETED, got %v", err)
	}
	store.View(id, func(_ models.Booking, loc models.LocationRecord) {
		if !loc.Current.Equal(midway) {
			t.Errorf("rejected update mutated the coordinate")
		}
	})
}

func TestUpdateCurrentUnknownBooking(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	if err := tracker.UpdateCurrent(context.Background(), uuid.New(), midway); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown booking, got %v", err)
	}
}

// (0, 0) is a real position on the globe, not a missing coordinate.
func TestUpdateCurrentAcceptsZeroCoordinate(t *testing.T) {
	tracker, svc, store, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, uuid.New(), origin, destination, 25)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AssignDriver(ctx, id, uuid.New()); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := tracker.UpdateCurrent(ctx, id, models.Coordinate{}); err != nil {
		t.Fatalf("update to (0, 0): %v", err)
	}

	store.View(id, func(_ models.Booking, loc models.LocationRecord) {
		if !loc.Current.Equal(models.Coordinate{}) {
			t.Errorf("zero coordinate not stored")
		}
	})
}

func TestUpdateCurrentPublishesWithStatusContext(t *testing.T) {
	tracker, svc, _, cap := newTestTracker(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, uuid.New(), origin, destination, 25)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AssignDriver(ctx, id, uuid.New()); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := tracker.UpdateCurrent(ctx, id, midway); err != nil {
		t.Fatalf("update: %v", err)
	}

	event, ok := cap.last()
	if !ok {
		t.Fatal("no event published")
	}
	if event.Kind != types.EventLocationChanged {
		t.Fatalf("event kind = %s", event.Kind)
	}
	if event.Status != types.StatusAssigned {
		t.Fatalf("event status = %s, want ASSIGNED", event.Status)
	}
	if event.Coordinate == nil || !event.Coordinate.Equal(midway) {
		t.Fatalf("event coordinate mismatch")
	}
}

func TestGetSnapshot(t *testing.T) {
	tracker, svc, _, _ := newTestTracker(t)
	ctx := context.Background()

	customerID := uuid.New()
	id, err := svc.Create(ctx, customerID, origin, destination, 25)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := tracker.GetSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.BookingID != id || snap.CustomerID != customerID {
		t.Fatalf("snapshot identity mismatch")
	}
	if snap.Status != types.StatusRequested {
		t.Fatalf("snapshot status = %s", snap.Status)
	}
	if !snap.Current.Equal(origin) {
		t.Fatalf("fresh booking current coordinate must equal origin")
	}

	if _, err := tracker.GetSnapshot(ctx, uuid.New()); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// feedRecorder subscribes to the hub itself, so assertions run against
// the delivered stream rather than the tracker's publish calls.
type feedRecorder struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *feedRecorder) Notify(_ context.Context, event models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *feedRecorder) snapshot() []models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Location updates raced against the completing transition: a coordinate
// accepted while the trip was live must be delivered before the terminal
// status event, never after it.
func TestLocationEventsNeverTrailTerminalStatus(t *testing.T) {
	ctx := context.Background()

	for range 20 {
		log := logger.InitLogger("tracker-test", logger.LevelError)
		h := hub.New(log, hub.Options{})
		t.Cleanup(func() { h.Close(context.Background()) })

		store := booking.NewStore()
		svc := booking.NewService(store, h, nil, nil, nil, log)
		tracker := NewTracker(store, h, nil, log)

		id, err := svc.Create(ctx, uuid.New(), origin, destination, 25)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := svc.AssignDriver(ctx, id, uuid.New()); err != nil {
			t.Fatalf("assign: %v", err)
		}
		if err := svc.StartTrip(ctx, id); err != nil {
			t.Fatalf("start: %v", err)
		}

		rec := &feedRecorder{}
		if err := h.Subscribe(ctx, id, uuid.New(), types.RoleOperator, rec); err != nil {
			t.Fatalf("subscribe: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if err := tracker.UpdateCurrent(ctx, id, midway); err != nil {
					// The booking turned terminal under us.
					return
				}
			}
		}()

		if err := svc.CompleteTrip(ctx, id); err != nil {
			t.Fatalf("complete: %v", err)
		}
		<-done

		deadline := time.Now().Add(2 * time.Second)
		for {
			events := rec.snapshot()
			var terminalAt = -1
			for i, event := range events {
				if event.Kind == types.EventStatusChanged && event.Status.Terminal() {
					terminalAt = i
					continue
				}
				if terminalAt >= 0 {
					t.Fatalf("event %d (%s) delivered after the terminal status", i, event.Kind)
				}
			}
			if terminalAt >= 0 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("terminal status event never delivered")
			}
			time.Sleep(time.Millisecond)
		}
	}
}
