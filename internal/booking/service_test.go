package booking

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/pkg/logger"
)

var (
	almaty  = models.Coordinate{Latitude: 43.238949, Longitude: 76.889709}
	airport = models.Coordinate{Latitude: 43.352072, Longitude: 77.040508}
)

func newTestService(t *testing.T) (*Service, *Store) {
	t.Helper()

	log := logger.InitLogger("booking-test", logger.LevelError)
	h := hub.New(log, hub.Options{})
	t.Cleanup(func() { h.Close(context.Background()) })

	store := NewStore()
	return NewService(store, h, nil, nil, nil, log), store
}

// newObservedService also exposes the hub so tests can subscribe a
// recorder and assert on the delivered event stream.
func newObservedService(t *testing.T) (*Service, *hub.Hub) {
	t.Helper()

	log := logger.InitLogger("booking-test", logger.LevelError)
	h := hub.New(log, hub.Options{})
	t.Cleanup(func() { h.Close(context.Background()) })

	return NewService(NewStore(), h, nil, nil, nil, log), h
}

type eventRecorder struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *eventRecorder) Notify(_ context.Context, event models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) snapshot() []models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func mustCreate(t *testing.T, s *Service) uuid.UUID {
	t.Helper()
	id, err := s.Create(context.Background(), uuid.New(), almaty, airport, 25)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return id
}

func status(t *testing.T, store *Store, id uuid.UUID) types.BookingStatus {
	t.Helper()
	var got types.BookingStatus
	if err := store.View(id, func(b models.Booking, _ models.LocationRecord) {
		got = b.Status
	}); err != nil {
		t.Fatalf("view booking: %v", err)
	}
	return got
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name          string
		customerID    uuid.UUID
		origin, dest  models.Coordinate
		travelTimeMin int
	}{
		{"nil customer", uuid.Nil, almaty, airport, 10},
		{"same origin and destination", uuid.New(), almaty, almaty, 10},
		{"same zero origin and destination", uuid.New(), models.Coordinate{}, models.Coordinate{}, 10},
		{"negative travel time", uuid.New(), almaty, airport, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Create(ctx, tc.customerID, tc.origin, tc.dest, tc.travelTimeMin); !errors.Is(err, types.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

// A coordinate of (0, 0) is a legitimate position, not an omitted one.
func TestCreateAtZeroCoordinate(t *testing.T) {
	s, store := newTestService(t)

	id, err := s.Create(context.Background(), uuid.New(), models.Coordinate{}, models.Coordinate{Latitude: 5, Longitude: 5}, 20)
	if err != nil {
		t.Fatalf("create with (0, 0) origin: %v", err)
	}

	store.View(id, func(b models.Booking, loc models.LocationRecord) {
		if b.Status != types.StatusRequested {
			t.Errorf("status = %s", b.Status)
		}
		if !loc.Origin.Equal(models.Coordinate{}) || !loc.Current.Equal(models.Coordinate{}) {
			t.Errorf("origin coordinate not preserved")
		}
	})
}

func TestFullLifecycle(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, s)
	if got := status(t, store, id); got != types.StatusRequested {
		t.Fatalf("fresh booking status = %s", got)
	}

	driverID := uuid.New()
	if err := s.AssignDriver(ctx, id, driverID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got := status(t, store, id); got != types.StatusAssigned {
		t.Fatalf("after assign status = %s", got)
	}

	if err := s.StartTrip(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.CompleteTrip(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := status(t, store, id); got != types.StatusCompleted {
		t.Fatalf("after complete status = %s", got)
	}

	store.View(id, func(b models.Booking, _ models.LocationRecord) {
		if b.DriverID == nil || *b.DriverID != driverID {
			t.Errorf("driver id not recorded")
		}
		if b.AssignedAt == nil || b.StartedAt == nil || b.CompletedAt == nil {
			t.Errorf("transition timestamps not recorded")
		}
	})
}

func TestInvalidTransitionsRejected(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, s)

	// REQUESTED cannot be started or completed.
	if err := s.StartTrip(ctx, id); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("start from REQUESTED: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.CompleteTrip(ctx, id); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("complete from REQUESTED: expected ErrInvalidTransition, got %v", err)
	}

	// Rejected operations leave the state untouched.
	if got := status(t, store, id); got != types.StatusRequested {
		t.Fatalf("status changed by rejected transition: %s", got)
	}
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	ctx := context.Background()

	t.Run("requested", func(t *testing.T) {
		s, store := newTestService(t)
		id := mustCreate(t, s)
		if err := s.Cancel(ctx, id, "changed my mind"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		store.View(id, func(b models.Booking, _ models.LocationRecord) {
			if b.Status != types.StatusCancelled {
				t.Errorf("status = %s", b.Status)
			}
			if b.CancellationReason == nil || *b.CancellationReason != "changed my mind" {
				t.Errorf("cancellation reason not recorded")
			}
		})
	})

	t.Run("en_route", func(t *testing.T) {
		s, store := newTestService(t)
		id := mustCreate(t, s)
		if err := s.AssignDriver(ctx, id, uuid.New()); err != nil {
			t.Fatalf("assign: %v", err)
		}
		if err := s.StartTrip(ctx, id); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := s.Cancel(ctx, id, ""); err != nil {
			t.Fatalf("cancel en route: %v", err)
		}
		if got := status(t, store, id); got != types.StatusCancelled {
			t.Fatalf("status = %s", got)
		}
	})

	t.Run("completed", func(t *testing.T) {
		s, _ := newTestService(t)
		id := mustCreate(t, s)
		if err := s.AssignDriver(ctx, id, uuid.New()); err != nil {
			t.Fatalf("assign: %v", err)
		}
		if err := s.StartTrip(ctx, id); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := s.CompleteTrip(ctx, id); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if err := s.Cancel(ctx, id, "too late"); !errors.Is(err, types.ErrInvalidTransition) {
			t.Fatalf("cancel completed: expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestUnknownBooking(t *testing.T) {
	s, _ := newTestService(t)

	if err := s.AssignDriver(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAssignExactlyOneWins(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, s)

	const racers = 8
	errs := make([]error, racers)
	drivers := make([]uuid.UUID, racers)

	var wg sync.WaitGroup
	for i := range racers {
		drivers[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.AssignDriver(ctx, id, drivers[i])
		}(i)
	}
	wg.Wait()

	var winners int
	var winner uuid.UUID
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			winner = drivers[i]
		case !errors.Is(err, types.ErrInvalidTransition):
			t.Fatalf("loser got unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one successful assign, got %d", winners)
	}

	store.View(id, func(b models.Booking, _ models.LocationRecord) {
		if b.DriverID == nil || *b.DriverID != winner {
			t.Errorf("stored driver does not match the winner")
		}
	})
}

func TestBookingNumberSequence(t *testing.T) {
	s, store := newTestService(t)

	first := mustCreate(t, s)
	second := mustCreate(t, s)

	var n1, n2 string
	store.View(first, func(b models.Booking, _ models.LocationRecord) { n1 = b.BookingNumber })
	store.View(second, func(b models.Booking, _ models.LocationRecord) { n2 = b.BookingNumber })

	if n1 == "" || n2 == "" || n1 == n2 {
		t.Fatalf("booking numbers not unique: %q vs %q", n1, n2)
	}
}

// Random operation sequences: whatever the callers throw at the service,
// subscribers must only ever observe edges of the status graph, and a
// rejected operation must surface ErrInvalidTransition and nothing else.
func TestRandomOperationSequencesFollowStatusGraph(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(0x7a21))

	for range 25 {
		s, h := newObservedService(t)
		id := mustCreate(t, s)

		rec := &eventRecorder{}
		if err := h.Subscribe(ctx, id, uuid.New(), types.RoleOperator, rec); err != nil {
			t.Fatalf("subscribe: %v", err)
		}

		ops := []func() error{
			func() error { return s.AssignDriver(ctx, id, uuid.New()) },
			func() error { return s.StartTrip(ctx, id) },
			func() error { return s.CompleteTrip(ctx, id) },
			func() error { return s.Cancel(ctx, id, "random walk") },
		}

		var committed int
		for range 12 {
			err := ops[rng.Intn(len(ops))]()
			switch {
			case err == nil:
				committed++
			case !errors.Is(err, types.ErrInvalidTransition):
				t.Fatalf("unexpected error: %v", err)
			}
		}

		waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) == committed })

		prev := types.StatusRequested
		for i, event := range rec.snapshot() {
			if event.Kind != types.EventStatusChanged {
				t.Fatalf("event %d: unexpected kind %s", i, event.Kind)
			}
			if !prev.CanTransitionTo(event.Status) {
				t.Fatalf("event %d: observed illegal edge %s -> %s", i, prev, event.Status)
			}
			prev = event.Status
		}
	}
}

// Transitions raced from separate goroutines must reach subscribers in
// the order they were committed, never in the order the goroutines got
// around to announcing them.
func TestConcurrentTransitionsObservedInCommitOrder(t *testing.T) {
	ctx := context.Background()

	for range 30 {
		s, h := newObservedService(t)
		id := mustCreate(t, s)

		rec := &eventRecorder{}
		if err := h.Subscribe(ctx, id, uuid.New(), types.RoleOperator, rec); err != nil {
			t.Fatalf("subscribe: %v", err)
		}

		ops := []func() error{
			func() error { return s.AssignDriver(ctx, id, uuid.New()) },
			func() error { return s.StartTrip(ctx, id) },
			func() error { return s.CompleteTrip(ctx, id) },
		}

		var wg sync.WaitGroup
		for _, op := range ops {
			wg.Add(1)
			go func(op func() error) {
				defer wg.Done()
				for {
					err := op()
					if err == nil {
						return
					}
					if !errors.Is(err, types.ErrInvalidTransition) {
						t.Errorf("unexpected error: %v", err)
						return
					}
					runtime.Gosched()
				}
			}(op)
		}
		wg.Wait()
		if t.Failed() {
			t.FailNow()
		}

		waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) == 3 })

		want := []types.BookingStatus{types.StatusAssigned, types.StatusEnRoute, types.StatusCompleted}
		for i, event := range rec.snapshot() {
			if event.Status != want[i] {
				t.Fatalf("event %d delivered as %s, want %s", i, event.Status, want[i])
			}
		}
	}
}
