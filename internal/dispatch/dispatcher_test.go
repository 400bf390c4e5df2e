package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxihub/internal/booking"
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/internal/users"
	"taxihub/pkg/logger"
)

var (
	pickup  = models.Coordinate{Latitude: 43.238949, Longitude: 76.889709}
	dropoff = models.Coordinate{Latitude: 43.352072, Longitude: 77.040508}
)

// nullObservers satisfies ObserverSource with observers that accept and
// discard everything.
var nullObservers = ObserverSourceFunc(func(uuid.UUID, types.Role) hub.Observer {
	return hub.ObserverFunc(func(context.Context, models.NotificationEvent) error {
		return nil
	})
})

func newTestDispatcher(t *testing.T, auto []AutoSubscriber) (*Dispatcher, *hub.Hub, *users.Directory) {
	t.Helper()

	log := logger.InitLogger("dispatch-test", logger.LevelError)
	h := hub.New(log, hub.Options{})
	t.Cleanup(func() { h.Close(context.Background()) })

	store := booking.NewStore()
	lifecycle := booking.NewService(store, h, nil, nil, nil, log)
	directory := users.NewDirectory()

	return New(lifecycle, store, h, directory, nullObservers, auto, log), h, directory
}

func registerDriver(t *testing.T, directory *users.Directory) uuid.UUID {
	t.Helper()
	carID := uuid.New()
	driver, err := users.New(types.RoleDriver, users.Profile{Name: "Daniyar", CarID: &carID})
	if err != nil {
		t.Fatalf("build driver: %v", err)
	}
	directory.Register(driver)
	return driver.ID
}

func TestRequestBookingSubscribesCustomer(t *testing.T) {
	d, h, _ := newTestDispatcher(t, nil)

	bookingID, err := d.RequestBooking(context.Background(), uuid.New(), pickup, dropoff, 25)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}

	if got := h.Subscribers(bookingID); got != 1 {
		t.Fatalf("expected the customer subscribed, got %d subscriptions", got)
	}
}

func TestRequestBookingAttachesAutoSubscribers(t *testing.T) {
	auto := []AutoSubscriber{{
		ID:   uuid.New(),
		Role: types.RoleOperator,
		Observer: hub.ObserverFunc(func(context.Context, models.NotificationEvent) error {
			return nil
		}),
	}}
	d, h, _ := newTestDispatcher(t, auto)

	bookingID, err := d.RequestBooking(context.Background(), uuid.New(), pickup, dropoff, 25)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}

	if got := h.Subscribers(bookingID); got != 2 {
		t.Fatalf("expected customer plus auto subscriber, got %d subscriptions", got)
	}
}

func TestAssignRequiresRegisteredDriver(t *testing.T) {
	d, _, directory := newTestDispatcher(t, nil)
	ctx := context.Background()

	bookingID, err := d.RequestBooking(ctx, uuid.New(), pickup, dropoff, 25)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}

	if err := d.Assign(ctx, bookingID, uuid.New()); !errors.Is(err, types.ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}

	// A registered customer is not a driver either.
	customer, err := users.New(types.RoleCustomer, users.Profile{Name: "Aigerim", Contact: "+7 701 000 00 00"})
	if err != nil {
		t.Fatalf("build customer: %v", err)
	}
	directory.Register(customer)
	if err := d.Assign(ctx, bookingID, customer.ID); !errors.Is(err, types.ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound for non-driver, got %v", err)
	}

	driverID := registerDriver(t, directory)
	if err := d.Assign(ctx, bookingID, driverID); err != nil {
		t.Fatalf("assign registered driver: %v", err)
	}
}

func TestAssignSubscribesDriver(t *testing.T) {
	d, h, directory := newTestDispatcher(t, nil)
	ctx := context.Background()

	bookingID, err := d.RequestBooking(ctx, uuid.New(), pickup, dropoff, 25)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}

	driverID := registerDriver(t, directory)
	if err := d.Assign(ctx, bookingID, driverID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if got := h.Subscribers(bookingID); got != 2 {
		t.Fatalf("expected customer and driver subscribed, got %d", got)
	}
}

func TestWatch(t *testing.T) {
	d, h, directory := newTestDispatcher(t, nil)
	ctx := context.Background()

	bookingID, err := d.RequestBooking(ctx, uuid.New(), pickup, dropoff, 25)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}

	operatorID := uuid.New()
	if err := d.Watch(ctx, bookingID, operatorID); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if got := h.Subscribers(bookingID); got != 2 {
		t.Fatalf("expected operator subscribed, got %d subscriptions", got)
	}

	if err := d.Unwatch(ctx, bookingID, operatorID); err != nil {
		t.Fatalf("unwatch: %v", err)
	}
	if got := h.Subscribers(bookingID); got != 1 {
		t.Fatalf("expected operator detached, got %d subscriptions", got)
	}

	// Unknown booking.
	if err := d.Watch(ctx, uuid.New(), operatorID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown booking, got %v", err)
	}

	// Terminal booking.
	driverID := registerDriver(t, directory)
	if err := d.Assign(ctx, bookingID, driverID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := d.lifecycle.StartTrip(ctx, bookingID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.lifecycle.CompleteTrip(ctx, bookingID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := d.Watch(ctx, bookingID, operatorID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for terminal booking, got %v", err)
	}
}
