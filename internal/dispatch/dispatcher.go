package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxihub/internal/booking"
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
)

// DriverDirectory answers whether a driver id is known before a booking
// is handed to it.
type DriverDirectory interface {
	DriverExists(ctx context.Context, driverID uuid.UUID) (bool, error)
}

// ObserverSource builds the delivery endpoint for a party. The HTTP
// layer backs it with WebSocket connections; tests back it with
// in-memory recorders.
type ObserverSource interface {
	ObserverFor(partyID uuid.UUID, role types.Role) hub.Observer
}

// ObserverSourceFunc adapts a function to the ObserverSource interface.
type ObserverSourceFunc func(partyID uuid.UUID, role types.Role) hub.Observer

func (f ObserverSourceFunc) ObserverFor(partyID uuid.UUID, role types.Role) hub.Observer {
	return f(partyID, role)
}

// AutoSubscriber is attached to every booking the moment it is created.
// Used to wire broker publishers and other firehose consumers.
type AutoSubscriber struct {
	ID       uuid.UUID
	Role     types.Role
	Observer hub.Observer
}

// Dispatcher is the coordination seam between parties and the booking
// lifecycle: it creates bookings, matches drivers to them, and manages
// who observes what.
type Dispatcher struct {
	lifecycle *booking.Service
	store     *booking.Store
	hub       *hub.Hub
	drivers   DriverDirectory
	observers ObserverSource
	auto      []AutoSubscriber
	log       logger.Logger
}

func New(lifecycle *booking.Service, store *booking.Store, h *hub.Hub, drivers DriverDirectory, observers ObserverSource, auto []AutoSubscriber, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		lifecycle: lifecycle,
		store:     store,
		hub:       h,
		drivers:   drivers,
		observers: observers,
		auto:      auto,
		log:       log,
	}
}

// RequestBooking creates a booking for the customer and subscribes the
// customer to its events. Auto-subscribers are attached afterwards so
// the customer is first in line.
func (d *Dispatcher) RequestBooking(ctx context.Context, customerID uuid.UUID, origin, destination models.Coordinate, travelTimeMin int) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "request_booking")

	bookingID, err := d.lifecycle.Create(ctx, customerID, origin, destination, travelTimeMin)
	if err != nil {
		return uuid.Nil, err
	}
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	obs := d.observers.ObserverFor(customerID, types.RoleCustomer)
	if err := d.hub.Subscribe(ctx, bookingID, customerID, types.RoleCustomer, obs); err != nil {
		d.log.Error(ctx, "failed to subscribe customer", err)
	}

	for _, a := range d.auto {
		if err := d.hub.Subscribe(ctx, bookingID, a.ID, a.Role, a.Observer); err != nil {
			d.log.Error(ctx, "failed to attach auto subscriber", err,
				"subscriber_id", a.ID,
			)
		}
	}

	return bookingID, nil
}

// Assign hands the booking to a registered driver and subscribes the
// driver to its events.
func (d *Dispatcher) Assign(ctx context.Context, bookingID, driverID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "dispatch_assign")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	ok, err := d.drivers.DriverExists(ctx, driverID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if !ok {
		return wrap.Error(ctx, fmt.Errorf("%w: %s", types.ErrDriverNotFound, driverID))
	}

	if err := d.lifecycle.AssignDriver(ctx, bookingID, driverID); err != nil {
		return err
	}

	obs := d.observers.ObserverFor(driverID, types.RoleDriver)
	if err := d.hub.Subscribe(ctx, bookingID, driverID, types.RoleDriver, obs); err != nil {
		d.log.Error(ctx, "failed to subscribe driver", err)
	}

	return nil
}

// Watch subscribes an operator to a booking's events. Rejected with
// ErrNotFound when the booking is unknown or already terminal.
func (d *Dispatcher) Watch(ctx context.Context, bookingID, operatorID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "dispatch_watch")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	var terminal bool
	if err := d.store.View(bookingID, func(b models.Booking, _ models.LocationRecord) {
		terminal = b.Status.Terminal()
	}); err != nil {
		return wrap.Error(ctx, err)
	}
	if terminal {
		return wrap.Error(ctx, fmt.Errorf("%w: booking already finished", types.ErrNotFound))
	}

	obs := d.observers.ObserverFor(operatorID, types.RoleOperator)
	return d.hub.Subscribe(ctx, bookingID, operatorID, types.RoleOperator, obs)
}

// Unwatch detaches a party from a booking's events.
func (d *Dispatcher) Unwatch(ctx context.Context, bookingID, partyID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "dispatch_unwatch")
	return d.hub.Unsubscribe(ctx, bookingID, partyID)
}
