package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
)

// Observer receives events about one booking. Implementations must not
// assume the calling goroutine; delivery happens off the publisher path.
type Observer interface {
	Notify(ctx context.Context, event models.NotificationEvent) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event models.NotificationEvent) error

func (f ObserverFunc) Notify(ctx context.Context, event models.NotificationEvent) error {
	return f(ctx, event)
}

const (
	defaultQueueSize  = 64
	defaultMaxRetries = 3
	defaultRetryDelay = 100 * time.Millisecond
)

type Options struct {
	QueueSize  int           // max buffered events per booking
	MaxRetries int           // redelivery attempts for status events
	RetryDelay time.Duration // pause between redelivery attempts
}

// Hub fans out booking events to subscribed observers. State is
// partitioned per booking: operations on different bookings never
// contend, and events for one booking are delivered in publish order by
// a single feed goroutine.
type Hub struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*feed
	closed   bool
	wg       sync.WaitGroup

	opts Options
	log  logger.Logger
}

func New(log logger.Logger, opts Options) *Hub {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	return &Hub{
		bookings: make(map[uuid.UUID]*feed),
		opts:     opts,
		log:      log,
	}
}

// Register creates the event feed for a new booking and starts its
// delivery goroutine. Idempotent.
func (h *Hub) Register(bookingID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	if _, ok := h.bookings[bookingID]; ok {
		return
	}

	f := &feed{
		bookingID: bookingID,
		subs:      make(map[uuid.UUID]subscription),
		notify:    make(chan struct{}, 1),
	}
	h.bookings[bookingID] = f

	h.wg.Add(1)
	go h.deliverLoop(f)
}

// Subscribe registers an observer for a booking. Re-subscribing the same
// (booking, observer, role) has no effect; a different role replaces the
// previous one, since an observer holds at most one role per booking.
func (h *Hub) Subscribe(ctx context.Context, bookingID, observerID uuid.UUID, role types.Role, obs Observer) error {
	if !role.Valid() {
		return types.ErrInvalidRole
	}

	f, err := h.feedFor(bookingID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closing {
		return wrap.Error(ctx, types.ErrNotFound)
	}

	existing, ok := f.subs[observerID]
	if ok && existing.role == role {
		return nil
	}
	if ok {
		h.log.Warn(ctx, "observer role replaced",
			"booking_id", bookingID,
			"observer_id", observerID,
			"old_role", existing.role.String(),
			"new_role", role.String(),
		)
	} else {
		metrics.HubSubscriptionsGauge.Inc()
	}

	f.subs[observerID] = subscription{role: role, observer: obs}

	return nil
}

// Unsubscribe detaches an observer from a booking, whatever its role.
// A no-op if the observer was not subscribed.
func (h *Hub) Unsubscribe(ctx context.Context, bookingID, observerID uuid.UUID) error {
	f, err := h.feedFor(bookingID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[observerID]; ok {
		delete(f.subs, observerID)
		metrics.HubSubscriptionsGauge.Dec()
	}

	return nil
}

// Publish enqueues an event for delivery and returns immediately. A slow
// observer never blocks the caller. When the queue is full the oldest
// location event is evicted; status events are never dropped. The event
// that completes or cancels the booking marks the feed for teardown once
// the queue drains.
func (h *Hub) Publish(ctx context.Context, event models.NotificationEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	f, err := h.feedFor(event.BookingID)
	if err != nil {
		return err
	}

	f.mu.Lock()

	if f.closing {
		f.mu.Unlock()
		return wrap.Error(ctx, types.ErrNotFound)
	}

	if len(f.events) >= h.opts.QueueSize {
		if !f.evictOldestLocation() {
			// Queue holds only status events. An incoming location update
			// is the one thing allowed to be lost; status events grow the
			// queue past its bound instead.
			if event.Kind == types.EventLocationChanged {
				f.mu.Unlock()
				metrics.HubEventsDropped.Inc()
				h.log.Warn(ctx, "location event dropped, queue full",
					"booking_id", event.BookingID,
				)
				return nil
			}
		} else {
			metrics.HubEventsDropped.Inc()
			metrics.HubQueueDepth.Dec()
		}
	}

	f.events = append(f.events, event)
	if event.Kind == types.EventStatusChanged && event.Status.Terminal() {
		f.closing = true
	}
	f.mu.Unlock()

	metrics.HubEventsPublished.WithLabelValues(event.Kind.String()).Inc()
	metrics.HubQueueDepth.Inc()

	f.wake()

	return nil
}

// Subscribers returns the number of active subscriptions for a booking.
func (h *Hub) Subscribers(bookingID uuid.UUID) int {
	f, err := h.feedFor(bookingID)
	if err != nil {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close stops all feeds after their queues drain and waits for the
// delivery goroutines to exit.
func (h *Hub) Close(ctx context.Context) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	feeds := make([]*feed, 0, len(h.bookings))
	for _, f := range h.bookings {
		feeds = append(feeds, f)
	}
	h.mu.Unlock()

	for _, f := range feeds {
		f.mu.Lock()
		f.closing = true
		f.mu.Unlock()
		f.wake()
	}

	h.wg.Wait()
	h.log.Info(wrap.WithAction(ctx, "hub_close"), "notification hub closed")
}

func (h *Hub) feedFor(bookingID uuid.UUID) (*feed, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, types.ErrHubClosed
	}
	f, ok := h.bookings[bookingID]
	if !ok {
		return nil, types.ErrNotFound
	}
	return f, nil
}

func (h *Hub) removeFeed(f *feed) {
	f.mu.Lock()
	n := len(f.subs)
	f.subs = make(map[uuid.UUID]subscription)
	f.mu.Unlock()

	metrics.HubSubscriptionsGauge.Sub(float64(n))

	h.mu.Lock()
	delete(h.bookings, f.bookingID)
	h.mu.Unlock()
}
