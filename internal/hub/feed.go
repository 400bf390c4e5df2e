package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
)

type subscription struct {
	role     types.Role
	observer Observer
}

// feed is the per-booking delivery state: the subscription set and a
// bounded queue of pending events drained by one goroutine, which is
// what preserves publish order per booking.
type feed struct {
	bookingID uuid.UUID

	mu      sync.Mutex
	subs    map[uuid.UUID]subscription
	events  []models.NotificationEvent
	closing bool // terminal event queued; tear down after drain

	notify chan struct{}
}

// wake signals the delivery goroutine without blocking.
func (f *feed) wake() {
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// evictOldestLocation removes the oldest queued location event.
// Returns false when the queue holds only status events.
func (f *feed) evictOldestLocation() bool {
	for i, e := range f.events {
		if e.Kind == types.EventLocationChanged {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return true
		}
	}
	return false
}

// deliverLoop drains the feed queue and invokes subscriber callbacks.
// It exits once the feed is marked closing and the queue is empty,
// tearing down the booking's subscriptions.
func (h *Hub) deliverLoop(f *feed) {
	defer h.wg.Done()

	for {
		f.mu.Lock()
		batch := f.events
		f.events = nil
		closing := f.closing
		f.mu.Unlock()

		for _, event := range batch {
			h.deliver(f, event)
			metrics.HubQueueDepth.Dec()
		}

		if closing {
			f.mu.Lock()
			drained := len(f.events) == 0
			f.mu.Unlock()
			if drained {
				h.removeFeed(f)
				return
			}
			continue
		}

		<-f.notify
	}
}

// deliver pushes one event to every matching subscriber. Observer
// failures are logged and counted, never propagated: a status event is
// retried a bounded number of times, a location event is best-effort.
func (h *Hub) deliver(f *feed, event models.NotificationEvent) {
	f.mu.Lock()
	targets := make(map[uuid.UUID]subscription, len(f.subs))
	for id, sub := range f.subs {
		targets[id] = sub
	}
	f.mu.Unlock()

	ctx := wrap.WithBookingID(context.Background(), event.BookingID.String())
	ctx = wrap.WithAction(ctx, "hub_deliver")

	for observerID, sub := range targets {
		if !Reacts(sub.role, event) {
			continue
		}

		attempts := 1
		if event.Kind == types.EventStatusChanged {
			attempts = h.opts.MaxRetries
		}

		var err error
		for attempt := 0; attempt < attempts; attempt++ {
			if attempt > 0 {
				metrics.HubDeliveryRetries.Inc()
				time.Sleep(h.opts.RetryDelay)
			}
			if err = sub.observer.Notify(ctx, event); err == nil {
				break
			}
		}

		metrics.RecordDelivery(event.Kind.String(), sub.role.String(), err)

		if err != nil {
			h.log.Error(ctx, "event delivery failed", err,
				"observer_id", observerID,
				"role", sub.role.String(),
				"kind", event.Kind.String(),
			)
		}
	}
}
