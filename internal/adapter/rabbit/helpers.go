package rabbit

import (
	"context"
	"errors"
	"time"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
)

// isRecoverableError reports whether a failed message should be requeued.
func isRecoverableError(err error) bool {
	return !oneOf(err, types.ErrInvalidInput, types.ErrNotFound, types.ErrInvalidTransition)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}

// HubObserver adapts the broker to the notification hub: every event of
// a booking it is attached to is forwarded to the exchange.
func (b *BookingBroker) HubObserver() hub.Observer {
	return hub.ObserverFunc(func(ctx context.Context, event models.NotificationEvent) error {
		switch event.Kind {
		case types.EventLocationChanged:
			if event.Coordinate == nil {
				return nil
			}
			return b.PublishLocation(ctx, models.BookingLocationMessage{
				BookingID:     event.BookingID,
				Latitude:      event.Coordinate.Latitude,
				Longitude:     event.Coordinate.Longitude,
				Timestamp:     event.Timestamp,
				CorrelationID: event.BookingID.String(),
			})
		default:
			return b.PublishStatus(ctx, models.BookingStatusMessage{
				BookingID:     event.BookingID,
				Status:        event.Status.String(),
				Reason:        event.Reason,
				Timestamp:     event.Timestamp,
				CorrelationID: event.BookingID.String(),
			})
		}
	})
}
