package wshandler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	wrap "taxihub/pkg/logger/wrapper"
	ws "taxihub/pkg/wsHub"
)

// ObserverHub turns live WebSocket connections into hub observers. A
// party without a connection simply misses the frame; a party with a
// broken connection surfaces a delivery error so status events get
// retried.
type ObserverHub struct {
	connections *ws.ConnectionHub
}

func NewObserverHub(connections *ws.ConnectionHub) *ObserverHub {
	return &ObserverHub{
		connections: connections,
	}
}

// ObserverFor builds the delivery endpoint for one party.
func (h *ObserverHub) ObserverFor(partyID uuid.UUID, role types.Role) hub.Observer {
	return hub.ObserverFunc(func(ctx context.Context, event models.NotificationEvent) error {
		if !h.connections.Connected(partyID) {
			// Offline party, nothing to deliver to.
			return nil
		}

		ctx = wrap.WithAction(ctx, "ws_notify_observer")

		var frame any
		switch event.Kind {
		case types.EventLocationChanged:
			if event.Coordinate == nil {
				return nil
			}
			frame = models.ObserverLocationUpdateDTO{
				Type:      "booking_location_update",
				BookingID: event.BookingID,
				Location:  *event.Coordinate,
				Timestamp: event.Timestamp,
			}
		default:
			frame = models.ObserverStatusUpdateDTO{
				Type:      "booking_status_update",
				BookingID: event.BookingID,
				Status:    event.Status.String(),
				Reason:    event.Reason,
				Timestamp: event.Timestamp,
			}
		}

		if err := h.connections.SendTo(partyID, frame); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to send frame to %s: %w", role, err))
		}
		return nil
	})
}
