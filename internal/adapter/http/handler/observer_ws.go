package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"taxihub/internal/domain/types"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
	ws "taxihub/pkg/wsHub"
)

// ObserverWS owns the WebSocket endpoints parties connect to in order to
// receive booking events. The connection only identifies the party; what
// they observe is decided by the dispatcher's subscriptions.
type ObserverWS struct {
	upgrader    websocket.Upgrader
	connections *ws.ConnectionHub
	flow        BookingFlow

	l logger.Logger
}

func NewObserverWS(connections *ws.ConnectionHub, flow BookingFlow, l logger.Logger) *ObserverWS {
	return &ObserverWS{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connections: connections,
		flow:        flow,
		l:           l,
	}
}

// HandleCustomer godoc
//
//	@Summary	WebSocket endpoint for customers
//	@Tags		websocket
//	@Param		customer_id	path	string	true	"customer id"
//	@Router		/ws/customers/{customer_id} [get]
func (h *ObserverWS) HandleCustomer(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "customer_id", types.RoleCustomer)
}

// HandleDriver godoc
//
//	@Summary	WebSocket endpoint for drivers
//	@Tags		websocket
//	@Param		driver_id	path	string	true	"driver id"
//	@Router		/ws/drivers/{driver_id} [get]
func (h *ObserverWS) HandleDriver(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "driver_id", types.RoleDriver)
}

// HandleOperator godoc
//
//	@Summary	WebSocket endpoint for operators
//	@Tags		websocket
//	@Param		operator_id	path	string	true	"operator id"
//	@Param		booking_id	query	string	false	"booking to watch on connect"
//	@Router		/ws/operators/{operator_id} [get]
func (h *ObserverWS) HandleOperator(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "operator_id", types.RoleOperator)
}

func (h *ObserverWS) handle(w http.ResponseWriter, r *http.Request, pathName string, role types.Role) {
	ctx := wrap.WithAction(r.Context(), "ws_connect")

	partyID, err := pathID(r, pathName)
	if err != nil {
		badRequestResponse(w, "invalid party id")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(ctx, "websocket upgrade failed", err)
		return
	}

	// The request context dies when this handler returns; the connection
	// must outlive it.
	wsConn := ws.NewConn(context.Background(), partyID, conn)
	if err := h.connections.Add(wsConn); err != nil {
		h.l.Error(ctx, "failed to register connection", err)
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(role.String()).Inc()
	h.l.Info(ctx, "observer connected", "party_id", partyID, "role", role.String())

	// An operator may name a booking to watch right on connect.
	if role == types.RoleOperator {
		if raw := r.URL.Query().Get("booking_id"); raw != "" {
			if bookingID, err := uuid.Parse(raw); err == nil {
				if err := h.flow.Watch(ctx, bookingID, partyID); err != nil {
					_ = wsConn.Send(map[string]any{"error": err.Error()})
				}
			} else {
				_ = wsConn.Send(map[string]any{"error": "invalid booking_id"})
			}
		}
	}

	go func() {
		defer func() {
			_ = h.connections.Remove(wsConn)
			metrics.WebSocketConnectionsGauge.WithLabelValues(role.String()).Dec()
			h.l.Info(ctx, "observer disconnected", "party_id", partyID, "role", role.String())
		}()

		// Inbound frames are only read to detect disconnects.
		if err := wsConn.Listen(nil); err != nil {
			h.l.Debug(ctx, "listen stopped", "party_id", partyID, "reason", err.Error())
		}
	}()
}
