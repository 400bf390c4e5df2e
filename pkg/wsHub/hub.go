package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub stores and manages all active WebSocket connections,
// keyed by the party (customer, driver or operator) that owns them.
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
	wg      sync.WaitGroup
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a new connection. An existing connection for the same
// party is closed and replaced.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.partyID]; ok {
		h.l.Warn(ctx,
			"replacing existing connection",
			"party_id", existing.partyID,
		)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx,
				"failed to close existing conn",
				"party_id", existing.partyID,
				"err", err.Error(),
			)
		}
		delete(h.clients, existing.partyID)
		h.wg.Done()
	}

	h.clients[newConn.partyID] = newConn
	h.wg.Add(1)

	return nil
}

// Delete removes and closes the connection of a party.
func (h *ConnectionHub) Delete(partyID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.deleteLocked(partyID)
}

func (h *ConnectionHub) deleteLocked(partyID uuid.UUID) error {
	ctx := wrap.WithAction(context.Background(), "ws_connection_delete")

	conn, ok := h.clients[partyID]
	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(ctx,
			"failed to close conn",
			"party_id", conn.partyID,
			"err", err.Error(),
		)
	}

	delete(h.clients, partyID)
	h.wg.Done()

	return nil
}

// Remove deletes the connection only if it is still the registered one
// for its party. A replaced connection's cleanup must not evict the
// replacement.
func (h *ConnectionHub) Remove(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[conn.partyID]
	if !ok || current != conn {
		return ErrConnIsNotFound
	}
	return h.deleteLocked(conn.partyID)
}

// SendTo sends a JSON message to the party's connection.
// Returns ErrConnIsNotFound if the party is not connected.
func (h *ConnectionHub) SendTo(id uuid.UUID, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

// Connected reports whether the party currently has a live connection.
func (h *ConnectionHub) Connected(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.clients[id]
	return ok
}

// Close closes every websocket connection and waits for them to drain.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	for _, id := range ids {
		_ = h.deleteLocked(id)
	}
	h.mu.Unlock()

	h.wg.Wait()

	h.l.Info(ctx, "all websocket connections closed gracefully")
}
