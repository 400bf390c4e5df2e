package chat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

// Log is the per-booking message history between customer and driver.
type Log struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]models.ChatMessage
}

func NewLog() *Log {
	return &Log{
		messages: make(map[uuid.UUID][]models.ChatMessage),
	}
}

// Append stores a message in the booking's history.
func (l *Log) Append(bookingID, senderID uuid.UUID, text string) (models.ChatMessage, error) {
	if text == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: message text is required", types.ErrInvalidInput)
	}

	m := models.ChatMessage{
		ID:        uuid.New(),
		BookingID: bookingID,
		SenderID:  senderID,
		Text:      text,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages[bookingID] = append(l.messages[bookingID], m)

	return m, nil
}

// History returns the booking's messages in append order.
func (l *Log) History(bookingID uuid.UUID) []models.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.ChatMessage, len(l.messages[bookingID]))
	copy(out, l.messages[bookingID])
	return out
}
