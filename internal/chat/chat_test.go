package chat

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

func TestAppendAndHistory(t *testing.T) {
	l := NewLog()
	bookingID := uuid.New()
	customerID := uuid.New()
	driverID := uuid.New()

	if _, err := l.Append(bookingID, customerID, ""); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty text, got %v", err)
	}

	texts := []string{"I am at the entrance", "Be there in two minutes", "Ok"}
	senders := []uuid.UUID{customerID, driverID, customerID}
	for i, text := range texts {
		if _, err := l.Append(bookingID, senders[i], text); err != nil {
			t.Fatalf("append %q: %v", text, err)
		}
	}

	history := l.History(bookingID)
	if len(history) != 3 {
		t.Fatalf("history length = %d", len(history))
	}
	for i, m := range history {
		if m.Text != texts[i] || m.SenderID != senders[i] {
			t.Fatalf("message %d out of order", i)
		}
	}

	if got := l.History(uuid.New()); len(got) != 0 {
		t.Fatalf("unknown booking history not empty")
	}
}
