package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxihub/internal/domain/models"
	"taxihub/pkg/metrics"
	pgutil "taxihub/pkg/postgres"
	"taxihub/pkg/trm"
)

// BookingJournal is the durable audit trail behind the in-memory
// authority. Writes are append-or-update; the in-memory store stays the
// source of truth during a run.
type BookingJournal struct {
	db *pgxpool.Pool
	tx trm.TxManager
}

func NewBookingJournal(db *pgxpool.Pool) *BookingJournal {
	return &BookingJournal{
		db: db,
		tx: trm.New(db),
	}
}

// BookingCreated inserts the booking row and its creation event in one
// transaction.
func (j *BookingJournal) BookingCreated(ctx context.Context, b models.Booking, loc models.LocationRecord) error {
	return j.tx.Do(ctx, func(ctx context.Context) error {
		q := TxorDB(ctx, j.db)

		query := `INSERT INTO bookings (id, booking_number, status, customer_id, travel_time_min,
                                        origin_lat, origin_lon, dest_lat, dest_lon, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

		_, err := q.Exec(ctx, query,
			b.ID, b.BookingNumber, b.Status.String(), b.CustomerID, b.TravelTimeMin,
			loc.Origin.Latitude, loc.Origin.Longitude,
			loc.Destination.Latitude, loc.Destination.Longitude,
			b.CreatedAt,
		)
		metrics.RecordDatabaseQuery("insert_booking", err)
		if err != nil {
			return fmt.Errorf("booking journal: BookingCreated: %w", err)
		}

		return j.appendEvent(ctx, b.ID, "BOOKING_CREATED", map[string]any{
			"booking_number": b.BookingNumber,
			"customer_id":    b.CustomerID,
		})
	})
}

// StatusChanged updates the booking row and appends the transition event
// in one transaction.
func (j *BookingJournal) StatusChanged(ctx context.Context, b models.Booking) error {
	return j.tx.Do(ctx, func(ctx context.Context) error {
		q := TxorDB(ctx, j.db)

		query := `
            UPDATE bookings
            SET
                status = $2,
                driver_id = $3,
                cancellation_reason = $4,
                updated_at = now()
            WHERE id = $1;`

		_, err := q.Exec(ctx, query, b.ID, b.Status.String(), b.DriverID, b.CancellationReason)
		metrics.RecordDatabaseQuery("update_booking_status", err)
		if err != nil {
			return fmt.Errorf("booking journal: StatusChanged: %w", err)
		}

		return j.appendEvent(ctx, b.ID, "STATUS_"+b.Status.String(), map[string]any{
			"status":    b.Status.String(),
			"driver_id": b.DriverID,
		})
	})
}

func (j *BookingJournal) LocationChanged(ctx context.Context, bookingID uuid.UUID, c models.Coordinate) error {
	q := TxorDB(ctx, j.db)

	query := `INSERT INTO location_history (booking_id, latitude, longitude)
              VALUES ($1, $2, $3);`

	_, err := q.Exec(ctx, query, bookingID, c.Latitude, c.Longitude)
	metrics.RecordDatabaseQuery("insert_location", err)
	if err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return fmt.Errorf("booking journal: LocationChanged: unknown booking %s", bookingID)
		}
		return fmt.Errorf("booking journal: LocationChanged: %w", err)
	}

	return nil
}

// TrailEntry is one journaled event row.
type TrailEntry struct {
	EventType string          `json:"event_type"`
	EventData json.RawMessage `json:"event_data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Trail returns the journaled events of a booking in insertion order.
func (j *BookingJournal) Trail(ctx context.Context, bookingID uuid.UUID) ([]TrailEntry, error) {
	q := TxorDB(ctx, j.db)

	query := `SELECT event_type, event_data, created_at
              FROM booking_events
              WHERE booking_id = $1
              ORDER BY id;`

	rows, err := q.Query(ctx, query, bookingID)
	metrics.RecordDatabaseQuery("select_events", err)
	if err != nil {
		return nil, fmt.Errorf("booking journal: Trail: %w", err)
	}
	defer rows.Close()

	var trail []TrailEntry
	for rows.Next() {
		var e TrailEntry
		if err := rows.Scan(&e.EventType, &e.EventData, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("booking journal: Trail: %w", err)
		}
		trail = append(trail, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking journal: Trail: %w", err)
	}

	return trail, nil
}

func (j *BookingJournal) appendEvent(ctx context.Context, bookingID uuid.UUID, eventType string, data map[string]any) error {
	q := TxorDB(ctx, j.db)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("booking journal: appendEvent: %w", err)
	}

	query := `INSERT INTO booking_events (booking_id, event_type, event_data)
              VALUES ($1, $2, $3);`

	_, err = q.Exec(ctx, query, bookingID, eventType, payload)
	metrics.RecordDatabaseQuery("insert_event", err)
	if err != nil {
		return fmt.Errorf("booking journal: appendEvent: %w", err)
	}

	return nil
}
