package handler

import (
	"context"

	"github.com/google/uuid"

	"taxihub/internal/adapter/postgres"
	"taxihub/internal/domain/models"
)

type (
	// BookingFlow is the dispatcher surface the handlers call.
	BookingFlow interface {
		RequestBooking(ctx context.Context, customerID uuid.UUID, origin, destination models.Coordinate, travelTimeMin int) (uuid.UUID, error)
		Assign(ctx context.Context, bookingID, driverID uuid.UUID) error
		Watch(ctx context.Context, bookingID, operatorID uuid.UUID) error
		Unwatch(ctx context.Context, bookingID, partyID uuid.UUID) error
	}

	// Lifecycle is the subset of transitions drivers trigger directly.
	Lifecycle interface {
		StartTrip(ctx context.Context, bookingID uuid.UUID) error
		CompleteTrip(ctx context.Context, bookingID uuid.UUID) error
		Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error
	}

	// Locations reads and writes booking coordinates.
	Locations interface {
		UpdateCurrent(ctx context.Context, bookingID uuid.UUID, c models.Coordinate) error
		GetSnapshot(ctx context.Context, bookingID uuid.UUID) (models.Snapshot, error)
	}

	// Ratings accepts post-trip feedback.
	Ratings interface {
		Submit(ctx context.Context, bookingID uuid.UUID, points int, feedback string) error
	}

	// ChatLog stores booking chat messages.
	ChatLog interface {
		Append(bookingID, senderID uuid.UUID, text string) (models.ChatMessage, error)
		History(bookingID uuid.UUID) []models.ChatMessage
	}

	// History reads the durable audit trail. Nil when running without a
	// database.
	History interface {
		Trail(ctx context.Context, bookingID uuid.UUID) ([]postgres.TrailEntry, error)
	}
)
