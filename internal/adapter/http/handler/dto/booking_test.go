package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

func TestCreateBookingRequestValidate(t *testing.T) {
	valid := func() CreateBookingRequest {
		return CreateBookingRequest{
			CustomerID:    uuid.New(),
			Origin:        &CoordinateDTO{Latitude: 43.238949, Longitude: 76.889709},
			Destination:   &CoordinateDTO{Latitude: 43.352072, Longitude: 77.040508},
			TravelTimeMin: 25,
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero coordinate is a position, not an omission", func(t *testing.T) {
		req := valid()
		req.Origin = &CoordinateDTO{}
		if err := req.Validate(); err != nil {
			t.Fatalf("origin (0, 0) rejected: %v", err)
		}
	})

	t.Run("missing origin", func(t *testing.T) {
		req := valid()
		req.Origin = nil
		if err := req.Validate(); !errors.Is(err, types.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing destination", func(t *testing.T) {
		req := valid()
		req.Destination = nil
		if err := req.Validate(); !errors.Is(err, types.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("latitude out of range", func(t *testing.T) {
		req := valid()
		req.Origin = &CoordinateDTO{Latitude: 91}
		if err := req.Validate(); !errors.Is(err, types.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

// An omitted JSON field must decode to nil, while an explicit (0, 0)
// must survive as a coordinate.
func TestCreateBookingRequestDecoding(t *testing.T) {
	var omitted CreateBookingRequest
	if err := json.Unmarshal([]byte(`{"customer_id":"`+uuid.New().String()+`","destination":{"latitude":5,"longitude":5}}`), &omitted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if omitted.Origin != nil {
		t.Fatal("omitted origin decoded as present")
	}
	if errors.Is(omitted.Validate(), types.ErrInvalidInput) == false {
		t.Fatal("omitted origin passed validation")
	}

	var explicit CreateBookingRequest
	if err := json.Unmarshal([]byte(`{"customer_id":"`+uuid.New().String()+`","origin":{"latitude":0,"longitude":0},"destination":{"latitude":5,"longitude":5}}`), &explicit); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if explicit.Origin == nil {
		t.Fatal("explicit (0, 0) origin decoded as absent")
	}
	if err := explicit.Validate(); err != nil {
		t.Fatalf("explicit (0, 0) origin rejected: %v", err)
	}
}

func TestUpdateLocationRequestValidate(t *testing.T) {
	if err := (UpdateLocationRequest{}).Validate(); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing location, got %v", err)
	}
	if err := (UpdateLocationRequest{Location: &CoordinateDTO{}}).Validate(); err != nil {
		t.Fatalf("location (0, 0) rejected: %v", err)
	}
}
