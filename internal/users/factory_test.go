package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxihub/internal/domain/types"
)

func TestNewBuildsEveryRole(t *testing.T) {
	carID := uuid.New()

	cases := []struct {
		name    string
		role    types.Role
		profile Profile
	}{
		{"customer", types.RoleCustomer, Profile{Name: "Aigerim", Contact: "+7 701 000 00 00", Address: "Abay 10"}},
		{"driver", types.RoleDriver, Profile{Name: "Daniyar", CarID: &carID}},
		{"operator", types.RoleOperator, Profile{Name: "Dana"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := New(tc.role, tc.profile)
			if err != nil {
				t.Fatalf("New(%s): %v", tc.role, err)
			}
			if u.ID == uuid.Nil {
				t.Fatal("user id not generated")
			}
			if u.Role != tc.role {
				t.Fatalf("role = %s, want %s", u.Role, tc.role)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	carID := uuid.New()

	if _, err := New("DISPATCHER_BOT", Profile{Name: "x"}); !errors.Is(err, types.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := New(types.RoleOperator, Profile{}); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
	if _, err := New(types.RoleDriver, Profile{Name: "Daniyar"}); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for driver without car, got %v", err)
	}
	if _, err := New(types.RoleCustomer, Profile{Name: "Aigerim"}); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for customer without contact, got %v", err)
	}

	// A driver profile keeps the car reference.
	u, err := New(types.RoleDriver, Profile{Name: "Daniyar", CarID: &carID})
	if err != nil {
		t.Fatalf("New driver: %v", err)
	}
	if u.CarID == nil || *u.CarID != carID {
		t.Fatal("driver car id not kept")
	}
}

func TestDirectory(t *testing.T) {
	d := NewDirectory()
	ctx := context.Background()

	carID := uuid.New()
	driver, err := New(types.RoleDriver, Profile{Name: "Daniyar", CarID: &carID})
	if err != nil {
		t.Fatalf("build driver: %v", err)
	}
	customer, err := New(types.RoleCustomer, Profile{Name: "Aigerim", Contact: "+7 701 000 00 00"})
	if err != nil {
		t.Fatalf("build customer: %v", err)
	}

	d.Register(driver)
	d.Register(customer)

	if ok, _ := d.DriverExists(ctx, driver.ID); !ok {
		t.Fatal("registered driver not found")
	}
	if ok, _ := d.DriverExists(ctx, customer.ID); ok {
		t.Fatal("customer reported as driver")
	}
	if ok, _ := d.DriverExists(ctx, uuid.New()); ok {
		t.Fatal("unknown id reported as driver")
	}

	if _, err := d.Get(uuid.New()); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, err := d.Get(driver.ID)
	if err != nil {
		t.Fatalf("get driver: %v", err)
	}
	if got.Name != "Daniyar" {
		t.Fatalf("wrong user returned: %s", got.Name)
	}
}
