package users

import (
	"fmt"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

// Profile carries the role-specific fields accepted by the factory.
// Which of them are required depends on the role.
type Profile struct {
	Name    string
	CarID   *uuid.UUID // drivers
	Contact string     // customers
	Address string     // customers
}

// New is the single factory for every user kind: a parameterized
// constructor over the role enum instead of a constructor type per role.
func New(role types.Role, p Profile) (models.User, error) {
	if !role.Valid() {
		return models.User{}, types.ErrInvalidRole
	}
	if p.Name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", types.ErrInvalidInput)
	}

	u := models.User{
		ID:   uuid.New(),
		Name: p.Name,
		Role: role,
	}

	switch role {
	case types.RoleDriver:
		if p.CarID == nil {
			return models.User{}, fmt.Errorf("%w: driver needs a car", types.ErrInvalidInput)
		}
		u.CarID = p.CarID

	case types.RoleCustomer:
		if p.Contact == "" {
			return models.User{}, fmt.Errorf("%w: customer contact is required", types.ErrInvalidInput)
		}
		u.Contact = p.Contact
		u.Address = p.Address
	}

	return u, nil
}
