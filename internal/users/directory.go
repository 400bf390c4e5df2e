package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

// Directory is the in-memory registry of known users. The dispatcher
// consults it before assigning a driver to a booking.
type Directory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[uuid.UUID]models.User),
	}
}

// Register adds or replaces a user.
func (d *Directory) Register(u models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// Get returns the user with the given id.
func (d *Directory) Get(id uuid.UUID) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return models.User{}, types.ErrNotFound
	}
	return u, nil
}

// DriverExists reports whether the id belongs to a registered driver.
func (d *Directory) DriverExists(_ context.Context, id uuid.UUID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	return ok && u.Role == types.RoleDriver, nil
}
