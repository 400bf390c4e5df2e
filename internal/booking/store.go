package booking

import (
	"sync"

	"github.com/google/uuid"

	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

// entry couples a booking with its location record under one lock, so a
// transition and a coordinate update for the same booking can never
// interleave while different bookings proceed independently.
type entry struct {
	mu       sync.RWMutex
	booking  models.Booking
	location models.LocationRecord
}

// Store is the in-memory authority for bookings. The outer map lock is
// held only to locate an entry; all mutation happens under the entry's
// own lock.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

func NewStore() *Store {
	return &Store{
		entries: make(map[uuid.UUID]*entry),
	}
}

// Add registers a freshly created booking. Booking ids are never reused,
// so a collision means a caller bug.
func (s *Store) Add(b models.Booking, loc models.LocationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[b.ID] = &entry{booking: b, location: loc}
}

func (s *Store) find(id uuid.UUID) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return e, nil
}

// Mutate runs fn on copies of the booking and its location under the
// entry's write lock and commits them back only if fn succeeds. This
// makes every transition all-or-nothing: a rejected operation leaves
// the stored state untouched. Side effects that must stay ordered with
// the commit, like enqueueing events, belong inside fn: the entry lock
// is not released until after the commit.
func (s *Store) Mutate(id uuid.UUID, fn func(b *models.Booking, loc *models.LocationRecord) error) error {
	e, err := s.find(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.booking
	loc := e.location
	if err := fn(&b, &loc); err != nil {
		return err
	}

	e.booking = b
	e.location = loc
	return nil
}

// View runs fn on consistent copies under the entry's read lock.
// Reads proceed concurrently with each other and never observe a
// half-applied mutation.
func (s *Store) View(id uuid.UUID, fn func(b models.Booking, loc models.LocationRecord)) error {
	e, err := s.find(id)
	if err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	fn(e.booking, e.location)
	return nil
}

// Len returns the number of stored bookings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
