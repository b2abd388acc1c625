package store

import (
	"sync"

	"github.com/seatwise/seatwise/internal/domain"
)

// GuestStore holds all guest records in insertion order.
type GuestStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]domain.Guest
	changed map[int]func()
	nextSub int
}

func NewGuestStore() *GuestStore {
	return &GuestStore{
		byID:    make(map[string]domain.Guest),
		changed: make(map[int]func()),
	}
}

// List returns all guests in insertion order.
func (s *GuestStore) List() []domain.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Guest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}

	return out
}

// Get returns the guest with the given id.
func (s *GuestStore) Get(id string) (domain.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.byID[id]
	return g, ok
}

// Len returns the number of guests.
func (s *GuestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// AtTable returns all guests assigned to the given table.
func (s *GuestStore) AtTable(tableID string) []domain.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Guest
	for _, id := range s.order {
		if g := s.byID[id]; g.TableID == tableID {
			out = append(out, g)
		}
	}

	return out
}

// FindBySeat returns the guest occupying (tableID, chairIndex), if any.
func (s *GuestStore) FindBySeat(tableID string, chairIndex int) (domain.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		g := s.byID[id]
		if g.TableID == tableID && g.ChairIndex != nil && *g.ChairIndex == chairIndex {
			return g, true
		}
	}

	return domain.Guest{}, false
}

// Append adds a new guest. Duplicate ids are ignored.
func (s *GuestStore) Append(g domain.Guest) bool {
	s.mu.Lock()
	if _, exists := s.byID[g.ID]; exists {
		s.mu.Unlock()
		return false
	}
	s.byID[g.ID] = g
	s.order = append(s.order, g.ID)
	changed := s.changedFuncs()
	s.mu.Unlock()

	for _, fn := range changed {
		fn()
	}
	return true
}

// Update atomically replaces the guest with the same id.
func (s *GuestStore) Update(g domain.Guest) bool {
	s.mu.Lock()
	if _, exists := s.byID[g.ID]; !exists {
		s.mu.Unlock()
		return false
	}
	s.byID[g.ID] = g
	changed := s.changedFuncs()
	s.mu.Unlock()

	for _, fn := range changed {
		fn()
	}
	return true
}

// Remove deletes the guest with the given id. Removing an absent id is a
// no-op reported as false.
func (s *GuestStore) Remove(id string) bool {
	s.mu.Lock()
	if _, exists := s.byID[id]; !exists {
		s.mu.Unlock()
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	changed := s.changedFuncs()
	s.mu.Unlock()

	for _, fn := range changed {
		fn()
	}
	return true
}

// Replace swaps the whole collection. Used when hydrating from a snapshot.
func (s *GuestStore) Replace(guests []domain.Guest) {
	s.mu.Lock()
	s.order = s.order[:0]
	s.byID = make(map[string]domain.Guest, len(guests))
	for _, g := range guests {
		if _, dup := s.byID[g.ID]; dup {
			continue
		}
		s.byID[g.ID] = g
		s.order = append(s.order, g.ID)
	}
	changed := s.changedFuncs()
	s.mu.Unlock()

	for _, fn := range changed {
		fn()
	}
}

// OnChange registers a listener fired after every mutation.
func (s *GuestStore) OnChange(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextSub
	s.nextSub++
	s.changed[key] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.changed, key)
	}
}

func (s *GuestStore) changedFuncs() []func() {
	out := make([]func(), 0, len(s.changed))
	for _, fn := range s.changed {
		out = append(out, fn)
	}
	return out
}
