// Package store holds the in-memory state of one open venue: the ordered
// shape collection and the guest list. Both stores are the sole writers of
// their collections; rendering layers read values and report intents back
// through callbacks, they never mutate state directly.
package store

import (
	"sync"

	"github.com/seatwise/seatwise/internal/domain"
)

// ShapeStore is an arena of shapes: an ordered id index plus an id -> shape
// map. Subscribers can watch a single id, so editing one shape does not force
// listeners of unrelated shapes to re-read the whole list.
type ShapeStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]domain.Shape
	subs    map[string]map[int]func(domain.Shape, bool)
	changed map[int]func()
	nextSub int
}

func NewShapeStore() *ShapeStore {
	return &ShapeStore{
		byID:    make(map[string]domain.Shape),
		subs:    make(map[string]map[int]func(domain.Shape, bool)),
		changed: make(map[int]func()),
	}
}

// List returns all shapes in insertion order.
func (s *ShapeStore) List() []domain.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Shape, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}

	return out
}

// Get returns the shape with the given id.
func (s *ShapeStore) Get(id string) (domain.Shape, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.byID[id]
	return sh, ok
}

// GetTable returns the table with the given id, or false when the id is
// absent or names a non-table shape.
func (s *ShapeStore) GetTable(id string) (domain.Table, bool) {
	sh, ok := s.Get(id)
	if !ok {
		return domain.Table{}, false
	}

	t, ok := sh.(domain.Table)
	return t, ok
}

// Len returns the number of shapes.
func (s *ShapeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Append adds a new shape at the end of the z-order. Appending an id that
// already exists is ignored and reported as false.
func (s *ShapeStore) Append(sh domain.Shape) bool {
	s.mu.Lock()
	id := sh.ShapeID()
	if _, exists := s.byID[id]; exists {
		s.mu.Unlock()
		return false
	}
	s.byID[id] = sh
	s.order = append(s.order, id)
	notify := s.collect(id, sh, true)
	s.mu.Unlock()

	notify()
	return true
}

// Update atomically replaces the shape with the same id. Unknown ids are
// ignored and reported as false.
func (s *ShapeStore) Update(sh domain.Shape) bool {
	s.mu.Lock()
	id := sh.ShapeID()
	if _, exists := s.byID[id]; !exists {
		s.mu.Unlock()
		return false
	}
	s.byID[id] = sh
	notify := s.collect(id, sh, true)
	s.mu.Unlock()

	notify()
	return true
}

// Remove deletes the shape with the given id.
func (s *ShapeStore) Remove(id string) bool {
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
	notify := s.collect(id, nil, false)
	s.mu.Unlock()

	notify()
	return true
}

// Replace swaps the whole collection, preserving the given order. Used when
// hydrating from a snapshot.
func (s *ShapeStore) Replace(shapes []domain.Shape) {
	s.mu.Lock()
	s.order = s.order[:0]
	s.byID = make(map[string]domain.Shape, len(shapes))
	for _, sh := range shapes {
		id := sh.ShapeID()
		if _, dup := s.byID[id]; dup {
			continue
		}
		s.byID[id] = sh
		s.order = append(s.order, id)
	}
	changed := s.changedFuncs()
	s.mu.Unlock()

	for _, fn := range changed {
		fn()
	}
}

// Subscribe watches one shape id. The callback receives the new value, or
// (nil, false) when the shape is removed. The returned function cancels the
// subscription.
func (s *ShapeStore) Subscribe(id string, fn func(domain.Shape, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextSub
	s.nextSub++
	if s.subs[id] == nil {
		s.subs[id] = make(map[int]func(domain.Shape, bool))
	}
	s.subs[id][key] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if m := s.subs[id]; m != nil {
			delete(m, key)
			if len(m) == 0 {
				delete(s.subs, id)
			}
		}
	}
}

// OnChange registers a coarse listener fired after every mutation. The
// persistence pipeline uses this to observe snapshot changes.
func (s *ShapeStore) OnChange(fn func()) func() {
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

// collect gathers callbacks under the lock; the caller invokes the returned
// closure after unlocking so listeners may re-enter the store.
func (s *ShapeStore) collect(id string, sh domain.Shape, ok bool) func() {
	var perID []func(domain.Shape, bool)
	for _, fn := range s.subs[id] {
		perID = append(perID, fn)
	}
	changed := s.changedFuncs()

	return func() {
		for _, fn := range perID {
			fn(sh, ok)
		}
		for _, fn := range changed {
			fn()
		}
	}
}

func (s *ShapeStore) changedFuncs() []func() {
	out := make([]func(), 0, len(s.changed))
	for _, fn := range s.changed {
		out = append(out, fn)
	}
	return out
}
