// Package seating implements the rules for assigning guests to seats and for
// creating and resizing tables and venue elements. All operations are
// all-or-nothing: on error no store mutation has happened.
package seating

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/seatwise/seatwise/internal/domain"
	"github.com/seatwise/seatwise/internal/store"
)

// PastelColors is the palette cycled through for new venue elements.
var PastelColors = []string{
	"#F2FCE2", // soft green
	"#FEF7CD", // soft yellow
	"#FEC6A1", // soft orange
	"#E5DEFF", // soft purple
	"#FFDEE2", // soft pink
	"#FDE1D3", // soft peach
	"#D3E4FD", // soft blue
	"#F1F0FB", // soft gray
}

// RandomPastelColor picks a palette color at random.
func RandomPastelColor() string {
	return PastelColors[rand.Intn(len(PastelColors))]
}

// Engine enforces seat assignment invariants over the two stores: at most
// one guest per (table, chair), chair indices always within capacity.
type Engine struct {
	shapes *store.ShapeStore
	guests *store.GuestStore

	mu      sync.Mutex
	counter int // next human-facing table number; never decreases
}

func New(shapes *store.ShapeStore, guests *store.GuestStore) *Engine {
	return &Engine{shapes: shapes, guests: guests, counter: 1}
}

// TableCounter returns the next table number to hand out.
func (e *Engine) TableCounter() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counter
}

// SetTableCounter hydrates the counter from a snapshot. Values lower than
// the current counter are ignored so numbers are never reused.
func (e *Engine) SetTableCounter(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > e.counter {
		e.counter = n
	}
}

// Assign seats a guest at (tableID, chairIndex). When both names trim to
// empty this is equivalent to clearing the seat. When the seat is already
// occupied, the occupant's name is edited in place and its identity kept.
func (e *Engine) Assign(tableID string, chairIndex int, firstName, lastName string) (domain.Guest, error) {
	const op = "seating.Engine.Assign"

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		e.UnassignSeat(tableID, chairIndex)
		return domain.Guest{}, nil
	}

	t, ok := e.shapes.GetTable(tableID)
	if !ok {
		return domain.Guest{}, fmt.Errorf("%s: %w", op, ErrTableNotFound)
	}
	if chairIndex < 0 || chairIndex >= t.Capacity {
		return domain.Guest{}, fmt.Errorf("%s: %w", op, ErrSeatOutOfRange)
	}

	if g, occupied := e.guests.FindBySeat(tableID, chairIndex); occupied {
		g.FirstName = firstName
		g.LastName = lastName
		e.guests.Update(g)
		return g, nil
	}

	idx := chairIndex
	g := domain.Guest{
		ID:         uuid.NewString(),
		FirstName:  firstName,
		LastName:   lastName,
		TableID:    tableID,
		ChairIndex: &idx,
	}
	e.guests.Append(g)

	return g, nil
}

// UnassignGuest removes the guest record entirely. Unknown ids are a no-op.
func (e *Engine) UnassignGuest(guestID string) {
	e.guests.Remove(guestID)
}

// UnassignSeat clears (tableID, chairIndex), removing the occupying guest
// record if there is one.
func (e *Engine) UnassignSeat(tableID string, chairIndex int) {
	if g, ok := e.guests.FindBySeat(tableID, chairIndex); ok {
		e.guests.Remove(g.ID)
	}
}

// MoveToTable reseats a guest at the lowest free chair of the target table.
// Moving to the unassigned bucket always succeeds. When the target table is
// full the guest's prior assignment is left untouched.
func (e *Engine) MoveToTable(guestID, targetTableID string) error {
	const op = "seating.Engine.MoveToTable"

	g, ok := e.guests.Get(guestID)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrGuestNotFound)
	}

	if targetTableID == "" || targetTableID == store.UnassignedKey {
		g.TableID = ""
		g.ChairIndex = nil
		e.guests.Update(g)
		return nil
	}

	t, ok := e.shapes.GetTable(targetTableID)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrTableNotFound)
	}

	seat := FindNextAvailableSeat(e.guests.AtTable(targetTableID), t.Capacity)
	if seat == nil {
		return fmt.Errorf("%s: table %d: %w", op, t.Number, ErrTableFull)
	}

	g.TableID = targetTableID
	g.ChairIndex = seat
	e.guests.Update(g)

	return nil
}

// ChangeCapacity adjusts a table's capacity by delta, clamped to
// [MinCapacity, MaxCapacity]. A shrink that would orphan occupied chairs is
// rejected with a SeatsOccupiedError and leaves capacity unchanged. Returns
// the table's capacity after the call.
func (e *Engine) ChangeCapacity(tableID string, delta int) (int, error) {
	const op = "seating.Engine.ChangeCapacity"

	t, ok := e.shapes.GetTable(tableID)
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, ErrTableNotFound)
	}

	newCap := domain.ClampCapacity(t.Capacity + delta)
	if newCap == t.Capacity {
		return t.Capacity, nil
	}

	if newCap < t.Capacity {
		var occupied []int
		for _, g := range e.guests.AtTable(tableID) {
			if g.ChairIndex != nil && *g.ChairIndex >= newCap {
				occupied = append(occupied, *g.ChairIndex)
			}
		}
		if len(occupied) > 0 {
			return t.Capacity, &SeatsOccupiedError{
				TableID:     tableID,
				NewCapacity: newCap,
				Occupied:    occupied,
			}
		}
	}

	t.Capacity = newCap
	e.shapes.Update(t)

	return newCap, nil
}

// FindNextAvailableSeat scans chairs 0..capacity-1 in order and returns the
// first free index, or nil when the table is full. This is the deterministic
// fill order used by "add guest at table" flows.
func FindNextAvailableSeat(guestsAtTable []domain.Guest, capacity int) *int {
	taken := make(map[int]bool, len(guestsAtTable))
	for _, g := range guestsAtTable {
		if g.ChairIndex != nil {
			taken[*g.ChairIndex] = true
		}
	}

	for i := 0; i < capacity; i++ {
		if !taken[i] {
			idx := i
			return &idx
		}
	}

	return nil
}

// AddTable creates a table at (x, y) with the default radius and capacity,
// numbered from the monotonically increasing counter.
func (e *Engine) AddTable(x, y float64) domain.Table {
	e.mu.Lock()
	number := e.counter
	e.counter++
	e.mu.Unlock()

	t := domain.Table{
		ID:        "table-" + uuid.NewString(),
		Type:      domain.ShapeTable,
		Number:    number,
		X:         x,
		Y:         y,
		Radius:    domain.DefaultTableRadius,
		Capacity:  domain.DefaultCapacity,
		Draggable: true,
	}
	e.shapes.Append(t)

	return t
}

// AddVenueElement creates a decorative rectangle with a random pastel fill.
func (e *Engine) AddVenueElement(title string, x, y, width, height float64) domain.VenueElement {
	el := domain.VenueElement{
		ID:        "venue-element-" + uuid.NewString(),
		Type:      domain.ShapeVenue,
		Title:     title,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Color:     RandomPastelColor(),
		Draggable: true,
	}
	e.shapes.Append(el)

	return el
}

// AddVenueSpace creates the singleton venue boundary, inset 50px from the
// viewport edges. Creation is rejected while a boundary exists.
func (e *Engine) AddVenueSpace(viewportWidth, viewportHeight float64) (domain.VenueElement, error) {
	const op = "seating.Engine.AddVenueSpace"

	if _, exists := store.VenueBoundary(e.shapes.List()); exists {
		return domain.VenueElement{}, fmt.Errorf("%s: %w", op, ErrBoundaryExists)
	}

	el := domain.VenueElement{
		ID:     "venue-element-" + uuid.NewString(),
		Type:   domain.ShapeVenue,
		Title:  domain.VenueBoundaryTitle,
		X:      50,
		Y:      50,
		Width:  viewportWidth - 100,
		Height: viewportHeight - 100,
		Color:  RandomPastelColor(),
	}
	e.shapes.Append(el)

	return el, nil
}

// RemoveShape deletes a shape. Deleting a table unseats its guests into the
// unassigned bucket so no guest ever references a nonexistent seat.
func (e *Engine) RemoveShape(id string) bool {
	if _, isTable := e.shapes.GetTable(id); isTable {
		for _, g := range e.guests.AtTable(id) {
			g.TableID = ""
			g.ChairIndex = nil
			e.guests.Update(g)
		}
	}

	return e.shapes.Remove(id)
}
