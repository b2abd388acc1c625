package store

import (
	"sort"
	"strings"

	"github.com/seatwise/seatwise/internal/domain"
)

// UnassignedKey is the synthetic group key for guests without a table.
const UnassignedKey = "unassigned"

// VenueBoundary returns the singleton venue boundary, if present.
func VenueBoundary(shapes []domain.Shape) (domain.VenueElement, bool) {
	for _, sh := range shapes {
		if e, ok := sh.(domain.VenueElement); ok && e.IsBoundary() {
			return e, true
		}
	}

	return domain.VenueElement{}, false
}

// NonBoundaryShapes returns every shape except the venue boundary,
// preserving relative order.
func NonBoundaryShapes(shapes []domain.Shape) []domain.Shape {
	out := make([]domain.Shape, 0, len(shapes))
	for _, sh := range shapes {
		if e, ok := sh.(domain.VenueElement); ok && e.IsBoundary() {
			continue
		}
		out = append(out, sh)
	}

	return out
}

// RenderOrder places all venue elements before all tables, keeping relative
// order within each group, so tables are never occluded by decor.
func RenderOrder(shapes []domain.Shape) []domain.Shape {
	out := make([]domain.Shape, 0, len(shapes))
	for _, sh := range shapes {
		if sh.Kind() == domain.ShapeVenue {
			out = append(out, sh)
		}
	}
	for _, sh := range shapes {
		if sh.Kind() == domain.ShapeTable {
			out = append(out, sh)
		}
	}

	return out
}

// GuestGroup is one entry of the grouped guest list. TableNumber is nil for
// the unassigned bucket.
type GuestGroup struct {
	Key           string
	TableNumber   *int
	TableCapacity int
	Guests        []domain.Guest
}

// GuestsGroupedByTable groups guests per table plus a synthetic unassigned
// bucket. Assigned groups sort guests by chair index; the unassigned bucket
// sorts by last then first name, case-insensitively. Groups come back with
// unassigned first, then ascending table number. Guests referencing a table
// that no longer exists fall into the unassigned bucket.
func GuestsGroupedByTable(guests []domain.Guest, shapes []domain.Shape) []GuestGroup {
	tables := make(map[string]domain.Table)
	for _, sh := range shapes {
		if t, ok := sh.(domain.Table); ok {
			tables[t.ID] = t
		}
	}

	byTable := make(map[string][]domain.Guest)
	var unassigned []domain.Guest
	for _, g := range guests {
		if _, known := tables[g.TableID]; g.Assigned() && known {
			byTable[g.TableID] = append(byTable[g.TableID], g)
		} else {
			unassigned = append(unassigned, g)
		}
	}

	sort.SliceStable(unassigned, func(i, j int) bool {
		li, lj := strings.ToLower(unassigned[i].LastName), strings.ToLower(unassigned[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(unassigned[i].FirstName) < strings.ToLower(unassigned[j].FirstName)
	})

	groups := []GuestGroup{{Key: UnassignedKey, Guests: unassigned}}

	ids := make([]string, 0, len(byTable))
	for id := range byTable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return tables[ids[i]].Number < tables[ids[j]].Number
	})

	for _, id := range ids {
		t := tables[id]
		gs := byTable[id]
		sort.SliceStable(gs, func(i, j int) bool {
			return *gs[i].ChairIndex < *gs[j].ChairIndex
		})
		num := t.Number
		groups = append(groups, GuestGroup{
			Key:           id,
			TableNumber:   &num,
			TableCapacity: t.Capacity,
			Guests:        gs,
		})
	}

	return groups
}

// TotalGuests counts all guest records.
func TotalGuests(guests []domain.Guest) int {
	return len(guests)
}
