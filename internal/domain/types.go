package domain

import (
	"time"
)

// Capacity bounds for tables. Every mutation clamps into this range.
const (
	MinCapacity     = 6
	MaxCapacity     = 12
	DefaultCapacity = 8
)

// DefaultTableRadius is the radius assigned to newly created tables.
const DefaultTableRadius = 60.0

// DefaultEventTitle seeds the event title of a freshly created venue.
const DefaultEventTitle = "My Event"

// Guest is a single guest record. TableID == "" together with a nil
// ChairIndex means the guest sits in the unassigned bucket.
type Guest struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	TableID    string `json:"tableId"`
	ChairIndex *int   `json:"chairIndex"`
}

// Assigned reports whether the guest occupies a concrete seat.
func (g Guest) Assigned() bool {
	return g.TableID != "" && g.ChairIndex != nil
}

// FullName joins the name fields for display.
func (g Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// VenueData is the persisted snapshot: the wire format of PUT/GET bodies and
// of the local cache. TableCounter only ever increases, even when tables are
// deleted, so table numbers are never reused.
type VenueData struct {
	Shapes       ShapeList `json:"shapes"`
	Guests       []Guest   `json:"guests"`
	EventTitle   string    `json:"eventTitle"`
	TableCounter int       `json:"tableCounter"`
}

// NewVenueData returns the snapshot of an empty, freshly created venue.
func NewVenueData() VenueData {
	return VenueData{
		Shapes:       ShapeList{},
		Guests:       []Guest{},
		EventTitle:   DefaultEventTitle,
		TableCounter: 1,
	}
}

// Venue is the server-side record. The stored PIN hash never leaves the
// service layer and is deliberately absent here.
type Venue struct {
	Slug      string    `json:"slug"`
	VenueData VenueData `json:"venue_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidPIN reports whether pin is exactly four decimal digits. Both client
// and server validate the format before any hashing or comparison attempt.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClampCapacity forces c into [MinCapacity, MaxCapacity].
func ClampCapacity(c int) int {
	if c < MinCapacity {
		return MinCapacity
	}
	if c > MaxCapacity {
		return MaxCapacity
	}
	return c
}
