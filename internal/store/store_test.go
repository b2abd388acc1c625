package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise/internal/domain"
)

func table(id string, number int) domain.Table {
	return domain.Table{
		ID:       id,
		Type:     domain.ShapeTable,
		Number:   number,
		Radius:   domain.DefaultTableRadius,
		Capacity: domain.DefaultCapacity,
	}
}

func element(id, title string) domain.VenueElement {
	return domain.VenueElement{
		ID:     id,
		Type:   domain.ShapeVenue,
		Title:  title,
		Width:  100,
		Height: 100,
	}
}

func TestShapeStoreInsertionOrder(t *testing.T) {
	s := NewShapeStore()

	require.True(t, s.Append(table("t1", 1)))
	require.True(t, s.Append(element("v1", "Bar")))
	require.True(t, s.Append(table("t2", 2)))

	// update must not disturb the z-order
	tb, ok := s.GetTable("t1")
	require.True(t, ok)
	tb.X = 500
	require.True(t, s.Update(tb))

	var ids []string
	for _, sh := range s.List() {
		ids = append(ids, sh.ShapeID())
	}
	assert.Equal(t, []string{"t1", "v1", "t2"}, ids)

	require.True(t, s.Remove("v1"))
	ids = ids[:0]
	for _, sh := range s.List() {
		ids = append(ids, sh.ShapeID())
	}
	assert.Equal(t, []string{"t1", "t2"}, ids)
}

func TestShapeStoreDuplicateAppendIgnored(t *testing.T) {
	s := NewShapeStore()

	require.True(t, s.Append(table("t1", 1)))
	assert.False(t, s.Append(table("t1", 99)))
	assert.Equal(t, 1, s.Len())

	tb, ok := s.GetTable("t1")
	require.True(t, ok)
	assert.Equal(t, 1, tb.Number)
}

func TestShapeStoreSubscribe(t *testing.T) {
	s := NewShapeStore()
	require.True(t, s.Append(table("t1", 1)))

	var got []bool
	unsub := s.Subscribe("t1", func(_ domain.Shape, ok bool) {
		got = append(got, ok)
	})

	tb, _ := s.GetTable("t1")
	tb.Capacity = 10
	s.Update(tb)
	s.Remove("t1")

	assert.Equal(t, []bool{true, false}, got)

	unsub()
	s.Append(table("t1", 2))
	assert.Len(t, got, 2)
}

func TestShapeStoreOnChange(t *testing.T) {
	s := NewShapeStore()

	var fired int
	unsub := s.OnChange(func() { fired++ })

	s.Append(table("t1", 1))
	s.Replace([]domain.Shape{table("t2", 2)})
	assert.Equal(t, 2, fired)

	unsub()
	s.Remove("t2")
	assert.Equal(t, 2, fired)
}

func TestGuestStoreFindBySeat(t *testing.T) {
	s := NewGuestStore()

	idx := 2
	require.True(t, s.Append(domain.Guest{ID: "g1", FirstName: "Ada", TableID: "t1", ChairIndex: &idx}))
	require.True(t, s.Append(domain.Guest{ID: "g2", FirstName: "Alan"}))

	g, ok := s.FindBySeat("t1", 2)
	require.True(t, ok)
	assert.Equal(t, "g1", g.ID)

	_, ok = s.FindBySeat("t1", 3)
	assert.False(t, ok)

	assert.Len(t, s.AtTable("t1"), 1)
	assert.Empty(t, s.AtTable("t9"))
}

func TestVenueBoundary(t *testing.T) {
	boundary := element("v1", domain.VenueBoundaryTitle)
	shapes := []domain.Shape{table("t1", 1), boundary, element("v2", "Stage")}

	got, ok := VenueBoundary(shapes)
	require.True(t, ok)
	assert.Equal(t, boundary, got)

	rest := NonBoundaryShapes(shapes)
	require.Len(t, rest, 2)
	assert.Equal(t, "t1", rest[0].ShapeID())
	assert.Equal(t, "v2", rest[1].ShapeID())

	_, ok = VenueBoundary(rest)
	assert.False(t, ok)
}

func TestRenderOrderVenueElementsFirst(t *testing.T) {
	shapes := []domain.Shape{
		table("t1", 1),
		element("v1", "Bar"),
		table("t2", 2),
		element("v2", "Stage"),
	}

	var ids []string
	for _, sh := range RenderOrder(shapes) {
		ids = append(ids, sh.ShapeID())
	}
	assert.Equal(t, []string{"v1", "v2", "t1", "t2"}, ids)
}

func TestGuestsGroupedByTable(t *testing.T) {
	shapes := []domain.Shape{table("t1", 1), table("t2", 2)}

	c0, c1, c3 := 0, 1, 3
	guests := []domain.Guest{
		{ID: "g1", FirstName: "zoe", LastName: "young", TableID: "t2", ChairIndex: &c1},
		{ID: "g2", FirstName: "Ada", LastName: "Lovelace"},
		{ID: "g3", FirstName: "Alan", LastName: "turing"},
		{ID: "g4", FirstName: "Kay", LastName: "Alan", TableID: "t1", ChairIndex: &c3},
		{ID: "g5", FirstName: "Max", LastName: "Born", TableID: "t1", ChairIndex: &c0},
		// table gone: must fall into the unassigned bucket
		{ID: "g6", FirstName: "Emmy", LastName: "Noether", TableID: "t9", ChairIndex: &c0},
	}

	groups := GuestsGroupedByTable(guests, shapes)
	require.Len(t, groups, 3)

	// unassigned first, sorted by last then first name, case-insensitive
	assert.Equal(t, UnassignedKey, groups[0].Key)
	assert.Nil(t, groups[0].TableNumber)
	var names []string
	for _, g := range groups[0].Guests {
		names = append(names, g.ID)
	}
	assert.Equal(t, []string{"g2", "g6", "g3"}, names)

	// then tables ascending by number, guests by chair index
	require.NotNil(t, groups[1].TableNumber)
	assert.Equal(t, 1, *groups[1].TableNumber)
	assert.Equal(t, domain.DefaultCapacity, groups[1].TableCapacity)
	assert.Equal(t, "g5", groups[1].Guests[0].ID)
	assert.Equal(t, "g4", groups[1].Guests[1].ID)

	require.NotNil(t, groups[2].TableNumber)
	assert.Equal(t, 2, *groups[2].TableNumber)
	assert.Equal(t, "g1", groups[2].Guests[0].ID)

	assert.Equal(t, 6, TotalGuests(guests))
}
