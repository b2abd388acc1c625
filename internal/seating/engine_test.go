package seating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise/internal/domain"
	"github.com/seatwise/seatwise/internal/store"
)

func newEngine() (*Engine, *store.ShapeStore, *store.GuestStore) {
	shapes := store.NewShapeStore()
	guests := store.NewGuestStore()
	return New(shapes, guests), shapes, guests
}

func TestAssignCreatesGuest(t *testing.T) {
	e, _, guests := newEngine()
	tb := e.AddTable(100, 100)

	g, err := e.Assign(tb.ID, 2, "  Ada ", " Lovelace ")
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Ada", g.FirstName)
	assert.Equal(t, "Lovelace", g.LastName)
	assert.Equal(t, tb.ID, g.TableID)
	require.NotNil(t, g.ChairIndex)
	assert.Equal(t, 2, *g.ChairIndex)
	assert.Equal(t, 1, guests.Len())
}

func TestAssignOccupiedSeatEditsInPlace(t *testing.T) {
	e, _, guests := newEngine()
	tb := e.AddTable(0, 0)

	first, err := e.Assign(tb.ID, 0, "Ada", "Lovelace")
	require.NoError(t, err)

	edited, err := e.Assign(tb.ID, 0, "Augusta", "King")
	require.NoError(t, err)

	assert.Equal(t, first.ID, edited.ID)
	assert.Equal(t, "Augusta", edited.FirstName)
	assert.Equal(t, 1, guests.Len())
}

func TestAssignEmptyNamesClearsSeat(t *testing.T) {
	e, _, guests := newEngine()
	tb := e.AddTable(0, 0)

	_, err := e.Assign(tb.ID, 0, "Ada", "Lovelace")
	require.NoError(t, err)

	_, err = e.Assign(tb.ID, 0, "   ", "")
	require.NoError(t, err)
	assert.Equal(t, 0, guests.Len())
}

func TestAssignErrors(t *testing.T) {
	e, _, _ := newEngine()
	tb := e.AddTable(0, 0)

	_, err := e.Assign("nope", 0, "Ada", "")
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = e.Assign(tb.ID, -1, "Ada", "")
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	_, err = e.Assign(tb.ID, tb.Capacity, "Ada", "")
	assert.ErrorIs(t, err, ErrSeatOutOfRange)
}

func TestMoveToTableTakesLowestFreeSeat(t *testing.T) {
	e, _, guests := newEngine()
	tb := e.AddTable(0, 0)

	_, err := e.Assign(tb.ID, 0, "A", "")
	require.NoError(t, err)
	_, err = e.Assign(tb.ID, 2, "C", "")
	require.NoError(t, err)

	guests.Append(domain.Guest{ID: "g-new", FirstName: "B"})
	require.NoError(t, e.MoveToTable("g-new", tb.ID))

	g, ok := guests.Get("g-new")
	require.True(t, ok)
	require.NotNil(t, g.ChairIndex)
	assert.Equal(t, 1, *g.ChairIndex)
}

func TestMoveToFullTableLeavesGuestUntouched(t *testing.T) {
	e, _, guests := newEngine()
	src := e.AddTable(0, 0)
	dst := e.AddTable(300, 0)

	for i := 0; i < dst.Capacity; i++ {
		_, err := e.Assign(dst.ID, i, "Guest", "")
		require.NoError(t, err)
	}

	moved, err := e.Assign(src.ID, 4, "Ada", "Lovelace")
	require.NoError(t, err)

	err = e.MoveToTable(moved.ID, dst.ID)
	assert.ErrorIs(t, err, ErrTableFull)

	g, ok := guests.Get(moved.ID)
	require.True(t, ok)
	assert.Equal(t, src.ID, g.TableID)
	require.NotNil(t, g.ChairIndex)
	assert.Equal(t, 4, *g.ChairIndex)
}

func TestMoveToUnassignedAlwaysSucceeds(t *testing.T) {
	e, _, guests := newEngine()
	tb := e.AddTable(0, 0)

	g, err := e.Assign(tb.ID, 0, "Ada", "")
	require.NoError(t, err)

	require.NoError(t, e.MoveToTable(g.ID, store.UnassignedKey))
	got, _ := guests.Get(g.ID)
	assert.Empty(t, got.TableID)
	assert.Nil(t, got.ChairIndex)

	// "" is the same bucket
	require.NoError(t, e.MoveToTable(g.ID, ""))

	assert.ErrorIs(t, e.MoveToTable("nope", tb.ID), ErrGuestNotFound)
}

func TestChangeCapacityClamps(t *testing.T) {
	e, shapes, _ := newEngine()
	tb := e.AddTable(0, 0) // capacity 8

	got, err := e.ChangeCapacity(tb.ID, +10)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxCapacity, got)

	got, err = e.ChangeCapacity(tb.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, domain.MinCapacity, got)

	// no-op at the boundary
	got, err = e.ChangeCapacity(tb.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, domain.MinCapacity, got)

	cur, _ := shapes.GetTable(tb.ID)
	assert.Equal(t, domain.MinCapacity, cur.Capacity)
}

func TestChangeCapacityShrinkBlockedByOccupiedSeats(t *testing.T) {
	e, shapes, _ := newEngine()
	tb := e.AddTable(0, 0)

	_, err := e.Assign(tb.ID, 7, "Ada", "")
	require.NoError(t, err)
	_, err = e.Assign(tb.ID, 6, "Alan", "")
	require.NoError(t, err)

	got, err := e.ChangeCapacity(tb.ID, -2)
	require.Error(t, err)
	assert.Equal(t, tb.Capacity, got)

	var occ *SeatsOccupiedError
	require.True(t, errors.As(err, &occ))
	assert.Equal(t, tb.ID, occ.TableID)
	assert.Equal(t, 6, occ.NewCapacity)
	assert.ElementsMatch(t, []int{6, 7}, occ.Occupied)

	cur, _ := shapes.GetTable(tb.ID)
	assert.Equal(t, tb.Capacity, cur.Capacity)
}

func TestChangeCapacityShrinkSucceedsWhenHighSeatsFree(t *testing.T) {
	e, _, _ := newEngine()
	tb := e.AddTable(0, 0)

	_, err := e.Assign(tb.ID, 0, "Ada", "")
	require.NoError(t, err)

	got, err := e.ChangeCapacity(tb.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestTableNumbersNeverReused(t *testing.T) {
	e, _, _ := newEngine()

	t1 := e.AddTable(0, 0)
	t2 := e.AddTable(100, 0)
	assert.Equal(t, 1, t1.Number)
	assert.Equal(t, 2, t2.Number)

	require.True(t, e.RemoveShape(t2.ID))

	t3 := e.AddTable(200, 0)
	assert.Equal(t, 3, t3.Number)
}

func TestSetTableCounterOnlyRaises(t *testing.T) {
	e, _, _ := newEngine()

	e.SetTableCounter(5)
	assert.Equal(t, 5, e.TableCounter())

	e.SetTableCounter(2)
	assert.Equal(t, 5, e.TableCounter())
}

func TestAddVenueSpaceSingleton(t *testing.T) {
	e, _, _ := newEngine()

	el, err := e.AddVenueSpace(800, 600)
	require.NoError(t, err)
	assert.Equal(t, domain.VenueBoundaryTitle, el.Title)
	assert.Equal(t, 50.0, el.X)
	assert.Equal(t, 50.0, el.Y)
	assert.Equal(t, 700.0, el.Width)
	assert.Equal(t, 500.0, el.Height)

	_, err = e.AddVenueSpace(800, 600)
	assert.ErrorIs(t, err, ErrBoundaryExists)
}

func TestRemoveTableUnseatsGuests(t *testing.T) {
	e, shapes, guests := newEngine()
	tb := e.AddTable(0, 0)

	g1, err := e.Assign(tb.ID, 0, "Ada", "")
	require.NoError(t, err)
	g2, err := e.Assign(tb.ID, 1, "Alan", "")
	require.NoError(t, err)

	require.True(t, e.RemoveShape(tb.ID))
	assert.Equal(t, 0, shapes.Len())

	for _, id := range []string{g1.ID, g2.ID} {
		g, ok := guests.Get(id)
		require.True(t, ok)
		assert.Empty(t, g.TableID)
		assert.Nil(t, g.ChairIndex)
	}
}

func TestFindNextAvailableSeat(t *testing.T) {
	c0, c1 := 0, 1
	guests := []domain.Guest{
		{ID: "a", ChairIndex: &c0},
		{ID: "b", ChairIndex: &c1},
	}

	seat := FindNextAvailableSeat(guests, 4)
	require.NotNil(t, seat)
	assert.Equal(t, 2, *seat)

	assert.Nil(t, FindNextAvailableSeat(guests, 2))
	assert.Nil(t, FindNextAvailableSeat(nil, 0))
}

func TestDispatch(t *testing.T) {
	e, shapes, guests := newEngine()
	tb := e.AddTable(0, 0)

	require.NoError(t, e.Dispatch(ShapeMoved{ID: tb.ID, X: 42, Y: 24}))
	cur, _ := shapes.GetTable(tb.ID)
	assert.Equal(t, 42.0, cur.X)
	assert.Equal(t, 24.0, cur.Y)

	require.NoError(t, e.Dispatch(ShapeResized{ID: tb.ID, Radius: 80}))
	cur, _ = shapes.GetTable(tb.ID)
	assert.Equal(t, 80.0, cur.Radius)

	require.NoError(t, e.Dispatch(ChairClicked{TableID: tb.ID, ChairIndex: 1, FirstName: "Ada"}))
	assert.Equal(t, 1, guests.Len())

	require.NoError(t, e.Dispatch(CapacityClicked{TableID: tb.ID, Delta: 2}))
	cur, _ = shapes.GetTable(tb.ID)
	assert.Equal(t, 10, cur.Capacity)

	assert.Error(t, e.Dispatch(ShapeMoved{ID: "nope"}))
}
