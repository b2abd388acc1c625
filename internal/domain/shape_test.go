package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueDataRoundTrip(t *testing.T) {
	chair := 3
	in := VenueData{
		Shapes: ShapeList{
			VenueElement{
				ID:     "venue-element-1",
				Type:   ShapeVenue,
				Title:  VenueBoundaryTitle,
				X:      50,
				Y:      50,
				Width:  700,
				Height: 500,
				Color:  "#F2FCE2",
			},
			Table{
				ID:        "table-1",
				Type:      ShapeTable,
				Number:    1,
				X:         200,
				Y:         200,
				Radius:    DefaultTableRadius,
				Capacity:  DefaultCapacity,
				Draggable: true,
			},
			VenueElement{
				ID:        "venue-element-2",
				Type:      ShapeVenue,
				Title:     "Stage",
				X:         400,
				Y:         100,
				Width:     120,
				Height:    80,
				Color:     "#D3E4FD",
				Draggable: true,
			},
		},
		Guests: []Guest{
			{ID: "g1", FirstName: "Ada", LastName: "Lovelace", TableID: "table-1", ChairIndex: &chair},
			{ID: "g2", FirstName: "Alan", LastName: "Turing"},
		},
		EventTitle:   "Spring Gala",
		TableCounter: 2,
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out VenueData
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Equal(t, in, out)
}

func TestShapeListPreservesOrder(t *testing.T) {
	raw := `[
		{"id":"t1","type":"table","number":1,"x":0,"y":0,"radius":60,"capacity":8},
		{"id":"v1","type":"venue","title":"Bar","x":10,"y":10,"width":50,"height":50},
		{"id":"t2","type":"table","number":2,"x":100,"y":100,"radius":60,"capacity":8}
	]`

	var l ShapeList
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	require.Len(t, l, 3)

	assert.Equal(t, "t1", l[0].ShapeID())
	assert.Equal(t, "v1", l[1].ShapeID())
	assert.Equal(t, "t2", l[2].ShapeID())
}

func TestShapeListRejectsUnknownType(t *testing.T) {
	var l ShapeList
	err := json.Unmarshal([]byte(`[{"id":"x","type":"booth"}]`), &l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestGuestAssigned(t *testing.T) {
	idx := 0
	assert.True(t, Guest{TableID: "t1", ChairIndex: &idx}.Assigned())
	assert.False(t, Guest{TableID: "t1"}.Assigned())
	assert.False(t, Guest{ChairIndex: &idx}.Assigned())
	assert.False(t, Guest{}.Assigned())
}

func TestGuestNilChairIndexSerializesAsNull(t *testing.T) {
	b, err := json.Marshal(Guest{ID: "g1", FirstName: "Grace"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"chairIndex":null`)
}

func TestTableBounds(t *testing.T) {
	b := Table{X: 100, Y: 100, Radius: 60}.Bounds()
	assert.Equal(t, Rect{X: 40, Y: 40, Width: 120, Height: 120}, b)
}

func TestValidPIN(t *testing.T) {
	assert.True(t, ValidPIN("1234"))
	assert.True(t, ValidPIN("0000"))
	assert.False(t, ValidPIN("123"))
	assert.False(t, ValidPIN("12345"))
	assert.False(t, ValidPIN("12a4"))
	assert.False(t, ValidPIN(""))
	assert.False(t, ValidPIN("12.4"))
}

func TestClampCapacity(t *testing.T) {
	assert.Equal(t, MinCapacity, ClampCapacity(0))
	assert.Equal(t, MinCapacity, ClampCapacity(5))
	assert.Equal(t, 8, ClampCapacity(8))
	assert.Equal(t, MaxCapacity, ClampCapacity(13))
	assert.Equal(t, MaxCapacity, ClampCapacity(100))
}
