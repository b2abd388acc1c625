package domain

import (
	"encoding/json"
	"fmt"
)

// ShapeType discriminates the JSON shape union.
type ShapeType string

const (
	ShapeVenue ShapeType = "venue"
	ShapeTable ShapeType = "table"
)

// VenueBoundaryTitle marks the singleton venue boundary element.
const VenueBoundaryTitle = "Venue Space"

// Rect is an axis-aligned bounding box.
type Rect struct {
	X, Y, Width, Height float64
}

// Shape is one element on the canvas: either a VenueElement rectangle or a
// Table circle. Implementations are value types; mutations replace the whole
// value through the shape store.
type Shape interface {
	ShapeID() string
	Kind() ShapeType
	Bounds() Rect
}

// VenueElement is a rectangular decorative element or the venue boundary.
type VenueElement struct {
	ID          string    `json:"id"`
	Type        ShapeType `json:"type"`
	Title       string    `json:"title"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Color       string    `json:"color,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Draggable   bool      `json:"draggable,omitempty"`
}

func (e VenueElement) ShapeID() string { return e.ID }
func (e VenueElement) Kind() ShapeType { return ShapeVenue }

func (e VenueElement) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// IsBoundary reports whether this element is the venue boundary.
func (e VenueElement) IsBoundary() bool {
	return e.Title == VenueBoundaryTitle
}

// Table is a circular table with Capacity seats arranged radially.
type Table struct {
	ID        string    `json:"id"`
	Type      ShapeType `json:"type"`
	Number    int       `json:"number"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Radius    float64   `json:"radius"`
	Capacity  int       `json:"capacity"`
	Draggable bool      `json:"draggable,omitempty"`
}

func (t Table) ShapeID() string { return t.ID }
func (t Table) Kind() ShapeType { return ShapeTable }

func (t Table) Bounds() Rect {
	return Rect{
		X:      t.X - t.Radius,
		Y:      t.Y - t.Radius,
		Width:  t.Radius * 2,
		Height: t.Radius * 2,
	}
}

// ShapeList carries the heterogeneous shapes array. Order is significant:
// first-inserted renders first (behind).
type ShapeList []Shape

func (l *ShapeList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(ShapeList, 0, len(raw))
	for i, msg := range raw {
		var probe struct {
			Type ShapeType `json:"type"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}

		switch probe.Type {
		case ShapeVenue:
			var e VenueElement
			if err := json.Unmarshal(msg, &e); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
			out = append(out, e)
		case ShapeTable:
			var t Table
			if err := json.Unmarshal(msg, &t); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
			out = append(out, t)
		default:
			return fmt.Errorf("shape %d: unknown type %q", i, probe.Type)
		}
	}

	*l = out

	return nil
}
