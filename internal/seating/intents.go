package seating

import (
	"fmt"

	"github.com/seatwise/seatwise/internal/domain"
)

// Intent is a user-intent message reported by the rendering layer. The set
// is closed: the canvas stays a pure view and every mutation flows through
// Dispatch.
type Intent interface{ isIntent() }

// ShapeMoved reports a finished drag of a shape.
type ShapeMoved struct {
	ID   string
	X, Y float64
}

// ShapeResized reports a finished resize. Radius applies to tables,
// Width/Height to venue elements.
type ShapeResized struct {
	ID            string
	Width, Height float64
	Radius        float64
}

// ChairClicked reports an assignment edit on one chair. Empty names clear
// the seat.
type ChairClicked struct {
	TableID    string
	ChairIndex int
	FirstName  string
	LastName   string
}

// CapacityClicked reports a press on a table's +/- capacity button.
type CapacityClicked struct {
	TableID string
	Delta   int
}

func (ShapeMoved) isIntent()      {}
func (ShapeResized) isIntent()    {}
func (ChairClicked) isIntent()    {}
func (CapacityClicked) isIntent() {}

// Dispatch applies one intent to the stores.
func (e *Engine) Dispatch(intent Intent) error {
	const op = "seating.Engine.Dispatch"

	switch msg := intent.(type) {
	case ShapeMoved:
		sh, ok := e.shapes.Get(msg.ID)
		if !ok {
			return fmt.Errorf("%s: shape %s: not found", op, msg.ID)
		}
		switch s := sh.(type) {
		case domain.Table:
			s.X, s.Y = msg.X, msg.Y
			e.shapes.Update(s)
		case domain.VenueElement:
			s.X, s.Y = msg.X, msg.Y
			e.shapes.Update(s)
		}
		return nil

	case ShapeResized:
		sh, ok := e.shapes.Get(msg.ID)
		if !ok {
			return fmt.Errorf("%s: shape %s: not found", op, msg.ID)
		}
		switch s := sh.(type) {
		case domain.Table:
			if msg.Radius > 0 {
				s.Radius = msg.Radius
				e.shapes.Update(s)
			}
		case domain.VenueElement:
			if msg.Width > 0 && msg.Height > 0 {
				s.Width, s.Height = msg.Width, msg.Height
				e.shapes.Update(s)
			}
		}
		return nil

	case ChairClicked:
		_, err := e.Assign(msg.TableID, msg.ChairIndex, msg.FirstName, msg.LastName)
		return err

	case CapacityClicked:
		_, err := e.ChangeCapacity(msg.TableID, msg.Delta)
		return err

	default:
		return fmt.Errorf("%s: unknown intent %T", op, intent)
	}
}
