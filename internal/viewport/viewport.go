// Package viewport holds the pan/zoom state of the canvas, decoupled from
// the data model. The transform is ephemeral: it is never persisted and
// resets on reload.
package viewport

import (
	"math"
	"sync"

	"github.com/seatwise/seatwise/internal/domain"
)

const (
	MinScale  = 0.1
	MaxScale  = 10.0
	ScaleStep = 1.05

	// FitPadding expands the content bounding box on all sides before
	// fitting it into the viewport.
	FitPadding = 50.0
)

// Transform maps world coordinates to screen: screen = world*Scale + Offset.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Apply projects a world point onto the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}

// Viewport tracks the current transform and the modal panning interaction.
type Viewport struct {
	mu         sync.Mutex
	t          Transform
	panning    bool
	lastX      float64
	lastY      float64
}

func New() *Viewport {
	return &Viewport{t: Transform{Scale: 1}}
}

// Transform returns the current view transform.
func (v *Viewport) Transform() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t
}

// SetTransform overwrites the transform directly.
func (v *Viewport) SetTransform(t Transform) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.t = t
}

// ZoomAtPoint applies one wheel notch of multiplicative zoom anchored at the
// pointer: the world point under (px, py) stays under it after the zoom.
// deltaY > 0 zooms out, deltaY < 0 zooms in.
func (v *Viewport) ZoomAtPoint(px, py, deltaY float64) Transform {
	v.mu.Lock()
	defer v.mu.Unlock()

	oldScale := v.t.Scale

	newScale := oldScale * ScaleStep
	if deltaY > 0 {
		newScale = oldScale / ScaleStep
	}
	newScale = math.Max(MinScale, math.Min(newScale, MaxScale))

	// world point under the pointer
	wx := (px - v.t.OffsetX) / oldScale
	wy := (py - v.t.OffsetY) / oldScale

	v.t = Transform{
		Scale:   newScale,
		OffsetX: px - wx*newScale,
		OffsetY: py - wy*newScale,
	}

	return v.t
}

// FitToContent scales and centers the bounding box of all shapes inside the
// viewport, never zooming in past 100%. With zero shapes the transform is
// left untouched and false is returned.
func (v *Viewport) FitToContent(shapes []domain.Shape, viewportWidth, viewportHeight float64) (Transform, bool) {
	if len(shapes) == 0 {
		return v.Transform(), false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sh := range shapes {
		b := sh.Bounds()
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.X+b.Width)
		maxY = math.Max(maxY, b.Y+b.Height)
	}

	minX -= FitPadding
	minY -= FitPadding
	maxX += FitPadding
	maxY += FitPadding

	contentWidth := maxX - minX
	contentHeight := maxY - minY

	scale := math.Min(viewportWidth/contentWidth, viewportHeight/contentHeight)
	scale = math.Min(scale, 1)

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2

	t := Transform{
		Scale:   scale,
		OffsetX: viewportWidth/2 - centerX*scale,
		OffsetY: viewportHeight/2 - centerY*scale,
	}

	v.mu.Lock()
	v.t = t
	v.mu.Unlock()

	return t, true
}

// BeginPan starts a pan. Panning is modal: it only engages while the
// designated modifier is held and the primary button went down on empty
// canvas, not on a shape.
func (v *Viewport) BeginPan(x, y float64, modifierHeld, onEmptyCanvas bool) bool {
	if !modifierHeld || !onEmptyCanvas {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = true
	v.lastX, v.lastY = x, y

	return true
}

// PanTo moves the view by the pointer delta since the last pan event.
// Ignored when no pan is active.
func (v *Viewport) PanTo(x, y float64) Transform {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.panning {
		v.t.OffsetX += x - v.lastX
		v.t.OffsetY += y - v.lastY
		v.lastX, v.lastY = x, y
	}

	return v.t
}

// EndPan ends the pan (button or modifier released) and commits the final
// offset.
func (v *Viewport) EndPan() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = false

	return v.t
}

// Panning reports whether a pan is in progress.
func (v *Viewport) Panning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.panning
}
