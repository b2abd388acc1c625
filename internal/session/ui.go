package session

import "sync"

// UIState is the ephemeral interaction state: selection, hover and
// drag-in-progress flags. It is never bundled into the persisted snapshot
// and resets on reload.
type UIState struct {
	mu              sync.Mutex
	selectedShapeID string
	hoveredGuestID  string
	dragInProgress  bool
}

func (u *UIState) SelectShape(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selectedShapeID = id
}

func (u *UIState) ClearSelection() {
	u.SelectShape("")
}

func (u *UIState) SelectedShape() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selectedShapeID
}

func (u *UIState) HoverGuest(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hoveredGuestID = id
}

func (u *UIState) HoveredGuest() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hoveredGuestID
}

func (u *UIState) SetDragging(v bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dragInProgress = v
}

func (u *UIState) Dragging() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.dragInProgress
}
