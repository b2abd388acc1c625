package seating

import (
	"errors"
	"fmt"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrGuestNotFound  = errors.New("guest not found")
	ErrTableFull      = errors.New("table is full")
	ErrSeatOutOfRange = errors.New("chair index out of range")
	ErrBoundaryExists = errors.New("venue boundary already exists")
)

// SeatsOccupiedError rejects a capacity decrease that would orphan guests.
// Occupied lists the chair indices that must be cleared first.
type SeatsOccupiedError struct {
	TableID     string
	NewCapacity int
	Occupied    []int
}

func (e *SeatsOccupiedError) Error() string {
	return fmt.Sprintf(
		"cannot shrink table %s to %d seats: chairs %v are occupied",
		e.TableID, e.NewCapacity, e.Occupied,
	)
}
