package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlan is returned when a plan cannot be executed.
	ErrInvalidPlan = errors.New("engine: invalid plan")
	// ErrUnitPanic is wrapped by a UnitError when a unit panicked.
	ErrUnitPanic = errors.New("engine: unit panicked")
	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("engine: closed")
)

// UnitError reports the failure of one unit of a run. When several units
// fail, Run returns the one with the lowest Index.
type UnitError struct {
	// Index is the unit's position in submission order.
	Index int
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("engine: unit %d: %v", e.Index, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }
