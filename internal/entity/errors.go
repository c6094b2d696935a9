package entity

import (
	"errors"
	"fmt"
)

var (
	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found or inactive")
	ErrDuplicateEmail   = errors.New("customer email already registered")

	// Event errors
	ErrEventNotFound        = errors.New("event not found")
	ErrEventNotOpen         = errors.New("event is not open for sales")
	ErrTicketOptionNotFound = errors.New("ticket option not found")

	// Reservation errors
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationPaid      = errors.New("cannot modify a paid reservation")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInsufficientCapacity = errors.New("not enough tickets available")

	// General errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrVersionConflict = errors.New("concurrent update detected")
)

// InsufficientCapacityError carries the requested and available counts for the
// ticket option that could not be reserved.
type InsufficientCapacityError struct {
	OptionID   int64
	OptionName string
	Requested  int
	Available  int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("not enough tickets available for %s: requested %d, available %d",
		e.OptionName, e.Requested, e.Available)
}

func (e *InsufficientCapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}
