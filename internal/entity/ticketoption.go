package entity

import (
	"time"
)

// TicketOption is a priced admission class for an event with a fixed capacity.
// The sold counter only ever grows through Reserve; the version column is
// bumped on every successful write so concurrent writers can be detected.
type TicketOption struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Sold      int       `json:"sold" db:"sold"`
	Version   int64     `json:"-" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Remaining returns capacity minus sold.
func (t *TicketOption) Remaining() int {
	return t.Capacity - t.Sold
}

// IsReservable reports whether quantity units can still be sold.
func (t *TicketOption) IsReservable(quantity int) bool {
	return t.Remaining() >= quantity
}

// Reserve increments sold by quantity and advances the version token.
// The persisted write must still be conditioned on the version this option
// was read at; Reserve only validates against the in-memory snapshot.
func (t *TicketOption) Reserve(quantity int) error {
	if quantity < 1 {
		return ErrInvalidInput
	}
	if !t.IsReservable(quantity) {
		return &InsufficientCapacityError{
			OptionID:   t.ID,
			OptionName: t.Name,
			Requested:  quantity,
			Available:  t.Remaining(),
		}
	}
	t.Sold += quantity
	t.Version++
	return nil
}
