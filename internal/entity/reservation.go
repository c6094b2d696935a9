package entity

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusPaid      ReservationStatus = "PAID"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// ParseReservationStatus parses a status string case-insensitively.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case ReservationStatusPending:
		return ReservationStatusPending, nil
	case ReservationStatusPaid:
		return ReservationStatusPaid, nil
	case ReservationStatusCancelled:
		return ReservationStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Reservation struct {
	ID             int64             `json:"id" db:"id"`
	CustomerID     int64             `json:"customerId" db:"customer_id"`
	CustomerName   string            `json:"customerName" db:"customer_name"`
	EventID        int64             `json:"eventId" db:"event_id"`
	EventTitle     string            `json:"eventTitle" db:"event_title"`
	Status         ReservationStatus `json:"status" db:"status"`
	AttendeeName   string            `json:"attendeeName" db:"attendee_name"`
	AttendedBy     string            `json:"attendedBy,omitempty" db:"attended_by"`
	CreatedByAdmin bool              `json:"createdByAdmin" db:"created_by_admin"`
	LoyaltyFree    bool              `json:"loyaltyFree" db:"loyalty_free"`
	Total          float64           `json:"total" db:"total"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	PaidAt         *time.Time        `json:"paidAt,omitempty" db:"paid_at"`
	Active         bool              `json:"active" db:"active"`

	Items []*ReservationItem `json:"items"`
}

// ReservationItem is one priced line of a reservation. The unit price is
// captured at booking time and never follows later price changes on the
// ticket option.
type ReservationItem struct {
	ID               int64   `json:"id" db:"id"`
	ReservationID    int64   `json:"-" db:"reservation_id"`
	TicketOptionID   int64   `json:"ticketOptionId" db:"ticket_option_id"`
	TicketOptionName string  `json:"ticketOptionName" db:"ticket_option_name"`
	Quantity         int     `json:"quantity" db:"quantity"`
	UnitPrice        float64 `json:"unitPrice" db:"unit_price"`
}

// CalculateTotal recomputes the total as the sum of unitPrice times quantity
// over all items. Free items contribute zero.
func (r *Reservation) CalculateTotal() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	r.Total = total
	return total
}

// TransitionTo applies a status change. A paid reservation rejects every
// further transition, including re-setting PAID. Moving to PAID stamps paidAt
// with the supplied time; moving to CANCELLED clears it.
func (r *Reservation) TransitionTo(status ReservationStatus, now time.Time) error {
	if r.Status == ReservationStatusPaid {
		return ErrReservationPaid
	}

	switch status {
	case ReservationStatusPaid:
		r.Status = ReservationStatusPaid
		r.PaidAt = &now
	case ReservationStatusCancelled:
		r.Status = ReservationStatusCancelled
		r.PaidAt = nil
	case ReservationStatusPending:
		r.Status = ReservationStatusPending
	default:
		return ErrInvalidStatus
	}
	return nil
}

// ReservationLineRequest is one requested (ticket option, quantity) pair in
// the order the caller submitted it.
type ReservationLineRequest struct {
	TicketOptionID int64 `json:"ticketOptionId" binding:"required"`
	Quantity       int   `json:"quantity" binding:"required,min=1"`
}

// ReservedLine pairs a requested quantity with the ticket option snapshot the
// inventory decrement was applied against.
type ReservedLine struct {
	Option   *TicketOption
	Quantity int
}
