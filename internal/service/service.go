package service

import (
	"context"
	"time"

	"github.com/teatro/backend/internal/entity"
)

// CreateReservationRequest carries the payload for a new reservation.
type CreateReservationRequest struct {
	CustomerID     int64                           `json:"customerId" binding:"required"`
	EventID        int64                           `json:"eventId" binding:"required"`
	AttendeeName   string                          `json:"attendeeName"`
	AttendedBy     string                          `json:"attendedBy"`
	CreatedByAdmin bool                            `json:"createdByAdmin"`
	Items          []entity.ReservationLineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateReservationStatusRequest carries a status change.
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TicketOptionRequest describes one price category of an event.
type TicketOptionRequest struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Capacity int     `json:"capacity" binding:"required,min=1"`
}

// CreateEventRequest carries the payload for a new event.
type CreateEventRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   string                `json:"description"`
	Type          string                `json:"type" binding:"required"`
	StartDateTime time.Time             `json:"startDateTime" binding:"required"`
	EndDateTime   time.Time             `json:"endDateTime" binding:"required"`
	TicketOptions []TicketOptionRequest `json:"ticketOptions" binding:"required,min=1,dive"`
}

// UpdateEventRequest carries editable event fields. Sold counts and
// option versions are never touched through this path.
type UpdateEventRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   string                `json:"description"`
	Type          string                `json:"type" binding:"required"`
	StartDateTime time.Time             `json:"startDateTime" binding:"required"`
	EndDateTime   time.Time             `json:"endDateTime" binding:"required"`
	TicketOptions []TicketOptionRequest `json:"ticketOptions"`
}

// UpdateEventStatusRequest carries an event status change.
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCustomerRequest carries the payload for a new customer.
type CreateCustomerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// UpdateCustomerRequest carries editable customer fields.
type UpdateCustomerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// EventCache is the read-through cache for event catalog data. A cache
// error is never fatal, callers fall back to Postgres.
type EventCache interface {
	SetEvent(ctx context.Context, event *entity.Event) error
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	SetEventList(ctx context.Context, events []*entity.Event) error
	GetEventList(ctx context.Context) ([]*entity.Event, error)
	Invalidate(ctx context.Context, eventID int64) error
}

type ReservationService interface {
	CreateReservation(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	GetAllReservations(ctx context.Context) ([]*entity.Reservation, error)
	GetReservationsByCustomer(ctx context.Context, customerID int64) ([]*entity.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status string) (*entity.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	GetUpcomingEvents(ctx context.Context) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error)
	UpdateEventStatus(ctx context.Context, id int64, status string) (*entity.Event, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*entity.Customer, error)
	GetAllCustomers(ctx context.Context) ([]*entity.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req *UpdateCustomerRequest) (*entity.Customer, error)
	DeactivateCustomer(ctx context.Context, id int64) error
	GetCustomersWithFreePass(ctx context.Context) ([]*entity.Customer, error)
	RecordAttendance(ctx context.Context, id int64) (*entity.Customer, error)
}
