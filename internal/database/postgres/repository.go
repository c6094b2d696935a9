package repository

import (
	"context"
	"time"

	"github.com/teatro/backend/internal/entity"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetActiveByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetAllActive(ctx context.Context) ([]*entity.Customer, error)
	GetWithFreePass(ctx context.Context) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Deactivate(ctx context.Context, id int64) error
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	GetScheduledAfter(ctx context.Context, after time.Time) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error
}

type TicketOptionRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.TicketOption, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.TicketOption, error)
}

// ReservationRepository persists reservations. Create runs the whole
// reservation as one transaction: every requested line is reserved against
// the current ticket option row in request order, items are allocated and
// inserted, and the customer's loyalty flag is cleared when consumed. A
// version conflict on any option surfaces entity.ErrVersionConflict and
// leaves nothing committed.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation, lines []entity.ReservationLineRequest) error
	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	GetAllActive(ctx context.Context) ([]*entity.Reservation, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status entity.ReservationStatus, paidAt *time.Time, updatedAt time.Time) error
	SoftDelete(ctx context.Context, id int64) error
}
