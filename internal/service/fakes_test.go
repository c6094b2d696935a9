package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/teatro/backend/internal/entity"
)

var errCacheMiss = errors.New("cache miss")

// fakeCustomerRepo keeps customers in a map keyed by id.
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]*entity.Customer
	nextID    int64
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[int64]*entity.Customer), nextID: 1}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.customers {
		if existing.Email == customer.Email {
			return entity.ErrDuplicateEmail
		}
	}
	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *fakeCustomerRepo) GetActiveByID(ctx context.Context, id int64) (*entity.Customer, error) {
	customer, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, entity.ErrCustomerNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) GetAllActive(_ context.Context) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for _, customer := range r.customers {
		if customer.Active {
			clone := *customer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) GetWithFreePass(_ context.Context) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for _, customer := range r.customers {
		if customer.Active && customer.LoyaltyFree {
			clone := *customer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return entity.ErrCustomerNotFound
	}
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return entity.ErrCustomerNotFound
	}
	customer.Active = false
	return nil
}

// fakeEventRepo keeps events in a map keyed by id.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int64]*entity.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*entity.Event), nextID: 1}
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	r.nextID++
	for i, opt := range event.TicketOptions {
		opt.ID = event.ID*100 + int64(i) + 1
		opt.EventID = event.ID
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) GetAll(_ context.Context) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, event := range r.events {
		out = append(out, event)
	}
	return out, nil
}

func (r *fakeEventRepo) GetScheduledAfter(_ context.Context, after time.Time) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, event := range r.events {
		if event.Status == entity.EventStatusScheduled && event.StartDateTime.After(after) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, id int64, status entity.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.Status = status
	return nil
}

// fakeReservationRepo mirrors the transactional contract of the Postgres
// implementation: Create reserves every line against the shared option map
// under one lock, allocates items, and either commits everything or nothing.
// conflictsLeft forces version conflicts on the first N Create calls;
// spendPassOnConflict additionally consumes the customer's free pass on each
// forced conflict, as a racing reservation would.
type fakeReservationRepo struct {
	mu                  sync.Mutex
	reservations        map[int64]*entity.Reservation
	options             map[int64]*entity.TicketOption
	customers           *fakeCustomerRepo
	nextID              int64
	conflictsLeft       int
	createCalls         int
	spendPassOnConflict bool
}

func newFakeReservationRepo(customers *fakeCustomerRepo, options ...*entity.TicketOption) *fakeReservationRepo {
	repo := &fakeReservationRepo{
		reservations: make(map[int64]*entity.Reservation),
		options:      make(map[int64]*entity.TicketOption),
		customers:    customers,
		nextID:       1,
	}
	for _, opt := range options {
		repo.options[opt.ID] = opt
	}
	return repo
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *entity.Reservation, lines []entity.ReservationLineRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		if r.spendPassOnConflict && r.customers != nil {
			if customer, ok := r.customers.customers[reservation.CustomerID]; ok {
				customer.LoyaltyFree = false
			}
		}
		return entity.ErrVersionConflict
	}

	staged := make([]entity.ReservedLine, 0, len(lines))
	for _, line := range lines {
		opt, ok := r.options[line.TicketOptionID]
		if !ok {
			return entity.ErrTicketOptionNotFound
		}
		clone := *opt
		if err := clone.Reserve(line.Quantity); err != nil {
			return err
		}
		staged = append(staged, entity.ReservedLine{Option: &clone, Quantity: line.Quantity})
	}

	items, loyaltyUsed := entity.AllocateItems(reservation.LoyaltyFree, staged)
	reservation.Items = items
	reservation.CalculateTotal()

	if loyaltyUsed && r.customers != nil {
		customer, ok := r.customers.customers[reservation.CustomerID]
		if !ok || !customer.LoyaltyFree {
			return entity.ErrVersionConflict
		}
		customer.LoyaltyFree = false
	}

	reservation.ID = r.nextID
	r.nextID++
	for _, line := range staged {
		r.options[line.Option.ID] = line.Option
	}
	clone := *reservation
	r.reservations[reservation.ID] = &clone
	return nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id int64) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok || !reservation.Active {
		return nil, entity.ErrReservationNotFound
	}
	clone := *reservation
	return &clone, nil
}

func (r *fakeReservationRepo) GetAllActive(_ context.Context) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range r.reservations {
		if reservation.Active {
			clone := *reservation
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) GetByCustomerID(_ context.Context, customerID int64) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range r.reservations {
		if reservation.Active && reservation.CustomerID == customerID {
			clone := *reservation
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status entity.ReservationStatus, paidAt *time.Time, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok || !reservation.Active {
		return entity.ErrReservationNotFound
	}
	reservation.Status = status
	reservation.PaidAt = paidAt
	return nil
}

func (r *fakeReservationRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok || !reservation.Active {
		return entity.ErrReservationNotFound
	}
	reservation.Active = false
	return nil
}

// fakeEventCache counts invalidations; reads always miss.
type fakeEventCache struct {
	mu            sync.Mutex
	events        map[int64]*entity.Event
	list          []*entity.Event
	invalidations int
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{events: make(map[int64]*entity.Event)}
}

func (c *fakeEventCache) SetEvent(_ context.Context, event *entity.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[event.ID] = event
	return nil
}

func (c *fakeEventCache) GetEvent(_ context.Context, id int64) (*entity.Event, error) {
	return nil, errCacheMiss
}

func (c *fakeEventCache) SetEventList(_ context.Context, events []*entity.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = events
	return nil
}

func (c *fakeEventCache) GetEventList(_ context.Context) ([]*entity.Event, error) {
	return nil, errCacheMiss
}

func (c *fakeEventCache) Invalidate(_ context.Context, eventID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, eventID)
	c.list = nil
	c.invalidations++
	return nil
}
