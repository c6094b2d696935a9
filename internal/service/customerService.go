package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/teatro/backend/internal/clock"
	repository "github.com/teatro/backend/internal/database/postgres"
	"github.com/teatro/backend/internal/entity"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	clock        clock.Clock
}

func NewCustomerService(customerRepo repository.CustomerRepository, clk clock.Clock) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		clock:        clk,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error) {
	customer := &entity.Customer{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		RegistrationDate: s.clock.Now(),
		Active:           true,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("customer registered")

	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*entity.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) GetAllCustomers(ctx context.Context) ([]*entity.Customer, error) {
	return s.customerRepo.GetAllActive(ctx)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int64, req *UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = strings.TrimSpace(req.FirstName)
	customer.LastName = strings.TrimSpace(req.LastName)
	customer.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) DeactivateCustomer(ctx context.Context, id int64) error {
	if _, err := s.customerRepo.GetActiveByID(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	logrus.WithField("customer_id", id).Info("customer deactivated")
	return nil
}

func (s *customerService) GetCustomersWithFreePass(ctx context.Context) ([]*entity.Customer, error) {
	return s.customerRepo.GetWithFreePass(ctx)
}

// RecordAttendance bumps the customer's attendance counters and persists the
// result. Earning the free pass happens inside the entity.
func (s *customerService) RecordAttendance(ctx context.Context, id int64) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.IncrementAttendance(s.clock.Now())

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id":    id,
		"current_streak": customer.CurrentStreak,
		"loyalty_free":   customer.LoyaltyFree,
	}).Info("attendance recorded")

	return customer, nil
}
