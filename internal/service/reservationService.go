package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/teatro/backend/internal/clock"
	repository "github.com/teatro/backend/internal/database/postgres"
	"github.com/teatro/backend/internal/entity"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	customerRepo    repository.CustomerRepository
	eventRepo       repository.EventRepository
	cache           EventCache
	clock           clock.Clock
	maxAttempts     int
}

// NewReservationService builds the reservation service. maxAttempts bounds
// the retry loop on version conflicts; values below 1 are clamped to 1.
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	customerRepo repository.CustomerRepository,
	eventRepo repository.EventRepository,
	cache EventCache,
	clk clock.Clock,
	maxAttempts int,
) ReservationService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		eventRepo:       eventRepo,
		cache:           cache,
		clock:           clk,
		maxAttempts:     maxAttempts,
	}
}

// CreateReservation books every requested line atomically. When another
// request touches the same ticket option first, the version check fails and
// the whole transaction is retried against fresh inventory.
func (s *reservationService) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", entity.ErrInvalidInput)
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", entity.ErrInvalidInput)
		}
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if !event.IsOpenForSales(now) {
		return nil, entity.ErrEventNotOpen
	}

	var reservation *entity.Reservation
	for attempt := 1; ; attempt++ {
		// The customer is re-read on each attempt so a free pass spent by a
		// concurrent reservation is not granted again on retry.
		customer, err := s.customerRepo.GetActiveByID(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}

		attendee := req.AttendeeName
		if attendee == "" {
			attendee = customer.FullName()
		}

		reservation = &entity.Reservation{
			CustomerID:     customer.ID,
			CustomerName:   customer.FullName(),
			EventID:        event.ID,
			EventTitle:     event.Title,
			Status:         entity.ReservationStatusPending,
			AttendeeName:   attendee,
			AttendedBy:     req.AttendedBy,
			CreatedByAdmin: req.CreatedByAdmin,
			LoyaltyFree:    customer.LoyaltyFree,
			CreatedAt:      s.clock.Now(),
			Active:         true,
		}

		err = s.reservationRepo.Create(ctx, reservation, req.Items)
		if err == nil {
			break
		}
		if !errors.Is(err, entity.ErrVersionConflict) || attempt >= s.maxAttempts {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"event_id": event.ID,
			"attempt":  attempt,
		}).Warn("version conflict while reserving, retrying")
	}

	if err := s.cache.Invalidate(ctx, event.ID); err != nil {
		logrus.WithError(err).Warn("failed to invalidate event cache")
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"customer_id":    reservation.CustomerID,
		"event_id":       event.ID,
		"total":          reservation.Total,
		"loyalty_free":   reservation.LoyaltyFree,
	}).Info("reservation created")

	return reservation, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *reservationService) GetAllReservations(ctx context.Context) ([]*entity.Reservation, error) {
	return s.reservationRepo.GetAllActive(ctx)
}

func (s *reservationService) GetReservationsByCustomer(ctx context.Context, customerID int64) ([]*entity.Reservation, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.reservationRepo.GetByCustomerID(ctx, customerID)
}

// UpdateReservationStatus applies the status machine to a stored reservation.
// A paid reservation rejects every change before the target status is even
// parsed, matching the order guests observe errors in.
func (s *reservationService) UpdateReservationStatus(ctx context.Context, id int64, status string) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status == entity.ReservationStatusPaid {
		return nil, entity.ErrReservationPaid
	}

	parsed, err := entity.ParseReservationStatus(status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := reservation.TransitionTo(parsed, now); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, reservation.Status, reservation.PaidAt, now); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": id,
		"status":         reservation.Status,
	}).Info("reservation status updated")

	return reservation, nil
}

// DeleteReservation soft-deletes regardless of status. Paid reservations stay
// immutable but remain deletable.
func (s *reservationService) DeleteReservation(ctx context.Context, id int64) error {
	if _, err := s.reservationRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.reservationRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	logrus.WithField("reservation_id", id).Info("reservation deleted")
	return nil
}
