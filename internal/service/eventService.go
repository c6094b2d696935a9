package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teatro/backend/internal/clock"
	repository "github.com/teatro/backend/internal/database/postgres"
	"github.com/teatro/backend/internal/entity"
)

type eventService struct {
	eventRepo repository.EventRepository
	cache     EventCache
	clock     clock.Clock
}

func NewEventService(eventRepo repository.EventRepository, cache EventCache, clk clock.Clock) EventService {
	return &eventService{
		eventRepo: eventRepo,
		cache:     cache,
		clock:     clk,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	event, err := s.buildEvent(req.Title, req.Description, req.Type, req.StartDateTime, req.EndDateTime, req.TicketOptions)
	if err != nil {
		return nil, err
	}
	event.Status = entity.EventStatusScheduled

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	// Drops the now stale list entry before caching the new event.
	if err := s.cache.Invalidate(ctx, event.ID); err != nil {
		logrus.WithError(err).Warn("failed to invalidate event list cache")
	}
	if err := s.cache.SetEvent(ctx, event); err != nil {
		logrus.WithError(err).Warn("failed to cache event")
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"title":    event.Title,
	}).Info("event created")

	return event, nil
}

// GetEvent serves from cache when possible and falls back to Postgres. The
// returned event carries its ticket options with current availability.
func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	if cached, err := s.cache.GetEvent(ctx, id); err == nil {
		return cached, nil
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetEvent(ctx, event); err != nil {
		logrus.WithError(err).Warn("failed to cache event")
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	if cached, err := s.cache.GetEventList(ctx); err == nil {
		return cached, nil
	}

	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetEventList(ctx, events); err != nil {
		logrus.WithError(err).Warn("failed to cache event list")
	}
	return events, nil
}

// GetUpcomingEvents lists scheduled events that have not started yet. Always
// reads Postgres: the cutoff moves with the clock, so a cached list goes
// stale on its own.
func (s *eventService) GetUpcomingEvents(ctx context.Context) ([]*entity.Event, error) {
	return s.eventRepo.GetScheduledAfter(ctx, s.clock.Now())
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildEvent(req.Title, req.Description, req.Type, req.StartDateTime, req.EndDateTime, req.TicketOptions)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.clock.Now()

	if err := s.eventRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.WithError(err).Warn("failed to invalidate event cache")
	}

	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) UpdateEventStatus(ctx context.Context, id int64, status string) (*entity.Event, error) {
	parsed, err := entity.ParseEventStatus(status)
	if err != nil {
		return nil, err
	}

	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.WithError(err).Warn("failed to invalidate event cache")
	}

	logrus.WithFields(logrus.Fields{
		"event_id": id,
		"status":   parsed,
	}).Info("event status updated")

	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) buildEvent(title, description, eventType string, start, end time.Time, options []TicketOptionRequest) (*entity.Event, error) {
	parsedType, err := entity.ParseEventType(eventType)
	if err != nil {
		return nil, err
	}

	event := &entity.Event{
		Title:         title,
		Description:   description,
		Type:          parsedType,
		StartDateTime: start,
		EndDateTime:   end,
	}
	for _, opt := range options {
		event.TicketOptions = append(event.TicketOptions, &entity.TicketOption{
			ID:       opt.ID,
			Name:     opt.Name,
			Price:    opt.Price,
			Capacity: opt.Capacity,
		})
	}
	return event, nil
}
