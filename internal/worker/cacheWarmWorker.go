package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/teatro/backend/internal/database/postgres"
	"github.com/teatro/backend/internal/service"
)

// CacheWarmWorker periodically reloads the event catalog from Postgres into
// Redis so catalog reads stay warm between invalidations.
type CacheWarmWorker struct {
	eventRepo repository.EventRepository
	cache     service.EventCache
	interval  time.Duration
}

func NewCacheWarmWorker(eventRepo repository.EventRepository, cache service.EventCache, interval time.Duration) *CacheWarmWorker {
	return &CacheWarmWorker{
		eventRepo: eventRepo,
		cache:     cache,
		interval:  interval,
	}
}

func (w *CacheWarmWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("cache warm worker started")

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("cache warm worker stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *CacheWarmWorker) warm(ctx context.Context) {
	events, err := w.eventRepo.GetAll(ctx)
	if err != nil {
		logrus.Errorf("cache warm: failed to load events: %v", err)
		return
	}

	if err := w.cache.SetEventList(ctx, events); err != nil {
		logrus.Errorf("cache warm: failed to store event list: %v", err)
		return
	}

	warmed := 0
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.cache.SetEvent(ctx, event); err != nil {
			logrus.Errorf("cache warm: failed to store event %d: %v", event.ID, err)
			continue
		}
		warmed++
	}

	logrus.Infof("cache warm completed: %d events refreshed", warmed)
}
