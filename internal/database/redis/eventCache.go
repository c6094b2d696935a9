package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/teatro/backend/internal/entity"
)

const (
	eventKeyPrefix = "event:"
	eventListKey   = "events:all"
)

// EventCache keeps event representations (with per-option availability) in
// Redis so catalog reads skip Postgres. Entries are invalidated on every
// event mutation and on every reservation create.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *EventCache) SetEvent(ctx context.Context, event *entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventKey(event.ID), data, c.ttl).Err()
}

func (c *EventCache) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	data, err := c.client.Get(ctx, eventKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var event entity.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *EventCache) SetEventList(ctx context.Context, events []*entity.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventListKey, data, c.ttl).Err()
}

func (c *EventCache) GetEventList(ctx context.Context) ([]*entity.Event, error) {
	data, err := c.client.Get(ctx, eventListKey).Result()
	if err != nil {
		return nil, err
	}

	var events []*entity.Event
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Invalidate drops the cached event and the list entry.
func (c *EventCache) Invalidate(ctx context.Context, eventID int64) error {
	return c.client.Del(ctx, eventKey(eventID), eventListKey).Err()
}

func eventKey(id int64) string {
	return fmt.Sprintf("%s%d", eventKeyPrefix, id)
}
