package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teatro/backend/internal/entity"
)

type eventRepository struct {
	db      *sql.DB
	options TicketOptionRepository
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db, options: NewTicketOptionRepository(db)}
}

// Create inserts the event together with its ticket options in one
// transaction.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, type, start_date_time, end_date_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Type,
		event.StartDateTime,
		event.EndDateTime,
		event.Status,
		now,
		now,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	optQuery := `
		INSERT INTO ticket_options (event_id, name, price, capacity, sold, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $6)
		RETURNING id
	`
	for _, opt := range event.TicketOptions {
		opt.EventID = event.ID
		err = tx.QueryRowContext(ctx, optQuery,
			opt.EventID,
			opt.Name,
			opt.Price,
			opt.Capacity,
			now,
			now,
		).Scan(&opt.ID)
		if err != nil {
			return fmt.Errorf("failed to create ticket option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

const eventColumns = `
	id, title, description, type, start_date_time, end_date_time, status, created_at, updated_at
`

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Type,
		&event.StartDateTime,
		&event.EndDateTime,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.loadOptions(ctx, []*entity.Event{&event}); err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_date_time`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) GetScheduledAfter(ctx context.Context, after time.Time) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 AND start_date_time > $2 ORDER BY start_date_time`
	return r.queryEvents(ctx, query, entity.EventStatusScheduled, after)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Type,
			&event.StartDateTime,
			&event.EndDateTime,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	if err := r.loadOptions(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) loadOptions(ctx context.Context, events []*entity.Event) error {
	if len(events) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Event, len(events))
	for _, event := range events {
		event.TicketOptions = []*entity.TicketOption{}
		byID[event.ID] = event
	}

	for _, event := range events {
		options, err := r.options.GetByEventID(ctx, event.ID)
		if err != nil {
			return err
		}
		byID[event.ID].TicketOptions = options
	}

	return nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET title = $1, description = $2, type = $3, start_date_time = $4,
		    end_date_time = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Type,
		event.StartDateTime,
		event.EndDateTime,
		event.Status,
		now,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	// Only existing options are edited here; sold and version stay untouched
	// so in-flight reservations keep their concurrency guarantees.
	optQuery := `
		UPDATE ticket_options
		SET name = $1, price = $2, capacity = $3, updated_at = $4
		WHERE id = $5 AND event_id = $6
	`
	for _, opt := range event.TicketOptions {
		if opt.ID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, optQuery, opt.Name, opt.Price, opt.Capacity, now, opt.ID, event.ID); err != nil {
			return fmt.Errorf("failed to update ticket option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}
