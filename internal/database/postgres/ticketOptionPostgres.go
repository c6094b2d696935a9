package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teatro/backend/internal/entity"
)

type ticketOptionRepository struct {
	db *sql.DB
}

func NewTicketOptionRepository(db *sql.DB) TicketOptionRepository {
	return &ticketOptionRepository{db: db}
}

const ticketOptionColumns = `
	id, event_id, name, price, capacity, sold, version, created_at, updated_at
`

func (r *ticketOptionRepository) GetByID(ctx context.Context, id int64) (*entity.TicketOption, error) {
	query := `SELECT ` + ticketOptionColumns + ` FROM ticket_options WHERE id = $1`

	var opt entity.TicketOption
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&opt.ID,
		&opt.EventID,
		&opt.Name,
		&opt.Price,
		&opt.Capacity,
		&opt.Sold,
		&opt.Version,
		&opt.CreatedAt,
		&opt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrTicketOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket option: %w", err)
	}

	return &opt, nil
}

func (r *ticketOptionRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.TicketOption, error) {
	query := `SELECT ` + ticketOptionColumns + ` FROM ticket_options WHERE event_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket options: %w", err)
	}
	defer rows.Close()

	var options []*entity.TicketOption
	for rows.Next() {
		var opt entity.TicketOption
		err := rows.Scan(
			&opt.ID,
			&opt.EventID,
			&opt.Name,
			&opt.Price,
			&opt.Capacity,
			&opt.Sold,
			&opt.Version,
			&opt.CreatedAt,
			&opt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket option: %w", err)
		}
		options = append(options, &opt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket options: %w", err)
	}

	return options, nil
}
