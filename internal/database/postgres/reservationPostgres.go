package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/teatro/backend/internal/entity"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create persists the reservation, its items, the inventory decrements and
// the loyalty flag update as a single transaction. Lines are processed in
// request order; each ticket option write is conditioned on the version the
// row was read at, so a concurrent writer on the same option surfaces
// entity.ErrVersionConflict and the transaction rolls back with nothing
// committed.
func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation, lines []entity.ReservationLineRequest) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reserved := make([]entity.ReservedLine, 0, len(lines))
	for _, line := range lines {
		opt, err := r.reserveOption(ctx, tx, line, reservation.CreatedAt)
		if err != nil {
			return err
		}
		reserved = append(reserved, entity.ReservedLine{Option: opt, Quantity: line.Quantity})
	}

	items, loyaltyUsed := entity.AllocateItems(reservation.LoyaltyFree, reserved)
	reservation.Items = items
	reservation.CalculateTotal()

	query := `
		INSERT INTO reservations (
			customer_id, event_id, status, attendee_name, attended_by,
			created_by_admin, loyalty_free, total, created_at, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, query,
		reservation.CustomerID,
		reservation.EventID,
		reservation.Status,
		reservation.AttendeeName,
		reservation.AttendedBy,
		reservation.CreatedByAdmin,
		reservation.LoyaltyFree,
		reservation.Total,
		reservation.CreatedAt,
		reservation.Active,
	).Scan(&reservation.ID)

	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	itemQuery := `
		INSERT INTO reservation_items (reservation_id, ticket_option_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for _, item := range items {
		item.ReservationID = reservation.ID
		err = tx.QueryRowContext(ctx, itemQuery,
			item.ReservationID,
			item.TicketOptionID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create reservation item: %w", err)
		}
	}

	if loyaltyUsed {
		// The flag predicate makes two racing reservations by the same
		// customer spend the pass once: the loser sees zero rows and the
		// transaction retries against the updated customer.
		query = `UPDATE customers SET loyalty_free = FALSE WHERE id = $1 AND loyalty_free = TRUE`
		result, err := tx.ExecContext(ctx, query, reservation.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to consume loyalty free pass: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return entity.ErrVersionConflict
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// reserveOption loads the current ticket option row, applies the decrement in
// memory and writes it back conditioned on the version it was read at.
func (r *reservationRepository) reserveOption(ctx context.Context, tx *sql.Tx, line entity.ReservationLineRequest, now time.Time) (*entity.TicketOption, error) {
	var opt entity.TicketOption
	query := `
		SELECT id, event_id, name, price, capacity, sold, version
		FROM ticket_options
		WHERE id = $1
	`
	err := tx.QueryRowContext(ctx, query, line.TicketOptionID).Scan(
		&opt.ID,
		&opt.EventID,
		&opt.Name,
		&opt.Price,
		&opt.Capacity,
		&opt.Sold,
		&opt.Version,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrTicketOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket option: %w", err)
	}

	readVersion := opt.Version
	if err := opt.Reserve(line.Quantity); err != nil {
		return nil, err
	}

	query = `
		UPDATE ticket_options
		SET sold = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`
	result, err := tx.ExecContext(ctx, query, opt.Sold, opt.Version, now, opt.ID, readVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve tickets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, entity.ErrVersionConflict
	}

	return &opt, nil
}

const reservationColumns = `
	r.id, r.customer_id, c.first_name || ' ' || c.last_name AS customer_name,
	r.event_id, e.title AS event_title, r.status, r.attendee_name,
	COALESCE(r.attended_by, ''), r.created_by_admin, r.loyalty_free,
	r.total, r.created_at, r.paid_at, r.active
`

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN customers c ON r.customer_id = c.id
		JOIN events e ON r.event_id = e.id
		WHERE r.id = $1 AND r.active = TRUE
	`

	var reservation entity.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.CustomerID,
		&reservation.CustomerName,
		&reservation.EventID,
		&reservation.EventTitle,
		&reservation.Status,
		&reservation.AttendeeName,
		&reservation.AttendedBy,
		&reservation.CreatedByAdmin,
		&reservation.LoyaltyFree,
		&reservation.Total,
		&reservation.CreatedAt,
		&reservation.PaidAt,
		&reservation.Active,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	if err := r.loadItems(ctx, []*entity.Reservation{&reservation}); err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) GetAllActive(ctx context.Context) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN customers c ON r.customer_id = c.id
		JOIN events e ON r.event_id = e.id
		WHERE r.active = TRUE
		ORDER BY r.created_at DESC
	`
	return r.queryReservations(ctx, query)
}

func (r *reservationRepository) GetByCustomerID(ctx context.Context, customerID int64) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN customers c ON r.customer_id = c.id
		JOIN events e ON r.event_id = e.id
		WHERE r.customer_id = $1 AND r.active = TRUE
		ORDER BY r.created_at DESC
	`
	return r.queryReservations(ctx, query, customerID)
}

func (r *reservationRepository) queryReservations(ctx context.Context, query string, args ...interface{}) ([]*entity.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.CustomerID,
			&reservation.CustomerName,
			&reservation.EventID,
			&reservation.EventTitle,
			&reservation.Status,
			&reservation.AttendeeName,
			&reservation.AttendedBy,
			&reservation.CreatedByAdmin,
			&reservation.LoyaltyFree,
			&reservation.Total,
			&reservation.CreatedAt,
			&reservation.PaidAt,
			&reservation.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	if err := r.loadItems(ctx, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// loadItems fetches the items for every reservation in one query, preserving
// insertion order within each reservation.
func (r *reservationRepository) loadItems(ctx context.Context, reservations []*entity.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Reservation, len(reservations))
	ids := make([]int64, 0, len(reservations))
	for _, reservation := range reservations {
		reservation.Items = []*entity.ReservationItem{}
		byID[reservation.ID] = reservation
		ids = append(ids, reservation.ID)
	}

	query := `
		SELECT i.id, i.reservation_id, i.ticket_option_id, t.name, i.quantity, i.unit_price
		FROM reservation_items i
		JOIN ticket_options t ON i.ticket_option_id = t.id
		WHERE i.reservation_id = ANY($1)
		ORDER BY i.id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query reservation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.ReservationItem
		err := rows.Scan(
			&item.ID,
			&item.ReservationID,
			&item.TicketOptionID,
			&item.TicketOptionName,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to scan reservation item: %w", err)
		}
		if reservation, ok := byID[item.ReservationID]; ok {
			reservation.Items = append(reservation.Items, &item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating reservation items: %w", err)
	}

	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status entity.ReservationStatus, paidAt *time.Time, updatedAt time.Time) error {
	query := `UPDATE reservations SET status = $1, paid_at = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, status, paidAt, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrReservationNotFound
	}

	return nil
}

func (r *reservationRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE reservations SET active = FALSE, updated_at = $1 WHERE id = $2 AND active = TRUE`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrReservationNotFound
	}

	return nil
}
