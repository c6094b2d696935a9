package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/teatro/backend/internal/entity"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (
			first_name, last_name, email, registration_date,
			total_attendances, current_streak, loyalty_free, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.RegistrationDate,
		customer.TotalAttendances,
		customer.CurrentStreak,
		customer.LoyaltyFree,
		customer.Active,
	).Scan(&customer.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

const customerColumns = `
	id, first_name, last_name, email, registration_date,
	total_attendances, current_streak, loyalty_free, active
`

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *customerRepository) GetActiveByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND active = TRUE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *customerRepository) scanOne(row *sql.Row) (*entity.Customer, error) {
	var customer entity.Customer
	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.RegistrationDate,
		&customer.TotalAttendances,
		&customer.CurrentStreak,
		&customer.LoyaltyFree,
		&customer.Active,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) GetAllActive(ctx context.Context) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active = TRUE ORDER BY last_name, first_name`
	return r.queryCustomers(ctx, query)
}

func (r *customerRepository) GetWithFreePass(ctx context.Context) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE loyalty_free = TRUE AND active = TRUE ORDER BY last_name, first_name`
	return r.queryCustomers(ctx, query)
}

func (r *customerRepository) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]*entity.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var customer entity.Customer
		err := rows.Scan(
			&customer.ID,
			&customer.FirstName,
			&customer.LastName,
			&customer.Email,
			&customer.RegistrationDate,
			&customer.TotalAttendances,
			&customer.CurrentStreak,
			&customer.LoyaltyFree,
			&customer.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, registration_date = $4,
		    total_attendances = $5, current_streak = $6, loyalty_free = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.RegistrationDate,
		customer.TotalAttendances,
		customer.CurrentStreak,
		customer.LoyaltyFree,
		customer.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE customers SET active = FALSE WHERE id = $1 AND active = TRUE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrCustomerNotFound
	}

	return nil
}

// isUniqueViolation matches the Postgres unique_violation error class.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
