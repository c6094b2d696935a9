package postgres

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/teatro/backend/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			registration_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			total_attendances INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			loyalty_free BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			type VARCHAR(30) NOT NULL,
			start_date_time TIMESTAMP NOT NULL,
			end_date_time TIMESTAMP NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'SCHEDULED',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS ticket_options (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id),
			name VARCHAR(100) NOT NULL,
			price NUMERIC(10, 2) NOT NULL,
			capacity INTEGER NOT NULL,
			sold INTEGER NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT chk_ticket_options_sold CHECK (sold >= 0 AND sold <= capacity)
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			event_id INTEGER NOT NULL REFERENCES events(id),
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			attendee_name VARCHAR(255) NOT NULL DEFAULT '',
			attended_by VARCHAR(255),
			created_by_admin BOOLEAN NOT NULL DEFAULT FALSE,
			loyalty_free BOOLEAN NOT NULL DEFAULT FALSE,
			total NUMERIC(10, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			paid_at TIMESTAMP,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS reservation_items (
			id SERIAL PRIMARY KEY,
			reservation_id INTEGER NOT NULL REFERENCES reservations(id),
			ticket_option_id INTEGER NOT NULL REFERENCES ticket_options(id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10, 2) NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ticket_options_event_id ON ticket_options(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_customer_id ON reservations(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_event_id ON reservations(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservation_items_reservation_id ON reservation_items(reservation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_status_start ON events(status, start_date_time)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("database migrations completed")
	return nil
}
