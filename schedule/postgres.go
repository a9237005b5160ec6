package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tywade1980/smart-incallservice/core"
)

// Schema is the table the Postgres store expects. Deployments run it as a
// migration.
const Schema = `
CREATE TABLE IF NOT EXISTS appointments (
    id           TEXT PRIMARY KEY,
    phone_number TEXT NOT NULL,
    caller_name  TEXT NOT NULL DEFAULT '',
    service_type TEXT NOT NULL,
    at           TIMESTAMPTZ NOT NULL,
    status       TEXT NOT NULL DEFAULT 'scheduled',
    notes        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS appointments_phone_idx ON appointments (phone_number, at);
`

// PostgresStore is a core.AppointmentStore backed by a pgx connection pool.
// Availability rules match the in-memory store; the collision check is
// scoped to the caller's non-cancelled appointments.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// PostgresOptions configures the Postgres store.
type PostgresOptions struct {
	Now func() time.Time
}

// NewPostgresStore connects a pool using the given DSN and verifies it with
// a ping. The DSN contains secrets and must not be logged.
func NewPostgresStore(ctx context.Context, dsn string, optFns ...func(o *PostgresOptions)) (*PostgresStore, error) {
	opts := PostgresOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return &PostgresStore{pool: pool, now: opts.Now}, nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(pool *pgxpool.Pool, optFns ...func(o *PostgresOptions)) *PostgresStore {
	opts := PostgresOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &PostgresStore{pool: pool, now: opts.Now}
}

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }

// Book implements core.AppointmentStore.
func (s *PostgresStore) Book(ctx context.Context, appt core.Appointment) (core.BookingResult, error) {
	taken := func(slot time.Time) bool {
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(
			    SELECT 1 FROM appointments
			    WHERE phone_number = $1 AND at = $2 AND status <> 'cancelled')`,
			appt.PhoneNumber, slot).Scan(&exists)
		if err != nil {
			// Treat a failed check as taken so a transient outage never
			// double-books.
			return true
		}
		return exists
	}

	if reason := unavailableReason(appt.At, taken); reason != "" {
		return core.BookingResult{
			Booked:       false,
			Reason:       reason,
			Alternatives: proposeAlternatives(appt.At, taken),
		}, nil
	}

	if appt.ID == "" {
		appt.ID = core.NewID()
	}
	if appt.Status == "" {
		appt.Status = core.AppointmentScheduled
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, phone_number, caller_name, service_type, at, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		appt.ID, appt.PhoneNumber, appt.CallerName, appt.ServiceType, appt.At, string(appt.Status), appt.Notes)
	if err != nil {
		return core.BookingResult{}, fmt.Errorf("insert appointment: %w", err)
	}
	return core.BookingResult{Booked: true, AppointmentID: appt.ID}, nil
}

// ListByPhone implements core.AppointmentStore.
func (s *PostgresStore) ListByPhone(ctx context.Context, phoneNumber string) ([]core.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, phone_number, caller_name, service_type, at, status, notes
		 FROM appointments WHERE phone_number = $1 ORDER BY at`,
		phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var out []core.Appointment
	for rows.Next() {
		var appt core.Appointment
		var status string
		if err := rows.Scan(&appt.ID, &appt.PhoneNumber, &appt.CallerName, &appt.ServiceType, &appt.At, &status, &appt.Notes); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appt.Status = core.AppointmentStatus(status)
		out = append(out, appt)
	}
	return out, rows.Err()
}

// Cancel implements core.AppointmentStore.
func (s *PostgresStore) Cancel(ctx context.Context, phoneNumber string) (core.CancelResult, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM appointments
		 WHERE phone_number = $1 AND at > $2 AND status IN ('scheduled', 'confirmed')
		 ORDER BY at LIMIT 1`,
		phoneNumber, s.now()).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.CancelResult{Cancelled: false, Reason: "no upcoming appointment found"}, nil
	}
	if err != nil {
		return core.CancelResult{}, fmt.Errorf("find appointment: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = 'cancelled' WHERE id = $1`, id); err != nil {
		return core.CancelResult{}, fmt.Errorf("cancel appointment: %w", err)
	}
	return core.CancelResult{Cancelled: true, AppointmentID: id}, nil
}
