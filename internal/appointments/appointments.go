// Package appointments commits redeemed booking keys into stored
// appointments. The sealed key is the source of truth for the slot's
// terms; the write itself is where double-booking races are resolved,
// with a conflict guard inside the insert.
package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotTaken rejects a redemption whose slot gained a conflicting
// non-cancelled appointment between browse and book.
var ErrSlotTaken = errors.New("appointments: slot already taken")

// Appointment is one committed booking.
type Appointment struct {
	ID           uuid.UUID  `json:"id"`
	MarketCode   string     `json:"market_code"`
	SpecialistID *uuid.UUID `json:"specialist_id,omitempty"`
	BookingType  string     `json:"booking_type"`
	PatientName  string     `json:"patient_name"`
	PatientPhone string     `json:"patient_phone,omitempty"`
	StartAt      time.Time  `json:"start_at"`
	EndAt        time.Time  `json:"end_at"`
	Price        int        `json:"price"`
	Priority     bool       `json:"priority"`
	Status       string     `json:"status"`
}

type appointmentsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists appointments.
type Repository struct {
	db appointmentsDB
}

// NewRepository creates an appointment repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db appointmentsDB) *Repository {
	return &Repository{db: db}
}

// Create inserts the appointment unless a non-cancelled appointment for
// the same specialist already overlaps its interval. The guard runs
// inside the statement so concurrent redemptions of overlapping keys
// cannot both land.
func (r *Repository) Create(ctx context.Context, appt Appointment) (uuid.UUID, error) {
	id := uuid.New()
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments
			(id, market_code, specialist_id, booking_type, patient_name, patient_phone,
			 start_at, end_at, price, priority, status)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'booked'
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE specialist_id = $3
			  AND status <> 'cancelled'
			  AND start_at < $8 AND end_at > $7
		)
		RETURNING id`,
		id, appt.MarketCode, appt.SpecialistID, appt.BookingType,
		appt.PatientName, appt.PatientPhone,
		appt.StartAt.UTC(), appt.EndAt.UTC(), appt.Price, appt.Priority,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrSlotTaken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("appointments: create: %w", err)
	}
	return id, nil
}
