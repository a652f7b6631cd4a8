// Package laborders answers whether an appointment's required lab-order
// documents are all uploaded. Priority booking is gated on it: a patient
// without complete paperwork can still book, just not into priority
// slots.
package laborders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type labOrdersDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the pgx-backed lab-order document store.
type Repository struct {
	db labOrdersDB
}

// NewRepository creates a lab-order repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("laborders: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db labOrdersDB) *Repository {
	return &Repository{db: db}
}

// HasRequiredLabOrders reports whether every lab order attached to the
// appointment has its document uploaded. An appointment with no lab
// orders at all is not eligible.
func (r *Repository) HasRequiredLabOrders(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var ready bool
	err := r.db.QueryRow(ctx, `
		SELECT count(*) > 0 AND count(*) = count(document_url)
		FROM lab_orders
		WHERE appointment_id = $1`,
		appointmentID,
	).Scan(&ready)
	if err != nil {
		return false, fmt.Errorf("laborders: check %s: %w", appointmentID, err)
	}
	return ready, nil
}
