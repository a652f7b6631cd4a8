// Package allocations turns existing non-cancelled appointments into
// busy intervals. It is a pure input adapter: what counts as cancelled
// is the appointment store's call, and slightly stale reads are fine
// because the booking commit resolves races downstream at write time.
package allocations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

type allocationsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository loads busy intervals from the appointment store.
type Repository struct {
	db allocationsDB
}

// NewRepository creates an allocation loader backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("allocations: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db allocationsDB) *Repository {
	return &Repository{db: db}
}

// Busy returns the intervals occupied by non-cancelled appointments
// overlapping the window, expressed in loc. When specialist is set the
// query is scoped to that one specialist.
func (r *Repository) Busy(ctx context.Context, marketCode string, window schedule.DateInterval, loc *time.Location, specialist *uuid.UUID) ([]schedule.DateInterval, error) {
	query := `
		SELECT start_at, end_at
		FROM appointments
		WHERE market_code = $1
		  AND status <> 'cancelled'
		  AND start_at < $2 AND end_at > $3`
	args := []any{marketCode, window.End.UTC(), window.Start.UTC()}
	if specialist != nil {
		query += ` AND specialist_id = $4`
		args = append(args, *specialist)
	}
	query += ` ORDER BY start_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("allocations: load busy for %s: %w", marketCode, err)
	}
	defer rows.Close()

	var busy []schedule.DateInterval
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("allocations: scan busy: %w", err)
		}
		busy = append(busy, schedule.DateInterval{Start: start.In(loc), End: end.In(loc)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("allocations: load busy for %s: %w", marketCode, err)
	}
	return busy, nil
}
