// Package directory resolves the location context availability is
// computed in: zip code → service area and market, and market →
// eligible specialists with their schedules and blackout periods.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

// Market carries the market-wide scheduling context: the business-hour
// bounds every specialist timetable is clamped to, and market-level
// blackouts.
type Market struct {
	Code          string
	Active        bool
	BusinessHours schedule.Weekly
	Blackouts     []schedule.BlackoutPeriod
}

// ServiceArea maps a zip code to its timezone and market.
type ServiceArea struct {
	ZipCode  string
	Timezone string
	Active   bool
	Market   Market
}

// Serviceable reports whether the area can take bookings at all.
func (sa *ServiceArea) Serviceable() bool {
	return sa != nil && sa.Active && sa.Market.Active
}

// Specialist is a bookable professional with a personal weekly schedule
// override set and blackout periods.
type Specialist struct {
	ID        uuid.UUID
	Name      string
	Bookable  bool
	Available bool
	Schedule  schedule.WeeklyOverrides
	Blackouts []schedule.BlackoutPeriod
}

type directoryDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the pgx-backed directory.
type Repository struct {
	db directoryDB
}

// NewRepository creates a directory repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db directoryDB) *Repository {
	return &Repository{db: db}
}

// ResolveServiceArea looks up the service area for a zip code. An
// unknown zip is a soft miss: (nil, nil), never an error.
func (r *Repository) ResolveServiceArea(ctx context.Context, zipCode string) (*ServiceArea, error) {
	var (
		sa           ServiceArea
		hoursDoc     []byte
		blackoutsDoc []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT sa.zip_code, sa.timezone, sa.active,
		       m.code, m.active, m.business_hours, m.blackouts
		FROM service_areas sa
		JOIN markets m ON m.code = sa.market_code
		WHERE sa.zip_code = $1`,
		zipCode,
	).Scan(&sa.ZipCode, &sa.Timezone, &sa.Active,
		&sa.Market.Code, &sa.Market.Active, &hoursDoc, &blackoutsDoc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("directory: resolve service area %q: %w", zipCode, err)
	}
	if len(hoursDoc) > 0 {
		if err := json.Unmarshal(hoursDoc, &sa.Market.BusinessHours); err != nil {
			return nil, fmt.Errorf("directory: market %s business hours: %w", sa.Market.Code, err)
		}
	}
	if len(blackoutsDoc) > 0 {
		if err := json.Unmarshal(blackoutsDoc, &sa.Market.Blackouts); err != nil {
			return nil, fmt.Errorf("directory: market %s blackouts: %w", sa.Market.Code, err)
		}
	}
	return &sa, nil
}

// EligibleSpecialists returns the specialists bookings can land on in a
// market. When pinned is set only that specialist is considered. Unless
// includeRestricted (the staff override), specialists who are not
// bookable or not available are filtered out.
func (r *Repository) EligibleSpecialists(ctx context.Context, marketCode string, pinned *uuid.UUID, includeRestricted bool) ([]Specialist, error) {
	query := `
		SELECT id, name, bookable, available, weekly_schedule, blackouts
		FROM specialists
		WHERE market_code = $1`
	args := []any{marketCode}
	if pinned != nil {
		query += ` AND id = $2`
		args = append(args, *pinned)
	}
	if !includeRestricted {
		query += ` AND bookable AND available`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("directory: list specialists for %s: %w", marketCode, err)
	}
	defer rows.Close()

	var specialists []Specialist
	for rows.Next() {
		var (
			sp           Specialist
			scheduleDoc  []byte
			blackoutsDoc []byte
		)
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Bookable, &sp.Available, &scheduleDoc, &blackoutsDoc); err != nil {
			return nil, fmt.Errorf("directory: scan specialist: %w", err)
		}
		if len(scheduleDoc) > 0 {
			if err := json.Unmarshal(scheduleDoc, &sp.Schedule); err != nil {
				return nil, fmt.Errorf("directory: specialist %s schedule: %w", sp.ID, err)
			}
		}
		if len(blackoutsDoc) > 0 {
			if err := json.Unmarshal(blackoutsDoc, &sp.Blackouts); err != nil {
				return nil, fmt.Errorf("directory: specialist %s blackouts: %w", sp.ID, err)
			}
		}
		specialists = append(specialists, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: list specialists for %s: %w", marketCode, err)
	}
	return specialists, nil
}
