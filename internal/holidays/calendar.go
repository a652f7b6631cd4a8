// Package holidays classifies calendar days against the public holiday
// calendar and derives whole-day blackout intervals from it.
package holidays

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

// Calendar answers whether a given date is a public holiday.
type Calendar interface {
	IsPublicHoliday(ctx context.Context, date time.Time) (bool, error)
}

// DefaultIgnored lists nominally-public holidays that do not close
// operations. Observed-only days stay bookable.
var DefaultIgnored = []string{
	"Washington's Birthday (observed)",
	"Independence Day (observed)",
	"Christmas Day (observed)",
	"New Year's Day (observed)",
}

type calendarDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the pgx-backed holiday calendar. A day counts as a
// holiday only when its kind is "public" and its name is not on the
// ignore list.
type Repository struct {
	db      calendarDB
	ignored map[string]struct{}
}

// NewRepository creates a holiday repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool, ignored []string) *Repository {
	if pool == nil {
		panic("holidays: pgx pool required")
	}
	return newRepository(pool, ignored)
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db calendarDB, ignored []string) *Repository {
	return newRepository(db, ignored)
}

func newRepository(db calendarDB, ignored []string) *Repository {
	set := make(map[string]struct{}, len(ignored))
	for _, name := range ignored {
		set[name] = struct{}{}
	}
	return &Repository{db: db, ignored: set}
}

// IsPublicHoliday classifies one calendar day.
func (r *Repository) IsPublicHoliday(ctx context.Context, date time.Time) (bool, error) {
	var name, kind string
	err := r.db.QueryRow(ctx,
		`SELECT name, kind FROM holidays WHERE day = $1`,
		date.Format("2006-01-02"),
	).Scan(&name, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("holidays: lookup %s: %w", date.Format("2006-01-02"), err)
	}
	if kind != "public" {
		return false, nil
	}
	if _, skip := r.ignored[name]; skip {
		return false, nil
	}
	return true, nil
}

// BlackoutDays tests each calendar day in the window and returns a
// whole-day blackout interval for every holiday. Calendar failures
// propagate; availability is never computed on partial holiday data.
func BlackoutDays(ctx context.Context, cal Calendar, window schedule.DateInterval, loc *time.Location) ([]schedule.DateInterval, error) {
	var out []schedule.DateInterval
	day := time.Date(window.Start.Year(), window.Start.Month(), window.Start.Day(), 0, 0, 0, 0, loc)
	for day.Before(window.End) {
		next := day.AddDate(0, 0, 1)
		holiday, err := cal.IsPublicHoliday(ctx, day)
		if err != nil {
			return nil, err
		}
		if holiday {
			out = append(out, schedule.DateInterval{Start: day, End: next})
		}
		day = next
	}
	return out, nil
}
