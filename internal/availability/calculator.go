// Package availability computes bookable timeslots for a market: it
// reconciles specialist timetables, market business hours, blackout and
// holiday windows, and existing allocations into discrete slots, then
// seals chosen slots into booking keys.
package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

// SpecialistCalendar is one specialist's resolved scheduling context.
type SpecialistCalendar struct {
	ID        uuid.UUID
	Timetable schedule.Weekly
	Blackouts []schedule.DateInterval
}

// GeneratedSlot is a discretized candidate slot before pricing and key
// issuance. Booked marks overlap with an existing allocation; such slots
// are only generated when the caller asked to see them.
type GeneratedSlot struct {
	Specialist uuid.UUID
	Start      time.Time
	End        time.Time
	Booked     bool
}

// CalculatorInput carries everything slot generation needs. All instants
// share the window's timezone.
type CalculatorInput struct {
	Window        schedule.DateInterval
	Duration      time.Duration
	BusinessHours schedule.Weekly
	Specialists   []SpecialistCalendar
	// MarketBlocked is the merged market-level blackout set: resolved
	// blackouts, holiday days, and the initial minimum-notice blackout.
	MarketBlocked []schedule.DateInterval
	Busy          []schedule.DateInterval
	// IncludeBooked emits allocation-overlapping slots flagged Booked
	// instead of omitting them (staff double-booking awareness).
	IncludeBooked bool
}

// GenerateSlots produces every slot of exactly Duration that fits inside
// (business hours ∩ specialist timetable) minus (blackouts ∪ busy), per
// day and per specialist. Partial fits at span ends are discarded.
func GenerateSlots(in CalculatorInput) []GeneratedSlot {
	if in.Duration <= 0 {
		return nil
	}
	loc := in.Window.Start.Location()
	var slots []GeneratedSlot

	day := startOfDay(in.Window.Start)
	for day.Before(in.Window.End) {
		for _, sp := range in.Specialists {
			open := openIntervals(day, loc, sp.Timetable, in.BusinessHours)
			open = clipToWindow(open, in.Window)
			open = schedule.SubtractAll(open, sp.Blackouts)
			open = schedule.SubtractAll(open, in.MarketBlocked)
			for _, span := range open {
				slots = append(slots, discretize(span, in.Duration, sp.ID, in.Busy, in.IncludeBooked)...)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

// openIntervals intersects a specialist's weekday timetable with the
// market business-hour bounds for that weekday.
func openIntervals(day time.Time, loc *time.Location, timetable, businessHours schedule.Weekly) []schedule.DateInterval {
	var open []schedule.DateInterval
	for _, iv := range timetable.Intervals(day.Weekday()) {
		spec := iv.On(day, loc)
		for _, bounds := range businessHours.Intervals(day.Weekday()) {
			if clamped, ok := spec.Intersect(bounds.On(day, loc)); ok {
				open = append(open, clamped)
			}
		}
	}
	return open
}

func clipToWindow(open []schedule.DateInterval, window schedule.DateInterval) []schedule.DateInterval {
	var out []schedule.DateInterval
	for _, iv := range open {
		if clipped, ok := iv.Intersect(window); ok {
			out = append(out, clipped)
		}
	}
	return out
}

// discretize steps through a span emitting non-overlapping slots of
// exactly duration, dropping allocation-overlapping ones unless the
// caller wants them flagged.
func discretize(span schedule.DateInterval, duration time.Duration, specialist uuid.UUID, busy []schedule.DateInterval, includeBooked bool) []GeneratedSlot {
	var out []GeneratedSlot
	for start := span.Start; !start.Add(duration).After(span.End); start = start.Add(duration) {
		slot := schedule.DateInterval{Start: start, End: start.Add(duration)}
		booked := overlapsAny(slot, busy)
		if booked && !includeBooked {
			continue
		}
		out = append(out, GeneratedSlot{
			Specialist: specialist,
			Start:      slot.Start,
			End:        slot.End,
			Booked:     booked,
		})
	}
	return out
}

func overlapsAny(iv schedule.DateInterval, set []schedule.DateInterval) bool {
	for _, other := range set {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// searchHorizonDays bounds the forward scan in EarliestOpenInstant.
const searchHorizonDays = 60

// EarliestOpenInstant finds the first instant at or after from+notice
// that falls inside the timetable and outside every blocked interval.
// Returns ok=false when no such instant exists within the bounded
// search horizon.
func EarliestOpenInstant(from time.Time, notice time.Duration, timetable schedule.Weekly, blocked []schedule.DateInterval, loc *time.Location) (time.Time, bool) {
	target := from.Add(notice)
	day := startOfDay(target.In(loc))
	horizon := day.AddDate(0, 0, searchHorizonDays)

	for day.Before(horizon) {
		open := make([]schedule.DateInterval, 0, 2)
		for _, iv := range timetable.Intervals(day.Weekday()) {
			open = append(open, iv.On(day, loc))
		}
		open = schedule.SubtractAll(open, blocked)
		for _, iv := range open {
			if !iv.End.After(target) {
				continue
			}
			if target.After(iv.Start) {
				return target, true
			}
			return iv.Start, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}
