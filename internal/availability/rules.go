package availability

import (
	"time"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

// Same-day cutoff hour: before this local hour the initial blackout is
// clamped to end-of-today so later same-day and next-day slots stay
// visible. Deliberate global policy, not market configuration.
const sameDayCutoffHour = 18

// initialBlackout derives the booking-restriction window: from now to
// the earliest minimum-notice-compliant instant, searched against the
// timetable and the combined holiday+blackout set, then clamped by the
// same-day cutoff rule.
func initialBlackout(now time.Time, notice time.Duration, timetable schedule.Weekly, blocked []schedule.DateInterval, loc *time.Location) (schedule.DateInterval, bool) {
	local := now.In(loc)
	end, ok := EarliestOpenInstant(local, notice, timetable, blocked, loc)
	if !ok {
		// Nothing compliant within the horizon: blackout the horizon.
		end = startOfDay(local).AddDate(0, 0, searchHorizonDays)
	}

	endOfToday := startOfDay(local).AddDate(0, 0, 1)
	if local.Hour() < sameDayCutoffHour && end.After(endOfToday) {
		end = endOfToday
	}
	if !end.After(local) {
		return schedule.DateInterval{}, false
	}
	return schedule.DateInterval{Start: local, End: end}, true
}
