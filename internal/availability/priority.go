package availability

import (
	"time"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

// Synthetic office-hours timetable used only for the priority cutoff:
// Mon-Fri, fixed hours, distinct from any real specialist timetable.
// Deliberate global policy, not market configuration.
func officeHours() schedule.Weekly {
	return schedule.UniformWeekly(schedule.MustTimeInterval("0900", "1800"),
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// priorityCutoff computes the instant before which slots count as
// priority, via the minimum-notice search against office hours and the
// market holiday+blackout set. ok=false disables priority marking.
func priorityCutoff(now time.Time, priorityNotice time.Duration, marketBlocked []schedule.DateInterval, loc *time.Location) (time.Time, bool) {
	return EarliestOpenInstant(now.In(loc), priorityNotice, officeHours(), marketBlocked, loc)
}

// classifyPriority reports whether a slot starting at start is a
// priority slot. Eligibility suppression (missing lab orders) is applied
// by the orchestrator at key issuance, not here.
func classifyPriority(start time.Time, cutoff time.Time, ok bool) bool {
	return ok && start.Before(cutoff)
}
